package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/iwen-conf/DormDB/internal/models"
	"github.com/iwen-conf/DormDB/internal/services"
	"github.com/iwen-conf/DormDB/internal/store"

	"github.com/gin-gonic/gin"
)

// AllowlistHandler serves the roster management API under /api/admin/users.
type AllowlistHandler struct {
	allowlist *services.AllowlistService
}

func NewAllowlistHandler(as *services.AllowlistService) *AllowlistHandler {
	return &AllowlistHandler{allowlist: as}
}

// List handles GET /api/admin/users with limit/offset pagination.
func (h *AllowlistHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.allowlist.List(limit, offset)
	if err != nil {
		log.Printf("allowlist: list: %v", err)
		c.JSON(http.StatusInternalServerError, models.Error(models.CodeInternalError, models.MsgInternalError))
		return
	}
	c.JSON(http.StatusOK, models.Success(entries))
}

type allowlistEntryRequest struct {
	IdentityKey string `json:"identity_key" binding:"required"`
	DisplayName string `json:"display_name"`
	GroupInfo   string `json:"group_info"`
}

// Add handles POST /api/admin/users.
func (h *AllowlistHandler) Add(c *gin.Context) {
	var req allowlistEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Error(models.CodeInvalidInput, models.MsgInvalidInput))
		return
	}

	err := h.allowlist.Add(req.IdentityKey, req.DisplayName, req.GroupInfo)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, models.Success(nil))
	case errors.Is(err, services.ErrInvalidFormat):
		c.JSON(http.StatusBadRequest, models.Error(models.CodeInvalidInput, models.MsgInvalidInput))
	case errors.Is(err, store.ErrDuplicateKey):
		c.JSON(http.StatusConflict, models.Error(models.CodeIdentityExists, models.MsgIdentityExists))
	default:
		log.Printf("allowlist: add: %v", err)
		c.JSON(http.StatusInternalServerError, models.Error(models.CodeInternalError, models.MsgInternalError))
	}
}

type allowlistUpdateRequest struct {
	DisplayName string `json:"display_name"`
	GroupInfo   string `json:"group_info"`
}

// Update handles PUT /api/admin/users/:id.
func (h *AllowlistHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Error(models.CodeInvalidInput, models.MsgInvalidInput))
		return
	}
	var req allowlistUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Error(models.CodeInvalidInput, models.MsgInvalidInput))
		return
	}

	err = h.allowlist.Update(id, req.DisplayName, req.GroupInfo)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, models.Success(nil))
	case errors.Is(err, store.ErrRecordNotFound):
		c.JSON(http.StatusBadRequest, models.Error(models.CodeInvalidInput, "Unknown allowlist entry."))
	default:
		log.Printf("allowlist: update %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, models.Error(models.CodeInternalError, models.MsgInternalError))
	}
}

// Delete handles DELETE /api/admin/users/:id. Entries with a live grant
// are refused.
func (h *AllowlistHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Error(models.CodeInvalidInput, models.MsgInvalidInput))
		return
	}

	err = h.allowlist.Delete(id)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, models.Success(nil))
	case errors.Is(err, store.ErrRecordNotFound):
		c.JSON(http.StatusBadRequest, models.Error(models.CodeInvalidInput, "Unknown allowlist entry."))
	case errors.Is(err, store.ErrEntryApplied):
		c.JSON(http.StatusConflict, models.Error(models.CodeIdentityExists,
			"Entry has an active grant; delete the grant first."))
	default:
		log.Printf("allowlist: delete %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, models.Error(models.CodeInternalError, models.MsgInternalError))
	}
}

type batchImportRequest struct {
	Data      string `json:"data" binding:"required"`
	Overwrite bool   `json:"overwrite"`
}

// Import handles POST /api/admin/users/import with newline-separated
// roster data.
func (h *AllowlistHandler) Import(c *gin.Context) {
	var req batchImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Error(models.CodeInvalidInput, models.MsgInvalidInput))
		return
	}

	result, err := h.allowlist.BatchImport(req.Data, req.Overwrite)
	if err != nil {
		log.Printf("allowlist: import: %v", err)
		c.JSON(http.StatusInternalServerError, models.Error(models.CodeInternalError, models.MsgInternalError))
		return
	}
	c.JSON(http.StatusOK, models.Success(result))
}

// Stats handles GET /api/admin/users/stats.
func (h *AllowlistHandler) Stats(c *gin.Context) {
	stats, err := h.allowlist.Stats()
	if err != nil {
		log.Printf("allowlist: stats: %v", err)
		c.JSON(http.StatusInternalServerError, models.Error(models.CodeInternalError, models.MsgInternalError))
		return
	}
	c.JSON(http.StatusOK, models.Success(stats))
}
