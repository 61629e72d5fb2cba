package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/iwen-conf/DormDB/internal/models"
	"github.com/iwen-conf/DormDB/internal/services"
	"github.com/iwen-conf/DormDB/internal/store"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the authenticated dashboard API.
type AdminHandler struct {
	admin     *services.AdminService
	reconcile *services.ReconcileService
	auth      *services.AuthService
}

func NewAdminHandler(as *services.AdminService, rs *services.ReconcileService, auth *services.AuthService) *AdminHandler {
	return &AdminHandler{admin: as, reconcile: rs, auth: auth}
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/admin/login and returns a session token.
func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Error(models.CodeInvalidInput, models.MsgInvalidInput))
		return
	}

	token, err := h.auth.Login(req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.Error(models.CodeBadAdminLogin, models.MsgBadAdminLogin))
		return
	}
	c.JSON(http.StatusOK, models.Success(gin.H{"token": token}))
}

// Status handles GET /api/admin/status.
func (h *AdminHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, models.Success(h.admin.Status()))
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.admin.Stats()
	if err != nil {
		log.Printf("admin: stats: %v", err)
		c.JSON(http.StatusInternalServerError, models.Error(models.CodeInternalError, models.MsgInternalError))
		return
	}
	c.JSON(http.StatusOK, models.Success(stats))
}

// Records handles GET /api/admin/records. Unmasked, full history.
func (h *AdminHandler) Records(c *gin.Context) {
	records, err := h.admin.ListRecords()
	if err != nil {
		log.Printf("admin: list records: %v", err)
		c.JSON(http.StatusInternalServerError, models.Error(models.CodeInternalError, models.MsgInternalError))
		return
	}
	c.JSON(http.StatusOK, models.Success(records))
}

// ActiveRecords handles GET /api/admin/records/active: success records
// whose grants are still live.
func (h *AdminHandler) ActiveRecords(c *gin.Context) {
	records, err := h.admin.ListActive()
	if err != nil {
		log.Printf("admin: list active records: %v", err)
		c.JSON(http.StatusInternalServerError, models.Error(models.CodeInternalError, models.MsgInternalError))
		return
	}
	c.JSON(http.StatusOK, models.Success(records))
}

type deleteGrantRequest struct {
	IdentityKey string `json:"identity_key" binding:"required"`
	Reason      string `json:"reason"`
}

// DeleteGrant handles POST /api/admin/delete: teardown plus ledger
// mark-deleted.
func (h *AdminHandler) DeleteGrant(c *gin.Context) {
	var req deleteGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Error(models.CodeInvalidInput, models.MsgInvalidInput))
		return
	}

	if err := h.admin.DeleteGrant(req.IdentityKey, req.Reason); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidFormat):
			c.JSON(http.StatusBadRequest, models.Error(models.CodeInvalidInput, models.MsgInvalidInput))
		case errors.Is(err, store.ErrRecordNotFound):
			c.JSON(http.StatusBadRequest, models.Error(models.CodeInvalidInput, "No active record for this identity key."))
		default:
			log.Printf("admin: delete grant %s: %v", req.IdentityKey, err)
			c.JSON(http.StatusInternalServerError, models.Error(models.CodeInternalError, models.MsgInternalError))
		}
		return
	}
	c.JSON(http.StatusOK, models.Success(nil))
}

// Reconcile handles POST /api/admin/reconcile and returns the pass report.
func (h *AdminHandler) Reconcile(c *gin.Context) {
	report, err := h.reconcile.Run()
	if err != nil {
		log.Printf("admin: reconcile: %v", err)
		c.JSON(http.StatusInternalServerError, models.Error(models.CodeInternalError, models.MsgInternalError))
		return
	}
	c.JSON(http.StatusOK, models.Success(report))
}
