package handlers

import (
	"errors"
	"net/http"

	"github.com/iwen-conf/DormDB/internal/models"
	"github.com/iwen-conf/DormDB/internal/services"
	"github.com/iwen-conf/DormDB/internal/store"

	"github.com/gin-gonic/gin"
)

// PublicFeedLimit caps the unauthenticated activity feed.
const PublicFeedLimit = 50

// ApplyHandler serves the public surface: the provisioning endpoint, the
// masked activity feed and the health probe.
type ApplyHandler struct {
	provision *services.ProvisionService
	store     *store.Store
}

func NewApplyHandler(ps *services.ProvisionService, st *store.Store) *ApplyHandler {
	return &ApplyHandler{provision: ps, store: st}
}

type applyRequest struct {
	IdentityKey string `json:"identity_key" binding:"required"`
}

// Apply handles POST /api/apply. On success the response carries the
// credentials, shown exactly once.
func (h *ApplyHandler) Apply(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Error(models.CodeInvalidInput, models.MsgInvalidInput))
		return
	}

	creds, err := h.provision.Provision(req.IdentityKey)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidFormat):
			c.JSON(http.StatusBadRequest, models.Error(models.CodeInvalidInput, models.MsgInvalidInput))
		case errors.Is(err, services.ErrNotAllowed):
			c.JSON(http.StatusForbidden, models.Error(models.CodeNotAllowed, models.MsgNotAllowed))
		case errors.Is(err, services.ErrAlreadyExists):
			c.JSON(http.StatusConflict, models.Error(models.CodeIdentityExists, models.MsgIdentityExists))
		case errors.Is(err, services.ErrProvisionFailed):
			c.JSON(http.StatusInternalServerError, models.Error(models.CodeProvisionFailed, models.MsgProvisionFailed))
		default:
			c.JSON(http.StatusInternalServerError, models.Error(models.CodeInternalError, models.MsgInternalError))
		}
		return
	}

	c.JSON(http.StatusOK, models.Success(creds))
}

// PublicRecords handles GET /api/public/records. Identity keys in the feed
// are masked.
func (h *ApplyHandler) PublicRecords(c *gin.Context) {
	records, err := h.store.ListPublic(PublicFeedLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.Error(models.CodeInternalError, models.MsgInternalError))
		return
	}
	c.JSON(http.StatusOK, models.Success(records))
}

// Health handles GET /api/health.
func (h *ApplyHandler) Health(c *gin.Context) {
	if err := h.store.Health(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}
