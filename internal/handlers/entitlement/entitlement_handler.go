// internal/handlers/entitlement/entitlement_handler.go
package entitlement

import (
	"net/http"

	entdomain "resellerpro-service/internal/domain/entitlement"
	"resellerpro-service/internal/middleware"
	xerrors "resellerpro-service/internal/pkg/errors"
	"resellerpro-service/internal/pkg/response"
	entservice "resellerpro-service/internal/service/entitlement"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EntitlementHandler struct {
	entService *entservice.Service
	logger     *zap.Logger
}

func NewEntitlementHandler(entService *entservice.Service, logger *zap.Logger) *EntitlementHandler {
	return &EntitlementHandler{
		entService: entService,
		logger:     logger,
	}
}

// GetEntitlement returns the caller's reconciled subscription, plan
// and effective limits (requires auth).
func (h *EntitlementHandler) GetEntitlement(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	ent, err := h.entService.Reconcile(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, userID, err)
		return
	}

	key := ent.Key()
	if key == entdomain.PlanKeyUnknown {
		key = entdomain.PlanKeyFree
	}

	response.Success(c, http.StatusOK, "entitlement", entdomain.EntitlementResponse{
		Entitlement: *ent,
		PlanKey:     key,
		Limits:      entdomain.LimitsFor(key),
	})
}

// CheckLimit returns the gate decision for one resource category
// against the caller's live usage (requires auth).
func (h *EntitlementHandler) CheckLimit(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	resource, ok := entdomain.ParseResourceKey(c.Param("resource"))
	if !ok {
		response.ValidationError(c, "unknown resource", nil)
		return
	}

	decision, err := h.entService.CheckResourceLimit(c.Request.Context(), userID, resource)
	if err != nil {
		h.respondError(c, userID, err)
		return
	}

	response.Success(c, http.StatusOK, "limit decision", decision)
}

// ListPlans returns the public plan catalog.
func (h *EntitlementHandler) ListPlans(c *gin.Context) {
	plans, err := h.entService.ListPlans(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list plans", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "could not load plans", nil)
		return
	}

	response.Success(c, http.StatusOK, "plans", plans)
}

func (h *EntitlementHandler) respondError(c *gin.Context, userID int64, err error) {
	switch {
	case xerrors.Is(err, xerrors.ErrNoSubscription):
		response.Error(c, http.StatusNotFound, "no subscription for user", nil)
	case xerrors.Is(err, xerrors.ErrFreePlanMissing):
		h.logger.Error("plan catalog misconfigured", zap.Int64("user_id", userID), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "plan catalog misconfigured", nil)
	default:
		h.logger.Error("entitlement lookup failed", zap.Int64("user_id", userID), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "could not load entitlement", nil)
	}
}
