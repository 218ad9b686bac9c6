// internal/handlers/entitlement/entitlement_handler_test.go
package entitlement

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	entdomain "resellerpro-service/internal/domain/entitlement"
	xerrors "resellerpro-service/internal/pkg/errors"
	entservice "resellerpro-service/internal/service/entitlement"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memSubStore struct {
	ent       *entdomain.Entitlement
	plansByID map[int64]entdomain.Plan
}

func (m *memSubStore) FindByUser(ctx context.Context, userID int64) (*entdomain.Entitlement, error) {
	if m.ent == nil || m.ent.Subscription.UserID != userID {
		return nil, xerrors.ErrNoSubscription
	}
	copied := *m.ent
	return &copied, nil
}

func (m *memSubStore) MoveToPlan(ctx context.Context, subscriptionID, planID int64, periodStart, periodEnd time.Time) error {
	m.ent.Subscription.PlanID = planID
	m.ent.Subscription.Status = entdomain.StatusActive
	m.ent.Subscription.CurrentPeriodStart = periodStart
	m.ent.Subscription.CurrentPeriodEnd = sql.NullTime{Time: periodEnd, Valid: true}
	m.ent.Subscription.CancelAtPeriodEnd = false
	m.ent.Plan = m.plansByID[planID]
	return nil
}

type memPlanStore struct {
	plans []entdomain.Plan
}

func (m *memPlanStore) FindByName(ctx context.Context, name string) (*entdomain.Plan, error) {
	for _, p := range m.plans {
		if p.Name == name {
			copied := p
			return &copied, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (m *memPlanStore) List(ctx context.Context) ([]entdomain.Plan, error) {
	return m.plans, nil
}

type memUsage struct {
	counts map[entdomain.ResourceKey]int
}

func (m *memUsage) CountForUser(ctx context.Context, userID int64, resource entdomain.ResourceKey) (int, error) {
	return m.counts[resource], nil
}

// authStub stands in for the auth middleware: it loads a fixed user
// into the request context.
func authStub(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("email", "agent@example.com")
		c.Next()
	}
}

func newRouter(t *testing.T, subs *memSubStore, plans *memPlanStore, usage *memUsage) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if usage == nil {
		usage = &memUsage{}
	}
	svc := entservice.NewService(subs, plans, usage, zap.NewNop())
	h := NewEntitlementHandler(svc, zap.NewNop())

	router := gin.New()
	group := router.Group("/api/v1")
	group.Use(authStub(42))
	group.GET("/entitlement", h.GetEntitlement)
	group.GET("/entitlement/limits/:resource", h.CheckLimit)
	group.GET("/plans", h.ListPlans)
	return router
}

func get(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

var (
	freePlan = entdomain.Plan{ID: 1, Name: "free", DisplayName: "Free"}
	proPlan  = entdomain.Plan{ID: 3, Name: "professional", DisplayName: "Professional"}
)

func activeSubscription(plan entdomain.Plan, periodEnd time.Time) *entdomain.Entitlement {
	return &entdomain.Entitlement{
		Subscription: entdomain.Subscription{
			ID:               7,
			UserID:           42,
			PlanID:           plan.ID,
			Status:           entdomain.StatusActive,
			CurrentPeriodEnd: sql.NullTime{Time: periodEnd, Valid: true},
		},
		Plan: plan,
	}
}

func TestGetEntitlement(t *testing.T) {
	subs := &memSubStore{plansByID: map[int64]entdomain.Plan{1: freePlan, 3: proPlan}}
	subs.ent = activeSubscription(proPlan, time.Now().Add(time.Hour))
	router := newRouter(t, subs, &memPlanStore{plans: []entdomain.Plan{freePlan, proPlan}}, nil)

	w := get(t, router, "/api/v1/entitlement")

	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "professional", data["plan_key"])
}

func TestGetEntitlementDowngradesExpired(t *testing.T) {
	subs := &memSubStore{plansByID: map[int64]entdomain.Plan{1: freePlan, 3: proPlan}}
	subs.ent = activeSubscription(proPlan, time.Now().Add(-time.Hour))
	router := newRouter(t, subs, &memPlanStore{plans: []entdomain.Plan{freePlan, proPlan}}, nil)

	w := get(t, router, "/api/v1/entitlement")

	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "free", data["plan_key"])
}

func TestGetEntitlementNoSubscription(t *testing.T) {
	subs := &memSubStore{plansByID: map[int64]entdomain.Plan{}}
	router := newRouter(t, subs, &memPlanStore{}, nil)

	w := get(t, router, "/api/v1/entitlement")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "no subscription for user", decodeBody(t, w)["message"])
}

func TestGetEntitlementFreePlanRowMissing(t *testing.T) {
	subs := &memSubStore{plansByID: map[int64]entdomain.Plan{3: proPlan}}
	subs.ent = activeSubscription(proPlan, time.Now().Add(-time.Hour))
	router := newRouter(t, subs, &memPlanStore{plans: []entdomain.Plan{proPlan}}, nil)

	w := get(t, router, "/api/v1/entitlement")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "plan catalog misconfigured", decodeBody(t, w)["message"])
}

func TestCheckLimitEndpoint(t *testing.T) {
	subs := &memSubStore{plansByID: map[int64]entdomain.Plan{1: freePlan}}
	subs.ent = activeSubscription(freePlan, time.Now().Add(time.Hour))
	usage := &memUsage{counts: map[entdomain.ResourceKey]int{entdomain.ResourceEnquiries: 25}}
	router := newRouter(t, subs, &memPlanStore{plans: []entdomain.Plan{freePlan}}, usage)

	w := get(t, router, "/api/v1/entitlement/limits/enquiries")

	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, false, data["allowed"])
	assert.Equal(t, float64(25), data["used"])
	assert.Equal(t, float64(0), data["remaining"])
}

func TestCheckLimitEndpointUnknownResource(t *testing.T) {
	subs := &memSubStore{plansByID: map[int64]entdomain.Plan{1: freePlan}}
	subs.ent = activeSubscription(freePlan, time.Now().Add(time.Hour))
	router := newRouter(t, subs, &memPlanStore{plans: []entdomain.Plan{freePlan}}, nil)

	w := get(t, router, "/api/v1/entitlement/limits/invoices")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "unknown resource", decodeBody(t, w)["message"])
}

func TestListPlansEndpoint(t *testing.T) {
	subs := &memSubStore{}
	router := newRouter(t, subs, &memPlanStore{plans: []entdomain.Plan{freePlan, proPlan}}, nil)

	w := get(t, router, "/api/v1/plans")

	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].([]any)
	assert.Len(t, data, 2)
}
