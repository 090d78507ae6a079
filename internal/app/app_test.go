package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	ginhttp "github.com/homerent/server/internal/adapter/inbound/gin"
	"github.com/homerent/server/internal/adapter/outbound/jwt"
	"github.com/homerent/server/internal/infra/config"
	"github.com/homerent/server/internal/infra/scheduler"
	"github.com/homerent/server/internal/model"
	"github.com/homerent/server/internal/port/inbound"
	"github.com/homerent/server/internal/utils/logger"
	"github.com/homerent/server/internal/utils/metrics"
	"github.com/homerent/server/internal/utils/middleware"
)

// stubDomain overrides the few domain calls the routing tests reach.
type stubDomain struct {
	inbound.SubscriptionDomain
	inbound.SubscriptionAdminDomain
	inbound.SweeperDomain
	creates atomic.Int32
}

func (s *stubDomain) ListPlans(ctx context.Context) ([]*model.SubscriptionPlan, error) {
	return []*model.SubscriptionPlan{{ID: "monthly", Name: "Monthly", Price: 299000, Duration: 1, DurationType: model.DurationTypeMonths, IsActive: true}}, nil
}

func (s *stubDomain) Create(ctx context.Context, userID uuid.UUID, in *model.CreateSubscriptionInput) (*model.LandlordSubscription, error) {
	s.creates.Add(1)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return &model.LandlordSubscription{
		ID:        uuid.New(),
		UserID:    userID,
		PlanID:    in.PlanID,
		PlanType:  "Monthly",
		Status:    model.SubscriptionStatusActive,
		StartDate: start,
		EndDate:   start.AddDate(0, 1, 0),
		Amount:    299000,
	}, nil
}

func (s *stubDomain) AdminStats(ctx context.Context) (*model.SubscriptionStats, error) {
	return &model.SubscriptionStats{Total: 3}, nil
}

type idleSweeper struct{}

func (idleSweeper) RunAutoRenewSweep(context.Context) (*model.SweepResult, error) {
	return &model.SweepResult{}, nil
}

func (idleSweeper) RunExpirySweep(context.Context) (*model.SweepResult, error) {
	return &model.SweepResult{}, nil
}

func (idleSweeper) RunSweep(context.Context, string) (*model.SweepResult, error) {
	return &model.SweepResult{}, nil
}

type routerFixture struct {
	deps   *Dependencies
	router *gin.Engine
	domain *stubDomain
	tokens testTokens
}

type testTokens struct {
	user  string
	admin string
}

func setupRouter(t *testing.T) *routerFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{
		Log:    config.LogConfig{Level: "error", Format: "json"},
		Server: config.ServerConfig{IdempotencyTTL: time.Hour},
		CORS:   config.CORSConfig{AllowOrigins: []string{"*"}},
	}

	reg := prometheus.NewRegistry()
	jwtManager := jwt.NewManager(&jwt.Config{Secret: "test-secret", Issuer: "homerent", AccessTokenExpiry: time.Hour})
	domain := &stubDomain{}

	deps := &Dependencies{
		Config:                   cfg,
		Redis:                    client,
		Logger:                   logger.New(&logger.Config{Level: "error", Format: "json"}),
		Registry:                 reg,
		Metrics:                  metrics.NewWithRegistry("homerent", reg),
		JWT:                      jwtManager,
		SubscriptionHandler:      ginhttp.NewSubscriptionHandler(domain),
		SubscriptionAdminHandler: ginhttp.NewSubscriptionAdminHandler(domain, domain),
	}

	userToken, _, err := jwtManager.GenerateAccessToken(uuid.New(), "landlord@example.com", model.UserRoleLandlord)
	require.NoError(t, err)
	adminToken, _, err := jwtManager.GenerateAccessToken(uuid.New(), "admin@example.com", model.UserRoleAdmin)
	require.NoError(t, err)

	return &routerFixture{
		deps:   deps,
		router: newRouter(deps),
		domain: domain,
		tokens: testTokens{user: userToken, admin: adminToken},
	}
}

func (f *routerFixture) do(method, path, token, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(middleware.AuthorizationHeader, middleware.BearerPrefix+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestRouter_UserRoutesRequireToken(t *testing.T) {
	f := setupRouter(t)

	w := f.do(http.MethodGet, "/api/v1/landlord-subscription/plans", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(http.MethodGet, "/api/v1/landlord-subscription/plans", f.tokens.user, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"monthly"`)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestRouter_AdminRoutesRequireAdminRole(t *testing.T) {
	f := setupRouter(t)

	w := f.do(http.MethodGet, "/api/v1/landlord-subscription/admin/stats", f.tokens.user, "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodGet, "/api/v1/landlord-subscription/admin/stats", f.tokens.admin, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":3`)
}

func TestRouter_CreateIsIdempotent(t *testing.T) {
	f := setupRouter(t)
	headers := map[string]string{middleware.IdempotencyKeyHeader: "create-1"}
	body := `{"plan_id":"monthly"}`

	first := f.do(http.MethodPost, "/api/v1/landlord-subscription/create", f.tokens.user, body, headers)
	require.Equal(t, http.StatusCreated, first.Code)

	second := f.do(http.MethodPost, "/api/v1/landlord-subscription/create", f.tokens.user, body, headers)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(middleware.IdempotentReplayHeader))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, int32(1), f.domain.creates.Load())
}

func TestRouter_OpsEndpoints(t *testing.T) {
	f := setupRouter(t)

	f.do(http.MethodGet, "/api/v1/landlord-subscription/plans", f.tokens.user, "", nil)

	w := f.do(http.MethodGet, "/metrics", "", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "homerent_http_requests_total")

	// No database in this fixture.
	w = f.do(http.MethodGet, "/health", "", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"ok"`)
}

func TestRouter_HealthReportsNextSweeps(t *testing.T) {
	f := setupRouter(t)

	sched, err := scheduler.New(&config.SchedulerConfig{
		Enabled:       true,
		AutoRenewCron: "0 0 * * *",
		ExpiryCron:    "30 0 * * *",
		Timezone:      "UTC",
	}, idleSweeper{}, zap.NewNop())
	require.NoError(t, err)
	sched.Start()
	t.Cleanup(func() { _ = sched.Stop() })

	f.deps.Scheduler = sched
	router := newRouter(f.deps)

	require.Eventually(t, func() bool { return len(sched.NextRuns()) == 2 }, 2*time.Second, 10*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), scheduler.JobAutoRenew)
	assert.Contains(t, w.Body.String(), scheduler.JobExpiry)
}
