package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/homerent/server/internal/model"
	"github.com/homerent/server/internal/port/outbound"
	"github.com/homerent/server/internal/utils/logger"
	"github.com/homerent/server/internal/utils/metrics"
	"github.com/homerent/server/internal/utils/requestctx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeValidator struct {
	claims map[string]*outbound.JWTClaims
}

func (v *fakeValidator) ValidateAccessToken(token string) (*outbound.JWTClaims, error) {
	if c, ok := v.claims[token]; ok {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

func TestRequestID(t *testing.T) {
	t.Run("generates new request ID when not provided", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/test", func(c *gin.Context) {
			assert.Equal(t, GetRequestID(c), requestctx.RequestID(c.Request.Context()))
			c.String(http.StatusOK, GetRequestID(c))
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		headerID := w.Header().Get(RequestIDHeader)
		assert.NotEmpty(t, headerID)
		assert.Equal(t, headerID, w.Body.String())
	})

	t.Run("uses existing request ID from header", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, GetRequestID(c))
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, "existing-request-id-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "existing-request-id-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "existing-request-id-123", w.Body.String())
	})
}

func TestLogging(t *testing.T) {
	newRouter := func(level string, status int) (*gin.Engine, *bytes.Buffer) {
		buf := &bytes.Buffer{}
		log := logger.New(&logger.Config{Level: level, Format: "json", Output: buf})
		router := gin.New()
		router.Use(RequestID(), Logging(log))
		router.GET("/test", func(c *gin.Context) {
			c.String(status, "body")
		})
		return router, buf
	}

	t.Run("logs successful requests", func(t *testing.T) {
		router, buf := newRouter("info", http.StatusOK)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test?page=2", nil))

		out := buf.String()
		assert.Contains(t, out, "HTTP Request")
		assert.Contains(t, out, "/test")
		assert.Contains(t, out, "page=2")
		assert.Contains(t, out, "request_id")
	})

	t.Run("logs 4xx requests as warnings", func(t *testing.T) {
		router, buf := newRouter("warn", http.StatusNotFound)
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Contains(t, buf.String(), "WARN")
		assert.Contains(t, buf.String(), "404")
	})

	t.Run("logs 5xx requests as errors", func(t *testing.T) {
		router, buf := newRouter("error", http.StatusInternalServerError)
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Contains(t, buf.String(), "ERROR")
		assert.Contains(t, buf.String(), "500")
	})
}

func TestRecovery(t *testing.T) {
	t.Run("recovers from panic", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(&logger.Config{Level: "error", Format: "json", Output: buf})

		router := gin.New()
		router.Use(Recovery(log))
		router.GET("/panic", func(c *gin.Context) {
			panic("test panic")
		})

		w := httptest.NewRecorder()
		require.NotPanics(t, func() {
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
		assert.Contains(t, buf.String(), "Panic recovered")
		assert.Contains(t, buf.String(), "test panic")
	})

	t.Run("uses default logger when nil", func(t *testing.T) {
		router := gin.New()
		router.Use(Recovery(nil))
		router.GET("/panic", func(c *gin.Context) {
			panic("test panic")
		})

		w := httptest.NewRecorder()
		require.NotPanics(t, func() {
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
		})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestAuth(t *testing.T) {
	landlordID := uuid.New()
	adminID := uuid.New()
	validator := &fakeValidator{claims: map[string]*outbound.JWTClaims{
		"landlord": {UserID: landlordID, Email: "landlord@homerent.vn", Role: model.UserRoleLandlord},
		"admin":    {UserID: adminID, Email: "admin@homerent.vn", Role: model.UserRoleAdmin},
	}}

	router := gin.New()
	router.GET("/me", RequireAuth(validator), func(c *gin.Context) {
		assert.Equal(t, GetUserID(c), requestctx.UserID(c.Request.Context()))
		c.String(http.StatusOK, GetUserID(c).String())
	})
	router.GET("/admin", RequireAuth(validator), RequireAdmin(), func(c *gin.Context) {
		c.String(http.StatusOK, GetEmail(c))
	})

	do := func(path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set(AuthorizationHeader, BearerPrefix+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("missing token", func(t *testing.T) {
		w := do("/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	})

	t.Run("invalid token", func(t *testing.T) {
		w := do("/me", "forged")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	})

	t.Run("valid token sets user", func(t *testing.T) {
		w := do("/me", "landlord")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, landlordID.String(), w.Body.String())
	})

	t.Run("admin route rejects landlord", func(t *testing.T) {
		w := do("/admin", "landlord")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "FORBIDDEN")
	})

	t.Run("admin route allows admin", func(t *testing.T) {
		w := do("/admin", "admin")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "admin@homerent.vn", w.Body.String())
	})

	t.Run("require role without auth", func(t *testing.T) {
		r := gin.New()
		r.GET("/x", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestMetrics(t *testing.T) {
	m := metrics.NewWithRegistry("test", prometheus.NewRegistry())

	router := gin.New()
	router.Use(Metrics(m))
	router.GET("/plans/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/plans/basic", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/plans/pro", nil))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/plans/:id", "2xx")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.HTTPRequestsInFlight))
}

func TestIdempotency(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	userID := uuid.New()
	calls := 0

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(UserIDKey, userID)
		c.Next()
	})
	router.POST("/renew", Idempotency(client, IdempotencyConfig{}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"call": calls})
	})

	post := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/renew", nil)
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("replays stored response", func(t *testing.T) {
		first := post("renew-1")
		second := post("renew-1")

		assert.Equal(t, http.StatusOK, second.Code)
		assert.JSONEq(t, first.Body.String(), second.Body.String())
		assert.Equal(t, "true", second.Header().Get(IdempotentReplayHeader))
		assert.Equal(t, 1, calls)
	})

	t.Run("different key runs handler", func(t *testing.T) {
		post("renew-2")
		assert.Equal(t, 2, calls)
	})

	t.Run("no key passes through", func(t *testing.T) {
		post("")
		post("")
		assert.Equal(t, 4, calls)
	})

	t.Run("in-flight key conflicts", func(t *testing.T) {
		key := idempotencyCacheKeyFor(t, userID, "renew-3")
		require.NoError(t, mr.Set(key+":lock", "1"))

		w := post("renew-3")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "REQUEST_IN_PROGRESS")
		assert.Equal(t, 4, calls)
	})
}

// idempotencyCacheKeyFor derives the key the middleware uses for POST /renew.
func idempotencyCacheKeyFor(t *testing.T, userID uuid.UUID, key string) string {
	t.Helper()
	var out string
	probe := gin.New()
	probe.POST("/renew", func(c *gin.Context) {
		c.Set(UserIDKey, userID)
		out = idempotencyCacheKey(c, key)
	})
	probe.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/renew", nil))
	require.NotEmpty(t, out)
	return out
}
