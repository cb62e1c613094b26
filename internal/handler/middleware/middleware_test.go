//go:build unit

package middleware_test

import (
	"net/http"
	"testing"
	"time"

	"hotel-reservation-engine/internal/domain/user"
	"hotel-reservation-engine/internal/handler/middleware"
	"hotel-reservation-engine/internal/pkg/config"
	"hotel-reservation-engine/internal/pkg/errs"
	"hotel-reservation-engine/internal/pkg/jwt"
	"hotel-reservation-engine/internal/usecase"
	"hotel-reservation-engine/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *jwt.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := jwt.NewService("unit-test-secret", 15*time.Minute)
	auth := middleware.NewAuthMiddleware(usecase.NewTokenValidator(svc))

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	api := router.Group("/api", auth.RequireAuth())
	api.GET("/me", func(c *gin.Context) {
		customer, err := middleware.CurrentCustomer(c)
		require.NoError(t, err)
		role, _ := middleware.GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"id": customer.ID, "email": customer.Email, "role": role})
	})
	api.GET("/admin", auth.RequireRoleAtLeast(user.RoleOperator), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router, svc
}

func TestAuthMiddleware(t *testing.T) {
	router, svc := newAuthRouter(t)
	userID := uuid.New()

	t.Run("valid bearer token populates the caller", func(t *testing.T) {
		token, err := svc.GenerateToken(userID, user.RoleCustomer, "guest@example.com")
		require.NoError(t, err)

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/api/me", nil, token)

		var body struct {
			ID    uuid.UUID `json:"id"`
			Email string    `json:"email"`
			Role  string    `json:"role"`
		}
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.Equal(t, userID, body.ID)
		assert.Equal(t, "guest@example.com", body.Email)
		assert.Equal(t, "customer", body.Role)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/api/me", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Access token required")
	})

	t.Run("token signed with another key", func(t *testing.T) {
		other := jwt.NewService("another-secret", time.Minute)
		token, err := other.GenerateToken(userID, user.RoleCustomer, "")
		require.NoError(t, err)

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/api/me", nil, token)
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	t.Run("expired token", func(t *testing.T) {
		expired := jwt.NewService("unit-test-secret", -time.Minute)
		token, err := expired.GenerateToken(userID, user.RoleCustomer, "")
		require.NoError(t, err)

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/api/me", nil, token)
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	t.Run("role hierarchy", func(t *testing.T) {
		cases := []struct {
			role user.Role
			want int
		}{
			{user.RoleCustomer, http.StatusForbidden},
			{user.RoleOperator, http.StatusNoContent},
			{user.RoleAdmin, http.StatusNoContent},
		}
		for _, tc := range cases {
			token, err := svc.GenerateToken(userID, tc.role, "")
			require.NoError(t, err)
			rec := httptest.PerformRequest(t, router, http.MethodGet, "/api/admin", nil, token)
			assert.Equal(t, tc.want, rec.Code, "role %s", tc.role)
		}
	})
}

func TestRateLimit_LocalLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            time.Minute,
		Prefix:         "rl-unit",
	}

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.POST("/book", middleware.RateLimit(middleware.NewLocalRateLimiter(cfg), cfg.Capacity), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	for i := range 2 {
		rec := httptest.PerformRequest(t, router, http.MethodPost, "/book", nil, "")
		require.Equal(t, http.StatusCreated, rec.Code, "request %d", i)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := httptest.PerformRequest(t, router, http.MethodPost, "/book", nil, "")
	httptest.AssertErrorResponse(t, rec, http.StatusTooManyRequests, "Rate limit exceeded")
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestCustomRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.CustomRecovery())
	router.GET("/panic", func(*gin.Context) { panic("boom") })

	rec := httptest.PerformRequest(t, router, http.MethodGet, "/panic", nil, "")
	httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "Internal server error")
}

func TestErrorHandlerMapsBareErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.GET("/gone", func(c *gin.Context) {
		_ = c.Error(errs.Wrap(errs.ErrReservationNotFound, "load reservation"))
	})
	router.GET("/broken", func(c *gin.Context) {
		_ = c.Error(errs.New("disk on fire"))
	})

	rec := httptest.PerformRequest(t, router, http.MethodGet, "/gone", nil, "")
	httptest.AssertErrorResponse(t, rec, http.StatusNotFound, "Reservation not found")

	rec = httptest.PerformRequest(t, router, http.MethodGet, "/broken", nil, "")
	httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "Internal server error")
}

func TestCORSWildcardDropsCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.NewTestConfig().CORS
	cfg.AllowOrigins = []string{"*"}
	cfg.AllowCredentials = true

	router := gin.New()
	router.Use(middleware.NewCORSMiddleware(cfg))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.PerformRequestWithHeaders(t, router, http.MethodGet, "/ping", nil,
		map[string]string{"Origin": "https://anywhere.example"}, "")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestLoggingMiddlewareRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := middleware.NewLogger(config.NewTestConfig().Log)

	router := gin.New()
	router.Use(logger.LoggingMiddleware())
	router.GET("/id", func(c *gin.Context) { c.String(http.StatusOK, middleware.GetRequestID(c)) })

	incoming := uuid.NewString()
	rec := httptest.PerformRequestWithHeaders(t, router, http.MethodGet, "/id", nil,
		map[string]string{middleware.HeaderRequestID: incoming}, "")
	assert.Equal(t, incoming, rec.Body.String())
	assert.Equal(t, incoming, rec.Header().Get(middleware.HeaderRequestID))

	rec = httptest.PerformRequestWithHeaders(t, router, http.MethodGet, "/id", nil,
		map[string]string{middleware.HeaderRequestID: "not-a-uuid"}, "")
	_, err := uuid.Parse(rec.Body.String())
	assert.NoError(t, err)
}
