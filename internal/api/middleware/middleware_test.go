package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/careerpilot/config"
	"github.com/yoockh/careerpilot/internal/ratelimit"
)

func init() { gin.SetMode(gin.TestMode) }

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	l := ratelimit.New(ratelimit.NewMemoryStore(), logrus.New())
	r := gin.New()
	r.POST("/x", RateLimit(l, "questions", 2, time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	do := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, do().Code)
	assert.Equal(t, http.StatusOK, do().Code)

	w := do()
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "RATE_LIMITED", body["code"])
	reset, ok := body["resetTime"].(float64)
	require.True(t, ok)
	assert.Greater(t, int64(reset), time.Now().UnixMilli())

	retry, err := strconv.Atoi(w.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, retry, 1)
	assert.LessOrEqual(t, retry, 60)
}

func TestRateLimit_PerClient(t *testing.T) {
	l := ratelimit.New(ratelimit.NewMemoryStore(), logrus.New())
	r := gin.New()
	r.GET("/x", RateLimit(l, "assist", 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, ip := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = ip
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code, ip)
	}
}

func signed(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func authRouter(cfg config.AuthConfig, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWTAuth(cfg)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":   c.GetString("user_id"),
			"role":      c.GetString("role"),
			"user_name": c.GetString("user_name"),
		})
	})
	r.GET("/me", handlers...)
	return r
}

func TestJWTAuth(t *testing.T) {
	cfg := config.AuthConfig{JWTSecret: "s3cret", JWTAudience: "authenticated"}
	r := authRouter(cfg)

	good := signed(t, "s3cret", Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		AppMetadata:  map[string]any{"role": "admin"},
		UserMetadata: map[string]any{"full_name": "Ana Lima"},
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signed(t, "other", Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u"}}), http.StatusUnauthorized},
		{"wrong audience", "Bearer " + signed(t, "s3cret", Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u", Audience: jwt.ClaimStrings{"anon"}}}), http.StatusUnauthorized},
		{"ok", "Bearer " + good, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+good)
	r.ServeHTTP(w, req)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "user-1", body["user_id"])
	assert.Equal(t, "admin", body["role"])
	assert.Equal(t, "Ana", body["user_name"])
}

func TestJWTAuth_MissingSecret(t *testing.T) {
	r := authRouter(config.AuthConfig{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	cfg := config.AuthConfig{JWTSecret: "k"}
	r := authRouter(cfg, RequireAdmin())

	user := signed(t, "k", Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u"}})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+user)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := signed(t, "k", Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u"}, AppMetadata: map[string]any{"role": "Admin"}})
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	r := gin.New()
	r.Use(RequestLogger(l))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-Id"))
}

func TestLogger_RequestScoped(t *testing.T) {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	fallback := logrus.New()

	r := gin.New()
	r.Use(RequestLogger(l))
	var got logrus.FieldLogger
	r.GET("/x", func(c *gin.Context) {
		got = Logger(c, fallback)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "req-7")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entry, ok := got.(*logrus.Entry)
	require.True(t, ok)
	assert.Equal(t, "req-7", entry.Data["request_id"])

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Same(t, fallback, Logger(c, fallback))
}
