package middlewares

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/foodcourt-app/utils"
)

func newTestEngine(tm *utils.TokenManager, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{RequestID(), AuthMiddleware(tm)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint(ContextUserID), "role": c.GetString(ContextRole)})
	})
	r.GET("/private", handlers...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tm := utils.NewTokenManager("test-secret", time.Hour)
	token, err := tm.GenerateToken(7, "FOODCOURT_OWNER")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		query  string
		code   int
	}{
		{"missing token", "", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", "", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", "", http.StatusUnauthorized},
		{"valid header", "Bearer " + token, "", http.StatusOK},
		{"valid query", "", token, http.StatusOK},
	}
	r := newTestEngine(tm)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := "/private"
			if tt.query != "" {
				url += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.code, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestAuthMiddlewareRejectsRevokedToken(t *testing.T) {
	tm := utils.NewTokenManager("test-secret", time.Hour)
	token, err := tm.GenerateToken(1, "ADMIN")
	require.NoError(t, err)
	tm.BlacklistToken(token)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	newTestEngine(tm).ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	tm := utils.NewTokenManager("test-secret", time.Hour)
	r := newTestEngine(tm, RequireRole("ADMIN"))

	ownerToken, _ := tm.GenerateToken(2, "FOODCOURT_OWNER")
	adminToken, _ := tm.GenerateToken(1, "ADMIN")

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+ownerToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiterPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewRateLimiter(2, 60).RateLimit())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.2"))
}

func TestRequestIDKeepsIncomingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestLoggerMiddlewareRedactsQueryToken(t *testing.T) {
	tm := utils.NewTokenManager("test-secret", time.Hour)
	token, err := tm.GenerateToken(7, "FOODCOURT_OWNER")
	require.NoError(t, err)

	var buf bytes.Buffer
	prev := utils.InfoLogger.Out
	utils.InfoLogger.SetOutput(&buf)
	t.Cleanup(func() { utils.InfoLogger.SetOutput(prev) })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(LoggerMiddleware())
	r.GET("/private", AuthMiddleware(tm), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/private?page=2&token="+token, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	logged := buf.String()
	assert.NotContains(t, logged, token)
	assert.Contains(t, logged, "token=REDACTED")
	assert.Contains(t, logged, "page=2")
}

func TestCORSMiddlewares(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddlewares("https://kitchen.example"))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://kitchen.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "X-Request-ID", w.Header().Get("Access-Control-Expose-Headers"))
}
