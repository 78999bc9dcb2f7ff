package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prolance/prolance-backend/internal/store"
	"github.com/prolance/prolance-backend/internal/utils"
)

const testCookie = "test_session"

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("middleware-secret")
}

func whoAmI(c *gin.Context) {
	id, ok := utils.GetUserIDFromContext(c)
	if !ok {
		c.String(http.StatusOK, "anonymous")
		return
	}
	c.String(http.StatusOK, id.String())
}

func newAuthRouter() *gin.Engine {
	r := gin.New()
	r.Use(I18nMiddleware("en"))
	r.GET("/private", AuthRequired(testCookie), whoAmI)
	r.GET("/public", OptionalAuth(testCookie), whoAmI)
	return r
}

func TestAuthRequired(t *testing.T) {
	r := newAuthRouter()
	userID := uuid.New()
	token, err := utils.GenerateJWT(userID, "Tester", 1)
	require.NoError(t, err)

	cases := []struct {
		name   string
		setup  func(req *http.Request)
		status int
		body   string
	}{
		{"no credentials", func(req *http.Request) {}, http.StatusUnauthorized, ""},
		{"bearer token", func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK, userID.String()},
		{"session cookie", func(req *http.Request) { req.AddCookie(&http.Cookie{Name: testCookie, Value: token}) }, http.StatusOK, userID.String()},
		{"bad token", func(req *http.Request) { req.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized, ""},
		{"wrong scheme", func(req *http.Request) { req.Header.Set("Authorization", "Basic "+token) }, http.StatusUnauthorized, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			tc.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.body != "" {
				assert.Equal(t, tc.body, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"code":"UNAUTHORIZED"`)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	r := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())
}

func TestPreferredLanguage(t *testing.T) {
	assert.Equal(t, "zh_TW", preferredLanguage("zh-TW,zh;q=0.9,en;q=0.8", "en"))
	assert.Equal(t, "en", preferredLanguage("fr-FR,en-US;q=0.8", "en"))
	assert.Equal(t, "en", preferredLanguage("de", "en"))
	assert.Equal(t, "en", preferredLanguage("", "en"))
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	limiter := PerMinute(2)
	defer limiter.Stop()

	r := gin.New()
	r.Use(limiter.Middleware())
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestAuditLogRedactsSecrets(t *testing.T) {
	audits := store.NewMemoryStore()
	orderID := uuid.New()

	r := gin.New()
	r.Use(AuditLogMiddleware(audits))
	r.POST("/api/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.PATCH("/api/orders/:id/status", func(c *gin.Context) { c.Status(http.StatusConflict) })
	r.GET("/api/gigs", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@b.c","password":"secret"}`)),
		httptest.NewRequest(http.MethodPatch, "/api/orders/"+orderID.String()+"/status", strings.NewReader(`{"status":"completed"}`)),
		httptest.NewRequest(http.MethodGet, "/api/gigs", nil),
	} {
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	logs := audits.AuditLogs()
	require.Len(t, logs, 2)

	assert.Equal(t, "POST /api/auth/login", logs[0].Action)
	assert.Equal(t, "auth", logs[0].ResourceType)
	assert.Equal(t, "[REDACTED]", logs[0].NewValues["password"])
	assert.Equal(t, "a@b.c", logs[0].NewValues["email"])

	assert.Equal(t, "PATCH /api/orders/:id/status", logs[1].Action)
	assert.Equal(t, "orders", logs[1].ResourceType)
	assert.Equal(t, http.StatusConflict, logs[1].StatusCode)
	require.NotNil(t, logs[1].ResourceID)
	assert.Equal(t, orderID, *logs[1].ResourceID)
}
