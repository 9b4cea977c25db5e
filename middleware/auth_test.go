package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"dosakart-api/auth"
	"dosakart-api/config"
	"dosakart-api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.Load()
	config.OpenDB("file::memory:?cache=shared")
	os.Exit(m.Run())
}

func newRouter() *gin.Engine {
	verifier := auth.NewJWTVerifier(config.JWTSecret())

	r := gin.New()
	api := r.Group("/api", RequestID())
	api.GET("/me", AuthRequired(verifier), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"phone": GetUser(c).Phone})
	})
	api.GET("/admin-only", AuthRequired(verifier), RoleRequired(models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	pages := r.Group("/admin", PageAuthRequired(verifier), PageRoleRequired(models.RoleAdmin))
	pages.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"page": "dashboard"})
	})
	return r
}

func seedUser(t *testing.T, phone string, role models.UserRole, deleted bool) {
	t.Helper()
	require.NoError(t, config.DB.Create(&models.User{
		Phone: phone, Role: role, IsDelete: deleted,
	}).Error)
}

func tokenFor(t *testing.T, phone, role string) string {
	t.Helper()
	token, err := auth.GenerateToken(config.JWTSecret(), phone, role, time.Hour)
	require.NoError(t, err)
	return token
}

func TestAdminPage_NoToken_RedirectsToSignIn(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	newRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, SignInPath, w.Header().Get("Location"))
}

func TestAdminPage_InvalidToken_RedirectsToSignIn(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.AddCookie(&http.Cookie{Name: auth.TokenCookieName, Value: "garbage"})
	newRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, SignInPath, w.Header().Get("Location"))
}

func TestAdminPage_AdminToken_Passes(t *testing.T) {
	seedUser(t, "+910000000001", models.RoleAdmin, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.AddCookie(&http.Cookie{Name: auth.TokenCookieName, Value: tokenFor(t, "+910000000001", "admin")})
	newRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminPage_WrongRole_EmptyForbidden(t *testing.T) {
	seedUser(t, "+910000000002", models.RoleCustomer, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.AddCookie(&http.Cookie{Name: auth.TokenCookieName, Value: tokenFor(t, "+910000000002", "customer")})
	newRouter().ServeHTTP(w, req)

	// Fallback render: no redirect, no content
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestAPI_NoToken_UnauthorizedJSON(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	newRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestAPI_BearerHeaderAccepted(t *testing.T) {
	seedUser(t, "+910000000003", models.RoleCustomer, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, "+910000000003", "customer"))
	newRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "+910000000003")
}

func TestAPI_SoftDeletedUser_NeverAuthorized(t *testing.T) {
	seedUser(t, "+910000000004", models.RoleAdmin, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, "+910000000004", "admin"))
	newRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_WrongRole_ForbiddenJSON(t *testing.T) {
	seedUser(t, "+910000000005", models.RoleCustomer, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, "+910000000005", "customer"))
	newRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Access denied")
}
