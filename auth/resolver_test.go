package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveToken_NoCredential(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", ResolveToken(r))
}

func TestResolveToken_FromCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "cookie-token"})
	assert.Equal(t, "cookie-token", ResolveToken(r))
}

func TestResolveToken_FromBearerHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer header-token")
	assert.Equal(t, "header-token", ResolveToken(r))
}

func TestResolveToken_CookieWinsOverHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "cookie-token"})
	r.Header.Set("Authorization", "Bearer header-token")
	assert.Equal(t, "cookie-token", ResolveToken(r))
}

func TestResolveToken_MalformedAuthorizationHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	assert.Equal(t, "", ResolveToken(r))
}
