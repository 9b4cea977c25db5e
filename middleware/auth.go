package middleware

import (
	"context"
	"net/http"
	"time"

	"dosakart-api/auth"
	"dosakart-api/config"
	"dosakart-api/models"

	"github.com/gin-gonic/gin"
)

// SignInPath is where unauthenticated page requests are sent.
const SignInPath = "/signin"

// Identity verification may call out to the provider; cap how long a
// request waits on it.
const verifyTimeout = 5 * time.Second

const (
	userIDKey = "userID"
	phoneKey  = "phone"
	roleKey   = "role"
	userKey   = "user"
)

// AuthRequired authenticates API requests: resolve token, verify it,
// load the active user record. Failures produce JSON errors — 401 for a
// missing or invalid credential, 404 when the verified phone has no
// backing account. Never panics or leaks provider errors.
func AuthRequired(verifier auth.TokenVerifier) gin.HandlerFunc {
	return authGate(verifier, rejectJSON)
}

// PageAuthRequired guards admin page routes: any authentication failure
// redirects to the sign-in page instead of rendering an error body.
func PageAuthRequired(verifier auth.TokenVerifier) gin.HandlerFunc {
	return authGate(verifier, redirectToSignIn)
}

type rejecter func(c *gin.Context, status int, msg string)

func rejectJSON(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func redirectToSignIn(c *gin.Context, _ int, _ string) {
	c.Redirect(http.StatusFound, SignInPath)
	c.Abort()
}

func authGate(verifier auth.TokenVerifier, reject rejecter) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := Logger(c)

		token := auth.ResolveToken(c.Request)

		ctx, cancel := context.WithTimeout(c.Request.Context(), verifyTimeout)
		defer cancel()
		principal, err := verifier.Verify(ctx, token)
		if err != nil {
			log.Warn("authentication failed",
				"reason", err.Error(), "path", c.Request.URL.Path)
			reject(c, http.StatusUnauthorized, "Invalid or missing token")
			return
		}

		var user models.User
		lookupErr := config.DB.Scopes(models.ActiveUsers).
			Preload("Addresses").Preload("DefaultAddress").
			Where("phone = ?", principal.PhoneNumber).
			First(&user).Error
		if lookupErr != nil {
			log.Warn("no account for verified principal",
				"phone", principal.PhoneNumber, "path", c.Request.URL.Path)
			reject(c, http.StatusNotFound, "User not found")
			return
		}

		c.Set(userIDKey, user.ID)
		c.Set(phoneKey, user.Phone)
		c.Set(roleKey, string(user.Role))
		c.Set(userKey, &user)
		c.Next()
	}
}

// RoleRequired enforces that the caller holds one of the allowed roles.
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !roleAllowed(c, roles) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Access denied. Required role(s): " + rolesString(roles),
			})
			return
		}
		c.Next()
	}
}

// PageRoleRequired is the page-route variant: a role mismatch renders an
// empty 403 instead of redirecting, so the page shell shows no content.
func PageRoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !roleAllowed(c, roles) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

func roleAllowed(c *gin.Context, roles []models.UserRole) bool {
	roleVal, exists := c.Get(roleKey)
	if !exists {
		return false
	}
	callerRole := models.UserRole(roleVal.(string))
	for _, r := range roles {
		if callerRole == r {
			return true
		}
	}
	return false
}

func rolesString(roles []models.UserRole) string {
	s := ""
	for i, r := range roles {
		if i > 0 {
			s += ", "
		}
		s += string(r)
	}
	return s
}

// GetUserID extracts the caller's user ID from context
func GetUserID(c *gin.Context) uint {
	val, _ := c.Get(userIDKey)
	return val.(uint)
}

// GetRole extracts the caller's role from context
func GetRole(c *gin.Context) models.UserRole {
	val, _ := c.Get(roleKey)
	return models.UserRole(val.(string))
}

// GetUser extracts the full user record loaded by the gate
func GetUser(c *gin.Context) *models.User {
	val, _ := c.Get(userKey)
	return val.(*models.User)
}
