package handlers

import (
	"net/http"

	"dosakart-api/auth"
	"dosakart-api/config"
	"dosakart-api/middleware"
	"dosakart-api/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type TokenRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ExchangeToken issues a session token for a phone number the upstream
// provider already verified (OTP happens client-side against the hosted
// auth service; this endpoint trusts the verified phone).
func ExchangeToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Scopes(models.ActiveUsers).
		Where("phone = ?", req.Phone).First(&user).Error; err != nil {
		// First sign-in: provision a customer account for the verified phone.
		user = models.User{Phone: req.Phone, Role: models.RoleCustomer}
		if err := config.DB.Create(&user).Error; err != nil {
			middleware.Logger(c).Error("provision user failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
	}

	token, err := auth.GenerateToken(config.JWTSecret(), user.Phone, string(user.Role), config.TokenTTL())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.SetCookie(auth.TokenCookieName, token, int(config.TokenTTL().Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"phone": user.Phone,
			"role":  user.Role,
		},
	})
}

// Login is the password fallback for back-office accounts that cannot use
// phone OTP (ops tooling, scripts).
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Scopes(models.ActiveUsers).
		Where("phone = ?", req.Phone).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid phone or password"})
		return
	}
	if user.PasswordHash == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Password login not enabled for this account"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid phone or password"})
		return
	}

	token, err := auth.GenerateToken(config.JWTSecret(), user.Phone, string(user.Role), config.TokenTTL())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.SetCookie(auth.TokenCookieName, token, int(config.TokenTTL().Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"phone": user.Phone,
			"role":  user.Role,
		},
	})
}

// Me returns the authenticated user's record with addresses. The gate has
// already verified the token and loaded the active account.
func Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": middleware.GetUser(c)})
}
