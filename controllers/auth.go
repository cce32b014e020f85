package controllers

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"layanan-publik-api/middleware"
	"layanan-publik-api/models"
)

type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AdminLoginResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
	Admin   models.Admin `json:"admin"`
}

// AdminLogin authenticates a back-office account and issues a signed,
// expiring session token. Authorization is decided server-side on every
// request by the auth middleware, never by client-local state.
func AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Username dan password wajib diisi",
		})
		return
	}

	var admin models.Admin
	err := getDB().Where("username = ? AND is_active = ?", req.Username, true).First(&admin).Error
	if err != nil || !admin.CheckPassword(req.Password) {
		// Same message for unknown username and wrong password.
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Username atau password salah",
		})
		return
	}

	claims := middleware.Claims{
		AdminID:  admin.AdminID,
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Terjadi kesalahan internal server",
		})
		return
	}

	c.JSON(http.StatusOK, AdminLoginResponse{
		Success: true,
		Message: "Login berhasil",
		Token:   signed,
		Admin:   admin,
	})
}

// GetAdminProfile returns the authenticated admin's account.
func GetAdminProfile(c *gin.Context) {
	adminID, exists := c.Get("adminID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	var admin models.Admin
	if err := getDB().Where("admin_id = ?", adminID).First(&admin).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Admin tidak ditemukan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "admin": admin})
}
