package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"layanan-publik-api/models"
	"layanan-publik-api/services"
	"layanan-publik-api/utils"
)

type CreateSubmissionRequest struct {
	Nama         string  `json:"nama" binding:"required"`
	Email        *string `json:"email"`
	JenisLayanan string  `json:"jenis_layanan" binding:"required"`
}

// CreateSubmission registers a new citizen service request in the initial
// workflow status and returns the tracking code the citizen keeps.
func CreateSubmission(c *gin.Context) {
	var req CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Nama dan jenis layanan wajib diisi",
		})
		return
	}

	if !models.IsValidServiceType(req.JenisLayanan) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Jenis layanan tidak dikenal",
		})
		return
	}

	// Email is optional; when absent, status notifications are skipped.
	email := req.Email
	if email != nil {
		trimmed := utils.SanitizeInput(*email)
		if trimmed == "" {
			email = nil
		} else {
			if !utils.ValidateEmail(trimmed) {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"message": "Format email tidak valid",
				})
				return
			}
			email = &trimmed
		}
	}

	sub, err := getStore().Create(c.Request.Context(), services.CreateSubmissionInput{
		Nama:         utils.SanitizeInput(req.Nama),
		Email:        email,
		JenisLayanan: req.JenisLayanan,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Gagal menyimpan pengajuan",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Pengajuan berhasil dibuat",
		"data":    sub,
	})
}

// TrackSubmission lets a citizen look up their submission by tracking code.
func TrackSubmission(c *gin.Context) {
	code := c.Param("tracking_code")

	sub, err := getStore().GetByTrackingCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, services.ErrSubmissionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Pengajuan tidak ditemukan",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Terjadi kesalahan internal server",
		})
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"tracking_code": sub.TrackingCode,
			"nama":          sub.Nama,
			"jenis_layanan": sub.JenisLayanan,
			"status":        sub.Status,
			"status_label":  services.StatusLabel(sub.Status),
			"created_at":    sub.CreatedAt,
			"updated_at":    sub.UpdatedAt,
		},
	})
}
