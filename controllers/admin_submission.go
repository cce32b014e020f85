package controllers

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"layanan-publik-api/services"
)

// ListSubmissions returns submissions for the admin dashboard, newest
// first, optionally filtered by status, jenis_layanan and free text.
// Responses are marked no-store: after a status change the client does a
// single authoritative re-fetch instead of cache-busting polls.
func ListSubmissions(c *gin.Context) {
	filter := services.ListFilter{
		Status:       c.Query("status"),
		JenisLayanan: c.Query("jenis_layanan"),
		Query:        c.Query("q"),
	}
	if filter.Status != "" && !services.IsKnownStatus(filter.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Status filter tidak dikenal"})
		return
	}

	subs, err := getStore().List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Gagal memuat data pengajuan"})
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, gin.H{"success": true, "data": subs})
}

// GetSubmission returns one submission by id.
func GetSubmission(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID tidak valid"})
		return
	}

	sub, err := getStore().GetByID(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrSubmissionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Pengajuan tidak ditemukan"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Terjadi kesalahan internal server"})
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, gin.H{"success": true, "data": sub})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateSubmissionStatus applies one workflow transition. The guard
// validates against the freshly read row, the store writes with a
// compare-and-set, and only after the write commits is the email
// notification dispatched, detached from this request.
func UpdateSubmissionStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID tidak valid"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Status wajib diisi"})
		return
	}

	store := getStore()
	sub, err := store.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrSubmissionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Pengajuan tidak ditemukan"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Terjadi kesalahan internal server"})
		return
	}

	outcome, err := services.ApplyTransition(sub, req.Status, time.Now())
	if err != nil {
		var unknown *services.UnknownStatusError
		var invalid *services.InvalidTransitionError
		switch {
		case errors.As(err, &unknown):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Status tidak dikenal"})
		case errors.As(err, &invalid):
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": invalid.Reason})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Terjadi kesalahan internal server"})
		}
		return
	}

	err = store.UpdateStatus(c.Request.Context(), sub.SubmissionID, sub.Status, outcome.Updated.Status, outcome.Updated.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStatusConflict):
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
		case errors.Is(err, services.ErrSubmissionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Pengajuan tidak ditemukan"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Gagal mengupdate status"})
		}
		return
	}

	// Fire-and-forget: the transition is committed, notification failure
	// must never fail or reverse it. The detached context bounds the send.
	updated := outcome.Updated
	newStatus := updated.Status
	notifier := getNotifier()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		if _, err := notifier.NotifyStatusChange(ctx, updated, newStatus); err != nil {
			log.Printf("status notification dispatch: %v", err)
		}
	}()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Status berhasil diupdate",
		"no_op":   outcome.NoOp,
		"data":    updated,
	})
}

// NotifySubmissionProcess sends the secondary "layanan sedang diproses"
// email for one submission on demand.
func NotifySubmissionProcess(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID tidak valid"})
		return
	}

	sub, err := getStore().GetByID(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrSubmissionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Pengajuan tidak ditemukan"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Terjadi kesalahan internal server"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dispatchTimeout)
	defer cancel()

	res, err := getNotifier().NotifyServiceProcess(ctx, sub)
	if err != nil {
		log.Printf("service process notification: %v", err)
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "Email gagal dikirim, lihat log notifikasi",
			"outcome": res.Log.Outcome,
		})
		return
	}
	if res.NoRecipient {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Pemohon tidak memiliki alamat email",
			"outcome": res.Log.Outcome,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Email berhasil dikirim",
		"outcome": res.Log.Outcome,
	})
}

// GetSubmissionStats aggregates counts per status and per service type for
// the dashboard cards and charts.
func GetSubmissionStats(c *gin.Context) {
	store := getStore()

	byStatus, err := store.CountByStatus(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Gagal memuat statistik"})
		return
	}
	byService, err := store.CountByService(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Gagal memuat statistik"})
		return
	}

	statusStats := make([]gin.H, 0, len(byStatus))
	var total int64
	for status, count := range byStatus {
		total += count
		statusStats = append(statusStats, gin.H{
			"status": status,
			"label":  services.StatusLabel(status),
			"count":  count,
		})
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total":      total,
			"by_status":  statusStats,
			"by_service": byService,
		},
	})
}

// ExportSubmissionsCSV streams the (optionally filtered) submission list
// as a CSV attachment.
func ExportSubmissionsCSV(c *gin.Context) {
	filter := services.ListFilter{
		Status:       c.Query("status"),
		JenisLayanan: c.Query("jenis_layanan"),
		Query:        c.Query("q"),
	}

	subs, err := getStore().List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Gagal memuat data pengajuan"})
		return
	}

	filename := fmt.Sprintf("pengajuan_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"Kode Tracking", "Nama", "Jenis Layanan", "Status", "Dibuat", "Diupdate"})
	for _, sub := range subs {
		_ = w.Write([]string{
			sub.TrackingCode,
			sub.Nama,
			sub.JenisLayanan,
			services.StatusLabel(sub.Status),
			sub.CreatedAt.Format(time.RFC3339),
			sub.UpdatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
}
