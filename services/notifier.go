package services

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"layanan-publik-api/config"
	"layanan-publik-api/models"
)

// Mailer delivers one email and returns a transport message id. The
// production implementation wraps the SMTP dialer; tests substitute fakes.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) (string, error)
}

// SMTPMailer sends through the configured SMTP relay.
type SMTPMailer struct{}

func (SMTPMailer) Send(ctx context.Context, to, subject, html string) (string, error) {
	type sendResult struct {
		id  string
		err error
	}
	done := make(chan sendResult, 1)
	go func() {
		id, err := config.SendMail([]string{to}, subject, html)
		done <- sendResult{id: id, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.id, res.err
	}
}

// DeliveryError wraps a transport failure. It is logged and surfaced to
// operators but never fails the status change that triggered the send.
type DeliveryError struct {
	SubmissionID uint
	Recipient    string
	Err          error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("notifikasi email untuk pengajuan %d ke %s gagal: %v", e.SubmissionID, e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// NotifyResult reports what one dispatch attempt did.
type NotifyResult struct {
	NoRecipient bool
	MessageID   string
	Log         models.NotificationLog
}

// Notifier composes and sends status emails and keeps the append-only
// notification log. One log row is written per invocation, whatever the
// outcome.
type Notifier struct {
	db      *gorm.DB
	mailer  Mailer
	baseURL string
}

func NewNotifier(db *gorm.DB, mailer Mailer, baseURL string) *Notifier {
	return &Notifier{
		db:      db,
		mailer:  mailer,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// TrackingURL builds the public status page link for a tracking code.
func (n *Notifier) TrackingURL(trackingCode string) string {
	return fmt.Sprintf("%s/public?tab=status&tracking_code=%s", n.baseURL, trackingCode)
}

// NotifyStatusChange emails the applicant that their submission moved to
// newStatus. A submission without an email address is a recognized no-op
// (NoRecipient), not an error. Transport failures come back as
// *DeliveryError; the caller logs them and moves on — the transition has
// already been committed and is never rolled back or retried here.
func (n *Notifier) NotifyStatusChange(ctx context.Context, sub models.Submission, newStatus string) (NotifyResult, error) {
	subject := fmt.Sprintf("Update Status Pengajuan - %s", sub.TrackingCode)

	if !sub.HasEmail() {
		entry := n.appendLog(models.NotificationLog{
			SubmissionID: sub.SubmissionID,
			Channel:      "email",
			StatusAtSend: newStatus,
			Subject:      subject,
			Outcome:      models.NotificationOutcomeSkipped,
			ErrorMessage: strPtr("no recipient email address"),
		})
		return NotifyResult{NoRecipient: true, Log: entry}, nil
	}

	recipient := *sub.Email
	html := buildStatusUpdateHTML(sub, newStatus, n.TrackingURL(sub.TrackingCode))

	messageID, sendErr := n.mailer.Send(ctx, recipient, subject, html)

	entry := models.NotificationLog{
		SubmissionID: sub.SubmissionID,
		Channel:      "email",
		StatusAtSend: newStatus,
		Recipient:    recipient,
		Subject:      subject,
	}
	if sendErr != nil {
		entry.Outcome = models.NotificationOutcomeFailed
		entry.ErrorMessage = strPtr(sendErr.Error())
	} else {
		entry.Outcome = models.NotificationOutcomeSent
		if messageID != "" {
			entry.MessageID = &messageID
		}
	}
	entry = n.appendLog(entry)

	if sendErr != nil {
		return NotifyResult{Log: entry}, &DeliveryError{
			SubmissionID: sub.SubmissionID,
			Recipient:    recipient,
			Err:          sendErr,
		}
	}
	return NotifyResult{MessageID: messageID, Log: entry}, nil
}

// NotifyServiceProcess sends the admin-triggered "layanan sedang diproses"
// email. Same logging contract as NotifyStatusChange.
func (n *Notifier) NotifyServiceProcess(ctx context.Context, sub models.Submission) (NotifyResult, error) {
	subject := fmt.Sprintf("Proses Layanan (%s) - %s", sub.JenisLayanan, sub.Nama)

	if !sub.HasEmail() {
		entry := n.appendLog(models.NotificationLog{
			SubmissionID: sub.SubmissionID,
			Channel:      "email",
			StatusAtSend: sub.Status,
			Subject:      subject,
			Outcome:      models.NotificationOutcomeSkipped,
			ErrorMessage: strPtr("no recipient email address"),
		})
		return NotifyResult{NoRecipient: true, Log: entry}, nil
	}

	recipient := *sub.Email
	html := buildServiceProcessHTML(sub, n.baseURL)

	messageID, sendErr := n.mailer.Send(ctx, recipient, subject, html)

	entry := models.NotificationLog{
		SubmissionID: sub.SubmissionID,
		Channel:      "email",
		StatusAtSend: sub.Status,
		Recipient:    recipient,
		Subject:      subject,
	}
	if sendErr != nil {
		entry.Outcome = models.NotificationOutcomeFailed
		entry.ErrorMessage = strPtr(sendErr.Error())
	} else {
		entry.Outcome = models.NotificationOutcomeSent
		if messageID != "" {
			entry.MessageID = &messageID
		}
	}
	entry = n.appendLog(entry)

	if sendErr != nil {
		return NotifyResult{Log: entry}, &DeliveryError{
			SubmissionID: sub.SubmissionID,
			Recipient:    recipient,
			Err:          sendErr,
		}
	}
	return NotifyResult{MessageID: messageID, Log: entry}, nil
}

// appendLog writes one notification log row. The log is the durable audit
// trail, so an insert failure is loud in the server log, but it does not
// change the dispatch outcome reported to the caller.
func (n *Notifier) appendLog(entry models.NotificationLog) models.NotificationLog {
	entry.CreatedAt = time.Now()
	if err := n.db.Create(&entry).Error; err != nil {
		log.Printf("notification log insert failed (submission=%d outcome=%s): %v",
			entry.SubmissionID, entry.Outcome, err)
	}
	return entry
}

func buildStatusUpdateHTML(sub models.Submission, newStatus, trackingURL string) string {
	nama := template.HTMLEscapeString(sub.Nama)
	kode := template.HTMLEscapeString(sub.TrackingCode)
	layanan := template.HTMLEscapeString(sub.JenisLayanan)
	label := template.HTMLEscapeString(StatusLabel(newStatus))
	link := template.HTMLEscapeString(trackingURL)

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Update Status Pengajuan</title>
</head>
<body style="margin:0;background:#f9fafb;font-family:Arial,sans-serif;color:#333;">
<div style="max-width:600px;margin:0 auto;padding:20px;">
  <div style="background:#0ea5e9;color:#ffffff;padding:20px;text-align:center;border-radius:8px 8px 0 0;">
    <h1 style="margin:0;">Update Status Pengajuan</h1>
  </div>
  <div style="background:#ffffff;padding:20px;border:1px solid #e5e7eb;border-radius:0 0 8px 8px;">
    <p>Halo <strong>%s</strong>,</p>
    <p>Status pengajuan layanan Anda telah diperbarui:</p>
    <div style="background:#e0f2fe;padding:15px;border-radius:8px;margin:20px 0;">
      <strong>Kode Tracking:</strong> %s<br>
      <strong>Jenis Layanan:</strong> %s<br>
      <strong>Status Baru:</strong> %s
    </div>
    <p>Anda dapat mengecek status terbaru melalui tautan berikut:</p>
    <p><a href="%s">%s</a></p>
    <p>Terima kasih telah menggunakan layanan kami.</p>
  </div>
  <div style="text-align:center;margin-top:24px;color:#666;font-size:13px;">
    <p>Email ini dikirim otomatis oleh sistem layanan publik.</p>
    <p>Jangan balas email ini karena tidak akan diproses.</p>
  </div>
</div>
</body>
</html>`, nama, kode, layanan, label, link, link)
}

func buildServiceProcessHTML(sub models.Submission, baseURL string) string {
	nama := template.HTMLEscapeString(sub.Nama)
	layanan := template.HTMLEscapeString(sub.JenisLayanan)
	portal := template.HTMLEscapeString(baseURL)
	if portal == "" {
		portal = "#"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Notifikasi Proses Layanan</title>
</head>
<body style="margin:0;background:#f6fdf7;font-family:Arial,sans-serif;color:#103b18;">
<div style="max-width:640px;margin:0 auto;padding:24px 0;">
  <div style="background:#198754;color:#ffffff;padding:24px;text-align:center;border-radius:12px 12px 0 0;">
    <h2 style="margin:0 0 8px;">Notifikasi Proses Layanan</h2>
    <div>Informasi progres layanan masyarakat</div>
  </div>
  <div style="background:#ffffff;padding:24px;border:1px solid #cfe9d6;border-radius:0 0 12px 12px;">
    <div style="background:#f0fbf3;border:1px solid #cfe9d6;border-radius:10px;padding:16px;">
      <div style="margin:8px 0;"><strong>Jenis Layanan:</strong> %s</div>
      <div style="margin:8px 0;"><strong>Nama Pemohon:</strong> %s</div>
    </div>
    <p style="margin-top:16px;"><a href="%s">Kunjungi Portal Layanan</a></p>
    <p style="font-size:13px;color:#0f5132;">Email ini dikirim otomatis oleh sistem layanan publik.</p>
  </div>
</div>
</body>
</html>`, layanan, nama, portal)
}

func strPtr(s string) *string { return &s }
