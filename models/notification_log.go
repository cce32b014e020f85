package models

import "time"

// Notification delivery outcomes recorded in notification_logs.outcome.
const (
	NotificationOutcomeSent    = "sent"
	NotificationOutcomeFailed  = "failed"
	NotificationOutcomeSkipped = "skipped" // no recipient address on the submission
)

// NotificationLog records one email dispatch attempt for a submission.
// Rows are append-only: written once when the attempt concludes, never
// updated or deleted.
type NotificationLog struct {
	LogID        uint      `gorm:"primaryKey;column:log_id" json:"log_id"`
	SubmissionID uint      `gorm:"column:submission_id" json:"submission_id"`
	Channel      string    `gorm:"column:channel" json:"channel"` // always "email" for now
	StatusAtSend string    `gorm:"column:status_at_send" json:"status_at_send"`
	Recipient    string    `gorm:"column:recipient" json:"recipient"`
	Subject      string    `gorm:"column:subject" json:"subject"`
	Outcome      string    `gorm:"column:outcome" json:"outcome"` // sent|failed|skipped
	ErrorMessage *string   `gorm:"column:error_message" json:"error_message,omitempty"`
	MessageID    *string   `gorm:"column:message_id" json:"message_id,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (NotificationLog) TableName() string { return "notification_logs" }
