package models

import "time"

// Service type codes stored in submissions.jenis_layanan.
const (
	ServiceSuratKeterangan = "SURAT_KETERANGAN"
	ServiceKTP             = "KTP"
	ServiceKK              = "KK"
	ServiceAkteLahir       = "AKTE_LAHIR"
	ServiceSuratPindah     = "SURAT_PINDAH"
	ServiceSKCK            = "SKCK"
)

// ServiceTypes lists every accepted jenis_layanan code.
var ServiceTypes = []string{
	ServiceSuratKeterangan,
	ServiceKTP,
	ServiceKK,
	ServiceAkteLahir,
	ServiceSuratPindah,
	ServiceSKCK,
}

// IsValidServiceType reports whether code is one of the known service types.
func IsValidServiceType(code string) bool {
	for _, s := range ServiceTypes {
		if s == code {
			return true
		}
	}
	return false
}

// Submission represents one citizen service request.
// tracking_code is the public identifier citizens use to check status;
// it is issued once at creation and never changes.
type Submission struct {
	SubmissionID uint      `gorm:"primaryKey;column:submission_id" json:"id"`
	TrackingCode string    `gorm:"column:tracking_code;uniqueIndex" json:"tracking_code"`
	Nama         string    `gorm:"column:nama" json:"nama"`
	Email        *string   `gorm:"column:email" json:"email,omitempty"`
	JenisLayanan string    `gorm:"column:jenis_layanan" json:"jenis_layanan"`
	Status       string    `gorm:"column:status" json:"status"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Submission) TableName() string { return "submissions" }

// HasEmail reports whether the submission carries a usable contact address.
func (s *Submission) HasEmail() bool {
	return s.Email != nil && *s.Email != ""
}
