package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"layanan-publik-api/models"
)

var (
	// ErrSubmissionNotFound is returned when no submission matches the id
	// or tracking code.
	ErrSubmissionNotFound = errors.New("pengajuan tidak ditemukan")

	// ErrStatusConflict is returned when the compare-and-set update matched
	// no row because another writer moved the status first. The caller
	// should refetch and re-present the decision, not silently retry.
	ErrStatusConflict = errors.New("data pengajuan sudah berubah, muat ulang data terbaru")
)

// NewTrackingCode issues a public tracking code, e.g. LYN-9F3A1C2B.
func NewTrackingCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "LYN-" + strings.ToUpper(raw[:8])
}

// SubmissionStore is the persistence layer for submissions. Status writes
// go through an optimistic compare-and-set so that at most one writer wins
// per transition attempt.
type SubmissionStore struct {
	db *gorm.DB
}

func NewSubmissionStore(db *gorm.DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

// CreateSubmissionInput carries the citizen-provided fields.
type CreateSubmissionInput struct {
	Nama         string
	Email        *string
	JenisLayanan string
}

// Create stores a new submission in the initial workflow status and issues
// its tracking code.
func (s *SubmissionStore) Create(ctx context.Context, input CreateSubmissionInput) (models.Submission, error) {
	if !models.IsValidServiceType(input.JenisLayanan) {
		return models.Submission{}, fmt.Errorf("jenis layanan %q tidak dikenal", input.JenisLayanan)
	}

	now := time.Now()
	sub := models.Submission{
		TrackingCode: NewTrackingCode(),
		Nama:         input.Nama,
		Email:        input.Email,
		JenisLayanan: input.JenisLayanan,
		Status:       StatusPengajuanBaru,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		return models.Submission{}, err
	}
	return sub, nil
}

func (s *SubmissionStore) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var sub models.Submission
	err := s.db.WithContext(ctx).Where("submission_id = ?", id).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Submission{}, ErrSubmissionNotFound
		}
		return models.Submission{}, err
	}
	return sub, nil
}

func (s *SubmissionStore) GetByTrackingCode(ctx context.Context, code string) (models.Submission, error) {
	var sub models.Submission
	err := s.db.WithContext(ctx).Where("tracking_code = ?", strings.TrimSpace(code)).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Submission{}, ErrSubmissionNotFound
		}
		return models.Submission{}, err
	}
	return sub, nil
}

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	Status       string
	JenisLayanan string
	Query        string // matches nama or tracking_code
}

// List returns submissions newest first.
func (s *SubmissionStore) List(ctx context.Context, filter ListFilter) ([]models.Submission, error) {
	q := s.db.WithContext(ctx).Model(&models.Submission{})

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.JenisLayanan != "" {
		q = q.Where("jenis_layanan = ?", filter.JenisLayanan)
	}
	if text := strings.TrimSpace(filter.Query); text != "" {
		like := "%" + text + "%"
		q = q.Where("nama LIKE ? OR tracking_code LIKE ?", like, like)
	}

	var subs []models.Submission
	if err := q.Order("created_at DESC").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// UpdateStatus applies an accepted transition with a compare-and-set: the
// row is only written if it still holds the status the guard validated
// against. A matched-zero-rows result means either the submission vanished
// (ErrSubmissionNotFound) or a concurrent writer won (ErrStatusConflict).
func (s *SubmissionStore) UpdateStatus(ctx context.Context, id uint, from, to string, updatedAt time.Time) error {
	res := s.db.WithContext(ctx).Model(&models.Submission{}).
		Where("submission_id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": updatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Submission{}).
			Where("submission_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrSubmissionNotFound
		}
		return ErrStatusConflict
	}
	return nil
}

// CountByStatus aggregates submissions per workflow status.
func (s *SubmissionStore) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return s.countBy(ctx, "status")
}

// CountByService aggregates submissions per jenis_layanan.
func (s *SubmissionStore) CountByService(ctx context.Context) (map[string]int64, error) {
	return s.countBy(ctx, "jenis_layanan")
}

func (s *SubmissionStore) countBy(ctx context.Context, column string) (map[string]int64, error) {
	type row struct {
		Key   string `gorm:"column:k"`
		Total int64  `gorm:"column:total"`
	}

	var rows []row
	err := s.db.WithContext(ctx).Model(&models.Submission{}).
		Select(column + " AS k, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Key] = r.Total
	}
	return counts, nil
}
