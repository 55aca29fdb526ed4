package transactions

import (
	"context"

	"github.com/google/uuid"
	"github.com/lucasrivera/shoppulse-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository wires together transaction and upload persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListByScope loads every stored row for the scope ordered by date then id.
// The id tiebreak keeps reruns over the same data deterministic.
func (r *Repository) ListByScope(ctx context.Context, scope Scope) ([]models.Transaction, error) {
	q := r.db.WithContext(ctx).
		Where("merchant_id = ?", scope.MerchantID)
	if !scope.All() {
		q = q.Where("upload_id = ?", scope.UploadID)
	}

	var rows []models.Transaction
	if err := q.Order("date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByScope returns the stored row count for the scope.
func (r *Repository) CountByScope(ctx context.Context, scope Scope) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("merchant_id = ?", scope.MerchantID)
	if !scope.All() {
		q = q.Where("upload_id = ?", scope.UploadID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateUpload records the upload header row.
func (r *Repository) CreateUpload(ctx context.Context, upload *models.Upload) error {
	return r.db.WithContext(ctx).Create(upload).Error
}

// CreateBatch inserts transaction rows in chunks.
func (r *Repository) CreateBatch(ctx context.Context, rows []models.Transaction) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(rows, 500).Error
}

// GetUpload loads one upload header scoped to the merchant.
func (r *Repository) GetUpload(ctx context.Context, merchantID, uploadID uuid.UUID) (*models.Upload, error) {
	var upload models.Upload
	err := r.db.WithContext(ctx).
		First(&upload, "id = ? AND merchant_id = ?", uploadID, merchantID).Error
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

// ListUploads returns the merchant's uploads, newest first.
func (r *Repository) ListUploads(ctx context.Context, merchantID uuid.UUID) ([]models.Upload, error) {
	var uploads []models.Upload
	err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("created_at DESC").
		Find(&uploads).Error
	if err != nil {
		return nil, err
	}
	return uploads, nil
}
