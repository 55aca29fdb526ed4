package models

import (
	"time"

	"github.com/google/uuid"
)

// Upload records one ingested transaction file. Ingestion itself lives
// outside this service; the pipeline only needs the scope handle.
type Upload struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	MerchantID uuid.UUID `gorm:"column:merchant_id;type:uuid;not null;index"`
	Filename   string    `gorm:"column:filename;not null"`
	RowCount   int       `gorm:"column:row_count;not null;default:0"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Upload) TableName() string {
	return "uploads"
}
