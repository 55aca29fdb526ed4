package transactions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lucasrivera/shoppulse-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTransactionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	uploads := `
CREATE TABLE IF NOT EXISTS uploads (
  id TEXT PRIMARY KEY,
  merchant_id TEXT NOT NULL,
  filename TEXT NOT NULL,
  row_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	txs := `
CREATE TABLE IF NOT EXISTS transactions (
  id TEXT PRIMARY KEY,
  merchant_id TEXT NOT NULL,
  upload_id TEXT NOT NULL,
  customer_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT 'Uncategorized',
  date DATETIME NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price TEXT NOT NULL,
  revenue TEXT NOT NULL,
  rating REAL NOT NULL DEFAULT 0,
  age INTEGER,
  gender TEXT,
  location TEXT,
  payment_method TEXT,
  shipping_type TEXT,
  discount_applied INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(uploads).Error)
	require.NoError(t, db.Exec(txs).Error)
	return db
}

func insertRow(t *testing.T, repo *Repository, merchantID, uploadID uuid.UUID, customerID string, date time.Time) {
	t.Helper()
	err := repo.CreateBatch(context.Background(), []models.Transaction{{
		ID:          uuid.New(),
		MerchantID:  merchantID,
		UploadID:    uploadID,
		CustomerID:  customerID,
		ProductName: "Laptop",
		Category:    "Electronics",
		Date:        date,
		Quantity:    1,
		UnitPrice:   decimal.NewFromFloat(1199.99),
		Revenue:     decimal.NewFromFloat(1199.99),
		Rating:      5,
	}})
	require.NoError(t, err)
}

func TestRepositoryScopesByMerchantAndUpload(t *testing.T) {
	db := setupTransactionsTestDB(t)
	repo := NewRepository(db)

	merchantA := uuid.New()
	merchantB := uuid.New()
	uploadOne := uuid.New()
	uploadTwo := uuid.New()
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	insertRow(t, repo, merchantA, uploadOne, "C1", base)
	insertRow(t, repo, merchantA, uploadTwo, "C2", base.AddDate(0, 0, 1))
	insertRow(t, repo, merchantB, uploadOne, "C3", base)

	all, err := repo.ListByScope(context.Background(), Scope{MerchantID: merchantA})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := repo.ListByScope(context.Background(), Scope{MerchantID: merchantA, UploadID: uploadTwo})
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "C2", scoped[0].CustomerID)

	count, err := repo.CountByScope(context.Background(), Scope{MerchantID: merchantA})
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestRepositoryOrdersByDateThenID(t *testing.T) {
	db := setupTransactionsTestDB(t)
	repo := NewRepository(db)

	merchantID := uuid.New()
	uploadID := uuid.New()
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	insertRow(t, repo, merchantID, uploadID, "Later", base.AddDate(0, 0, 5))
	insertRow(t, repo, merchantID, uploadID, "Earlier", base)

	rows, err := repo.ListByScope(context.Background(), Scope{MerchantID: merchantID})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Earlier", rows[0].CustomerID)
	assert.Equal(t, "Later", rows[1].CustomerID)
}

func TestRepositoryUploads(t *testing.T) {
	db := setupTransactionsTestDB(t)
	repo := NewRepository(db)

	merchantID := uuid.New()
	first := &models.Upload{ID: uuid.New(), MerchantID: merchantID, Filename: "jan.csv", RowCount: 10, CreatedAt: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)}
	second := &models.Upload{ID: uuid.New(), MerchantID: merchantID, Filename: "feb.csv", RowCount: 12, CreatedAt: time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, repo.CreateUpload(context.Background(), first))
	require.NoError(t, repo.CreateUpload(context.Background(), second))

	uploads, err := repo.ListUploads(context.Background(), merchantID)
	require.NoError(t, err)
	require.Len(t, uploads, 2)
	assert.Equal(t, "feb.csv", uploads[0].Filename)

	got, err := repo.GetUpload(context.Background(), merchantID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "jan.csv", got.Filename)

	_, err = repo.GetUpload(context.Background(), uuid.New(), first.ID)
	assert.Error(t, err)
}
