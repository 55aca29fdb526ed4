package transactions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lucasrivera/shoppulse-backend/pkg/db"
	"github.com/lucasrivera/shoppulse-backend/pkg/db/models"
	pkgerrors "github.com/lucasrivera/shoppulse-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// Date layouts accepted on import, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
}

const defaultCategory = "Uncategorized"

// Service exposes the transaction store to the behavior pipeline and the
// import worker.
type Service interface {
	Fetch(ctx context.Context, scope Scope) ([]Transaction, error)
	Count(ctx context.Context, scope Scope) (int64, error)
	ImportBatch(ctx context.Context, input ImportBatchInput) (int, error)
	ListUploads(ctx context.Context, merchantID uuid.UUID) ([]models.Upload, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	validate *validator.Validate
}

// NewService constructs the transaction service.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("repo is required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client is required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		validate: validator.New(),
	}, nil
}

// Fetch returns the scoped rows as pipeline records. An empty scope is not an
// error here; each analysis decides what "no data" means for it.
func (s *service) Fetch(ctx context.Context, scope Scope) ([]Transaction, error) {
	if scope.MerchantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchant id is required")
	}

	rows, err := s.repo.ListByScope(ctx, scope)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing transactions")
	}

	out := make([]Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromModel(row))
	}
	return out, nil
}

func (s *service) Count(ctx context.Context, scope Scope) (int64, error) {
	if scope.MerchantID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "merchant id is required")
	}
	count, err := s.repo.CountByScope(ctx, scope)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting transactions")
	}
	return count, nil
}

// ImportBatch validates and persists one upload's rows atomically. It returns
// the number of rows written.
func (s *service) ImportBatch(ctx context.Context, input ImportBatchInput) (int, error) {
	if err := s.validate.Struct(input); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid import batch").
			WithDetails(err.Error())
	}

	rows, err := buildRows(input)
	if err != nil {
		return 0, err
	}

	upload := &models.Upload{
		ID:         input.UploadID,
		MerchantID: input.MerchantID,
		Filename:   input.Filename,
		RowCount:   len(rows),
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.CreateUpload(ctx, upload); err != nil {
			return fmt.Errorf("creating upload: %w", err)
		}
		if err := txRepo.CreateBatch(ctx, rows); err != nil {
			return fmt.Errorf("creating rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persisting import batch")
	}

	return len(rows), nil
}

func (s *service) ListUploads(ctx context.Context, merchantID uuid.UUID) ([]models.Upload, error) {
	if merchantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchant id is required")
	}
	uploads, err := s.repo.ListUploads(ctx, merchantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing uploads")
	}
	return uploads, nil
}

func buildRows(input ImportBatchInput) ([]models.Transaction, error) {
	rows := make([]models.Transaction, 0, len(input.Rows))
	var rowErrs error
	for i, row := range input.Rows {
		date, err := parseDate(row.Date)
		if err != nil {
			rowErrs = multierr.Append(rowErrs, fmt.Errorf("row %d: invalid date: %w", i, err))
			continue
		}

		category := strings.TrimSpace(row.Category)
		if category == "" {
			category = defaultCategory
		}

		unitPrice := decimal.NewFromFloat(row.UnitPrice)
		revenue := unitPrice.Mul(decimal.NewFromInt(int64(row.Quantity)))

		rows = append(rows, models.Transaction{
			ID:              uuid.New(),
			MerchantID:      input.MerchantID,
			UploadID:        input.UploadID,
			CustomerID:      strings.TrimSpace(row.CustomerID),
			ProductName:     strings.TrimSpace(row.ProductName),
			Category:        category,
			Date:            date,
			Quantity:        row.Quantity,
			UnitPrice:       unitPrice,
			Revenue:         revenue,
			Rating:          row.Rating,
			Age:             row.Age,
			Gender:          row.Gender,
			Location:        row.Location,
			PaymentMethod:   row.PaymentMethod,
			ShippingType:    row.ShippingType,
			DiscountApplied: row.DiscountApplied,
		})
	}
	if rowErrs != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, rowErrs, "rejected rows").
			WithDetails(rowErrs.Error())
	}
	return rows, nil
}

func parseDate(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

func fromModel(row models.Transaction) Transaction {
	unitPrice, _ := row.UnitPrice.Float64()
	revenue, _ := row.Revenue.Float64()
	return Transaction{
		CustomerID:      row.CustomerID,
		ProductName:     row.ProductName,
		Category:        row.Category,
		Date:            row.Date,
		Quantity:        row.Quantity,
		UnitPrice:       unitPrice,
		Revenue:         revenue,
		Rating:          row.Rating,
		Age:             row.Age,
		Gender:          row.Gender,
		Location:        row.Location,
		PaymentMethod:   row.PaymentMethod,
		ShippingType:    row.ShippingType,
		DiscountApplied: row.DiscountApplied,
	}
}
