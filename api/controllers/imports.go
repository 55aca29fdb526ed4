package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/lucasrivera/shoppulse-backend/api/responses"
	"github.com/lucasrivera/shoppulse-backend/internal/insights"
	"github.com/lucasrivera/shoppulse-backend/internal/transactions"
	pkgerrors "github.com/lucasrivera/shoppulse-backend/pkg/errors"
	"github.com/lucasrivera/shoppulse-backend/pkg/logger"
)

// maxImportBody bounds a synchronous import request. Larger datasets go
// through the pub/sub worker.
const maxImportBody = 16 << 20

type importRequest struct {
	UploadID string                   `json:"upload_id"`
	Filename string                   `json:"filename"`
	Rows     []transactions.ImportRow `json:"rows"`
}

// ImportTransactions ingests a dataset synchronously and invalidates the
// affected snapshots.
func ImportTransactions(txs transactions.Service, service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		scope, err := scopeFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var req importRequest
		decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxImportBody))
		if err := decoder.Decode(&req); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid import payload"))
			return
		}

		uploadID := uuid.New()
		if req.UploadID != "" {
			uploadID, err = uuid.Parse(req.UploadID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "upload id must be a uuid").WithDetails(map[string]any{"field": "upload_id"}))
				return
			}
		}

		count, err := txs.ImportBatch(ctx, transactions.ImportBatchInput{
			MerchantID: scope.MerchantID,
			UploadID:   uploadID,
			Filename:   req.Filename,
			Rows:       req.Rows,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		for _, stale := range []transactions.Scope{
			{MerchantID: scope.MerchantID},
			{MerchantID: scope.MerchantID, UploadID: uploadID},
		} {
			if err := service.Invalidate(ctx, stale); err != nil {
				logg.Warn(logg.WithField(ctx, "merchant_id", scope.MerchantID.String()), "snapshot invalidation failed")
			}
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"upload_id":     uploadID.String(),
			"rows_imported": count,
		})
	}
}

type uploadView struct {
	UploadID  string    `json:"upload_id"`
	Filename  string    `json:"filename"`
	RowCount  int       `json:"row_count"`
	CreatedAt time.Time `json:"created_at"`
}

func ListUploads(txs transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		scope, err := scopeFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		uploads, err := txs.ListUploads(ctx, scope.MerchantID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		views := make([]uploadView, 0, len(uploads))
		for _, upload := range uploads {
			views = append(views, uploadView{
				UploadID:  upload.ID.String(),
				Filename:  upload.Filename,
				RowCount:  upload.RowCount,
				CreatedAt: upload.CreatedAt,
			})
		}
		responses.WriteSuccess(w, map[string]any{"uploads": views})
	}
}
