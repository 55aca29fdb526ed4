package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/lucasrivera/shoppulse-backend/api/middleware"
	"github.com/lucasrivera/shoppulse-backend/api/validators"
	"github.com/lucasrivera/shoppulse-backend/internal/transactions"
	pkgerrors "github.com/lucasrivera/shoppulse-backend/pkg/errors"
)

// scopeFromRequest resolves the analysis scope for an authenticated request:
// the merchant comes from the token context, the optional upload_id query
// parameter narrows the scope to one dataset.
func scopeFromRequest(r *http.Request) (transactions.Scope, error) {
	raw := middleware.MerchantIDFromContext(r.Context())
	if raw == "" {
		return transactions.Scope{}, pkgerrors.New(pkgerrors.CodeForbidden, "merchant context required")
	}
	merchantID, err := uuid.Parse(raw)
	if err != nil || merchantID == uuid.Nil {
		return transactions.Scope{}, pkgerrors.New(pkgerrors.CodeForbidden, "merchant context required")
	}

	uploadID, err := validators.ParseQueryUUID(r, "upload_id")
	if err != nil {
		return transactions.Scope{}, err
	}
	return transactions.Scope{MerchantID: merchantID, UploadID: uploadID}, nil
}
