package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lucasrivera/shoppulse-backend/pkg/db/models"
	pkgerrors "github.com/lucasrivera/shoppulse-backend/pkg/errors"
)

const importBody = `{
	"upload_id": "7c9e6679-7425-40de-944b-e07fc1f90ae7",
	"filename": "orders.csv",
	"rows": [
		{"customer_id": "C1", "product_name": "Laptop", "category": "Electronics", "date": "2026-01-05", "quantity": 1, "unit_price": 1200, "rating": 5}
	]
}`

func TestImportTransactions(t *testing.T) {
	txs := &stubTransactions{count: 1}
	stub := &stubInsights{snapshot: testSnapshot()}
	handler := ImportTransactions(txs, stub, testLogger())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/transactions/import", strings.NewReader(importBody)))
	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}

	if txs.imported.MerchantID != testMerchantID {
		t.Fatalf("merchant should come from the token context, got %s", txs.imported.MerchantID)
	}
	if txs.imported.UploadID.String() != "7c9e6679-7425-40de-944b-e07fc1f90ae7" {
		t.Fatalf("unexpected upload id %s", txs.imported.UploadID)
	}
	if txs.imported.Filename != "orders.csv" {
		t.Fatalf("unexpected filename %q", txs.imported.Filename)
	}
	if len(stub.invalidated) != 2 {
		t.Fatalf("expected merchant-wide and upload snapshots invalidated, got %d", len(stub.invalidated))
	}

	var envelope struct {
		Data struct {
			UploadID     string `json:"upload_id"`
			RowsImported int    `json:"rows_imported"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if envelope.Data.RowsImported != 1 {
		t.Fatalf("expected 1 row imported, got %d", envelope.Data.RowsImported)
	}
}

func TestImportTransactionsGeneratesUploadID(t *testing.T) {
	txs := &stubTransactions{count: 1}
	stub := &stubInsights{snapshot: testSnapshot()}
	handler := ImportTransactions(txs, stub, testLogger())

	body := `{"filename": "orders.csv", "rows": [{"customer_id": "C1", "product_name": "Laptop", "date": "2026-01-05", "quantity": 1, "unit_price": 1200, "rating": 5}]}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/transactions/import", strings.NewReader(body)))
	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if txs.imported.UploadID == uuid.Nil {
		t.Fatal("expected a generated upload id")
	}
}

func TestImportTransactionsRejectsMalformedJSON(t *testing.T) {
	txs := &stubTransactions{}
	handler := ImportTransactions(txs, &stubInsights{}, testLogger())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/transactions/import", strings.NewReader("{not json")))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", resp.Code)
	}
	if txs.imported.MerchantID != uuid.Nil {
		t.Fatal("import should not run on malformed body")
	}
}

func TestImportTransactionsSurfacesValidationError(t *testing.T) {
	txs := &stubTransactions{err: pkgerrors.New(pkgerrors.CodeValidation, "row 1: quantity must be positive")}
	stub := &stubInsights{}
	handler := ImportTransactions(txs, stub, testLogger())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/transactions/import", strings.NewReader(importBody)))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for rejected rows, got %d", resp.Code)
	}
	if len(stub.invalidated) != 0 {
		t.Fatal("failed import should not invalidate snapshots")
	}
}

func TestListUploads(t *testing.T) {
	txs := &stubTransactions{uploads: []models.Upload{
		{ID: uuid.New(), MerchantID: testMerchantID, Filename: "jan.csv", RowCount: 120, CreatedAt: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), MerchantID: testMerchantID, Filename: "feb.csv", RowCount: 95, CreatedAt: time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)},
	}}
	handler := ListUploads(txs, testLogger())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/uploads", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data struct {
			Uploads []struct {
				UploadID string `json:"upload_id"`
				Filename string `json:"filename"`
				RowCount int    `json:"row_count"`
			} `json:"uploads"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(envelope.Data.Uploads) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(envelope.Data.Uploads))
	}
	if envelope.Data.Uploads[0].Filename != "jan.csv" || envelope.Data.Uploads[0].RowCount != 120 {
		t.Fatalf("unexpected first upload %+v", envelope.Data.Uploads[0])
	}
}
