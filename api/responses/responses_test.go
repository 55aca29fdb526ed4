package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/lucasrivera/shoppulse-backend/pkg/errors"
	"github.com/lucasrivera/shoppulse-backend/pkg/logger"
	"github.com/lucasrivera/shoppulse-backend/pkg/types"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test"})
}

func TestWriteSuccessWrapsData(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteSuccess(resp, map[string]string{"status": "ok"})

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type %q", got)
	}

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if envelope.Data["status"] != "ok" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func decodeError(t *testing.T, body []byte) types.APIError {
	t.Helper()
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decoding error envelope: %v", err)
	}
	return envelope.Error
}

func TestWriteErrorExposesClientMessages(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "validation",
			err:     pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive"),
			status:  http.StatusBadRequest,
			code:    "VALIDATION_ERROR",
			message: "quantity must be positive",
		},
		{
			name:    "insufficient data",
			err:     pkgerrors.New(pkgerrors.CodeInsufficientData, "no transactions found"),
			status:  http.StatusUnprocessableEntity,
			code:    "INSUFFICIENT_DATA",
			message: "no transactions found",
		},
		{
			name:    "cluster count",
			err:     pkgerrors.New(pkgerrors.CodeInvalidClusterCount, "cluster count must be at least 1, got 0"),
			status:  http.StatusBadRequest,
			code:    "INVALID_CLUSTER_COUNT",
			message: "cluster count must be at least 1, got 0",
		},
		{
			name:   "not found",
			err:    pkgerrors.New(pkgerrors.CodeNotFound, "segment not found"),
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			WriteError(context.Background(), testLogger(), resp, tc.err)
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.Code)
			}
			apiErr := decodeError(t, resp.Body.Bytes())
			if apiErr.Code != tc.code {
				t.Fatalf("expected code %q, got %q", tc.code, apiErr.Code)
			}
			if tc.message != "" && apiErr.Message != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, apiErr.Message)
			}
		})
	}
}

func TestWriteErrorMasksInternalDetails(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteError(context.Background(), testLogger(), resp,
		pkgerrors.Wrap(pkgerrors.CodeInternal, errors.New("pq: relation \"transactions\" does not exist"), "listing transactions"))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	apiErr := decodeError(t, resp.Body.Bytes())
	if apiErr.Message == "" {
		t.Fatal("expected a public message")
	}
	if apiErr.Message != pkgerrors.MetadataFor(pkgerrors.CodeInternal).PublicMessage {
		t.Fatalf("internal message leaked: %q", apiErr.Message)
	}
}

func TestWriteErrorIncludesValidationDetails(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteError(context.Background(), testLogger(), resp,
		pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": "top_n"}))

	apiErr := decodeError(t, resp.Body.Bytes())
	details, ok := apiErr.Details.(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", apiErr.Details)
	}
	if details["field"] != "top_n" {
		t.Fatalf("unexpected details %+v", details)
	}
}

func TestWriteErrorWrapsUntypedErrors(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteError(context.Background(), testLogger(), resp, errors.New("boom"))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for untyped error, got %d", resp.Code)
	}
	apiErr := decodeError(t, resp.Body.Bytes())
	if apiErr.Code != string(pkgerrors.CodeInternal) {
		t.Fatalf("expected internal code, got %q", apiErr.Code)
	}
}
