package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lucasrivera/shoppulse-backend/internal/recommendations"
)

type recommendationsEnvelope struct {
	Data struct {
		Recommendations []recommendations.Recommendation `json:"recommendations"`
		Summary         recommendations.Summary          `json:"summary"`
		Narrative       string                           `json:"narrative"`
	} `json:"data"`
}

func TestRecommendationsServesRankedList(t *testing.T) {
	stub := &stubInsights{snapshot: testSnapshot()}
	handler := Recommendations(stub, recommendations.NewService(nil, testLogger()), testLogger())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/recommendations", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}

	var envelope recommendationsEnvelope
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(envelope.Data.Recommendations) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(envelope.Data.Recommendations))
	}
	if envelope.Data.Summary.Total != 3 {
		t.Fatalf("expected summary total 3, got %d", envelope.Data.Summary.Total)
	}
	if envelope.Data.Narrative == "" {
		t.Fatal("expected narrative in response")
	}
}

func TestRecommendationsFiltersByCategoryAndPriority(t *testing.T) {
	stub := &stubInsights{snapshot: testSnapshot()}
	handler := Recommendations(stub, recommendations.NewService(nil, testLogger()), testLogger())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/recommendations?category=Marketing&priority=High", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}

	var envelope recommendationsEnvelope
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(envelope.Data.Recommendations) != 1 {
		t.Fatalf("expected 1 filtered recommendation, got %d", len(envelope.Data.Recommendations))
	}
	if envelope.Data.Recommendations[0].ID != "MKT-001" {
		t.Fatalf("expected MKT-001, got %q", envelope.Data.Recommendations[0].ID)
	}
	if envelope.Data.Summary.Total != 1 {
		t.Fatalf("summary should reflect the filtered list, got total %d", envelope.Data.Summary.Total)
	}
}

func TestRecommendationsRejectsUnknownCategory(t *testing.T) {
	stub := &stubInsights{snapshot: testSnapshot()}
	handler := Recommendations(stub, recommendations.NewService(nil, testLogger()), testLogger())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/recommendations?category=Finance", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown category, got %d", resp.Code)
	}
}
