package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lucasrivera/shoppulse-backend/internal/sentiment"
)

func TestSentimentOverviewServesSnapshot(t *testing.T) {
	stub := &stubInsights{snapshot: testSnapshot()}
	handler := SentimentOverview(stub, testLogger())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/sentiment/overview", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data struct {
			Overview sentiment.Overview `json:"overview"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if envelope.Data.Overview.OverallScore != 72 {
		t.Fatalf("expected overall score 72, got %v", envelope.Data.Overview.OverallScore)
	}
	if envelope.Data.Overview.TotalReviews != 40 {
		t.Fatalf("expected 40 reviews, got %d", envelope.Data.Overview.TotalReviews)
	}
}

func decodeProducts(t *testing.T, body []byte) []sentiment.ProductSentiment {
	t.Helper()
	var envelope struct {
		Data struct {
			Products []sentiment.ProductSentiment `json:"products"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return envelope.Data.Products
}

func TestSentimentByProductDefaultsToReviewCount(t *testing.T) {
	stub := &stubInsights{snapshot: testSnapshot()}
	handler := SentimentByProduct(stub, testLogger())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/sentiment/by-product", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}

	products := decodeProducts(t, resp.Body.Bytes())
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}
	if products[0].ProductName != "Laptop" {
		t.Fatalf("expected review-count order with Laptop first, got %q", products[0].ProductName)
	}
}

func TestSentimentByProductSortsByScore(t *testing.T) {
	stub := &stubInsights{snapshot: testSnapshot()}
	handler := SentimentByProduct(stub, testLogger())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/sentiment/by-product?sort_by=sentiment_score&top_n=2", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}

	products := decodeProducts(t, resp.Body.Bytes())
	if len(products) != 2 {
		t.Fatalf("expected top_n to cap at 2, got %d", len(products))
	}
	if products[0].ProductName != "Laptop Bag" {
		t.Fatalf("expected highest score first, got %q", products[0].ProductName)
	}
}

func TestSentimentByProductRejectsBadParams(t *testing.T) {
	stub := &stubInsights{snapshot: testSnapshot()}
	handler := SentimentByProduct(stub, testLogger())

	for _, query := range []string{"top_n=0", "top_n=101", "sort_by=alphabetical"} {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/sentiment/by-product?"+query, nil))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", query, resp.Code)
		}
	}
	if stub.snapshots != 0 {
		t.Fatal("invalid params should not read the snapshot")
	}
}
