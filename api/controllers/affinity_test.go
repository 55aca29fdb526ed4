package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lucasrivera/shoppulse-backend/internal/basket"
)

func TestAffinityRulesServesSnapshotByDefault(t *testing.T) {
	stub := &stubInsights{snapshot: testSnapshot()}
	handler := AffinityRules(stub, testLogger())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/affinity/rules", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if stub.snapshots != 1 || stub.previews != 0 {
		t.Fatalf("expected snapshot read, got snapshots=%d previews=%d", stub.snapshots, stub.previews)
	}
}

func TestAffinityRulesCustomThresholdsRunPreview(t *testing.T) {
	stub := &stubInsights{snapshot: testSnapshot()}
	handler := AffinityRules(stub, testLogger())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/affinity/rules?min_support=0.1&level=category", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if stub.previews != 1 || stub.snapshots != 0 {
		t.Fatalf("expected preview run, got snapshots=%d previews=%d", stub.snapshots, stub.previews)
	}
	if stub.lastParams.Basket.MinSupport != 0.1 {
		t.Fatalf("expected min support 0.1, got %v", stub.lastParams.Basket.MinSupport)
	}
	if stub.lastParams.Basket.Level != basket.LevelCategory {
		t.Fatalf("expected category level, got %q", stub.lastParams.Basket.Level)
	}
	if stub.lastParams.Basket.MinConfidence != basket.DefaultMinConfidence {
		t.Fatalf("unset thresholds should fall back to defaults, got %v", stub.lastParams.Basket.MinConfidence)
	}
}

func TestAffinityRulesRejectsBadThresholds(t *testing.T) {
	stub := &stubInsights{snapshot: testSnapshot()}
	handler := AffinityRules(stub, testLogger())

	for _, query := range []string{"min_support=0", "min_support=1.5", "min_confidence=-1", "level=brand"} {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/affinity/rules?"+query, nil))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", query, resp.Code)
		}
	}
	if stub.previews != 0 && stub.snapshots != 0 {
		t.Fatal("invalid thresholds should not trigger a run")
	}
}

func TestAffinityBundlesAndNetwork(t *testing.T) {
	snapshot := testSnapshot()
	snapshot.Bundles = []basket.Bundle{{}}
	stub := &stubInsights{snapshot: snapshot}

	resp := httptest.NewRecorder()
	AffinityBundles(stub, testLogger()).ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/affinity/bundles", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("bundles: unexpected status %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	AffinityNetwork(stub, testLogger()).ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/affinity/network", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("network: unexpected status %d", resp.Code)
	}
}
