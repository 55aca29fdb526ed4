package rfm

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lucasrivera/shoppulse-backend/internal/transactions"
	pkgerrors "github.com/lucasrivera/shoppulse-backend/pkg/errors"
)

var testNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func txn(customer string, daysAgo int, revenue float64) transactions.Transaction {
	return transactions.Transaction{
		CustomerID:  customer,
		ProductName: "Widget",
		Category:    "General",
		Date:        testNow.AddDate(0, 0, -daysAgo),
		Quantity:    1,
		Revenue:     revenue,
	}
}

func TestComputeEmptyInput(t *testing.T) {
	_, err := NewService().Compute(context.Background(), nil, testNow)
	if err == nil {
		t.Fatal("expected error for empty input")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInsufficientData {
		t.Fatalf("expected insufficient data code, got %v", err)
	}
}

func TestComputeAggregatesPerCustomer(t *testing.T) {
	txs := []transactions.Transaction{
		txn("C1", 10, 100),
		txn("C1", 5, 50),
		txn("C2", 30, 200),
	}

	records, err := NewService().Compute(context.Background(), txs, testNow)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	c1 := records[0]
	if c1.CustomerID != "C1" {
		t.Fatalf("expected C1 first (input order), got %s", c1.CustomerID)
	}
	if c1.Recency != 5 {
		t.Fatalf("expected recency 5 (most recent purchase), got %d", c1.Recency)
	}
	if c1.Frequency != 2 {
		t.Fatalf("expected frequency 2, got %d", c1.Frequency)
	}
	if c1.Monetary != 150 {
		t.Fatalf("expected monetary 150, got %v", c1.Monetary)
	}
}

func TestComputeCollapsesScoresBelowFiveCustomers(t *testing.T) {
	txs := []transactions.Transaction{
		txn("C1", 1, 10),
		txn("C2", 50, 500),
		txn("C3", 200, 5000),
	}

	records, err := NewService().Compute(context.Background(), txs, testNow)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	for _, rec := range records {
		if rec.RScore != 3 || rec.FScore != 3 || rec.MScore != 3 {
			t.Fatalf("expected collapsed mid scores for %s, got %d/%d/%d",
				rec.CustomerID, rec.RScore, rec.FScore, rec.MScore)
		}
		if rec.RFMScore != 333 {
			t.Fatalf("expected rfm score 333, got %d", rec.RFMScore)
		}
	}
}

func TestComputeQuintileBounds(t *testing.T) {
	var txs []transactions.Transaction
	for i := 0; i < 23; i++ {
		id := fmt.Sprintf("C%02d", i)
		txs = append(txs, txn(id, i*3, float64(10+i*17)))
		if i%2 == 0 {
			txs = append(txs, txn(id, i*3+1, float64(5+i)))
		}
	}

	records, err := NewService().Compute(context.Background(), txs, testNow)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(records) != 23 {
		t.Fatalf("expected 23 records, got %d", len(records))
	}

	for _, rec := range records {
		for name, score := range map[string]int{"r": rec.RScore, "f": rec.FScore, "m": rec.MScore} {
			if score < 1 || score > 5 {
				t.Fatalf("%s score out of [1,5] for %s: %d", name, rec.CustomerID, score)
			}
		}
		if rec.RFMScore < 111 || rec.RFMScore > 555 {
			t.Fatalf("rfm score out of [111,555] for %s: %d", rec.CustomerID, rec.RFMScore)
		}
	}
}

func TestComputeRecencyInverted(t *testing.T) {
	var txs []transactions.Transaction
	for i := 0; i < 10; i++ {
		txs = append(txs, txn(fmt.Sprintf("C%d", i), i*20+1, 100))
	}

	records, err := NewService().Compute(context.Background(), txs, testNow)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	// C0 bought yesterday, C9 half a year ago.
	if records[0].RScore != 5 {
		t.Fatalf("expected most recent customer to score 5, got %d", records[0].RScore)
	}
	if records[9].RScore != 1 {
		t.Fatalf("expected least recent customer to score 1, got %d", records[9].RScore)
	}
}

func TestComputeFutureDateClampsRecency(t *testing.T) {
	txs := []transactions.Transaction{txn("C1", -3, 10)}

	records, err := NewService().Compute(context.Background(), txs, testNow)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if records[0].Recency != 0 {
		t.Fatalf("expected clamped recency 0, got %d", records[0].Recency)
	}
}

func TestComputeDeterministic(t *testing.T) {
	var txs []transactions.Transaction
	for i := 0; i < 12; i++ {
		// Identical metrics everywhere forces tie-breaking by input order.
		txs = append(txs, txn(fmt.Sprintf("C%d", i), 10, 100))
	}

	first, err := NewService().Compute(context.Background(), txs, testNow)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	second, err := NewService().Compute(context.Background(), txs, testNow)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("record %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
