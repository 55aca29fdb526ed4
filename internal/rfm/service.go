package rfm

import (
	"context"
	"sort"
	"time"

	"github.com/lucasrivera/shoppulse-backend/internal/transactions"
	pkgerrors "github.com/lucasrivera/shoppulse-backend/pkg/errors"
)

// Customers below this count cannot form five quantile buckets; every score
// collapses to the midpoint instead of failing.
const minCustomersForQuintiles = 5

const midScore = 3

// Service computes per-customer RFM profiles from raw transactions.
type Service interface {
	Compute(ctx context.Context, txs []transactions.Transaction, now time.Time) ([]Record, error)
}

type service struct{}

// NewService constructs the RFM extractor.
func NewService() Service {
	return &service{}
}

// Compute groups transactions by customer and scores each metric into
// quintiles. Customer order in the result follows first appearance in the
// input, which also breaks ranking ties deterministically.
func (s *service) Compute(ctx context.Context, txs []transactions.Transaction, now time.Time) ([]Record, error) {
	if len(txs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientData, "no transactions to score")
	}

	order := make([]string, 0)
	byCustomer := make(map[string]*Record)
	lastDate := make(map[string]time.Time)

	for _, tx := range txs {
		rec, ok := byCustomer[tx.CustomerID]
		if !ok {
			rec = &Record{CustomerID: tx.CustomerID}
			byCustomer[tx.CustomerID] = rec
			order = append(order, tx.CustomerID)
		}
		rec.Frequency++
		rec.Monetary += tx.Revenue
		if tx.Date.After(lastDate[tx.CustomerID]) {
			lastDate[tx.CustomerID] = tx.Date
		}
	}

	records := make([]Record, 0, len(order))
	for _, id := range order {
		rec := byCustomer[id]
		days := int(now.Sub(lastDate[id]).Hours() / 24)
		if days < 0 {
			days = 0
		}
		rec.Recency = days
		records = append(records, *rec)
	}

	scoreQuintiles(records)

	for i := range records {
		records[i].RFMScore = records[i].RScore*100 + records[i].FScore*10 + records[i].MScore
	}
	return records, nil
}

// scoreQuintiles assigns 1..5 bucket scores per metric. Recency is inverted
// so that the most recent customers score 5.
func scoreQuintiles(records []Record) {
	n := len(records)
	if n < minCustomersForQuintiles {
		for i := range records {
			records[i].RScore = midScore
			records[i].FScore = midScore
			records[i].MScore = midScore
		}
		return
	}

	rankAndBucket(records, func(r Record) float64 { return float64(r.Recency) }, func(r *Record, bucket int) {
		r.RScore = 6 - bucket
	})
	rankAndBucket(records, func(r Record) float64 { return float64(r.Frequency) }, func(r *Record, bucket int) {
		r.FScore = bucket
	})
	rankAndBucket(records, func(r Record) float64 { return r.Monetary }, func(r *Record, bucket int) {
		r.MScore = bucket
	})
}

// rankAndBucket sorts customers by the metric ascending (stable, so ties keep
// input order) and maps the ordinal rank into five equal-sized buckets.
func rankAndBucket(records []Record, metric func(Record) float64, assign func(*Record, int)) {
	n := len(records)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return metric(records[idx[a]]) < metric(records[idx[b]])
	})

	for pos, i := range idx {
		bucket := (pos*5)/n + 1
		assign(&records[i], bucket)
	}
}
