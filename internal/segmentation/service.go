package segmentation

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/lucasrivera/shoppulse-backend/internal/rfm"
	pkgerrors "github.com/lucasrivera/shoppulse-backend/pkg/errors"
	"github.com/lucasrivera/shoppulse-backend/pkg/pagination"
)

// Service clusters RFM records into named segments.
type Service interface {
	Segment(ctx context.Context, records []rfm.Record, k int) ([]SegmentedRecord, map[int]string, error)
	Summary(segmented []SegmentedRecord, names map[int]string) []Segment
	Customers(segmented []SegmentedRecord, segmentID int, params pagination.Params) ([]SegmentCustomer, int)
	Visualization(segmented []SegmentedRecord, names map[int]string) VisualizationData
}

type service struct {
	clusterer Clusterer
	seed      int64
}

// NewService constructs the segmentation engine. A nil clusterer falls back
// to the built-in k-means.
func NewService(clusterer Clusterer, seed int64) Service {
	if clusterer == nil {
		clusterer = NewKMeans()
	}
	return &service{clusterer: clusterer, seed: seed}
}

// Segment standardizes raw recency/frequency/monetary values, clusters them
// and names each cluster from its profile.
func (s *service) Segment(ctx context.Context, records []rfm.Record, k int) ([]SegmentedRecord, map[int]string, error) {
	if k < 1 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeInvalidClusterCount,
			fmt.Sprintf("cluster count must be at least 1, got %d", k))
	}
	if k > len(records) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeInvalidClusterCount,
			fmt.Sprintf("cluster count %d exceeds %d distinct customers", k, len(records)))
	}

	features := make([][]float64, len(records))
	for i, rec := range records {
		features[i] = []float64{float64(rec.Recency), float64(rec.Frequency), rec.Monetary}
	}
	imputeNonFinite(features)
	standardize(features)

	assignment, err := s.clusterer.Assign(features, k, s.seed)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clustering rfm features")
	}

	segmented := make([]SegmentedRecord, len(records))
	for i, rec := range records {
		segmented[i] = SegmentedRecord{Record: rec, SegmentID: assignment[i]}
	}

	return segmented, profileSegments(segmented), nil
}

// profileSegments computes cluster means, compares them against the median
// of cluster means per dimension and names each cluster.
func profileSegments(segmented []SegmentedRecord) map[int]string {
	type stats struct {
		recency, frequency, monetary float64
		count                        int
	}
	byID := map[int]*stats{}
	for _, rec := range segmented {
		st, ok := byID[rec.SegmentID]
		if !ok {
			st = &stats{}
			byID[rec.SegmentID] = st
		}
		st.recency += float64(rec.Recency)
		st.frequency += float64(rec.Frequency)
		st.monetary += rec.Monetary
		st.count++
	}

	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	recencies := make([]float64, 0, len(ids))
	frequencies := make([]float64, 0, len(ids))
	monetaries := make([]float64, 0, len(ids))
	for _, id := range ids {
		st := byID[id]
		n := float64(st.count)
		st.recency /= n
		st.frequency /= n
		st.monetary /= n
		recencies = append(recencies, st.recency)
		frequencies = append(frequencies, st.frequency)
		monetaries = append(monetaries, st.monetary)
	}

	medRecency := median(recencies)
	medFrequency := median(frequencies)
	medMonetary := median(monetaries)

	names := make(map[int]string, len(ids))
	for _, id := range ids {
		st := byID[id]
		profile := clusterProfile{
			recent:     st.recency < medRecency,
			frequent:   st.frequency > medFrequency,
			highValue:  st.monetary > medMonetary,
			avgRecency: st.recency,
		}
		names[id] = nameForProfile(profile, id)
	}
	return names
}

// Summary aggregates each named segment and orders the result by total
// revenue descending.
func (s *service) Summary(segmented []SegmentedRecord, names map[int]string) []Segment {
	if len(segmented) == 0 {
		return []Segment{}
	}

	members := map[int][]SegmentedRecord{}
	for _, rec := range segmented {
		members[rec.SegmentID] = append(members[rec.SegmentID], rec)
	}

	ids := make([]int, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	total := float64(len(segmented))
	out := make([]Segment, 0, len(ids))
	for _, id := range ids {
		rows := members[id]
		n := float64(len(rows))

		var sumRecency, sumFrequency, sumMonetary, sumRFM float64
		for _, rec := range rows {
			sumRecency += float64(rec.Recency)
			sumFrequency += float64(rec.Frequency)
			sumMonetary += rec.Monetary
			sumRFM += float64(rec.RFMScore)
		}

		avgFrequency := sumFrequency / n
		avgMonetary := sumMonetary / n
		avgOrderValue := 0.0
		if avgFrequency > 0 {
			avgOrderValue = avgMonetary / avgFrequency
		}

		name, ok := names[id]
		if !ok {
			name = fmt.Sprintf("Segment %d", id)
		}

		out = append(out, Segment{
			SegmentID:     id,
			SegmentName:   name,
			CustomerCount: len(rows),
			TotalRevenue:  sumMonetary,
			AvgOrderValue: avgOrderValue,
			Characteristics: Characteristics{
				AvgRecency:   sumRecency / n,
				AvgFrequency: avgFrequency,
				AvgMonetary:  avgMonetary,
				AvgRFMScore:  sumRFM / n,
			},
			SizePercentage: n / total * 100,
		})
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].TotalRevenue > out[b].TotalRevenue
	})
	return out
}

// Customers lists one segment's members with offset pagination.
func (s *service) Customers(segmented []SegmentedRecord, segmentID int, params pagination.Params) ([]SegmentCustomer, int) {
	var rows []SegmentedRecord
	for _, rec := range segmented {
		if rec.SegmentID == segmentID {
			rows = append(rows, rec)
		}
	}

	start, end := params.Bounds(len(rows))
	out := make([]SegmentCustomer, 0, end-start)
	for _, rec := range rows[start:end] {
		out = append(out, SegmentCustomer{
			CustomerID: rec.CustomerID,
			RFMScores: map[string]int{
				"recency":   rec.RScore,
				"frequency": rec.FScore,
				"monetary":  rec.MScore,
			},
			TotalPurchases: rec.Frequency,
			TotalSpend:     rec.Monetary,
			RFMScore:       rec.RFMScore,
		})
	}
	return out, len(rows)
}

// Visualization shapes segment summaries for the dashboard charts.
func (s *service) Visualization(segmented []SegmentedRecord, names map[int]string) VisualizationData {
	summaries := s.Summary(segmented, names)

	data := VisualizationData{
		Labels:      make([]string, 0, len(summaries)),
		Values:      make([]int, 0, len(summaries)),
		Revenues:    make([]float64, 0, len(summaries)),
		Colors:      make([]string, 0, len(summaries)),
		Percentages: make([]float64, 0, len(summaries)),
	}
	for i, summary := range summaries {
		data.Labels = append(data.Labels, summary.SegmentName)
		data.Values = append(data.Values, summary.CustomerCount)
		data.Revenues = append(data.Revenues, summary.TotalRevenue)
		data.Colors = append(data.Colors, SegmentColors[i%len(SegmentColors)])
		data.Percentages = append(data.Percentages, summary.SizePercentage)
	}
	return data
}

// imputeNonFinite replaces NaN and infinite values with the column median of
// the finite values.
func imputeNonFinite(features [][]float64) {
	if len(features) == 0 {
		return
	}
	dim := len(features[0])
	for d := 0; d < dim; d++ {
		finite := make([]float64, 0, len(features))
		for _, row := range features {
			if !math.IsNaN(row[d]) && !math.IsInf(row[d], 0) {
				finite = append(finite, row[d])
			}
		}
		if len(finite) == len(features) {
			continue
		}
		med := median(finite)
		for _, row := range features {
			if math.IsNaN(row[d]) || math.IsInf(row[d], 0) {
				row[d] = med
			}
		}
	}
}

// standardize scales each column to zero mean and unit variance in place.
// Zero-variance columns collapse to all zeros.
func standardize(features [][]float64) {
	if len(features) == 0 {
		return
	}
	n := float64(len(features))
	dim := len(features[0])

	for d := 0; d < dim; d++ {
		var sum float64
		for _, row := range features {
			sum += row[d]
		}
		mean := sum / n

		var variance float64
		for _, row := range features {
			diff := row[d] - mean
			variance += diff * diff
		}
		std := math.Sqrt(variance / n)

		for _, row := range features {
			if std == 0 {
				row[d] = 0
				continue
			}
			row[d] = (row[d] - mean) / std
		}
	}
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
