package segmentation

import (
	"fmt"
	"math"
	"math/rand"
)

// Clusterer assigns each point to one of k clusters. Implementations must be
// deterministic for a fixed seed so reruns over identical data agree.
type Clusterer interface {
	Assign(points [][]float64, k int, seed int64) ([]int, error)
}

// KMeans is a k-means++ clusterer with multiple restarts, keeping the run
// with the lowest inertia.
type KMeans struct {
	Restarts int
	MaxIters int
}

// NewKMeans returns a clusterer with the standard restart and iteration caps.
func NewKMeans() *KMeans {
	return &KMeans{Restarts: 10, MaxIters: 300}
}

func (km *KMeans) Assign(points [][]float64, k int, seed int64) ([]int, error) {
	n := len(points)
	if k < 1 {
		return nil, fmt.Errorf("k must be at least 1, got %d", k)
	}
	if n < k {
		return nil, fmt.Errorf("cannot form %d clusters from %d points", k, n)
	}

	rng := rand.New(rand.NewSource(seed))

	bestInertia := math.Inf(1)
	var best []int
	for r := 0; r < km.Restarts; r++ {
		centers := km.seedCenters(points, k, rng)
		assignment, inertia := km.lloyd(points, centers, k)
		if inertia < bestInertia {
			bestInertia = inertia
			best = assignment
		}
	}
	return best, nil
}

// seedCenters picks initial centers with the k-means++ strategy: each next
// center is sampled proportionally to squared distance from the nearest
// chosen center.
func (km *KMeans) seedCenters(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(points)
	centers := make([][]float64, 0, k)
	centers = append(centers, clonePoint(points[rng.Intn(n)]))

	dists := make([]float64, n)
	for len(centers) < k {
		var total float64
		for i, p := range points {
			d := math.Inf(1)
			for _, c := range centers {
				if v := sqDist(p, c); v < d {
					d = v
				}
			}
			dists[i] = d
			total += d
		}

		if total == 0 {
			// All points coincide with a center; any choice is equivalent.
			centers = append(centers, clonePoint(points[rng.Intn(n)]))
			continue
		}

		target := rng.Float64() * total
		var acc float64
		chosen := n - 1
		for i, d := range dists {
			acc += d
			if acc >= target {
				chosen = i
				break
			}
		}
		centers = append(centers, clonePoint(points[chosen]))
	}
	return centers
}

// lloyd runs assignment/update iterations until convergence or the iteration
// cap, returning the final assignment and its inertia.
func (km *KMeans) lloyd(points [][]float64, centers [][]float64, k int) ([]int, float64) {
	n := len(points)
	dim := len(points[0])
	assignment := make([]int, n)

	for iter := 0; iter < km.MaxIters; iter++ {
		changed := false
		for i, p := range points {
			best := 0
			bestDist := math.Inf(1)
			for c, center := range centers {
				if d := sqDist(p, center); d < bestDist {
					bestDist = d
					best = c
				}
			}
			if assignment[i] != best {
				assignment[i] = best
				changed = true
			}
		}
		if iter > 0 && !changed {
			break
		}

		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, p := range points {
			c := assignment[i]
			counts[c]++
			for d, v := range p {
				sums[c][d] += v
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// Re-seat an empty cluster on the point farthest from its center.
				centers[c] = clonePoint(points[farthestPoint(points, centers, assignment)])
				continue
			}
			for d := 0; d < dim; d++ {
				centers[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}

	var inertia float64
	for i, p := range points {
		inertia += sqDist(p, centers[assignment[i]])
	}
	return assignment, inertia
}

func farthestPoint(points [][]float64, centers [][]float64, assignment []int) int {
	worst := 0
	worstDist := -1.0
	for i, p := range points {
		if d := sqDist(p, centers[assignment[i]]); d > worstDist {
			worstDist = d
			worst = i
		}
	}
	return worst
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func clonePoint(p []float64) []float64 {
	out := make([]float64, len(p))
	copy(out, p)
	return out
}
