package basket

import (
	"strconv"
	"strings"
)

// arena accumulates frequent item sets level by level. Item sets are sorted
// index slices; the support map is keyed by their canonical encoding.
type arena struct {
	levels  [][][]int
	support map[string]float64
}

func itemsetKey(itemset []int) string {
	var sb strings.Builder
	for i, idx := range itemset {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(idx))
	}
	return sb.String()
}

// mineFrequent runs the level-wise Apriori search over the matrix, keeping
// every item set whose support clears the threshold, up to maxLen items.
func mineFrequent(m *matrix, minSupport float64, maxLen int) *arena {
	a := &arena{support: map[string]float64{}}
	if len(m.customers) == 0 || len(m.items) == 0 {
		return a
	}

	var level [][]int
	for i := range m.items {
		itemset := []int{i}
		if sup := m.support(itemset); sup >= minSupport {
			level = append(level, itemset)
			a.support[itemsetKey(itemset)] = sup
		}
	}

	for len(level) > 0 {
		a.levels = append(a.levels, level)
		if len(a.levels) >= maxLen {
			break
		}

		candidates := joinLevel(level)
		var next [][]int
		for _, candidate := range candidates {
			if !a.allSubsetsFrequent(candidate) {
				continue
			}
			if sup := m.support(candidate); sup >= minSupport {
				next = append(next, candidate)
				a.support[itemsetKey(candidate)] = sup
			}
		}
		level = next
	}
	return a
}

// joinLevel generates size k+1 candidates from size k survivors by merging
// pairs that share their first k-1 items.
func joinLevel(level [][]int) [][]int {
	var out [][]int
	for i := 0; i < len(level); i++ {
		for j := i + 1; j < len(level); j++ {
			a, b := level[i], level[j]
			k := len(a)
			if !samePrefix(a, b, k-1) {
				continue
			}
			candidate := make([]int, k+1)
			copy(candidate, a)
			if a[k-1] < b[k-1] {
				candidate[k] = b[k-1]
			} else {
				candidate[k-1] = b[k-1]
				candidate[k] = a[k-1]
			}
			out = append(out, candidate)
		}
	}
	return out
}

func samePrefix(a, b []int, n int) bool {
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// allSubsetsFrequent prunes candidates with any infrequent k-1 subset.
func (a *arena) allSubsetsFrequent(candidate []int) bool {
	if len(candidate) <= 2 {
		return true
	}
	subset := make([]int, len(candidate)-1)
	for skip := range candidate {
		pos := 0
		for i, v := range candidate {
			if i == skip {
				continue
			}
			subset[pos] = v
			pos++
		}
		if _, ok := a.support[itemsetKey(subset)]; !ok {
			return false
		}
	}
	return true
}

// itemSets materializes the arena as named item sets.
func (a *arena) itemSets(items []string) []ItemSet {
	var out []ItemSet
	for _, level := range a.levels {
		for _, itemset := range level {
			names := make([]string, len(itemset))
			for i, idx := range itemset {
				names[i] = items[idx]
			}
			out = append(out, ItemSet{
				Items:   names,
				Support: a.support[itemsetKey(itemset)],
			})
		}
	}
	return out
}
