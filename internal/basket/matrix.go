package basket

import (
	"sort"

	"github.com/lucasrivera/shoppulse-backend/internal/transactions"
)

// matrix is the customer x item binary presence matrix. Items and customers
// are sorted so every downstream iteration is deterministic.
type matrix struct {
	items     []string
	customers []string
	rows      [][]bool
}

func buildMatrix(txs []transactions.Transaction, level Level) *matrix {
	itemSet := map[string]struct{}{}
	customerSet := map[string]struct{}{}
	for _, tx := range txs {
		itemSet[itemFor(tx, level)] = struct{}{}
		customerSet[tx.CustomerID] = struct{}{}
	}

	m := &matrix{
		items:     sortedKeys(itemSet),
		customers: sortedKeys(customerSet),
	}

	itemIdx := make(map[string]int, len(m.items))
	for i, item := range m.items {
		itemIdx[item] = i
	}
	customerIdx := make(map[string]int, len(m.customers))
	for i, customer := range m.customers {
		customerIdx[customer] = i
	}

	m.rows = make([][]bool, len(m.customers))
	for i := range m.rows {
		m.rows[i] = make([]bool, len(m.items))
	}
	for _, tx := range txs {
		m.rows[customerIdx[tx.CustomerID]][itemIdx[itemFor(tx, level)]] = true
	}
	return m
}

func itemFor(tx transactions.Transaction, level Level) string {
	if level == LevelCategory {
		return tx.Category
	}
	return tx.ProductName
}

// support counts customers whose basket contains every item index.
func (m *matrix) support(itemset []int) float64 {
	if len(m.customers) == 0 {
		return 0
	}
	count := 0
	for _, row := range m.rows {
		has := true
		for _, idx := range itemset {
			if !row[idx] {
				has = false
				break
			}
		}
		if has {
			count++
		}
	}
	return float64(count) / float64(len(m.customers))
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
