package basket

import "sort"

// deriveRules splits every frequent item set of size >= 2 into all non-empty
// antecedent/consequent partitions and keeps the rules clearing both the
// confidence and lift thresholds. Result is sorted by lift descending.
func deriveRules(a *arena, items []string, minConfidence, minLift float64) []Rule {
	rules := make([]Rule, 0)
	for levelIdx, level := range a.levels {
		if levelIdx == 0 {
			continue
		}
		for _, itemset := range level {
			full := a.support[itemsetKey(itemset)]
			n := len(itemset)

			// Masks enumerate proper non-empty subsets as antecedents.
			for mask := 1; mask < (1<<n)-1; mask++ {
				var antecedent, consequent []int
				for bit := 0; bit < n; bit++ {
					if mask&(1<<bit) != 0 {
						antecedent = append(antecedent, itemset[bit])
					} else {
						consequent = append(consequent, itemset[bit])
					}
				}

				supA, okA := a.support[itemsetKey(antecedent)]
				supC, okC := a.support[itemsetKey(consequent)]
				if !okA || !okC || supA == 0 || supC == 0 {
					continue
				}

				confidence := full / supA
				lift := confidence / supC
				if confidence < minConfidence || lift < minLift {
					continue
				}

				rules = append(rules, Rule{
					Antecedent: itemNames(antecedent, items),
					Consequent: itemNames(consequent, items),
					Support:    full,
					Confidence: confidence,
					Lift:       lift,
				})
			}
		}
	}

	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Lift > rules[j].Lift
	})
	return rules
}

func itemNames(itemset []int, items []string) []string {
	names := make([]string, len(itemset))
	for i, idx := range itemset {
		names[i] = items[idx]
	}
	return names
}
