package services

// minSupportMembers is the number of members that must share an item for it
// to count as frequent. Expressed as a support fraction this is 2/n.
const minSupportMembers = 2

// frequentSingletons extracts single-item frequent itemsets from per-item
// member counts. Support is count/groupSize. A group of one keeps every item
// its member has, each at support 1.0.
func frequentSingletons(counts map[string]int, groupSize int) map[string]float64 {
	out := make(map[string]float64)
	if groupSize <= 0 {
		return out
	}

	if groupSize == 1 {
		for item, c := range counts {
			if c > 0 {
				out[item] = 1.0
			}
		}
		return out
	}

	n := float64(groupSize)
	for item, c := range counts {
		if c >= minSupportMembers {
			out[item] = float64(c) / n
		}
	}
	return out
}

// minSupport returns the support threshold 2/n used by frequentSingletons.
func minSupport(groupSize int) float64 {
	if groupSize <= 1 {
		return 1.0
	}
	return float64(minSupportMembers) / float64(groupSize)
}
