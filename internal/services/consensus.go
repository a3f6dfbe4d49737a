package services

import "sort"

const (
	// LikeThreshold is the lowest score that counts as liking a destination.
	LikeThreshold = 5
	// MinConsensusSupport is the support a destination needs to be chosen.
	MinConsensusSupport = 0.5
)

type Ballot struct {
	Username      string
	DestinationID string
	Score         int
}

type ConsensusResult struct {
	Resolved      bool
	DestinationID string
	Support       float64
	// Supports lists every destination that passed both thresholds.
	Supports map[string]float64
}

// ResolveConsensus binarises the score matrix at LikeThreshold, extracts the
// frequently liked destinations and picks the one with the highest support.
// Equal support goes to the lowest destination id. groupSize <= 0 falls back
// to the number of distinct voters.
func ResolveConsensus(groupSize int, ballots []Ballot) ConsensusResult {
	if groupSize <= 0 {
		voters := make(map[string]struct{})
		for _, b := range ballots {
			voters[b.Username] = struct{}{}
		}
		groupSize = len(voters)
	}

	liked := make(map[string]map[string]struct{})
	for _, b := range ballots {
		if b.Score < LikeThreshold {
			continue
		}
		if liked[b.DestinationID] == nil {
			liked[b.DestinationID] = make(map[string]struct{})
		}
		liked[b.DestinationID][b.Username] = struct{}{}
	}

	counts := make(map[string]int, len(liked))
	for dest, voters := range liked {
		counts[dest] = len(voters)
	}

	result := ConsensusResult{Supports: make(map[string]float64)}
	for dest, s := range frequentSingletons(counts, groupSize) {
		if s >= MinConsensusSupport {
			result.Supports[dest] = s
		}
	}
	if len(result.Supports) == 0 {
		return result
	}

	ids := make([]string, 0, len(result.Supports))
	for id := range result.Supports {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if s := result.Supports[id]; s > result.Support {
			result.DestinationID = id
			result.Support = s
		}
	}
	result.Resolved = true
	return result
}
