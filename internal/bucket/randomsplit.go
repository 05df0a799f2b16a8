package bucket

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"
)

// Split samples disjoint identifier groups uniformly without replacement.
// Duplicate identifiers in ids are collapsed first. A zero groups count
// defaults to 2 and a zero groupSize defaults to half the unique identifiers.
// A nil rng gets a time-seeded source.
func Split(ids []string, groupSize, groups int, rng *rand.Rand) ([][]string, error) {
	unique := dedupe(ids)
	if groups <= 0 {
		groups = 2
	}
	if groupSize <= 0 {
		groupSize = len(unique) / 2
	}
	if groupSize*groups > len(unique) {
		return nil, fmt.Errorf("%w: %d groups of %d need %d ids, only %d unique available",
			ErrConfig, groups, groupSize, groupSize*groups, len(unique))
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}

	rng.Shuffle(len(unique), func(i, j int) {
		unique[i], unique[j] = unique[j], unique[i]
	})

	out := make([][]string, groups)
	for g := range out {
		out[g] = unique[g*groupSize : (g+1)*groupSize]
	}
	return out, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
