package matching

// Score is a match score in the range [0.0, 1.0].
// 1.0 is a perfect match, 0.0 is no match. Intermediate values only appear
// in aggregated scores (Composite.MatchScore) and are used for ranking
// near misses, never for routing.
type Score float64

const (
	// ScorePerfect is the score of a satisfied matcher.
	ScorePerfect Score = 1.0

	// ScoreNone is the score of an unsatisfied matcher.
	ScoreNone Score = 0.0
)

// IsPerfect reports whether s is exactly ScorePerfect.
func (s Score) IsPerfect() bool {
	return s == ScorePerfect
}

// Percent returns the score as an integer percentage (0-100).
func (s Score) Percent() int {
	return int(float64(s)*100 + 0.5)
}

// scoreOf converts a boolean outcome to a binary score.
func scoreOf(ok bool) Score {
	if ok {
		return ScorePerfect
	}
	return ScoreNone
}

// maxScore returns the highest score any matcher in vms gives input.
// Evaluation stops at the first perfect score.
func maxScore(vms []ValueMatcher, input string) Score {
	best := ScoreNone
	for _, vm := range vms {
		s := vm.Score(input)
		if s > best {
			best = s
		}
		if best.IsPerfect() {
			break
		}
	}
	return best
}
