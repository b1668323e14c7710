package analysis

import "math/rand/v2"

const (
	MinScore = 60
	MaxScore = 100
)

// RandomScorer is a placeholder, not a quality metric: it draws a uniform
// integer in [MinScore, MaxScore] and ignores both the code and the analysis.
// Swap it for a real static-analysis scorer through the Scorer port.
type RandomScorer struct {
	// Rand is optional; nil uses the package-level source, which is safe for
	// concurrent use. A non-nil *rand.Rand is not.
	Rand *rand.Rand
}

func (s RandomScorer) Score(code, analysisText string) int {
	n := MaxScore - MinScore + 1
	if s.Rand != nil {
		return s.Rand.IntN(n) + MinScore
	}
	return rand.IntN(n) + MinScore
}
