package match

import (
	"sort"
	"strings"
)

// Name scoring constants.
const (
	// ContainmentWeight scales the length ratio when one name contains the other.
	ContainmentWeight = 0.9
	// MinFuzzySimilarity is the Levenshtein similarity a pair must exceed to score.
	MinFuzzySimilarity = 0.7
)

// ScoreName scores a normalized header against a normalized synonym.
//   - identical: 1.0
//   - one contains the other: shorter/longer length ratio * 0.9
//   - Levenshtein similarity above 0.7: the similarity
//   - otherwise: 0
func ScoreName(header, synonym string) float64 {
	if header == "" || synonym == "" {
		return 0
	}

	if header == synonym {
		return 1.0
	}

	lh, ls := len([]rune(header)), len([]rune(synonym))

	if containsEither(header, synonym) {
		return float64(min(lh, ls)) / float64(max(lh, ls)) * ContainmentWeight
	}

	if sim := LevenshteinNormalized(header, synonym); sim > MinFuzzySimilarity {
		return sim
	}

	return 0
}

// Candidate is one column considered for a property.
type Candidate struct {
	Column string `json:"column"`
	// Index is the column's position in the source header.
	Index int `json:"index"`
	// Score is the best ScoreName across the property's synonyms.
	Score float64 `json:"score"`
	// Synonym is the synonym that produced Score.
	Synonym string `json:"synonym"`

	NormalizedColumn string `json:"normalized_column"`
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// RankColumns scores every column against synonyms and returns the columns
// with a positive score, best first.
func RankColumns(columns []string, synonyms []string) CandidateList {
	normSyn := make([]string, 0, len(synonyms))
	for _, s := range synonyms {
		if n := NormalizeHeader(s); n != "" {
			normSyn = append(normSyn, n)
		}
	}

	var candidates CandidateList

	for i, col := range columns {
		normCol := NormalizeHeader(col)

		best, bestSyn := 0.0, ""

		for _, syn := range normSyn {
			if s := ScoreName(normCol, syn); s > best {
				best, bestSyn = s, syn
			}
		}

		if best == 0 {
			continue
		}

		candidates = append(candidates, Candidate{
			Column:           col,
			Index:            i,
			Score:            best,
			Synonym:          bestSyn,
			NormalizedColumn: normCol,
		})
	}

	// Sort by score (descending), then by header position for determinism
	sort.Sort(candidates)

	return candidates
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by score descending, then by column position so the leftmost column wins ties.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Index < c[j].Index
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// Best returns the best candidate, or nil if no candidates.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// IsAmbiguous returns true if the top two candidates are within the threshold.
func (c CandidateList) IsAmbiguous(threshold float64) bool {
	if len(c) < 2 {
		return false
	}

	diff := c[0].Score - c[1].Score

	return diff < threshold
}

// DefaultAmbiguityThreshold is the score difference that marks ambiguity.
const DefaultAmbiguityThreshold = 0.1

func containsEither(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}
