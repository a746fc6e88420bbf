package mapping

import "fmt"

//go:generate go tool stringer -type=Confidence -linecomment -output=confidence_string.go

// Confidence is the tier assigned to a suggested match.
type Confidence int

const (
	ConfidenceLow    Confidence = iota // low
	ConfidenceMedium                   // medium
	ConfidenceHigh                     // high
)

// Tier thresholds on the match score.
const (
	HighConfidenceScore   = 0.8
	MediumConfidenceScore = 0.5
)

// ConfidenceFor maps a match score onto a tier.
func ConfidenceFor(score float64) Confidence {
	switch {
	case score >= HighConfidenceScore:
		return ConfidenceHigh
	case score >= MediumConfidenceScore:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Confidence) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Confidence) UnmarshalText(text []byte) error {
	switch string(text) {
	case "high":
		*c = ConfidenceHigh
	case "medium":
		*c = ConfidenceMedium
	case "low", "":
		*c = ConfidenceLow
	default:
		return fmt.Errorf("unknown confidence %q", text)
	}

	return nil
}
