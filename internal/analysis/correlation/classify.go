package correlation

import "math"

// Strength buckets for |r|.
type Strength string

const (
	StrengthStrong   Strength = "strong"
	StrengthModerate Strength = "moderate"
	StrengthWeak     Strength = "weak"
)

// Direction of the relationship sign.
type Direction string

const (
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
	DirectionNone     Direction = "none"
)

// |r| thresholds for the strength buckets.
const (
	strongThreshold   = 0.7
	moderateThreshold = 0.3
)

// Classification is the display-oriented reading of a coefficient. It is
// derived on demand, never stored alongside the numeric value.
type Classification struct {
	Strength  Strength  `json:"strength"`
	Direction Direction `json:"direction"`
	Label     string    `json:"label"`
}

// Classify buckets a coefficient by strength and direction.
func Classify(r float64) Classification {
	var strength Strength
	switch abs := math.Abs(r); {
	case abs >= strongThreshold:
		strength = StrengthStrong
	case abs >= moderateThreshold:
		strength = StrengthModerate
	default:
		strength = StrengthWeak
	}

	var direction Direction
	switch {
	case r > 0:
		direction = DirectionPositive
	case r < 0:
		direction = DirectionNegative
	default:
		direction = DirectionNone
	}

	return Classification{
		Strength:  strength,
		Direction: direction,
		Label:     label(strength, direction),
	}
}

func label(strength Strength, direction Direction) string {
	if direction == DirectionNone {
		return "no correlation"
	}
	return string(strength) + " " + string(direction)
}
