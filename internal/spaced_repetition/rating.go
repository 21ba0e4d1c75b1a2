package spaced_repetition

import (
	"errors"
	"fmt"
)

// ErrInvalidRating reports a user rating outside the accepted 1-4 range.
var ErrInvalidRating = errors.New("invalid rating")

// User ratings as submitted by the review flow
const (
	RatingAgain = 1
	RatingHard  = 2
	RatingGood  = 3
	RatingEasy  = 4
)

// MapRating converts a 1-4 user rating into an SM-2 quality score.
//
// The table is deliberately asymmetric: "Again" maps to a complete blackout
// while the three passing ratings cluster at the top of the quality scale,
// so only an outright failure triggers the lapse path.
func MapRating(rating int) (QualityResponse, error) {
	switch rating {
	case RatingAgain:
		return QualityBlackout, nil
	case RatingHard:
		return QualityCorrectDifficult, nil
	case RatingGood:
		return QualityCorrectHesitation, nil
	case RatingEasy:
		return QualityPerfect, nil
	default:
		return 0, fmt.Errorf("%w: %d (expected 1-4)", ErrInvalidRating, rating)
	}
}
