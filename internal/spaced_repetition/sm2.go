package spaced_repetition

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/example/deckbot/pkg/models"
)

// ErrCorruptState reports a stored scheduling state that violates the data
// model (negative ease factor or negative interval). The scheduler fails
// fast instead of clamping, so bad rows surface instead of silently
// rescheduling.
var ErrCorruptState = errors.New("corrupt scheduling state")

// SM2 implements the SuperMemo-2 algorithm for spaced repetition
type SM2 struct {
	// Quality at or above this value counts as a successful recall
	PassThreshold int
	// Floor for the ease factor
	MinEaseFactor float64
	// Interval after the first successful review, in days
	FirstInterval int
	// Interval after the second successful review, in days
	SecondInterval int
}

// NewSM2 creates a new SM2 instance with the standard parameters
func NewSM2() *SM2 {
	return &SM2{
		PassThreshold:  3, // Answers 3 and above count as successful
		MinEaseFactor:  1.3,
		FirstInterval:  1,
		SecondInterval: 6,
	}
}

// QualityResponse represents the quality of response in SM-2
type QualityResponse int

const (
	// Complete blackout, unable to recall
	QualityBlackout QualityResponse = 0
	// Incorrect response but remembered upon seeing the correct answer
	QualityIncorrect QualityResponse = 1
	// Incorrect response but the correct answer felt familiar
	QualityIncorrectFamiliar QualityResponse = 2
	// Correct response but required significant effort
	QualityCorrectDifficult QualityResponse = 3
	// Correct response after some hesitation
	QualityCorrectHesitation QualityResponse = 4
	// Perfect response with no hesitation
	QualityPerfect QualityResponse = 5
)

// Schedule applies one review to a card's scheduling state and returns the
// updated card. The input is taken by value and never mutated; calling
// Schedule twice with the same arguments yields the same result.
func (sm *SM2) Schedule(card models.Flashcard, quality QualityResponse, reviewedAt time.Time) (models.Flashcard, error) {
	if card.EaseFactor < 0 || card.IntervalDays < 0 {
		return models.Flashcard{}, fmt.Errorf("%w: ease_factor=%v interval_days=%d",
			ErrCorruptState, card.EaseFactor, card.IntervalDays)
	}

	if int(quality) >= sm.PassThreshold {
		// Successful recall
		card.Repetitions++

		switch card.Repetitions {
		case 1:
			card.IntervalDays = sm.FirstInterval
		case 2:
			card.IntervalDays = sm.SecondInterval
		default:
			card.IntervalDays = roundHalfUp(float64(card.IntervalDays) * card.EaseFactor)
		}

		// Canonical SM-2 ease update
		newEF := card.EaseFactor + (0.1 - (5.0-float64(quality))*(0.08+(5.0-float64(quality))*0.02))
		if newEF < sm.MinEaseFactor {
			newEF = sm.MinEaseFactor
		}
		card.EaseFactor = newEF
	} else {
		// Lapse: reset the streak and bring the card back tomorrow
		card.Repetitions = 0
		card.IntervalDays = 1

		newEF := card.EaseFactor - 0.2
		if newEF < sm.MinEaseFactor {
			newEF = sm.MinEaseFactor
		}
		card.EaseFactor = newEF
	}

	next := reviewedAt.AddDate(0, 0, card.IntervalDays)
	card.NextReviewAt = &next
	card.State = models.CardStateDue
	card.UpdatedAt = reviewedAt

	return card, nil
}

// roundHalfUp rounds to the nearest whole day, halves up
func roundHalfUp(days float64) int {
	return int(math.Floor(days + 0.5))
}
