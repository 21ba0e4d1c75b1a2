package spaced_repetition

import (
	"sort"
	"time"

	"github.com/example/deckbot/pkg/models"
)

// SelectDue picks the cards eligible for a study session starting at now.
//
// Cards fall into two tiers: the review tier (repetitions > 0) and the learn
// tier (repetitions == 0). Each tier has its own cap, and every selected
// review card precedes every selected learn card in the result, so new
// material never crowds out scheduled reviews. Suspended cards are never
// selected. A card is inside the due window when its next review timestamp
// is unset or falls before now + lookaheadDays.
func SelectDue(cards []models.Flashcard, reviewLimit, newLimit, lookaheadDays int, now time.Time) []models.Flashcard {
	horizon := now.AddDate(0, 0, lookaheadDays)

	var review, learn []models.Flashcard
	for _, c := range cards {
		if c.State == models.CardStateSuspended {
			continue
		}
		if c.NextReviewAt != nil && c.NextReviewAt.After(horizon) {
			continue
		}
		if c.Repetitions > 0 {
			review = append(review, c)
		} else {
			learn = append(learn, c)
		}
	}

	// Review tier: most overdue first, never-scheduled cards ahead of all
	sort.SliceStable(review, func(i, j int) bool {
		a, b := review[i].NextReviewAt, review[j].NextReviewAt
		switch {
		case a == nil && b == nil:
			return review[i].CreatedAt.Before(review[j].CreatedAt)
		case a == nil:
			return true
		case b == nil:
			return false
		case a.Equal(*b):
			return review[i].CreatedAt.Before(review[j].CreatedAt)
		default:
			return a.Before(*b)
		}
	})

	// Learn tier: oldest cards first
	sort.SliceStable(learn, func(i, j int) bool {
		return learn[i].CreatedAt.Before(learn[j].CreatedAt)
	})

	if reviewLimit >= 0 && len(review) > reviewLimit {
		review = review[:reviewLimit]
	}
	if newLimit >= 0 && len(learn) > newLimit {
		learn = learn[:newLimit]
	}

	result := make([]models.Flashcard, 0, len(review)+len(learn))
	result = append(result, review...)
	result = append(result, learn...)
	return result
}
