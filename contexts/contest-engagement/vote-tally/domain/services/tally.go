package services

import (
	"sort"
	"strings"

	"spotlight/contexts/contest-engagement/vote-tally/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/vote-tally/domain/errors"
)

// NormalizeQuantity validates a submission and returns the raw quantity to
// record. A free vote without a quantity counts as one.
func NormalizeQuantity(source entities.VoteSource, voterID string, quantity int64, maxPurchase int64) (int64, error) {
	switch source {
	case entities.VoteSourceFree:
		if strings.TrimSpace(voterID) == "" {
			return 0, domainerrors.ErrInvalidVoteInput
		}
		if quantity == 0 {
			quantity = entities.FreeVoteQuantity
		}
		if quantity != entities.FreeVoteQuantity {
			return 0, domainerrors.ErrInvalidQuantity
		}
		return quantity, nil
	case entities.VoteSourcePurchased:
		if maxPurchase <= 0 {
			maxPurchase = entities.DefaultMaxPurchaseQuantity
		}
		if quantity < 1 || quantity > maxPurchase {
			return 0, domainerrors.ErrInvalidQuantity
		}
		return quantity, nil
	case entities.VoteSourceBonus:
		return 0, domainerrors.ErrInvalidVoteSource
	default:
		return 0, domainerrors.ErrInvalidVoteSource
	}
}

// Credit applies the multiplier. Multipliers below one count as one.
func Credit(raw int64, multiplier int64) (int64, int64) {
	if multiplier < 1 {
		multiplier = 1
	}
	return raw * multiplier, multiplier
}

func FreeVoteDedupKey(voterID string, contestantID string, localDate string) string {
	return "free:" + strings.TrimSpace(voterID) + ":" + strings.TrimSpace(contestantID) + ":" + localDate
}

func PurchaseDedupKey(reference string) string {
	return "purchase:" + strings.TrimSpace(reference)
}

// Rank orders contestants by votes descending, then earlier creation, then
// id, and assigns ranks 1..n with no shared positions.
func Rank(totals []entities.ContestantTotal) []entities.LeaderboardEntry {
	sorted := append([]entities.ContestantTotal(nil), totals...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.VoteTotal != b.VoteTotal {
			return a.VoteTotal > b.VoteTotal
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ContestantID < b.ContestantID
	})
	entries := make([]entities.LeaderboardEntry, 0, len(sorted))
	for i, item := range sorted {
		entries = append(entries, entities.LeaderboardEntry{
			ContestantID: item.ContestantID,
			DisplayName:  item.DisplayName,
			Votes:        item.VoteTotal,
			Rank:         i + 1,
		})
	}
	return entries
}
