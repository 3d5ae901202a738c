package services

import (
	"testing"
	"time"

	"spotlight/contexts/contest-engagement/vote-tally/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/vote-tally/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeQuantity(t *testing.T) {
	t.Run("Happy path - free vote defaults to one", func(t *testing.T) {
		raw, err := NormalizeQuantity(entities.VoteSourceFree, "fan-1", 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), raw)
	})

	t.Run("Happy path - purchase within cap", func(t *testing.T) {
		raw, err := NormalizeQuantity(entities.VoteSourcePurchased, "", 10, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(10), raw)
	})

	cases := []struct {
		name     string
		source   entities.VoteSource
		voterID  string
		quantity int64
		want     error
	}{
		{"free vote without voter", entities.VoteSourceFree, " ", 1, domainerrors.ErrInvalidVoteInput},
		{"free vote above one", entities.VoteSourceFree, "fan-1", 2, domainerrors.ErrInvalidQuantity},
		{"purchase of zero", entities.VoteSourcePurchased, "", 0, domainerrors.ErrInvalidQuantity},
		{"purchase above cap", entities.VoteSourcePurchased, "", 101, domainerrors.ErrInvalidQuantity},
		{"bonus source", entities.VoteSourceBonus, "fan-1", 5, domainerrors.ErrInvalidVoteSource},
		{"unknown source", "gift", "fan-1", 1, domainerrors.ErrInvalidVoteSource},
	}
	for _, tc := range cases {
		t.Run("Unhappy path - "+tc.name, func(t *testing.T) {
			_, err := NormalizeQuantity(tc.source, tc.voterID, tc.quantity, 100)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCredit(t *testing.T) {
	credited, multiplier := Credit(10, 2)
	assert.Equal(t, int64(20), credited)
	assert.Equal(t, int64(2), multiplier)

	credited, multiplier = Credit(10, 0)
	assert.Equal(t, int64(10), credited)
	assert.Equal(t, int64(1), multiplier)
}

func TestRank(t *testing.T) {
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("Happy path - equal totals rank by earlier creation", func(t *testing.T) {
		board := Rank([]entities.ContestantTotal{
			{ContestantID: "b", VoteTotal: 10, CreatedAt: base.Add(time.Hour)},
			{ContestantID: "a", VoteTotal: 10, CreatedAt: base},
		})
		require.Len(t, board, 2)
		assert.Equal(t, "a", board[0].ContestantID)
		assert.Equal(t, 1, board[0].Rank)
		assert.Equal(t, "b", board[1].ContestantID)
		assert.Equal(t, 2, board[1].Rank)
	})

	t.Run("Happy path - strict order with full ties falls back to id", func(t *testing.T) {
		board := Rank([]entities.ContestantTotal{
			{ContestantID: "c", VoteTotal: 3, CreatedAt: base},
			{ContestantID: "z", VoteTotal: 7, CreatedAt: base},
			{ContestantID: "b", VoteTotal: 3, CreatedAt: base},
			{ContestantID: "a", VoteTotal: 0, CreatedAt: base},
		})
		ids := make([]string, 0, len(board))
		for i, entry := range board {
			assert.Equal(t, i+1, entry.Rank)
			ids = append(ids, entry.ContestantID)
		}
		assert.Equal(t, []string{"z", "b", "c", "a"}, ids)
	})

	t.Run("Happy path - empty competition", func(t *testing.T) {
		assert.Empty(t, Rank(nil))
	})
}
