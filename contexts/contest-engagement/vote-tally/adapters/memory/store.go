package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"spotlight/contexts/contest-engagement/vote-tally/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/vote-tally/domain/errors"
	"spotlight/contexts/contest-engagement/vote-tally/ports"
	"spotlight/internal/shared/outbox"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	contestants map[string]entities.ContestantTotal
	events      []entities.VoteEvent
	dedup       map[string]int

	Outbox *outbox.MemoryLog
}

func NewStore(contestants []entities.ContestantTotal) *Store {
	store := &Store{
		contestants: make(map[string]entities.ContestantTotal, len(contestants)),
		dedup:       make(map[string]int),
		Outbox:      outbox.NewMemoryLog(),
	}
	for _, contestant := range contestants {
		store.contestants[strings.TrimSpace(contestant.ContestantID)] = contestant
	}
	return store
}

// PutContestant inserts or replaces a contestant projection row.
func (s *Store) PutContestant(contestant entities.ContestantTotal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contestants[strings.TrimSpace(contestant.ContestantID)] = contestant
}

func (s *Store) GetContestant(_ context.Context, contestantID string) (entities.ContestantTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contestant, ok := s.contestants[strings.TrimSpace(contestantID)]
	if !ok {
		return entities.ContestantTotal{}, domainerrors.ErrContestantNotFound
	}
	return contestant, nil
}

func (s *Store) ListContestants(_ context.Context, competitionID string) ([]entities.ContestantTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id := strings.TrimSpace(competitionID)
	items := make([]entities.ContestantTotal, 0)
	for _, contestant := range s.contestants {
		if contestant.CompetitionID == id {
			items = append(items, contestant)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ContestantID < items[j].ContestantID
	})
	return items, nil
}

func (s *Store) AppendVoteEvent(_ context.Context, entry ports.VoteAppend) (ports.AppendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vote := entry.Event
	contestant, ok := s.contestants[vote.ContestantID]
	if !ok {
		return ports.AppendResult{}, domainerrors.ErrContestantNotFound
	}
	if vote.DedupKey != "" {
		if index, exists := s.dedup[vote.DedupKey]; exists {
			original := s.events[index]
			return ports.AppendResult{
				Event:    original,
				NewTotal: s.contestants[original.ContestantID].VoteTotal,
			}, nil
		}
	}
	if err := s.Outbox.Append(entry.Events...); err != nil {
		return ports.AppendResult{}, err
	}
	s.events = append(s.events, vote)
	if vote.DedupKey != "" {
		s.dedup[vote.DedupKey] = len(s.events) - 1
	}
	contestant.VoteTotal += vote.CreditedQuantity
	s.contestants[contestant.ContestantID] = contestant
	return ports.AppendResult{Event: vote, NewTotal: contestant.VoteTotal, Created: true}, nil
}

func (s *Store) ListVoteEvents(_ context.Context, contestantID string) ([]entities.VoteEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id := strings.TrimSpace(contestantID)
	items := make([]entities.VoteEvent, 0)
	for _, vote := range s.events {
		if vote.ContestantID == id {
			items = append(items, vote)
		}
	}
	return items, nil
}

func (s *Store) SumCredited(_ context.Context, contestantID string) (ports.LedgerSum, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id := strings.TrimSpace(contestantID)
	var sum ports.LedgerSum
	for _, vote := range s.events {
		if vote.ContestantID == id {
			sum.Credited += vote.CreditedQuantity
			sum.Events++
		}
	}
	return sum, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.VoteRepository = (*Store)(nil)
var _ ports.ContestantDirectory = (*Store)(nil)
