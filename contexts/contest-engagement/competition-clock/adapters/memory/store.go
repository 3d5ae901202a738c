package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"spotlight/contexts/contest-engagement/competition-clock/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/competition-clock/domain/errors"
	"spotlight/contexts/contest-engagement/competition-clock/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu           sync.RWMutex
	competitions map[string]entities.Competition
}

func NewStore(seed []entities.Competition) *Store {
	store := &Store{
		competitions: make(map[string]entities.Competition, len(seed)),
	}
	for _, competition := range seed {
		store.competitions[strings.TrimSpace(competition.CompetitionID)] = cloneCompetition(competition)
	}
	return store
}

func (s *Store) CreateCompetition(_ context.Context, competition entities.Competition) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strings.TrimSpace(competition.CompetitionID)
	if _, exists := s.competitions[id]; exists {
		return false, nil
	}
	s.competitions[id] = cloneCompetition(competition)
	return true, nil
}

func (s *Store) GetCompetition(_ context.Context, competitionID string) (entities.Competition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	competition, ok := s.competitions[strings.TrimSpace(competitionID)]
	if !ok {
		return entities.Competition{}, domainerrors.ErrCompetitionNotFound
	}
	return cloneCompetition(competition), nil
}

func (s *Store) ListCompetitions(_ context.Context) ([]entities.Competition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Competition, 0, len(s.competitions))
	for _, competition := range s.competitions {
		items = append(items, cloneCompetition(competition))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CompetitionID < items[j].CompetitionID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) AddPhase(_ context.Context, phase entities.Phase) (entities.Phase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strings.TrimSpace(phase.CompetitionID)
	competition, ok := s.competitions[id]
	if !ok {
		return entities.Phase{}, domainerrors.ErrCompetitionNotFound
	}
	maxOrdinal := 0
	for _, existing := range competition.Phases {
		if existing.Ordinal > maxOrdinal {
			maxOrdinal = existing.Ordinal
		}
	}
	phase.Ordinal = maxOrdinal + 1
	competition.Phases = append(competition.Phases, phase)
	competition.UpdatedAt = phase.CreatedAt
	s.competitions[id] = competition
	return phase, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func cloneCompetition(competition entities.Competition) entities.Competition {
	competition.Phases = append([]entities.Phase(nil), competition.Phases...)
	return competition
}

var _ ports.CompetitionRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
