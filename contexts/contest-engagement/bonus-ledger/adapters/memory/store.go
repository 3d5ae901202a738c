package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"spotlight/contexts/contest-engagement/bonus-ledger/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/bonus-ledger/domain/errors"
	"spotlight/contexts/contest-engagement/bonus-ledger/domain/services"
	"spotlight/contexts/contest-engagement/bonus-ledger/ports"
	"spotlight/internal/shared/outbox"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	tasks       map[string]map[string]entities.Task
	awards      map[string]map[string]entities.AwardRecord
	contestants map[string]entities.ContestantRef
	votes       []ports.BonusVote

	Outbox *outbox.MemoryLog
}

func NewStore(contestants []entities.ContestantRef) *Store {
	store := &Store{
		tasks:       make(map[string]map[string]entities.Task),
		awards:      make(map[string]map[string]entities.AwardRecord),
		contestants: make(map[string]entities.ContestantRef, len(contestants)),
		Outbox:      outbox.NewMemoryLog(),
	}
	for _, contestant := range contestants {
		store.contestants[strings.TrimSpace(contestant.ContestantID)] = contestant
	}
	return store
}

// PutContestant inserts or replaces a contestant projection row.
func (s *Store) PutContestant(contestant entities.ContestantRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contestants[strings.TrimSpace(contestant.ContestantID)] = contestant
}

func (s *Store) GetContestant(_ context.Context, contestantID string) (entities.ContestantRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contestant, ok := s.contestants[strings.TrimSpace(contestantID)]
	if !ok {
		return entities.ContestantRef{}, domainerrors.ErrContestantNotFound
	}
	return contestant, nil
}

func (s *Store) PublishCatalog(_ context.Context, competitionID string, tasks []entities.Task) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strings.TrimSpace(competitionID)
	catalog, ok := s.tasks[id]
	if !ok {
		catalog = make(map[string]entities.Task, len(tasks))
		s.tasks[id] = catalog
	}
	inserted := 0
	for _, task := range tasks {
		if _, exists := catalog[task.Key]; exists {
			continue
		}
		task.CompetitionID = id
		catalog[task.Key] = task
		inserted++
	}
	return inserted, nil
}

func (s *Store) ListTasks(_ context.Context, competitionID string) ([]entities.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	catalog := s.tasks[strings.TrimSpace(competitionID)]
	items := make([]entities.Task, 0, len(catalog))
	for _, task := range catalog {
		items = append(items, task)
	}
	services.SortTasks(items)
	return items, nil
}

func (s *Store) UpdateTaskPoints(
	_ context.Context,
	competitionID string,
	taskKey string,
	points int64,
	updatedAt time.Time,
) (entities.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	catalog := s.tasks[strings.TrimSpace(competitionID)]
	task, ok := catalog[strings.TrimSpace(taskKey)]
	if !ok {
		return entities.Task{}, domainerrors.ErrInvalidTask
	}
	task.Points = points
	task.UpdatedAt = updatedAt.UTC()
	catalog[task.Key] = task
	return task, nil
}

func (s *Store) AwardBonus(_ context.Context, award ports.BonusAward) (ports.BonusAwardResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contestant, ok := s.contestants[award.Award.ContestantID]
	if !ok {
		return ports.BonusAwardResult{}, domainerrors.ErrContestantNotFound
	}
	records, ok := s.awards[contestant.ContestantID]
	if !ok {
		records = make(map[string]entities.AwardRecord)
		s.awards[contestant.ContestantID] = records
	}
	if _, exists := records[award.Award.TaskKey]; exists {
		return ports.BonusAwardResult{NewTotal: contestant.VoteTotal}, nil
	}
	if err := s.Outbox.Append(award.Events...); err != nil {
		return ports.BonusAwardResult{}, err
	}
	records[award.Award.TaskKey] = award.Award
	s.votes = append(s.votes, award.Vote)
	contestant.VoteTotal += award.Vote.Quantity
	s.contestants[contestant.ContestantID] = contestant
	return ports.BonusAwardResult{Created: true, NewTotal: contestant.VoteTotal}, nil
}

func (s *Store) ListAwards(_ context.Context, contestantID string) ([]entities.AwardRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.awards[strings.TrimSpace(contestantID)]
	items := make([]entities.AwardRecord, 0, len(records))
	for _, record := range records {
		items = append(items, record)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].AwardedAt.Equal(items[j].AwardedAt) {
			return items[i].TaskKey < items[j].TaskKey
		}
		return items[i].AwardedAt.Before(items[j].AwardedAt)
	})
	return items, nil
}

// BonusVotes returns the vote ledger entries written by awards.
func (s *Store) BonusVotes() []ports.BonusVote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.BonusVote(nil), s.votes...)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.CatalogRepository = (*Store)(nil)
var _ ports.AwardRepository = (*Store)(nil)
var _ ports.ContestantDirectory = (*Store)(nil)
