package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"spotlight/contexts/contest-engagement/nominee-lifecycle/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/nominee-lifecycle/domain/errors"
	"spotlight/contexts/contest-engagement/nominee-lifecycle/ports"
	"spotlight/internal/shared/outbox"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type Store struct {
	mu sync.RWMutex

	nominees          map[string]entities.Nominee
	contactIndex      map[string]string
	transitions       map[string][]entities.Transition
	contestants       map[string]entities.Contestant
	contestantByOwner map[string]string
	eventDedup        map[string]time.Time

	Outbox *outbox.MemoryLog
}

func NewStore() *Store {
	return &Store{
		nominees:          make(map[string]entities.Nominee),
		contactIndex:      make(map[string]string),
		transitions:       make(map[string][]entities.Transition),
		contestants:       make(map[string]entities.Contestant),
		contestantByOwner: make(map[string]string),
		eventDedup:        make(map[string]time.Time),
		Outbox:            outbox.NewMemoryLog(),
	}
}

func contactIndexKey(competitionID string, contactKey string) string {
	return strings.TrimSpace(competitionID) + "|" + strings.ToLower(strings.TrimSpace(contactKey))
}

func (s *Store) CreateNominee(
	_ context.Context,
	nominee entities.Nominee,
	transition entities.Transition,
	envelopes []ports.EventEnvelope,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := contactIndexKey(nominee.CompetitionID, nominee.ContactKey)
	if _, exists := s.contactIndex[key]; exists {
		return domainerrors.ErrDuplicateEntry
	}
	if _, exists := s.nominees[nominee.NomineeID]; exists {
		return domainerrors.ErrDuplicateEntry
	}
	if err := s.Outbox.Append(envelopes...); err != nil {
		return err
	}
	s.contactIndex[key] = nominee.NomineeID
	s.nominees[nominee.NomineeID] = cloneNominee(nominee)
	s.transitions[nominee.NomineeID] = append(s.transitions[nominee.NomineeID], transition)
	return nil
}

func (s *Store) GetNominee(_ context.Context, nomineeID string) (entities.Nominee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	nominee, ok := s.nominees[strings.TrimSpace(nomineeID)]
	if !ok {
		return entities.Nominee{}, domainerrors.ErrNomineeNotFound
	}
	return cloneNominee(nominee), nil
}

func (s *Store) ListNominees(_ context.Context, filter ports.NomineeFilter) ([]entities.Nominee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Nominee, 0)
	for _, nominee := range s.nominees {
		if filter.CompetitionID != "" && nominee.CompetitionID != filter.CompetitionID {
			continue
		}
		if filter.Status != "" && nominee.Status != filter.Status {
			continue
		}
		items = append(items, cloneNominee(nominee))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].NomineeID < items[j].NomineeID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) SaveNominee(_ context.Context, mutation ports.NomineeMutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.nominees[mutation.Nominee.NomineeID]
	if !ok {
		return domainerrors.ErrNomineeNotFound
	}
	if current.Status != mutation.ExpectedStatus || current.AccountID != mutation.ExpectedAccountID {
		return domainerrors.ErrStaleNominee
	}
	if err := s.Outbox.Append(mutation.Events...); err != nil {
		return err
	}
	s.nominees[current.NomineeID] = cloneNominee(mutation.Nominee)
	if mutation.Transition != nil {
		s.transitions[current.NomineeID] = append(s.transitions[current.NomineeID], *mutation.Transition)
	}
	return nil
}

func (s *Store) ListTransitions(_ context.Context, nomineeID string) ([]entities.Transition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.Transition(nil), s.transitions[strings.TrimSpace(nomineeID)]...), nil
}

func (s *Store) ConvertNominee(_ context.Context, conversion ports.Conversion) (ports.ConversionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nomineeID := conversion.Nominee.NomineeID
	current, ok := s.nominees[nomineeID]
	if !ok {
		return ports.ConversionResult{}, domainerrors.ErrNomineeNotFound
	}
	if existingID, converted := s.contestantByOwner[nomineeID]; converted {
		return ports.ConversionResult{Contestant: s.contestants[existingID]}, nil
	}
	if current.Status != conversion.ExpectedStatus || current.Converted {
		return ports.ConversionResult{}, domainerrors.ErrStaleNominee
	}
	if err := s.Outbox.Append(conversion.Events...); err != nil {
		return ports.ConversionResult{}, err
	}
	s.nominees[nomineeID] = cloneNominee(conversion.Nominee)
	s.transitions[nomineeID] = append(s.transitions[nomineeID], conversion.Transition)
	contestant := cloneContestant(conversion.Contestant)
	s.contestants[contestant.ContestantID] = contestant
	s.contestantByOwner[nomineeID] = contestant.ContestantID
	return ports.ConversionResult{Contestant: cloneContestant(contestant), Created: true}, nil
}

func (s *Store) GetContestant(_ context.Context, contestantID string) (entities.Contestant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contestant, ok := s.contestants[strings.TrimSpace(contestantID)]
	if !ok {
		return entities.Contestant{}, domainerrors.ErrContestantNotFound
	}
	return cloneContestant(contestant), nil
}

func (s *Store) GetContestantByNominee(_ context.Context, nomineeID string) (entities.Contestant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contestantID, ok := s.contestantByOwner[strings.TrimSpace(nomineeID)]
	if !ok {
		return entities.Contestant{}, domainerrors.ErrContestantNotFound
	}
	return cloneContestant(s.contestants[contestantID]), nil
}

func (s *Store) ListContestants(_ context.Context, competitionID string) ([]entities.Contestant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Contestant, 0)
	for _, contestant := range s.contestants {
		if contestant.CompetitionID == strings.TrimSpace(competitionID) {
			items = append(items, cloneContestant(contestant))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ContestantID < items[j].ContestantID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) UpdateContestantProfile(_ context.Context, contestant entities.Contestant) (entities.Contestant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.contestants[contestant.ContestantID]
	if !ok {
		return entities.Contestant{}, domainerrors.ErrContestantNotFound
	}
	current.DisplayName = contestant.DisplayName
	current.Profile = contestant.Profile.Normalized()
	current.UpdatedAt = contestant.UpdatedAt
	s.contestants[current.ContestantID] = current
	return cloneContestant(current), nil
}

// AddVotes mirrors vote ledger credits in single-context tests.
func (s *Store) AddVotes(contestantID string, delta int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contestant, ok := s.contestants[strings.TrimSpace(contestantID)]
	if !ok {
		return
	}
	contestant.VoteTotal += delta
	s.contestants[contestant.ContestantID] = contestant
}

func (s *Store) ReserveEvent(_ context.Context, eventID string, expiresAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strings.TrimSpace(eventID)
	if existing, ok := s.eventDedup[id]; ok && existing.After(time.Now().UTC()) {
		return true, nil
	}
	s.eventDedup[id] = expiresAt.UTC()
	return false, nil
}

func (s *Store) ReleaseEvent(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.eventDedup, strings.TrimSpace(eventID))
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) NewClaimToken(_ context.Context) (string, error) {
	return gonanoid.New()
}

func cloneNominee(nominee entities.Nominee) entities.Nominee {
	if nominee.Submitter != nil {
		submitter := *nominee.Submitter
		nominee.Submitter = &submitter
	}
	nominee.Profile.Interests = append([]string(nil), nominee.Profile.Interests...)
	return nominee
}

func cloneContestant(contestant entities.Contestant) entities.Contestant {
	contestant.Profile.Interests = append([]string(nil), contestant.Profile.Interests...)
	return contestant
}

var _ ports.NomineeRepository = (*Store)(nil)
var _ ports.ContestantRepository = (*Store)(nil)
var _ ports.EventDedupStore = (*Store)(nil)
var _ ports.ClaimTokenGenerator = (*Store)(nil)
