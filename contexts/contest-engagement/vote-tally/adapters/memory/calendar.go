package memory

import (
	"context"
	"sync"
	"time"

	"spotlight/contexts/contest-engagement/vote-tally/domain/entities"
	"spotlight/contexts/contest-engagement/vote-tally/ports"
)

const localDateLayout = "2006-01-02"

// Calendar doubles credit on configured local dates. Every competition shares
// one location.
type Calendar struct {
	mu       sync.RWMutex
	location *time.Location
	promo    map[string]struct{}
}

func NewCalendar(location *time.Location) *Calendar {
	if location == nil {
		location = time.UTC
	}
	return &Calendar{
		location: location,
		promo:    make(map[string]struct{}),
	}
}

func (c *Calendar) AddPromotionalDay(competitionID string, localDate string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.promo[competitionID+"|"+localDate] = struct{}{}
}

func (c *Calendar) CreditTerms(_ context.Context, competitionID string, at time.Time) (entities.CreditTerms, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	localDate := at.In(c.location).Format(localDateLayout)
	terms := entities.CreditTerms{Multiplier: 1, LocalDate: localDate}
	if _, ok := c.promo[competitionID+"|"+localDate]; ok {
		terms.Multiplier = 2
		terms.PromotionPhaseID = "promo-" + localDate
	}
	return terms, nil
}

var _ ports.PromotionCalendar = (*Calendar)(nil)
