package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Seed lists competitions and bonus catalogs created at startup. Seeding is
// replay safe: existing competitions and published tasks are left untouched.
type Seed struct {
	Competitions []SeedCompetition `yaml:"competitions"`
	Catalogs     []SeedCatalog     `yaml:"catalogs"`
}

type SeedCompetition struct {
	ID               string      `yaml:"id"`
	Name             string      `yaml:"name"`
	Timezone         string      `yaml:"timezone"`
	Phases           []SeedPhase `yaml:"phases"`
	PromotionalDates []string    `yaml:"promotionalDates"`
}

type SeedPhase struct {
	Name         string    `yaml:"name"`
	StartsAt     time.Time `yaml:"startsAt"`
	EndsAt       time.Time `yaml:"endsAt"`
	DoubleCredit bool      `yaml:"doubleCredit"`
}

type SeedCatalog struct {
	CompetitionID string     `yaml:"competitionId"`
	Tasks         []SeedTask `yaml:"tasks"`
}

type SeedTask struct {
	Key       string `yaml:"key"`
	Label     string `yaml:"label"`
	Points    int64  `yaml:"points"`
	SortOrder int    `yaml:"sortOrder"`
	Kind      string `yaml:"kind"`
}

func LoadSeed(path string) (Seed, error) {
	raw, err := os.ReadFile(strings.TrimSpace(path))
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(raw)
}

// ParseSeed rejects unknown keys so typos surface at startup.
func ParseSeed(raw []byte) (Seed, error) {
	var seed Seed
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	for i, competition := range seed.Competitions {
		if strings.TrimSpace(competition.ID) == "" {
			return Seed{}, fmt.Errorf("seed competition %d: id is required", i)
		}
	}
	for i, catalog := range seed.Catalogs {
		if strings.TrimSpace(catalog.CompetitionID) == "" {
			return Seed{}, fmt.Errorf("seed catalog %d: competitionId is required", i)
		}
	}
	return seed, nil
}
