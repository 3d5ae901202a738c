package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"spotlight/contexts/contest-engagement/competition-clock/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/competition-clock/domain/errors"
	"spotlight/contexts/contest-engagement/competition-clock/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&competitionModel{}, &phaseModel{})
}

func (r *Repository) CreateCompetition(ctx context.Context, competition entities.Competition) (bool, error) {
	row := competitionModelFromEntity(competition)
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		create := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "competition_id"}},
			DoNothing: true,
		}).Create(&row)
		if create.Error != nil {
			return create.Error
		}
		if create.RowsAffected == 0 {
			return nil
		}
		created = true
		for _, phase := range competition.Phases {
			phaseRow := phaseModelFromEntity(phase)
			phaseRow.CompetitionID = row.CompetitionID
			if err := tx.Create(&phaseRow).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, r.logError("competition_repo_create_failed", err,
			"competition_id", row.CompetitionID,
		)
	}
	return created, nil
}

func (r *Repository) GetCompetition(ctx context.Context, competitionID string) (entities.Competition, error) {
	var row competitionModel
	err := r.db.WithContext(ctx).
		Where("competition_id = ?", strings.TrimSpace(competitionID)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Competition{}, domainerrors.ErrCompetitionNotFound
		}
		return entities.Competition{}, r.logError("competition_repo_get_failed", err,
			"competition_id", strings.TrimSpace(competitionID),
		)
	}
	var phases []phaseModel
	if err := r.db.WithContext(ctx).
		Where("competition_id = ?", row.CompetitionID).
		Order("ordinal ASC").
		Find(&phases).Error; err != nil {
		return entities.Competition{}, r.logError("competition_repo_list_phases_failed", err,
			"competition_id", row.CompetitionID,
		)
	}
	return row.toEntity(phases), nil
}

func (r *Repository) ListCompetitions(ctx context.Context) ([]entities.Competition, error) {
	var rows []competitionModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Order("competition_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("competition_repo_list_failed", err)
	}
	var phases []phaseModel
	if err := r.db.WithContext(ctx).
		Order("competition_id ASC").
		Order("ordinal ASC").
		Find(&phases).Error; err != nil {
		return nil, r.logError("competition_repo_list_all_phases_failed", err)
	}
	byCompetition := make(map[string][]phaseModel, len(rows))
	for _, phase := range phases {
		byCompetition[phase.CompetitionID] = append(byCompetition[phase.CompetitionID], phase)
	}
	items := make([]entities.Competition, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity(byCompetition[row.CompetitionID]))
	}
	return items, nil
}

func (r *Repository) AddPhase(ctx context.Context, phase entities.Phase) (entities.Phase, error) {
	row := phaseModelFromEntity(phase)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&competitionModel{}).
			Where("competition_id = ?", row.CompetitionID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrCompetitionNotFound
		}
		var maxOrdinal int
		if err := tx.Model(&phaseModel{}).
			Where("competition_id = ?", row.CompetitionID).
			Select("COALESCE(MAX(ordinal), 0)").
			Scan(&maxOrdinal).Error; err != nil {
			return err
		}
		row.Ordinal = maxOrdinal + 1
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return tx.Model(&competitionModel{}).
			Where("competition_id = ?", row.CompetitionID).
			Update("updated_at", row.CreatedAt).Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrCompetitionNotFound) {
			return entities.Phase{}, err
		}
		return entities.Phase{}, r.logError("competition_repo_add_phase_failed", err,
			"competition_id", row.CompetitionID,
			"phase_id", row.PhaseID,
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "contest-engagement/competition-clock",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("competition repository operation failed", fields...)
	return fmt.Errorf("%w: %v", domainerrors.ErrDependencyUnavailable, err)
}

type competitionModel struct {
	CompetitionID string    `gorm:"column:competition_id;primaryKey"`
	Name          string    `gorm:"column:name;not null"`
	Timezone      string    `gorm:"column:timezone;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;not null"`
	UpdatedAt     time.Time `gorm:"column:updated_at;not null"`
}

func (competitionModel) TableName() string {
	return "competitions"
}

func competitionModelFromEntity(competition entities.Competition) competitionModel {
	row := competitionModel{
		CompetitionID: strings.TrimSpace(competition.CompetitionID),
		Name:          strings.TrimSpace(competition.Name),
		Timezone:      strings.TrimSpace(competition.Timezone),
		CreatedAt:     competition.CreatedAt.UTC(),
		UpdatedAt:     competition.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m competitionModel) toEntity(phases []phaseModel) entities.Competition {
	competition := entities.Competition{
		CompetitionID: m.CompetitionID,
		Name:          m.Name,
		Timezone:      m.Timezone,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
	for _, phase := range phases {
		competition.Phases = append(competition.Phases, phase.toEntity())
	}
	return competition
}

type phaseModel struct {
	PhaseID       string    `gorm:"column:phase_id;primaryKey"`
	CompetitionID string    `gorm:"column:competition_id;not null;uniqueIndex:idx_competition_phases_ordinal"`
	Name          string    `gorm:"column:name;not null"`
	Kind          string    `gorm:"column:kind;not null"`
	Ordinal       int       `gorm:"column:ordinal;not null;uniqueIndex:idx_competition_phases_ordinal"`
	StartsAt      time.Time `gorm:"column:starts_at;not null"`
	EndsAt        time.Time `gorm:"column:ends_at;not null"`
	DoubleCredit  bool      `gorm:"column:double_credit;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;not null"`
}

func (phaseModel) TableName() string {
	return "competition_phases"
}

func phaseModelFromEntity(phase entities.Phase) phaseModel {
	row := phaseModel{
		PhaseID:       strings.TrimSpace(phase.PhaseID),
		CompetitionID: strings.TrimSpace(phase.CompetitionID),
		Name:          strings.TrimSpace(phase.Name),
		Kind:          string(phase.Kind),
		Ordinal:       phase.Ordinal,
		StartsAt:      phase.StartsAt.UTC(),
		EndsAt:        phase.EndsAt.UTC(),
		DoubleCredit:  phase.DoubleCredit,
		CreatedAt:     phase.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m phaseModel) toEntity() entities.Phase {
	return entities.Phase{
		PhaseID:       m.PhaseID,
		CompetitionID: m.CompetitionID,
		Name:          m.Name,
		Kind:          entities.PhaseKind(m.Kind),
		Ordinal:       m.Ordinal,
		StartsAt:      m.StartsAt.UTC(),
		EndsAt:        m.EndsAt.UTC(),
		DoubleCredit:  m.DoubleCredit,
		CreatedAt:     m.CreatedAt.UTC(),
	}
}

var _ ports.CompetitionRepository = (*Repository)(nil)
