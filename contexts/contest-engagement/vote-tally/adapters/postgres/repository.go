package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"spotlight/contexts/contest-engagement/vote-tally/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/vote-tally/domain/errors"
	"spotlight/contexts/contest-engagement/vote-tally/ports"
	"spotlight/internal/shared/outbox"

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

// AutoMigrate creates the vote ledger. The bonus ledger appends to the same
// table.
func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&voteEventModel{})
}

func (r *Repository) AppendVoteEvent(ctx context.Context, entry ports.VoteAppend) (ports.AppendResult, error) {
	row := voteEventModelFromEntity(entry.Event)
	var result ports.AppendResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		create := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dedup_key"}},
			DoNothing: true,
		}).Create(&row)
		if create.Error != nil {
			return create.Error
		}
		if create.RowsAffected == 0 {
			if row.DedupKey == nil {
				return fmt.Errorf("vote event %s not inserted", row.VoteEventID)
			}
			var original voteEventModel
			if err := tx.Where("dedup_key = ?", *row.DedupKey).First(&original).Error; err != nil {
				return err
			}
			total, err := contestantTotal(tx, original.ContestantID)
			if err != nil {
				return err
			}
			result = ports.AppendResult{Event: original.toEntity(), NewTotal: total}
			return nil
		}
		increment := tx.Model(&contestantProjectionModel{}).
			Where("contestant_id = ?", row.ContestantID).
			UpdateColumns(map[string]any{
				"vote_total": gorm.Expr("vote_total + ?", row.CreditedQuantity),
				"updated_at": row.CreatedAt,
			})
		if increment.Error != nil {
			return increment.Error
		}
		if increment.RowsAffected == 0 {
			return domainerrors.ErrContestantNotFound
		}
		if err := outbox.Insert(tx, entry.Events...); err != nil {
			return err
		}
		total, err := contestantTotal(tx, row.ContestantID)
		if err != nil {
			return err
		}
		result = ports.AppendResult{Event: row.toEntity(), NewTotal: total, Created: true}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrContestantNotFound) {
			return ports.AppendResult{}, err
		}
		return ports.AppendResult{}, r.logError("vote_repo_append_failed", err,
			"contestant_id", row.ContestantID,
			"source", row.Source,
		)
	}
	return result, nil
}

func (r *Repository) ListVoteEvents(ctx context.Context, contestantID string) ([]entities.VoteEvent, error) {
	var rows []voteEventModel
	if err := r.db.WithContext(ctx).
		Where("contestant_id = ?", strings.TrimSpace(contestantID)).
		Order("created_at ASC").
		Order("vote_event_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("vote_repo_list_events_failed", err,
			"contestant_id", strings.TrimSpace(contestantID),
		)
	}
	items := make([]entities.VoteEvent, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) SumCredited(ctx context.Context, contestantID string) (ports.LedgerSum, error) {
	var row struct {
		Credited int64
		Events   int64
	}
	if err := r.db.WithContext(ctx).
		Model(&voteEventModel{}).
		Select("COALESCE(SUM(credited_quantity), 0) AS credited, COUNT(*) AS events").
		Where("contestant_id = ?", strings.TrimSpace(contestantID)).
		Scan(&row).Error; err != nil {
		return ports.LedgerSum{}, r.logError("vote_repo_sum_failed", err,
			"contestant_id", strings.TrimSpace(contestantID),
		)
	}
	return ports.LedgerSum{Credited: row.Credited, Events: int(row.Events)}, nil
}

func (r *Repository) GetContestant(ctx context.Context, contestantID string) (entities.ContestantTotal, error) {
	var row contestantProjectionModel
	err := r.db.WithContext(ctx).
		Where("contestant_id = ?", strings.TrimSpace(contestantID)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ContestantTotal{}, domainerrors.ErrContestantNotFound
		}
		return entities.ContestantTotal{}, r.logError("vote_repo_get_contestant_failed", err,
			"contestant_id", strings.TrimSpace(contestantID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListContestants(ctx context.Context, competitionID string) ([]entities.ContestantTotal, error) {
	var rows []contestantProjectionModel
	if err := r.db.WithContext(ctx).
		Where("competition_id = ?", strings.TrimSpace(competitionID)).
		Order("vote_total DESC").
		Order("created_at ASC").
		Order("contestant_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("vote_repo_list_contestants_failed", err,
			"competition_id", strings.TrimSpace(competitionID),
		)
	}
	items := make([]entities.ContestantTotal, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "contest-engagement/vote-tally",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("vote tally repository operation failed", fields...)
	return fmt.Errorf("%w: %v", domainerrors.ErrDependencyUnavailable, err)
}

func contestantTotal(tx *gorm.DB, contestantID string) (int64, error) {
	var total int64
	err := tx.Model(&contestantProjectionModel{}).
		Where("contestant_id = ?", contestantID).
		Select("vote_total").
		Scan(&total).Error
	return total, err
}

type voteEventModel struct {
	VoteEventID      string    `gorm:"column:vote_event_id;primaryKey"`
	ContestantID     string    `gorm:"column:contestant_id;not null;index:idx_vote_events_contestant"`
	CompetitionID    string    `gorm:"column:competition_id;not null;index:idx_vote_events_competition"`
	Source           string    `gorm:"column:source;not null"`
	RawQuantity      int64     `gorm:"column:raw_quantity;not null"`
	Multiplier       int64     `gorm:"column:multiplier;not null;default:1"`
	CreditedQuantity int64     `gorm:"column:credited_quantity;not null"`
	VoterID          string    `gorm:"column:voter_id;not null;default:''"`
	Reference        string    `gorm:"column:reference;not null;default:''"`
	DedupKey         *string   `gorm:"column:dedup_key;uniqueIndex:idx_vote_events_dedup"`
	LocalDate        string    `gorm:"column:local_date;not null;default:''"`
	CreatedAt        time.Time `gorm:"column:created_at;not null;index:idx_vote_events_contestant"`
}

func (voteEventModel) TableName() string {
	return "vote_events"
}

func voteEventModelFromEntity(vote entities.VoteEvent) voteEventModel {
	row := voteEventModel{
		VoteEventID:      strings.TrimSpace(vote.VoteEventID),
		ContestantID:     strings.TrimSpace(vote.ContestantID),
		CompetitionID:    strings.TrimSpace(vote.CompetitionID),
		Source:           string(vote.Source),
		RawQuantity:      vote.RawQuantity,
		Multiplier:       vote.Multiplier,
		CreditedQuantity: vote.CreditedQuantity,
		VoterID:          strings.TrimSpace(vote.VoterID),
		Reference:        strings.TrimSpace(vote.Reference),
		LocalDate:        vote.LocalDate,
		CreatedAt:        vote.CreatedAt.UTC(),
	}
	if key := strings.TrimSpace(vote.DedupKey); key != "" {
		row.DedupKey = &key
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m voteEventModel) toEntity() entities.VoteEvent {
	vote := entities.VoteEvent{
		VoteEventID:      m.VoteEventID,
		ContestantID:     m.ContestantID,
		CompetitionID:    m.CompetitionID,
		Source:           entities.VoteSource(m.Source),
		RawQuantity:      m.RawQuantity,
		Multiplier:       m.Multiplier,
		CreditedQuantity: m.CreditedQuantity,
		VoterID:          m.VoterID,
		Reference:        m.Reference,
		LocalDate:        m.LocalDate,
		CreatedAt:        m.CreatedAt.UTC(),
	}
	if m.DedupKey != nil {
		vote.DedupKey = *m.DedupKey
	}
	return vote
}

// contestantProjectionModel reads the contestants table owned by the nominee
// lifecycle service.
type contestantProjectionModel struct {
	ContestantID  string    `gorm:"column:contestant_id;primaryKey"`
	CompetitionID string    `gorm:"column:competition_id"`
	DisplayName   string    `gorm:"column:display_name"`
	VoteTotal     int64     `gorm:"column:vote_total"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (contestantProjectionModel) TableName() string {
	return "contestants"
}

func (m contestantProjectionModel) toEntity() entities.ContestantTotal {
	return entities.ContestantTotal{
		ContestantID:  m.ContestantID,
		CompetitionID: m.CompetitionID,
		DisplayName:   m.DisplayName,
		VoteTotal:     m.VoteTotal,
		CreatedAt:     m.CreatedAt.UTC(),
	}
}

var _ ports.VoteRepository = (*Repository)(nil)
var _ ports.ContestantDirectory = (*Repository)(nil)
