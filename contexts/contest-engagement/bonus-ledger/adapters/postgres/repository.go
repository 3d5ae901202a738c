package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"spotlight/contexts/contest-engagement/bonus-ledger/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/bonus-ledger/domain/errors"
	"spotlight/contexts/contest-engagement/bonus-ledger/ports"
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

// AutoMigrate creates the ledger-owned tables. vote_events and contestants are
// migrated by the vote tally and nominee lifecycle services.
func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&taskModel{}, &awardModel{})
}

func (r *Repository) PublishCatalog(ctx context.Context, competitionID string, tasks []entities.Task) (int, error) {
	inserted := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inserted = 0
		for _, task := range tasks {
			row := taskModelFromEntity(task)
			row.CompetitionID = strings.TrimSpace(competitionID)
			create := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "competition_id"}, {Name: "task_key"}},
				DoNothing: true,
			}).Create(&row)
			if create.Error != nil {
				return create.Error
			}
			inserted += int(create.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, r.logError("bonus_repo_publish_catalog_failed", err,
			"competition_id", strings.TrimSpace(competitionID),
		)
	}
	return inserted, nil
}

func (r *Repository) ListTasks(ctx context.Context, competitionID string) ([]entities.Task, error) {
	var rows []taskModel
	if err := r.db.WithContext(ctx).
		Where("competition_id = ?", strings.TrimSpace(competitionID)).
		Order("sort_order ASC").
		Order("task_key ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("bonus_repo_list_tasks_failed", err,
			"competition_id", strings.TrimSpace(competitionID),
		)
	}
	items := make([]entities.Task, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateTaskPoints(
	ctx context.Context,
	competitionID string,
	taskKey string,
	points int64,
	updatedAt time.Time,
) (entities.Task, error) {
	var row taskModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		update := tx.Model(&taskModel{}).
			Where("competition_id = ? AND task_key = ?", strings.TrimSpace(competitionID), strings.TrimSpace(taskKey)).
			Updates(map[string]any{
				"points":     points,
				"updated_at": updatedAt.UTC(),
			})
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return domainerrors.ErrInvalidTask
		}
		return tx.Where("competition_id = ? AND task_key = ?", strings.TrimSpace(competitionID), strings.TrimSpace(taskKey)).
			First(&row).Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvalidTask) {
			return entities.Task{}, err
		}
		return entities.Task{}, r.logError("bonus_repo_update_points_failed", err,
			"competition_id", strings.TrimSpace(competitionID),
			"task_key", strings.TrimSpace(taskKey),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) AwardBonus(ctx context.Context, award ports.BonusAward) (ports.BonusAwardResult, error) {
	awardRow := awardModelFromEntity(award.Award)
	voteRow := bonusVoteModelFromPort(award.Vote)
	var result ports.BonusAwardResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		create := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "contestant_id"}, {Name: "task_key"}},
			DoNothing: true,
		}).Create(&awardRow)
		if create.Error != nil {
			return create.Error
		}
		if create.RowsAffected == 0 {
			total, err := contestantTotal(tx, awardRow.ContestantID)
			if err != nil {
				return err
			}
			result = ports.BonusAwardResult{NewTotal: total}
			return nil
		}
		if err := tx.Create(&voteRow).Error; err != nil {
			return err
		}
		increment := tx.Model(&contestantProjectionModel{}).
			Where("contestant_id = ?", awardRow.ContestantID).
			UpdateColumns(map[string]any{
				"vote_total": gorm.Expr("vote_total + ?", voteRow.CreditedQuantity),
				"updated_at": voteRow.CreatedAt,
			})
		if increment.Error != nil {
			return increment.Error
		}
		if increment.RowsAffected == 0 {
			return domainerrors.ErrContestantNotFound
		}
		total, err := contestantTotal(tx, awardRow.ContestantID)
		if err != nil {
			return err
		}
		if err := outbox.Insert(tx, award.Events...); err != nil {
			return err
		}
		result = ports.BonusAwardResult{Created: true, NewTotal: total}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrContestantNotFound) {
			return ports.BonusAwardResult{}, err
		}
		return ports.BonusAwardResult{}, r.logError("bonus_repo_award_failed", err,
			"contestant_id", awardRow.ContestantID,
			"task_key", awardRow.TaskKey,
		)
	}
	return result, nil
}

func (r *Repository) ListAwards(ctx context.Context, contestantID string) ([]entities.AwardRecord, error) {
	var rows []awardModel
	if err := r.db.WithContext(ctx).
		Where("contestant_id = ?", strings.TrimSpace(contestantID)).
		Order("awarded_at ASC").
		Order("task_key ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("bonus_repo_list_awards_failed", err,
			"contestant_id", strings.TrimSpace(contestantID),
		)
	}
	items := make([]entities.AwardRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetContestant(ctx context.Context, contestantID string) (entities.ContestantRef, error) {
	var row contestantProjectionModel
	err := r.db.WithContext(ctx).
		Where("contestant_id = ?", strings.TrimSpace(contestantID)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ContestantRef{}, domainerrors.ErrContestantNotFound
		}
		return entities.ContestantRef{}, r.logError("bonus_repo_get_contestant_failed", err,
			"contestant_id", strings.TrimSpace(contestantID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "contest-engagement/bonus-ledger",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("bonus ledger repository operation failed", fields...)
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

type taskModel struct {
	CompetitionID string    `gorm:"column:competition_id;primaryKey"`
	TaskKey       string    `gorm:"column:task_key;primaryKey"`
	Label         string    `gorm:"column:label;not null"`
	Points        int64     `gorm:"column:points;not null"`
	SortOrder     int       `gorm:"column:sort_order;not null"`
	Kind          string    `gorm:"column:kind;not null"`
	PublishedAt   time.Time `gorm:"column:published_at;not null"`
	UpdatedAt     time.Time `gorm:"column:updated_at;not null"`
}

func (taskModel) TableName() string {
	return "bonus_tasks"
}

func taskModelFromEntity(task entities.Task) taskModel {
	row := taskModel{
		CompetitionID: strings.TrimSpace(task.CompetitionID),
		TaskKey:       strings.TrimSpace(task.Key),
		Label:         strings.TrimSpace(task.Label),
		Points:        task.Points,
		SortOrder:     task.SortOrder,
		Kind:          string(task.Kind),
		PublishedAt:   task.PublishedAt.UTC(),
		UpdatedAt:     task.UpdatedAt.UTC(),
	}
	if row.PublishedAt.IsZero() {
		row.PublishedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.PublishedAt
	}
	return row
}

func (m taskModel) toEntity() entities.Task {
	return entities.Task{
		CompetitionID: m.CompetitionID,
		Key:           m.TaskKey,
		Label:         m.Label,
		Points:        m.Points,
		SortOrder:     m.SortOrder,
		Kind:          entities.TaskKind(m.Kind),
		PublishedAt:   m.PublishedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

type awardModel struct {
	AwardID       string    `gorm:"column:award_id;primaryKey"`
	ContestantID  string    `gorm:"column:contestant_id;not null;uniqueIndex:idx_bonus_awards_contestant_task"`
	TaskKey       string    `gorm:"column:task_key;not null;uniqueIndex:idx_bonus_awards_contestant_task"`
	CompetitionID string    `gorm:"column:competition_id;not null"`
	PointsGranted int64     `gorm:"column:points_granted;not null"`
	AwardedAt     time.Time `gorm:"column:awarded_at;not null"`
}

func (awardModel) TableName() string {
	return "bonus_awards"
}

func awardModelFromEntity(record entities.AwardRecord) awardModel {
	row := awardModel{
		AwardID:       strings.TrimSpace(record.AwardID),
		ContestantID:  strings.TrimSpace(record.ContestantID),
		TaskKey:       strings.TrimSpace(record.TaskKey),
		CompetitionID: strings.TrimSpace(record.CompetitionID),
		PointsGranted: record.PointsGranted,
		AwardedAt:     record.AwardedAt.UTC(),
	}
	if row.AwardedAt.IsZero() {
		row.AwardedAt = time.Now().UTC()
	}
	return row
}

func (m awardModel) toEntity() entities.AwardRecord {
	return entities.AwardRecord{
		AwardID:       m.AwardID,
		ContestantID:  m.ContestantID,
		CompetitionID: m.CompetitionID,
		TaskKey:       m.TaskKey,
		PointsGranted: m.PointsGranted,
		AwardedAt:     m.AwardedAt.UTC(),
	}
}

// bonusVoteModel writes into the vote ledger table owned by vote tally.
type bonusVoteModel struct {
	VoteEventID      string    `gorm:"column:vote_event_id;primaryKey"`
	ContestantID     string    `gorm:"column:contestant_id"`
	CompetitionID    string    `gorm:"column:competition_id"`
	Source           string    `gorm:"column:source"`
	RawQuantity      int64     `gorm:"column:raw_quantity"`
	Multiplier       int64     `gorm:"column:multiplier"`
	CreditedQuantity int64     `gorm:"column:credited_quantity"`
	VoterID          string    `gorm:"column:voter_id"`
	Reference        string    `gorm:"column:reference"`
	DedupKey         *string   `gorm:"column:dedup_key"`
	LocalDate        string    `gorm:"column:local_date"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (bonusVoteModel) TableName() string {
	return "vote_events"
}

func bonusVoteModelFromPort(vote ports.BonusVote) bonusVoteModel {
	dedupKey := strings.TrimSpace(vote.DedupKey)
	row := bonusVoteModel{
		VoteEventID:      strings.TrimSpace(vote.VoteEventID),
		ContestantID:     strings.TrimSpace(vote.ContestantID),
		CompetitionID:    strings.TrimSpace(vote.CompetitionID),
		Source:           "bonus",
		RawQuantity:      vote.Quantity,
		Multiplier:       1,
		CreditedQuantity: vote.Quantity,
		DedupKey:         &dedupKey,
		CreatedAt:        vote.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

type contestantProjectionModel struct {
	ContestantID  string    `gorm:"column:contestant_id;primaryKey"`
	CompetitionID string    `gorm:"column:competition_id"`
	DisplayName   string    `gorm:"column:display_name"`
	Bio           string    `gorm:"column:bio"`
	City          string    `gorm:"column:city"`
	PhotoRef      string    `gorm:"column:photo_ref"`
	Instagram     string    `gorm:"column:instagram"`
	TikTok        string    `gorm:"column:tiktok"`
	Twitter       string    `gorm:"column:twitter"`
	Facebook      string    `gorm:"column:facebook"`
	YouTube       string    `gorm:"column:youtube"`
	VoteTotal     int64     `gorm:"column:vote_total"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (contestantProjectionModel) TableName() string {
	return "contestants"
}

func (m contestantProjectionModel) toEntity() entities.ContestantRef {
	return entities.ContestantRef{
		ContestantID:  m.ContestantID,
		CompetitionID: m.CompetitionID,
		VoteTotal:     m.VoteTotal,
		Profile: entities.ProfileSnapshot{
			DisplayName: m.DisplayName,
			Bio:         m.Bio,
			City:        m.City,
			PhotoRef:    m.PhotoRef,
			Instagram:   m.Instagram,
			TikTok:      m.TikTok,
			Twitter:     m.Twitter,
			Facebook:    m.Facebook,
			YouTube:     m.YouTube,
		}.Normalized(),
	}
}

var _ ports.CatalogRepository = (*Repository)(nil)
var _ ports.AwardRepository = (*Repository)(nil)
var _ ports.ContestantDirectory = (*Repository)(nil)
