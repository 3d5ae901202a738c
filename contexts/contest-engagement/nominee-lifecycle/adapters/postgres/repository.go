package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"spotlight/contexts/contest-engagement/nominee-lifecycle/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/nominee-lifecycle/domain/errors"
	"spotlight/contexts/contest-engagement/nominee-lifecycle/ports"
	"spotlight/internal/shared/outbox"

	"github.com/jackc/pgx/v5/pgconn"
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
	return r.db.AutoMigrate(&nomineeModel{}, &transitionModel{}, &contestantModel{}, &eventDedupModel{})
}

func (r *Repository) CreateNominee(
	ctx context.Context,
	nominee entities.Nominee,
	transition entities.Transition,
	envelopes []ports.EventEnvelope,
) error {
	row, err := nomineeModelFromEntity(nominee)
	if err != nil {
		return r.logError("nominee_repo_encode_failed", err, "nominee_id", nominee.NomineeID)
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		create := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if create.Error != nil {
			if isUniqueViolation(create.Error) {
				return domainerrors.ErrDuplicateEntry
			}
			return create.Error
		}
		if create.RowsAffected == 0 {
			return domainerrors.ErrDuplicateEntry
		}
		transitionRow := transitionModelFromEntity(transition)
		if err := tx.Create(&transitionRow).Error; err != nil {
			return err
		}
		return outbox.Insert(tx, envelopes...)
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateEntry) {
			return err
		}
		return r.logError("nominee_repo_create_failed", err,
			"nominee_id", row.NomineeID,
			"competition_id", row.CompetitionID,
		)
	}
	return nil
}

func (r *Repository) GetNominee(ctx context.Context, nomineeID string) (entities.Nominee, error) {
	row, err := loadNominee(r.db.WithContext(ctx), strings.TrimSpace(nomineeID))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNomineeNotFound) {
			return entities.Nominee{}, err
		}
		return entities.Nominee{}, r.logError("nominee_repo_get_failed", err,
			"nominee_id", strings.TrimSpace(nomineeID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListNominees(ctx context.Context, filter ports.NomineeFilter) ([]entities.Nominee, error) {
	query := r.db.WithContext(ctx).Model(&nomineeModel{})
	if filter.CompetitionID != "" {
		query = query.Where("competition_id = ?", filter.CompetitionID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	var rows []nomineeModel
	if err := query.Order("created_at ASC").Order("nominee_id ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("nominee_repo_list_failed", err,
			"competition_id", filter.CompetitionID,
		)
	}
	items := make([]entities.Nominee, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) SaveNominee(ctx context.Context, mutation ports.NomineeMutation) error {
	row, err := nomineeModelFromEntity(mutation.Nominee)
	if err != nil {
		return r.logError("nominee_repo_encode_failed", err, "nominee_id", mutation.Nominee.NomineeID)
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		update := tx.Model(&nomineeModel{}).
			Where("nominee_id = ? AND status = ? AND account_id = ?",
				row.NomineeID,
				string(mutation.ExpectedStatus),
				strings.TrimSpace(mutation.ExpectedAccountID),
			).
			Updates(row.mutableColumns())
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			if _, err := loadNominee(tx, row.NomineeID); err != nil {
				return err
			}
			return domainerrors.ErrStaleNominee
		}
		if mutation.Transition != nil {
			transitionRow := transitionModelFromEntity(*mutation.Transition)
			if err := tx.Create(&transitionRow).Error; err != nil {
				return err
			}
		}
		return outbox.Insert(tx, mutation.Events...)
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrStaleNominee) || errors.Is(err, domainerrors.ErrNomineeNotFound) {
			return err
		}
		return r.logError("nominee_repo_save_failed", err,
			"nominee_id", row.NomineeID,
			"status", row.Status,
		)
	}
	return nil
}

func (r *Repository) ListTransitions(ctx context.Context, nomineeID string) ([]entities.Transition, error) {
	var rows []transitionModel
	if err := r.db.WithContext(ctx).
		Where("nominee_id = ?", strings.TrimSpace(nomineeID)).
		Order("occurred_at ASC").
		Order("sequence ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("nominee_repo_list_transitions_failed", err,
			"nominee_id", strings.TrimSpace(nomineeID),
		)
	}
	items := make([]entities.Transition, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ConvertNominee(ctx context.Context, conversion ports.Conversion) (ports.ConversionResult, error) {
	nomineeRow, err := nomineeModelFromEntity(conversion.Nominee)
	if err != nil {
		return ports.ConversionResult{}, r.logError("nominee_repo_encode_failed", err,
			"nominee_id", conversion.Nominee.NomineeID,
		)
	}
	contestantRow, err := contestantModelFromEntity(conversion.Contestant)
	if err != nil {
		return ports.ConversionResult{}, r.logError("contestant_repo_encode_failed", err,
			"nominee_id", conversion.Nominee.NomineeID,
		)
	}

	var result ports.ConversionResult
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		update := tx.Model(&nomineeModel{}).
			Where("nominee_id = ? AND status = ? AND converted = ?",
				nomineeRow.NomineeID,
				string(conversion.ExpectedStatus),
				false,
			).
			Updates(nomineeRow.mutableColumns())
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			current, err := loadNominee(tx, nomineeRow.NomineeID)
			if err != nil {
				return err
			}
			if !current.Converted {
				return domainerrors.ErrStaleNominee
			}
			var existing contestantModel
			if err := tx.Where("nominee_id = ?", nomineeRow.NomineeID).First(&existing).Error; err != nil {
				return err
			}
			result = ports.ConversionResult{Contestant: existing.toEntity()}
			return nil
		}

		create := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "nominee_id"}},
			DoNothing: true,
		}).Create(&contestantRow)
		if create.Error != nil {
			return create.Error
		}
		if create.RowsAffected == 0 {
			return domainerrors.ErrStaleNominee
		}
		transitionRow := transitionModelFromEntity(conversion.Transition)
		if err := tx.Create(&transitionRow).Error; err != nil {
			return err
		}
		if err := outbox.Insert(tx, conversion.Events...); err != nil {
			return err
		}
		result = ports.ConversionResult{Contestant: contestantRow.toEntity(), Created: true}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrStaleNominee) || errors.Is(err, domainerrors.ErrNomineeNotFound) {
			return ports.ConversionResult{}, err
		}
		return ports.ConversionResult{}, r.logError("nominee_repo_convert_failed", err,
			"nominee_id", nomineeRow.NomineeID,
			"contestant_id", contestantRow.ContestantID,
		)
	}
	return result, nil
}

func (r *Repository) GetContestant(ctx context.Context, contestantID string) (entities.Contestant, error) {
	return r.findContestant(ctx, "contestant_id = ?", strings.TrimSpace(contestantID))
}

func (r *Repository) GetContestantByNominee(ctx context.Context, nomineeID string) (entities.Contestant, error) {
	return r.findContestant(ctx, "nominee_id = ?", strings.TrimSpace(nomineeID))
}

func (r *Repository) findContestant(ctx context.Context, condition string, value string) (entities.Contestant, error) {
	var row contestantModel
	err := r.db.WithContext(ctx).Where(condition, value).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Contestant{}, domainerrors.ErrContestantNotFound
		}
		return entities.Contestant{}, r.logError("contestant_repo_get_failed", err,
			"lookup", value,
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListContestants(ctx context.Context, competitionID string) ([]entities.Contestant, error) {
	var rows []contestantModel
	if err := r.db.WithContext(ctx).
		Where("competition_id = ?", strings.TrimSpace(competitionID)).
		Order("created_at ASC").
		Order("contestant_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("contestant_repo_list_failed", err,
			"competition_id", strings.TrimSpace(competitionID),
		)
	}
	items := make([]entities.Contestant, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateContestantProfile(ctx context.Context, contestant entities.Contestant) (entities.Contestant, error) {
	row, err := contestantModelFromEntity(contestant)
	if err != nil {
		return entities.Contestant{}, r.logError("contestant_repo_encode_failed", err,
			"contestant_id", contestant.ContestantID,
		)
	}
	var updated contestantModel
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		update := tx.Model(&contestantModel{}).
			Where("contestant_id = ?", row.ContestantID).
			Updates(map[string]any{
				"display_name": row.DisplayName,
				"bio":          row.Profile.Bio,
				"city":         row.Profile.City,
				"interests":    row.Profile.Interests,
				"photo_ref":    row.Profile.PhotoRef,
				"instagram":    row.Profile.Instagram,
				"tiktok":       row.Profile.TikTok,
				"twitter":      row.Profile.Twitter,
				"facebook":     row.Profile.Facebook,
				"youtube":      row.Profile.YouTube,
				"updated_at":   row.UpdatedAt,
			})
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return domainerrors.ErrContestantNotFound
		}
		return tx.Where("contestant_id = ?", row.ContestantID).First(&updated).Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrContestantNotFound) {
			return entities.Contestant{}, err
		}
		return entities.Contestant{}, r.logError("contestant_repo_update_profile_failed", err,
			"contestant_id", row.ContestantID,
		)
	}
	return updated.toEntity(), nil
}

func (r *Repository) ReserveEvent(ctx context.Context, eventID string, expiresAt time.Time) (bool, error) {
	now := time.Now().UTC()
	row := eventDedupModel{
		EventID:     strings.TrimSpace(eventID),
		ExpiresAt:   expiresAt.UTC(),
		ProcessedAt: now,
	}
	duplicate := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		create := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).Create(&row)
		if create.Error != nil {
			return create.Error
		}
		if create.RowsAffected > 0 {
			return nil
		}
		refresh := tx.Model(&eventDedupModel{}).
			Where("event_id = ? AND expires_at <= ?", row.EventID, now).
			Updates(map[string]any{"expires_at": row.ExpiresAt, "processed_at": now})
		if refresh.Error != nil {
			return refresh.Error
		}
		duplicate = refresh.RowsAffected == 0
		return nil
	})
	if err != nil {
		return false, r.logError("nominee_repo_reserve_event_failed", err,
			"event_id", row.EventID,
		)
	}
	return duplicate, nil
}

func (r *Repository) ReleaseEvent(ctx context.Context, eventID string) error {
	id := strings.TrimSpace(eventID)
	if err := r.db.WithContext(ctx).Where("event_id = ?", id).Delete(&eventDedupModel{}).Error; err != nil {
		return r.logError("nominee_repo_release_event_failed", err,
			"event_id", id,
		)
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "contest-engagement/nominee-lifecycle",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("nominee repository operation failed", fields...)
	return fmt.Errorf("%w: %v", domainerrors.ErrDependencyUnavailable, err)
}

func loadNominee(db *gorm.DB, nomineeID string) (nomineeModel, error) {
	var row nomineeModel
	if err := db.Where("nominee_id = ?", nomineeID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nomineeModel{}, domainerrors.ErrNomineeNotFound
		}
		return nomineeModel{}, err
	}
	return row, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

type profileColumns struct {
	Bio       string `gorm:"column:bio;not null;default:''"`
	City      string `gorm:"column:city;not null;default:''"`
	Interests string `gorm:"column:interests;not null;default:'[]'"`
	PhotoRef  string `gorm:"column:photo_ref;not null;default:''"`
	Instagram string `gorm:"column:instagram;not null;default:''"`
	TikTok    string `gorm:"column:tiktok;not null;default:''"`
	Twitter   string `gorm:"column:twitter;not null;default:''"`
	Facebook  string `gorm:"column:facebook;not null;default:''"`
	YouTube   string `gorm:"column:youtube;not null;default:''"`
}

func profileColumnsFromEntity(profile entities.Profile) (profileColumns, error) {
	profile = profile.Normalized()
	interests := profile.Interests
	if interests == nil {
		interests = []string{}
	}
	encoded, err := json.Marshal(interests)
	if err != nil {
		return profileColumns{}, err
	}
	return profileColumns{
		Bio:       profile.Bio,
		City:      profile.City,
		Interests: string(encoded),
		PhotoRef:  profile.PhotoRef,
		Instagram: profile.Instagram,
		TikTok:    profile.TikTok,
		Twitter:   profile.Twitter,
		Facebook:  profile.Facebook,
		YouTube:   profile.YouTube,
	}, nil
}

func (p profileColumns) toEntity() entities.Profile {
	profile := entities.Profile{
		Bio:       p.Bio,
		City:      p.City,
		PhotoRef:  p.PhotoRef,
		Instagram: p.Instagram,
		TikTok:    p.TikTok,
		Twitter:   p.Twitter,
		Facebook:  p.Facebook,
		YouTube:   p.YouTube,
	}
	var interests []string
	if err := json.Unmarshal([]byte(p.Interests), &interests); err == nil && len(interests) > 0 {
		profile.Interests = interests
	}
	return profile
}

type nomineeModel struct {
	NomineeID        string         `gorm:"column:nominee_id;primaryKey"`
	CompetitionID    string         `gorm:"column:competition_id;not null;uniqueIndex:idx_nominees_competition_contact;index:idx_nominees_competition_status"`
	DisplayName      string         `gorm:"column:display_name;not null"`
	Contact          string         `gorm:"column:contact;not null"`
	ContactKey       string         `gorm:"column:contact_key;not null;uniqueIndex:idx_nominees_competition_contact"`
	Channel          string         `gorm:"column:channel;not null"`
	SubmitterID      string         `gorm:"column:submitter_id;not null;default:''"`
	SubmitterName    string         `gorm:"column:submitter_name;not null;default:''"`
	SubmitterContact string         `gorm:"column:submitter_contact;not null;default:''"`
	Status           string         `gorm:"column:status;not null;index:idx_nominees_competition_status"`
	AccountID        string         `gorm:"column:account_id;not null;default:''"`
	ClaimToken       string         `gorm:"column:claim_token;not null;default:''"`
	Profile          profileColumns `gorm:"embedded"`
	ProfileComplete  bool           `gorm:"column:profile_complete;not null;default:false"`
	Converted        bool           `gorm:"column:converted;not null;default:false"`
	ContestantID     string         `gorm:"column:contestant_id;not null;default:''"`
	CreatedAt        time.Time      `gorm:"column:created_at;not null"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;not null"`
	DecidedAt        *time.Time     `gorm:"column:decided_at"`
	ConvertedAt      *time.Time     `gorm:"column:converted_at"`
}

func (nomineeModel) TableName() string {
	return "nominees"
}

func nomineeModelFromEntity(nominee entities.Nominee) (nomineeModel, error) {
	profile, err := profileColumnsFromEntity(nominee.Profile)
	if err != nil {
		return nomineeModel{}, err
	}
	row := nomineeModel{
		NomineeID:       strings.TrimSpace(nominee.NomineeID),
		CompetitionID:   strings.TrimSpace(nominee.CompetitionID),
		DisplayName:     strings.TrimSpace(nominee.DisplayName),
		Contact:         strings.TrimSpace(nominee.Contact),
		ContactKey:      strings.TrimSpace(nominee.ContactKey),
		Channel:         string(nominee.Channel),
		Status:          string(nominee.Status),
		AccountID:       strings.TrimSpace(nominee.AccountID),
		ClaimToken:      nominee.ClaimToken,
		Profile:         profile,
		ProfileComplete: nominee.ProfileComplete,
		Converted:       nominee.Converted,
		ContestantID:    strings.TrimSpace(nominee.ContestantID),
		CreatedAt:       nominee.CreatedAt.UTC(),
		UpdatedAt:       nominee.UpdatedAt.UTC(),
		DecidedAt:       normalizeOptionalTime(nominee.DecidedAt),
		ConvertedAt:     normalizeOptionalTime(nominee.ConvertedAt),
	}
	if nominee.Submitter != nil {
		row.SubmitterID = nominee.Submitter.SubmitterID
		row.SubmitterName = nominee.Submitter.Name
		row.SubmitterContact = nominee.Submitter.Contact
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row, nil
}

// mutableColumns lists every column a lifecycle write may change. Identity,
// channel and submitter are fixed at submission.
func (m nomineeModel) mutableColumns() map[string]any {
	return map[string]any{
		"display_name":     m.DisplayName,
		"status":           m.Status,
		"account_id":       m.AccountID,
		"bio":              m.Profile.Bio,
		"city":             m.Profile.City,
		"interests":        m.Profile.Interests,
		"photo_ref":        m.Profile.PhotoRef,
		"instagram":        m.Profile.Instagram,
		"tiktok":           m.Profile.TikTok,
		"twitter":          m.Profile.Twitter,
		"facebook":         m.Profile.Facebook,
		"youtube":          m.Profile.YouTube,
		"profile_complete": m.ProfileComplete,
		"converted":        m.Converted,
		"contestant_id":    m.ContestantID,
		"updated_at":       m.UpdatedAt,
		"decided_at":       m.DecidedAt,
		"converted_at":     m.ConvertedAt,
	}
}

func (m nomineeModel) toEntity() entities.Nominee {
	nominee := entities.Nominee{
		NomineeID:       m.NomineeID,
		CompetitionID:   m.CompetitionID,
		DisplayName:     m.DisplayName,
		Contact:         m.Contact,
		ContactKey:      m.ContactKey,
		Channel:         entities.Channel(m.Channel),
		Status:          entities.NomineeStatus(m.Status),
		AccountID:       m.AccountID,
		ClaimToken:      m.ClaimToken,
		Profile:         m.Profile.toEntity(),
		ProfileComplete: m.ProfileComplete,
		Converted:       m.Converted,
		ContestantID:    m.ContestantID,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
		DecidedAt:       normalizeOptionalTime(m.DecidedAt),
		ConvertedAt:     normalizeOptionalTime(m.ConvertedAt),
	}
	if m.SubmitterName != "" || m.SubmitterID != "" {
		nominee.Submitter = &entities.Submitter{
			SubmitterID: m.SubmitterID,
			Name:        m.SubmitterName,
			Contact:     m.SubmitterContact,
		}
	}
	return nominee
}

type transitionModel struct {
	TransitionID string    `gorm:"column:transition_id;primaryKey"`
	Sequence     int64     `gorm:"column:sequence;not null"`
	NomineeID    string    `gorm:"column:nominee_id;not null;index:idx_nominee_transitions_nominee"`
	FromStatus   string    `gorm:"column:from_status;not null;default:''"`
	ToStatus     string    `gorm:"column:to_status;not null"`
	Event        string    `gorm:"column:event;not null"`
	ActorID      string    `gorm:"column:actor_id;not null;default:''"`
	OccurredAt   time.Time `gorm:"column:occurred_at;not null;index:idx_nominee_transitions_nominee"`
}

func (transitionModel) TableName() string {
	return "nominee_transitions"
}

func transitionModelFromEntity(transition entities.Transition) transitionModel {
	row := transitionModel{
		TransitionID: strings.TrimSpace(transition.TransitionID),
		Sequence:     time.Now().UnixNano(),
		NomineeID:    strings.TrimSpace(transition.NomineeID),
		FromStatus:   string(transition.FromStatus),
		ToStatus:     string(transition.ToStatus),
		Event:        string(transition.Event),
		ActorID:      strings.TrimSpace(transition.ActorID),
		OccurredAt:   transition.OccurredAt.UTC(),
	}
	if row.OccurredAt.IsZero() {
		row.OccurredAt = time.Now().UTC()
	}
	return row
}

func (m transitionModel) toEntity() entities.Transition {
	return entities.Transition{
		TransitionID: m.TransitionID,
		NomineeID:    m.NomineeID,
		FromStatus:   entities.NomineeStatus(m.FromStatus),
		ToStatus:     entities.NomineeStatus(m.ToStatus),
		Event:        entities.LifecycleEvent(m.Event),
		ActorID:      m.ActorID,
		OccurredAt:   m.OccurredAt.UTC(),
	}
}

type contestantModel struct {
	ContestantID  string         `gorm:"column:contestant_id;primaryKey"`
	CompetitionID string         `gorm:"column:competition_id;not null;index:idx_contestants_competition"`
	NomineeID     string         `gorm:"column:nominee_id;not null;uniqueIndex:idx_contestants_nominee"`
	DisplayName   string         `gorm:"column:display_name;not null"`
	Profile       profileColumns `gorm:"embedded"`
	VoteTotal     int64          `gorm:"column:vote_total;not null;default:0"`
	CreatedAt     time.Time      `gorm:"column:created_at;not null"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;not null"`
}

func (contestantModel) TableName() string {
	return "contestants"
}

func contestantModelFromEntity(contestant entities.Contestant) (contestantModel, error) {
	profile, err := profileColumnsFromEntity(contestant.Profile)
	if err != nil {
		return contestantModel{}, err
	}
	row := contestantModel{
		ContestantID:  strings.TrimSpace(contestant.ContestantID),
		CompetitionID: strings.TrimSpace(contestant.CompetitionID),
		NomineeID:     strings.TrimSpace(contestant.NomineeID),
		DisplayName:   strings.TrimSpace(contestant.DisplayName),
		Profile:       profile,
		VoteTotal:     contestant.VoteTotal,
		CreatedAt:     contestant.CreatedAt.UTC(),
		UpdatedAt:     contestant.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row, nil
}

func (m contestantModel) toEntity() entities.Contestant {
	return entities.Contestant{
		ContestantID:  m.ContestantID,
		CompetitionID: m.CompetitionID,
		NomineeID:     m.NomineeID,
		DisplayName:   m.DisplayName,
		Profile:       m.Profile.toEntity(),
		VoteTotal:     m.VoteTotal,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

type eventDedupModel struct {
	EventID     string    `gorm:"column:event_id;primaryKey"`
	ExpiresAt   time.Time `gorm:"column:expires_at;not null"`
	ProcessedAt time.Time `gorm:"column:processed_at;not null"`
}

func (eventDedupModel) TableName() string {
	return "nominee_event_dedup"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

var _ ports.NomineeRepository = (*Repository)(nil)
var _ ports.ContestantRepository = (*Repository)(nil)
var _ ports.EventDedupStore = (*Repository)(nil)
