package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/entities"
	domainerrors "github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/errors"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/ports"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

const accessibleBuildingsSQL = `
SELECT a.building_id
FROM apartment_owners AS ao
JOIN apartments AS a ON a.id = ao.apartment_id
WHERE ao.user_id = ?
UNION
SELECT a.building_id
FROM apartment_renters AS ar
JOIN apartments AS a ON a.id = ar.apartment_id
WHERE ar.user_id = ? AND ar.is_active
UNION
SELECT bm.building_id
FROM building_managers AS bm
WHERE bm.user_id = ?
ORDER BY 1`

const ownedApartmentsSQL = `
SELECT a.id AS apartment_id, a.building_id, a.size_sq_m
FROM apartment_owners AS ao
JOIN apartments AS a ON a.id = ao.apartment_id
WHERE ao.user_id = ?
ORDER BY a.id`

// errKeyHeld rolls back a create whose idempotency key is already taken.
var errKeyHeld = errors.New("idempotency key held")

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

func (r *Repository) CreateProposal(ctx context.Context, proposal entities.Proposal, event ports.EventEnvelope) error {
	row := proposalModelFromEntity(proposal)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return appendOutbox(tx, event)
	})
	if err != nil {
		return r.logError("governance_repo_create_proposal_failed", err,
			"proposal_id", row.ID,
		)
	}
	return nil
}

// CreateProposalClaimingKey inserts the key with ON CONFLICT DO NOTHING
// before the proposal. A concurrent claimant blocks on the unique index until
// the first transaction ends, then sees zero rows affected and reads the
// committed holder.
func (r *Repository) CreateProposalClaimingKey(
	ctx context.Context,
	proposal entities.Proposal,
	event ports.EventEnvelope,
	claim ports.IdempotencyRecord,
) (ports.IdempotencyRecord, bool, error) {
	row := proposalModelFromEntity(proposal)
	key := idempotencyModel{
		Key:         strings.TrimSpace(claim.Key),
		RequestHash: strings.TrimSpace(claim.RequestHash),
		ProposalID:  row.ID,
		ExpiresAt:   claim.ExpiresAt.UTC(),
	}
	var holder idempotencyModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("key = ? AND expires_at <= ?", key.Key, proposal.CreatedAt.UTC()).
			Delete(&idempotencyModel{}).Error; err != nil {
			return err
		}
		claimed := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).Create(&key)
		if claimed.Error != nil {
			return claimed.Error
		}
		if claimed.RowsAffected == 0 {
			if err := tx.Where("key = ?", key.Key).First(&holder).Error; err != nil {
				return err
			}
			return errKeyHeld
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return appendOutbox(tx, event)
	})
	if errors.Is(err, errKeyHeld) {
		return holder.toRecord(), false, nil
	}
	if err != nil {
		return ports.IdempotencyRecord{}, false, r.logError("governance_repo_create_proposal_claiming_key_failed", err,
			"proposal_id", row.ID,
			"idempotency_key", key.Key,
		)
	}
	return key.toRecord(), true, nil
}

func (r *Repository) GetProposal(ctx context.Context, proposalID string) (entities.Proposal, error) {
	var row proposalModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(proposalID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Proposal{}, domainerrors.ErrProposalNotFound
		}
		return entities.Proposal{}, r.logError("governance_repo_get_proposal_failed", err,
			"proposal_id", strings.TrimSpace(proposalID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListProposals(ctx context.Context, filter ports.ProposalFilter) ([]entities.Proposal, error) {
	tx := r.db.WithContext(ctx).Model(&proposalModel{})
	buildingIDs := trimAll(filter.BuildingIDs)
	switch {
	case filter.AllBuildings && filter.IncludeGlobal:
	case filter.AllBuildings:
		tx = tx.Where("building_id IS NOT NULL")
	case filter.IncludeGlobal && len(buildingIDs) > 0:
		tx = tx.Where("building_id IS NULL OR building_id IN ?", buildingIDs)
	case filter.IncludeGlobal:
		tx = tx.Where("building_id IS NULL")
	case len(buildingIDs) > 0:
		tx = tx.Where("building_id IN ?", buildingIDs)
	default:
		return []entities.Proposal{}, nil
	}

	var rows []proposalModel
	if err := tx.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, r.logError("governance_repo_list_proposals_failed", err,
			"building_count", len(buildingIDs),
		)
	}
	items := make([]entities.Proposal, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// UpsertVote relies on the (proposal_id, voter_id) unique index: the insert
// either creates the row or rewrites choice and weight of the existing one,
// and RETURNING hands back whichever row now exists.
func (r *Repository) UpsertVote(ctx context.Context, vote entities.Vote, event ports.EventEnvelope) (entities.Vote, error) {
	row := voteModelFromEntity(vote)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upsert := tx.Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "proposal_id"}, {Name: "voter_id"}},
				DoUpdates: clause.Assignments(map[string]any{
					"choice":     row.Choice,
					"weight":     row.Weight,
					"updated_at": row.UpdatedAt,
				}),
			},
			clause.Returning{},
		).Create(&row)
		if upsert.Error != nil {
			return upsert.Error
		}
		return appendOutbox(tx, event)
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return entities.Vote{}, domainerrors.ErrProposalNotFound
		}
		return entities.Vote{}, r.logError("governance_repo_upsert_vote_failed", err,
			"proposal_id", row.ProposalID,
			"voter_id", row.VoterID,
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetVoteByVoter(ctx context.Context, proposalID string, voterID string) (entities.Vote, bool, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("proposal_id = ?", strings.TrimSpace(proposalID)).
		Where("voter_id = ?", strings.TrimSpace(voterID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Vote{}, false, nil
		}
		return entities.Vote{}, false, r.logError("governance_repo_get_vote_by_voter_failed", err,
			"proposal_id", strings.TrimSpace(proposalID),
			"voter_id", strings.TrimSpace(voterID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListVotesByProposal(ctx context.Context, proposalID string) ([]entities.Vote, error) {
	var rows []voteModel
	if err := r.db.WithContext(ctx).
		Where("proposal_id = ?", strings.TrimSpace(proposalID)).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("governance_repo_list_votes_failed", err,
			"proposal_id", strings.TrimSpace(proposalID),
		)
	}
	items := make([]entities.Vote, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetResult(ctx context.Context, proposalID string) (entities.ProposalResult, bool, error) {
	var row resultModel
	err := r.db.WithContext(ctx).
		Where("proposal_id = ?", strings.TrimSpace(proposalID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ProposalResult{}, false, nil
		}
		return entities.ProposalResult{}, false, r.logError("governance_repo_get_result_failed", err,
			"proposal_id", strings.TrimSpace(proposalID),
		)
	}
	return row.toEntity(), true, nil
}

// SaveTally locks the proposal row, upserts its result, flips the status to
// Tallied and appends the outbox row. Nothing is written if any step fails.
func (r *Repository) SaveTally(ctx context.Context, result entities.ProposalResult, event ports.EventEnvelope) error {
	row := resultModelFromEntity(result)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var proposal proposalModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", row.ProposalID).
			First(&proposal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrProposalNotFound
			}
			return err
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "proposal_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"passed",
				"yes_weight",
				"no_weight",
				"abstain_weight",
				"total_weight",
				"tallied_at",
				"method_applied_version",
			}),
		}).Create(&row).Error; err != nil {
			return err
		}
		if err := tx.Model(&proposalModel{}).
			Where("id = ?", row.ProposalID).
			Update("status", string(entities.ProposalStatusTallied)).Error; err != nil {
			return err
		}
		return appendOutbox(tx, event)
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrProposalNotFound) {
			return err
		}
		return r.logError("governance_repo_save_tally_failed", err,
			"proposal_id", row.ProposalID,
		)
	}
	return nil
}

func (r *Repository) ListSweepCandidates(ctx context.Context, now time.Time, limit int) ([]entities.Proposal, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []proposalModel
	if err := r.db.WithContext(ctx).
		Where("(status = ? AND start_time <= ?) OR (status = ? AND end_time <= ?)",
			string(entities.ProposalStatusScheduled), now.UTC(),
			string(entities.ProposalStatusOpen), now.UTC(),
		).
		Order("start_time ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("governance_repo_list_sweep_candidates_failed", err, "limit", limit)
	}
	items := make([]entities.Proposal, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// TransitionStatus is a compare-and-set on status; it reports false when
// the proposal no longer holds the expected status.
func (r *Repository) TransitionStatus(
	ctx context.Context,
	proposalID string,
	from entities.ProposalStatus,
	to entities.ProposalStatus,
	event ports.EventEnvelope,
) (bool, error) {
	changed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		update := tx.Model(&proposalModel{}).
			Where("id = ?", strings.TrimSpace(proposalID)).
			Where("status = ?", string(from)).
			Update("status", string(to))
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return nil
		}
		changed = true
		return appendOutbox(tx, event)
	})
	if err != nil {
		return false, r.logError("governance_repo_transition_status_failed", err,
			"proposal_id", strings.TrimSpace(proposalID),
			"from_status", string(from),
			"to_status", string(to),
		)
	}
	return changed, nil
}

func (r *Repository) AccessibleBuildings(ctx context.Context, caller entities.Caller) (ports.BuildingScope, error) {
	if caller.IsAdmin() {
		return ports.BuildingScope{All: true}, nil
	}
	userID := strings.TrimSpace(caller.UserID)
	var buildingIDs []string
	if err := r.db.WithContext(ctx).
		Raw(accessibleBuildingsSQL, userID, userID, userID).
		Scan(&buildingIDs).Error; err != nil {
		return ports.BuildingScope{}, r.logError("governance_repo_accessible_buildings_failed", err,
			"user_id", userID,
		)
	}
	return ports.BuildingScope{BuildingIDs: buildingIDs}, nil
}

func (r *Repository) ListOwnedApartments(ctx context.Context, voterID string) ([]entities.ApartmentHolding, error) {
	var rows []holdingRow
	if err := r.db.WithContext(ctx).
		Raw(ownedApartmentsSQL, strings.TrimSpace(voterID)).
		Scan(&rows).Error; err != nil {
		return nil, r.logError("governance_repo_list_owned_apartments_failed", err,
			"voter_id", strings.TrimSpace(voterID),
		)
	}
	items := make([]entities.ApartmentHolding, 0, len(rows))
	for _, row := range rows {
		holding := entities.ApartmentHolding{
			ApartmentID: row.ApartmentID,
			BuildingID:  row.BuildingID,
		}
		if row.SizeSqM.Valid {
			area := row.SizeSqM.Decimal
			holding.AreaSqM = &area
		}
		items = append(items, holding)
	}
	return items, nil
}

func (r *Repository) Get(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", strings.TrimSpace(key)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, r.logError("governance_repo_idempotency_get_failed", err,
			"idempotency_key", strings.TrimSpace(key),
		)
	}
	if !row.ExpiresAt.After(now.UTC()) {
		if err := r.db.WithContext(ctx).
			Where("key = ?", row.Key).
			Delete(&idempotencyModel{}).Error; err != nil {
			return ports.IdempotencyRecord{}, false, r.logError("governance_repo_idempotency_expire_delete_failed", err,
				"idempotency_key", row.Key,
			)
		}
		return ports.IdempotencyRecord{}, false, nil
	}
	return row.toRecord(), true, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Order("seq ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("governance_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("governance_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	return nil
}

func appendOutbox(tx *gorm.DB, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return tx.Omit("seq").Create(&row).Error
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "community-governance/proposal-voting",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("governance repository operation failed", fields...)
	return err
}

type proposalModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	Title         string    `gorm:"column:title"`
	Description   string    `gorm:"column:description"`
	CreatedBy     string    `gorm:"column:created_by"`
	BuildingID    *string   `gorm:"column:building_id"`
	StartTime     time.Time `gorm:"column:start_time"`
	EndTime       time.Time `gorm:"column:end_time"`
	VotingMethod  string    `gorm:"column:voting_method"`
	EligibleRoles string    `gorm:"column:eligible_roles"`
	Status        string    `gorm:"column:status"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (proposalModel) TableName() string {
	return "proposals"
}

func proposalModelFromEntity(proposal entities.Proposal) proposalModel {
	row := proposalModel{
		ID:            strings.TrimSpace(proposal.ProposalID),
		Title:         proposal.Title,
		Description:   proposal.Description,
		CreatedBy:     strings.TrimSpace(proposal.CreatedBy),
		StartTime:     proposal.StartTime.UTC(),
		EndTime:       proposal.EndTime.UTC(),
		VotingMethod:  string(proposal.VotingMethod),
		EligibleRoles: proposal.EligibleRoles.String(),
		Status:        string(proposal.Status),
		CreatedAt:     proposal.CreatedAt.UTC(),
	}
	if !proposal.IsGlobal() {
		buildingID := strings.TrimSpace(*proposal.BuildingID)
		row.BuildingID = &buildingID
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m proposalModel) toEntity() entities.Proposal {
	proposal := entities.Proposal{
		ProposalID:    m.ID,
		Title:         m.Title,
		Description:   m.Description,
		CreatedBy:     m.CreatedBy,
		StartTime:     m.StartTime.UTC(),
		EndTime:       m.EndTime.UTC(),
		VotingMethod:  entities.VotingMethod(m.VotingMethod),
		EligibleRoles: entities.ParseStoredRoleSet(m.EligibleRoles),
		Status:        entities.ProposalStatus(m.Status),
		CreatedAt:     m.CreatedAt.UTC(),
	}
	if m.BuildingID != nil {
		buildingID := *m.BuildingID
		proposal.BuildingID = &buildingID
	}
	return proposal
}

type voteModel struct {
	ID         string          `gorm:"column:id;primaryKey"`
	ProposalID string          `gorm:"column:proposal_id"`
	VoterID    string          `gorm:"column:voter_id"`
	Choice     string          `gorm:"column:choice"`
	Weight     decimal.Decimal `gorm:"column:weight;type:numeric(24,6)"`
	CreatedAt  time.Time       `gorm:"column:created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`
}

func (voteModel) TableName() string {
	return "votes"
}

func voteModelFromEntity(vote entities.Vote) voteModel {
	row := voteModel{
		ID:         strings.TrimSpace(vote.VoteID),
		ProposalID: strings.TrimSpace(vote.ProposalID),
		VoterID:    strings.TrimSpace(vote.VoterID),
		Choice:     string(vote.Choice),
		Weight:     vote.Weight,
		CreatedAt:  vote.CreatedAt.UTC(),
		UpdatedAt:  vote.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m voteModel) toEntity() entities.Vote {
	return entities.Vote{
		VoteID:     m.ID,
		ProposalID: m.ProposalID,
		VoterID:    m.VoterID,
		Choice:     entities.VoteChoice(m.Choice),
		Weight:     m.Weight,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

type resultModel struct {
	ProposalID           string          `gorm:"column:proposal_id;primaryKey"`
	Passed               bool            `gorm:"column:passed"`
	YesWeight            decimal.Decimal `gorm:"column:yes_weight;type:numeric(24,6)"`
	NoWeight             decimal.Decimal `gorm:"column:no_weight;type:numeric(24,6)"`
	AbstainWeight        decimal.Decimal `gorm:"column:abstain_weight;type:numeric(24,6)"`
	TotalWeight          decimal.Decimal `gorm:"column:total_weight;type:numeric(24,6)"`
	TalliedAt            time.Time       `gorm:"column:tallied_at"`
	MethodAppliedVersion string          `gorm:"column:method_applied_version"`
}

func (resultModel) TableName() string {
	return "proposal_results"
}

func resultModelFromEntity(result entities.ProposalResult) resultModel {
	return resultModel{
		ProposalID:           strings.TrimSpace(result.ProposalID),
		Passed:               result.Passed,
		YesWeight:            result.YesWeight,
		NoWeight:             result.NoWeight,
		AbstainWeight:        result.AbstainWeight,
		TotalWeight:          result.TotalWeight,
		TalliedAt:            result.TalliedAt.UTC(),
		MethodAppliedVersion: result.MethodAppliedVersion,
	}
}

func (m resultModel) toEntity() entities.ProposalResult {
	return entities.ProposalResult{
		ProposalID:           m.ProposalID,
		Passed:               m.Passed,
		YesWeight:            m.YesWeight,
		NoWeight:             m.NoWeight,
		AbstainWeight:        m.AbstainWeight,
		TotalWeight:          m.TotalWeight,
		TalliedAt:            m.TalliedAt.UTC(),
		MethodAppliedVersion: m.MethodAppliedVersion,
	}
}

type idempotencyModel struct {
	Key         string    `gorm:"column:key;primaryKey"`
	RequestHash string    `gorm:"column:request_hash"`
	ProposalID  string    `gorm:"column:proposal_id"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "governance_idempotency"
}

func (m idempotencyModel) toRecord() ports.IdempotencyRecord {
	return ports.IdempotencyRecord{
		Key:         m.Key,
		RequestHash: m.RequestHash,
		ProposalID:  m.ProposalID,
		ExpiresAt:   m.ExpiresAt.UTC(),
	}
}

type outboxModel struct {
	Seq          int64      `gorm:"column:seq;autoIncrement"`
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "governance_outbox"
}

type holdingRow struct {
	ApartmentID string              `gorm:"column:apartment_id"`
	BuildingID  string              `gorm:"column:building_id"`
	SizeSqM     decimal.NullDecimal `gorm:"column:size_sq_m"`
}

func trimAll(values []string) []string {
	items := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

var _ ports.ProposalRepository = (*Repository)(nil)
var _ ports.VoteRepository = (*Repository)(nil)
var _ ports.ResultRepository = (*Repository)(nil)
var _ ports.StatusSweepRepository = (*Repository)(nil)
var _ ports.BuildingAccess = (*Repository)(nil)
var _ ports.OwnershipSnapshot = (*Repository)(nil)
var _ ports.IdempotencyStore = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
