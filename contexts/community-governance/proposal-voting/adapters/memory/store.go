package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/entities"
	domainerrors "github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/domain/errors"
	"github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting/ports"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	sequence  int64
	published bool
}

type apartmentRecord struct {
	buildingID string
	areaSqM    *decimal.Decimal
	owners     map[string]struct{}
	renters    map[string]bool
}

// Store keeps every port behind one mutex, which gives the same atomicity
// as the Postgres transactions: a vote upsert and its outbox row, or a
// result, status and outbox row, become visible together.
type Store struct {
	mu sync.RWMutex

	proposals   map[string]entities.Proposal
	votes       map[string]entities.Vote
	voteIndex   map[string]string
	results     map[string]entities.ProposalResult
	idempotency map[string]ports.IdempotencyRecord
	outbox      map[string]outboxRecord
	outboxSeq   int64

	apartments map[string]*apartmentRecord
	managers   map[string]map[string]struct{}

	now *time.Time
}

func NewStore() *Store {
	return &Store{
		proposals:   make(map[string]entities.Proposal),
		votes:       make(map[string]entities.Vote),
		voteIndex:   make(map[string]string),
		results:     make(map[string]entities.ProposalResult),
		idempotency: make(map[string]ports.IdempotencyRecord),
		outbox:      make(map[string]outboxRecord),
		apartments:  make(map[string]*apartmentRecord),
		managers:    make(map[string]map[string]struct{}),
	}
}

// SetNow pins the store clock. A zero time restores the wall clock.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.IsZero() {
		s.now = nil
		return
	}
	value := now.UTC()
	s.now = &value
}

// SetApartment registers an apartment. A nil area means the registry has
// no size recorded for it.
func (s *Store) SetApartment(apartmentID string, buildingID string, areaSqM *decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := s.apartmentLocked(apartmentID)
	record.buildingID = strings.TrimSpace(buildingID)
	if areaSqM != nil {
		area := *areaSqM
		record.areaSqM = &area
	} else {
		record.areaSqM = nil
	}
}

// SetApartmentOwners replaces the apartment's owner list.
func (s *Store) SetApartmentOwners(apartmentID string, ownerIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := s.apartmentLocked(apartmentID)
	record.owners = make(map[string]struct{}, len(ownerIDs))
	for _, ownerID := range ownerIDs {
		record.owners[strings.TrimSpace(ownerID)] = struct{}{}
	}
}

func (s *Store) SetApartmentRenter(apartmentID string, renterID string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := s.apartmentLocked(apartmentID)
	record.renters[strings.TrimSpace(renterID)] = active
}

func (s *Store) SetBuildingManager(buildingID string, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID = strings.TrimSpace(userID)
	if s.managers[userID] == nil {
		s.managers[userID] = make(map[string]struct{})
	}
	s.managers[userID][strings.TrimSpace(buildingID)] = struct{}{}
}

func (s *Store) apartmentLocked(apartmentID string) *apartmentRecord {
	apartmentID = strings.TrimSpace(apartmentID)
	record, ok := s.apartments[apartmentID]
	if !ok {
		record = &apartmentRecord{
			owners:  make(map[string]struct{}),
			renters: make(map[string]bool),
		}
		s.apartments[apartmentID] = record
	}
	return record
}

func (s *Store) CreateProposal(_ context.Context, proposal entities.Proposal, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	proposalID := strings.TrimSpace(proposal.ProposalID)
	if _, exists := s.proposals[proposalID]; exists {
		return fmt.Errorf("proposal %s already exists", proposalID)
	}
	if err := s.appendOutboxLocked(event); err != nil {
		return err
	}
	s.proposals[proposalID] = cloneProposal(proposal)
	return nil
}

func (s *Store) CreateProposalClaimingKey(
	_ context.Context,
	proposal entities.Proposal,
	event ports.EventEnvelope,
	claim ports.IdempotencyRecord,
) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(claim.Key)
	if holder, exists := s.idempotency[key]; exists {
		if holder.ExpiresAt.After(proposal.CreatedAt.UTC()) {
			return holder, false, nil
		}
		delete(s.idempotency, key)
	}

	proposalID := strings.TrimSpace(proposal.ProposalID)
	if _, exists := s.proposals[proposalID]; exists {
		return ports.IdempotencyRecord{}, false, fmt.Errorf("proposal %s already exists", proposalID)
	}
	if err := s.appendOutboxLocked(event); err != nil {
		return ports.IdempotencyRecord{}, false, err
	}
	s.proposals[proposalID] = cloneProposal(proposal)
	record := ports.IdempotencyRecord{
		Key:         key,
		RequestHash: strings.TrimSpace(claim.RequestHash),
		ProposalID:  proposalID,
		ExpiresAt:   claim.ExpiresAt.UTC(),
	}
	s.idempotency[key] = record
	return record, true, nil
}

func (s *Store) GetProposal(_ context.Context, proposalID string) (entities.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	proposal, ok := s.proposals[strings.TrimSpace(proposalID)]
	if !ok {
		return entities.Proposal{}, domainerrors.ErrProposalNotFound
	}
	return cloneProposal(proposal), nil
}

func (s *Store) ListProposals(_ context.Context, filter ports.ProposalFilter) ([]entities.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buildings := make(map[string]struct{}, len(filter.BuildingIDs))
	for _, id := range filter.BuildingIDs {
		buildings[strings.TrimSpace(id)] = struct{}{}
	}
	items := make([]entities.Proposal, 0)
	for _, proposal := range s.proposals {
		if proposal.IsGlobal() {
			if filter.IncludeGlobal {
				items = append(items, cloneProposal(proposal))
			}
			continue
		}
		if _, ok := buildings[*proposal.BuildingID]; ok || filter.AllBuildings {
			items = append(items, cloneProposal(proposal))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ProposalID > items[j].ProposalID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) UpsertVote(_ context.Context, vote entities.Vote, event ports.EventEnvelope) (entities.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proposalID := strings.TrimSpace(vote.ProposalID)
	voterID := strings.TrimSpace(vote.VoterID)
	if _, ok := s.proposals[proposalID]; !ok {
		return entities.Vote{}, domainerrors.ErrProposalNotFound
	}

	stored := vote
	stored.ProposalID = proposalID
	stored.VoterID = voterID
	stored.CreatedAt = vote.CreatedAt.UTC()
	stored.UpdatedAt = vote.UpdatedAt.UTC()
	if existingID, ok := s.voteIndex[voteKey(proposalID, voterID)]; ok {
		existing := s.votes[existingID]
		stored.VoteID = existing.VoteID
		stored.CreatedAt = existing.CreatedAt
	}
	if err := s.appendOutboxLocked(event); err != nil {
		return entities.Vote{}, err
	}
	s.votes[stored.VoteID] = stored
	s.voteIndex[voteKey(proposalID, voterID)] = stored.VoteID
	return stored, nil
}

func (s *Store) GetVoteByVoter(_ context.Context, proposalID string, voterID string) (entities.Vote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	voteID, ok := s.voteIndex[voteKey(strings.TrimSpace(proposalID), strings.TrimSpace(voterID))]
	if !ok {
		return entities.Vote{}, false, nil
	}
	return s.votes[voteID], true, nil
}

func (s *Store) ListVotesByProposal(_ context.Context, proposalID string) ([]entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	proposalID = strings.TrimSpace(proposalID)
	items := make([]entities.Vote, 0)
	for _, vote := range s.votes {
		if vote.ProposalID == proposalID {
			items = append(items, vote)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].VoteID < items[j].VoteID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) GetResult(_ context.Context, proposalID string) (entities.ProposalResult, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[strings.TrimSpace(proposalID)]
	return result, ok, nil
}

func (s *Store) SaveTally(_ context.Context, result entities.ProposalResult, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	proposalID := strings.TrimSpace(result.ProposalID)
	proposal, ok := s.proposals[proposalID]
	if !ok {
		return domainerrors.ErrProposalNotFound
	}
	if err := s.appendOutboxLocked(event); err != nil {
		return err
	}
	proposal.Status = entities.ProposalStatusTallied
	s.proposals[proposalID] = proposal
	s.results[proposalID] = result
	return nil
}

func (s *Store) ListSweepCandidates(_ context.Context, now time.Time, limit int) ([]entities.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 100
	}
	now = now.UTC()
	items := make([]entities.Proposal, 0)
	for _, proposal := range s.proposals {
		switch proposal.Status {
		case entities.ProposalStatusScheduled:
			if !now.Before(proposal.StartTime) {
				items = append(items, cloneProposal(proposal))
			}
		case entities.ProposalStatusOpen:
			if !now.Before(proposal.EndTime) {
				items = append(items, cloneProposal(proposal))
			}
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].StartTime.Before(items[j].StartTime)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) TransitionStatus(
	_ context.Context,
	proposalID string,
	from entities.ProposalStatus,
	to entities.ProposalStatus,
	event ports.EventEnvelope,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	proposalID = strings.TrimSpace(proposalID)
	proposal, ok := s.proposals[proposalID]
	if !ok {
		return false, domainerrors.ErrProposalNotFound
	}
	if proposal.Status != from {
		return false, nil
	}
	if err := s.appendOutboxLocked(event); err != nil {
		return false, err
	}
	proposal.Status = to
	s.proposals[proposalID] = proposal
	return true, nil
}

func (s *Store) AccessibleBuildings(_ context.Context, caller entities.Caller) (ports.BuildingScope, error) {
	if caller.IsAdmin() {
		return ports.BuildingScope{All: true}, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID := strings.TrimSpace(caller.UserID)
	seen := make(map[string]struct{})
	for _, apartment := range s.apartments {
		if apartment.buildingID == "" {
			continue
		}
		_, owns := apartment.owners[userID]
		if owns || apartment.renters[userID] {
			seen[apartment.buildingID] = struct{}{}
		}
	}
	for buildingID := range s.managers[userID] {
		seen[buildingID] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ports.BuildingScope{BuildingIDs: ids}, nil
}

func (s *Store) ListOwnedApartments(_ context.Context, voterID string) ([]entities.ApartmentHolding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	voterID = strings.TrimSpace(voterID)
	items := make([]entities.ApartmentHolding, 0)
	for apartmentID, apartment := range s.apartments {
		if _, ok := apartment.owners[voterID]; !ok {
			continue
		}
		holding := entities.ApartmentHolding{
			ApartmentID: apartmentID,
			BuildingID:  apartment.buildingID,
		}
		if apartment.areaSqM != nil {
			area := *apartment.areaSqM
			holding.AreaSqM = &area
		}
		items = append(items, holding)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ApartmentID < items[j].ApartmentID
	})
	return items, nil
}

func (s *Store) Get(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key = strings.TrimSpace(key)
	record, exists := s.idempotency[key]
	if !exists {
		return ports.IdempotencyRecord{}, false, nil
	}
	if !record.ExpiresAt.After(now.UTC()) {
		delete(s.idempotency, key)
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) appendOutboxLocked(envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	s.outboxSeq++
	s.outbox[outboxID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    strings.TrimSpace(envelope.EventType),
			PartitionKey: strings.TrimSpace(envelope.PartitionKey),
			Payload:      payload,
			CreatedAt:    createdAt,
		},
		sequence: s.outboxSeq,
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	rows := make([]outboxRecord, 0, len(s.outbox))
	for _, row := range s.outbox {
		if !row.published {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].sequence < rows[j].sequence
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.message)
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	outboxID = strings.TrimSpace(outboxID)
	row, ok := s.outbox[outboxID]
	if !ok {
		return nil
	}
	row.published = true
	s.outbox[outboxID] = row
	return nil
}

// PendingOutboxCount is a test helper.
func (s *Store) PendingOutboxCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, row := range s.outbox {
		if !row.published {
			count++
		}
	}
	return count
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.now != nil {
		return *s.now
	}
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func voteKey(proposalID string, voterID string) string {
	return proposalID + "\x00" + voterID
}

func cloneProposal(proposal entities.Proposal) entities.Proposal {
	clone := proposal
	if proposal.BuildingID != nil {
		buildingID := *proposal.BuildingID
		clone.BuildingID = &buildingID
	}
	clone.EligibleRoles = append(entities.RoleSet(nil), proposal.EligibleRoles...)
	return clone
}
