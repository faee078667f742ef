package treasury

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treasury-cli/internal/adapters/repository/records"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

// Record kinds
const (
	KindTreasury  = "treasury"
	KindRole      = "role"
	KindWhitelist = "whitelist"
	KindStream    = "stream"
	KindRecurring = "recurring"
	KindMilestone = "milestone"
	KindProposal  = "proposal"
)

// Store maps treasury records onto a records backend. Every record is keyed
// by its derived address.
type Store struct {
	backend records.Backend
}

// NewStore creates a new Store
func NewStore(backend records.Backend) *Store {
	return &Store{backend: backend}
}

// Atomic implements usecase.TreasuryStore
func (s *Store) Atomic(ctx context.Context, fn func(tx usecase.StoreTx) error) error {
	return s.backend.Atomic(ctx, func(tx records.Tx) error {
		return fn(&storeTx{tx: tx})
	})
}

type storeTx struct {
	tx records.Tx
}

func key(addr common.Address) string {
	return addr.Hex()
}

func get[T any](tx records.Tx, kind string, addr common.Address) (*T, error) {
	data, err := tx.Get(kind, key(addr))
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode %s %s: %w", kind, key(addr), err)
	}
	return &v, nil
}

func put(tx records.Tx, kind string, addr common.Address, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", kind, err)
	}
	return tx.Put(kind, key(addr), data)
}

// create fails when a record already exists at addr
func create(tx records.Tx, kind string, addr common.Address, v any) error {
	_, err := tx.Get(kind, key(addr))
	if err == nil {
		return fmt.Errorf("%w: %s %s", domain.ErrAlreadyExists, kind, key(addr))
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return put(tx, kind, addr, v)
}

// list decodes every record of kind and keeps those accepted by keep
func list[T any](tx records.Tx, kind string, keep func(*T) bool) ([]*T, error) {
	recs, err := tx.Scan(kind)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(recs))
	for _, r := range recs {
		var v T
		if err := json.Unmarshal(r.Data, &v); err != nil {
			return nil, fmt.Errorf("failed to decode %s %s: %w", kind, r.Key, err)
		}
		if keep(&v) {
			out = append(out, &v)
		}
	}
	return out, nil
}

// Treasury

func (s *storeTx) GetTreasury(name string) (*models.Treasury, error) {
	return get[models.Treasury](s.tx, KindTreasury, domain.TreasuryAddress(name))
}

func (s *storeTx) CreateTreasury(t *models.Treasury) error {
	return create(s.tx, KindTreasury, t.Address, t)
}

func (s *storeTx) SaveTreasury(t *models.Treasury) error {
	return put(s.tx, KindTreasury, t.Address, t)
}

// Roles

func (s *storeTx) GetRole(treasury, user common.Address) (*models.Role, error) {
	return get[models.Role](s.tx, KindRole, domain.RecipientRecordAddress(domain.SeedRole, treasury, user))
}

func (s *storeTx) CreateRole(role *models.Role) error {
	return create(s.tx, KindRole, role.Address(), role)
}

func (s *storeTx) SaveRole(role *models.Role) error {
	return put(s.tx, KindRole, role.Address(), role)
}

func (s *storeTx) DeleteRole(treasury, user common.Address) error {
	return s.tx.Delete(KindRole, key(domain.RecipientRecordAddress(domain.SeedRole, treasury, user)))
}

func (s *storeTx) ListRoles(treasury common.Address) ([]*models.Role, error) {
	return list(s.tx, KindRole, func(r *models.Role) bool { return r.Treasury == treasury })
}

// Whitelist

func (s *storeTx) GetWhitelisted(treasury, recipient common.Address) (*models.WhitelistedRecipient, error) {
	return get[models.WhitelistedRecipient](s.tx, KindWhitelist, domain.RecipientRecordAddress(domain.SeedWhitelist, treasury, recipient))
}

func (s *storeTx) CreateWhitelisted(entry *models.WhitelistedRecipient) error {
	return create(s.tx, KindWhitelist, entry.Address(), entry)
}

func (s *storeTx) DeleteWhitelisted(treasury, recipient common.Address) error {
	return s.tx.Delete(KindWhitelist, key(domain.RecipientRecordAddress(domain.SeedWhitelist, treasury, recipient)))
}

func (s *storeTx) ListWhitelist(treasury common.Address) ([]*models.WhitelistedRecipient, error) {
	return list(s.tx, KindWhitelist, func(w *models.WhitelistedRecipient) bool { return w.Treasury == treasury })
}

// Streams

func (s *storeTx) GetStream(treasury, recipient common.Address) (*models.PaymentStream, error) {
	return get[models.PaymentStream](s.tx, KindStream, domain.RecipientRecordAddress(domain.SeedStream, treasury, recipient))
}

func (s *storeTx) CreateStream(stream *models.PaymentStream) error {
	return create(s.tx, KindStream, stream.Address(), stream)
}

func (s *storeTx) SaveStream(stream *models.PaymentStream) error {
	return put(s.tx, KindStream, stream.Address(), stream)
}

func (s *storeTx) ListStreams(treasury common.Address, filter domain.ScheduleFilter) ([]*models.PaymentStream, error) {
	return list(s.tx, KindStream, func(p *models.PaymentStream) bool {
		return p.Treasury == treasury && matchSchedule(filter, p.Recipient, p.Active)
	})
}

// Recurring payments

func (s *storeTx) GetRecurring(treasury, recipient common.Address) (*models.RecurringPayment, error) {
	return get[models.RecurringPayment](s.tx, KindRecurring, domain.RecipientRecordAddress(domain.SeedRecurring, treasury, recipient))
}

func (s *storeTx) CreateRecurring(payment *models.RecurringPayment) error {
	return create(s.tx, KindRecurring, payment.Address(), payment)
}

func (s *storeTx) SaveRecurring(payment *models.RecurringPayment) error {
	return put(s.tx, KindRecurring, payment.Address(), payment)
}

func (s *storeTx) ListRecurring(treasury common.Address, filter domain.ScheduleFilter) ([]*models.RecurringPayment, error) {
	return list(s.tx, KindRecurring, func(p *models.RecurringPayment) bool {
		return p.Treasury == treasury && matchSchedule(filter, p.Recipient, p.Active)
	})
}

// Milestones

func (s *storeTx) GetMilestone(treasury common.Address, id uint64) (*models.MilestonePayment, error) {
	return get[models.MilestonePayment](s.tx, KindMilestone, domain.IDRecordAddress(domain.SeedMilestone, treasury, id))
}

func (s *storeTx) CreateMilestone(milestone *models.MilestonePayment) error {
	return create(s.tx, KindMilestone, milestone.Address(), milestone)
}

func (s *storeTx) SaveMilestone(milestone *models.MilestonePayment) error {
	return put(s.tx, KindMilestone, milestone.Address(), milestone)
}

func (s *storeTx) ListMilestones(treasury common.Address, filter domain.ScheduleFilter) ([]*models.MilestonePayment, error) {
	out, err := list(s.tx, KindMilestone, func(m *models.MilestonePayment) bool {
		return m.Treasury == treasury && matchSchedule(filter, m.Recipient, !m.Completed)
	})
	if err != nil {
		return nil, err
	}
	sortByID(out, func(m *models.MilestonePayment) uint64 { return m.ID })
	return out, nil
}

// Proposals

func (s *storeTx) GetProposal(treasury common.Address, id uint64) (*models.Proposal, error) {
	return get[models.Proposal](s.tx, KindProposal, domain.IDRecordAddress(domain.SeedProposal, treasury, id))
}

func (s *storeTx) CreateProposal(proposal *models.Proposal) error {
	return create(s.tx, KindProposal, proposal.Address(), proposal)
}

func (s *storeTx) SaveProposal(proposal *models.Proposal) error {
	return put(s.tx, KindProposal, proposal.Address(), proposal)
}

func (s *storeTx) ListProposals(treasury common.Address, filter domain.ProposalFilter) ([]*models.Proposal, error) {
	out, err := list(s.tx, KindProposal, func(p *models.Proposal) bool {
		if p.Treasury != treasury {
			return false
		}
		if filter.Status != "" && string(p.Status) != filter.Status {
			return false
		}
		if filter.Proposer != (common.Address{}) && p.Proposer != filter.Proposer {
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	sortByID(out, func(p *models.Proposal) uint64 { return p.ID })
	return out, nil
}
