package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
)

// WhitelistParams contains parameters for editing the whitelist
type WhitelistParams struct {
	Treasury  string
	Caller    common.Address
	Recipient common.Address
	Label     string
}

// AddWhitelistRecipient adds a recipient to the allow-list. Requires the
// authority or manage_roles.
type AddWhitelistRecipient struct {
	store TreasuryStore
	clock Clock
	log   *slog.Logger
}

// NewAddWhitelistRecipient creates a new AddWhitelistRecipient use case
func NewAddWhitelistRecipient(store TreasuryStore, clock Clock, log *slog.Logger) *AddWhitelistRecipient {
	return &AddWhitelistRecipient{
		store: store,
		clock: clock,
		log:   log.With("component", "AddWhitelistRecipient"),
	}
}

// Run creates the whitelist entry
func (uc *AddWhitelistRecipient) Run(ctx context.Context, params WhitelistParams) (*models.WhitelistedRecipient, error) {
	if err := models.ValidateLabel(params.Label); err != nil {
		return nil, err
	}

	var entry *models.WhitelistedRecipient
	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		if _, err := authorize(tx, treasury, params.Caller, models.CapManageRoles, models.ScopeConfig); err != nil {
			return err
		}

		entry = &models.WhitelistedRecipient{
			Treasury:  treasury.Address,
			Recipient: params.Recipient,
			Label:     params.Label,
			AddedBy:   params.Caller,
			AddedAt:   uc.clock.Now(),
		}
		if err := tx.CreateWhitelisted(entry); err != nil {
			return fmt.Errorf("failed to whitelist %s: %w", params.Recipient.Hex(), err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("recipient whitelisted", "treasury", params.Treasury, "caller", params.Caller.Hex(), "recipient", params.Recipient.Hex())
	return entry, nil
}

// RemoveWhitelistRecipient removes a recipient from the allow-list. Requires
// the authority or manage_roles.
type RemoveWhitelistRecipient struct {
	store TreasuryStore
	log   *slog.Logger
}

// NewRemoveWhitelistRecipient creates a new RemoveWhitelistRecipient use case
func NewRemoveWhitelistRecipient(store TreasuryStore, log *slog.Logger) *RemoveWhitelistRecipient {
	return &RemoveWhitelistRecipient{store: store, log: log.With("component", "RemoveWhitelistRecipient")}
}

// Run deletes the whitelist entry
func (uc *RemoveWhitelistRecipient) Run(ctx context.Context, params WhitelistParams) error {
	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		if _, err := authorize(tx, treasury, params.Caller, models.CapManageRoles, models.ScopeConfig); err != nil {
			return err
		}
		return tx.DeleteWhitelisted(treasury.Address, params.Recipient)
	})
	if err != nil {
		return err
	}

	uc.log.Info("recipient removed from whitelist", "treasury", params.Treasury, "caller", params.Caller.Hex(), "recipient", params.Recipient.Hex())
	return nil
}

// ListWhitelistParams contains parameters for listing the whitelist
type ListWhitelistParams struct {
	Treasury string
	Caller   common.Address
}

// ListWhitelistResult contains the whitelist and whether it is enforced
type ListWhitelistResult struct {
	Enabled bool
	Entries []*models.WhitelistedRecipient
}

// ListWhitelist lists the allow-list of a treasury. Requires the authority or view_treasury.
type ListWhitelist struct {
	store TreasuryStore
}

// NewListWhitelist creates a new ListWhitelist use case
func NewListWhitelist(store TreasuryStore) *ListWhitelist {
	return &ListWhitelist{store: store}
}

// Run lists the entries
func (uc *ListWhitelist) Run(ctx context.Context, params ListWhitelistParams) (*ListWhitelistResult, error) {
	result := &ListWhitelistResult{}

	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		if _, err := authorize(tx, treasury, params.Caller, models.CapViewTreasury, models.ScopeConfig); err != nil {
			return err
		}
		entries, err := tx.ListWhitelist(treasury.Address)
		if err != nil {
			return err
		}
		result.Enabled = treasury.WhitelistEnabled
		result.Entries = entries
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
