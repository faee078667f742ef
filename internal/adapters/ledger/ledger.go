package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/trebuchet-org/treasury-cli/internal/adapters/repository/records"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
)

const (
	kindHolding = "holding"
	kindReceipt = "receipt"
)

// Ledger is a local asset ledger. It holds per-owner, per-asset balances and
// applies transfers all-or-nothing. A leg may only move funds out of the
// holding owned by its authority.
type Ledger struct {
	backend records.Backend
	now     func() time.Time
	log     *slog.Logger
}

// NewLedger creates a new Ledger over its own records backend
func NewLedger(backend records.Backend, log *slog.Logger) *Ledger {
	return &Ledger{
		backend: backend,
		now:     time.Now,
		log:     log.With("component", "Ledger"),
	}
}

func holdingKey(owner, asset common.Address) string {
	return owner.Hex() + "/" + asset.Hex()
}

// Transfer implements usecase.TransferService
func (l *Ledger) Transfer(ctx context.Context, legs ...models.Transfer) (*models.Receipt, error) {
	if len(legs) == 0 {
		return nil, fmt.Errorf("%w: no transfer legs", domain.ErrInvalidBatch)
	}
	for i, leg := range legs {
		if leg.Authority != leg.From {
			return nil, fmt.Errorf("%w: leg %d authority %s, source %s", domain.ErrAuthorityMismatch, i, leg.Authority.Hex(), leg.From.Hex())
		}
		if leg.Amount == 0 {
			return nil, fmt.Errorf("%w: leg %d", domain.ErrInvalidPaymentAmount, i)
		}
	}

	receipt := &models.Receipt{
		ID:        uuid.NewString(),
		Legs:      legs,
		AppliedAt: l.now().UTC(),
	}

	err := l.backend.Atomic(ctx, func(tx records.Tx) error {
		for _, leg := range legs {
			from, err := balance(tx, leg.From, leg.Asset)
			if err != nil {
				return err
			}
			if from < leg.Amount {
				return fmt.Errorf("%w: %s holds %d of %s, needs %d",
					domain.ErrInsufficientFunds, leg.From.Hex(), from, leg.Asset.Hex(), leg.Amount)
			}
			if err := setBalance(tx, leg.From, leg.Asset, from-leg.Amount); err != nil {
				return err
			}

			to, err := balance(tx, leg.To, leg.Asset)
			if err != nil {
				return err
			}
			credited, err := domain.AddAmount(to, leg.Amount)
			if err != nil {
				return err
			}
			if err := setBalance(tx, leg.To, leg.Asset, credited); err != nil {
				return err
			}
		}
		return putReceipt(tx, receipt)
	})
	if err != nil {
		return nil, err
	}

	l.log.Debug("transfer applied", "receipt", receipt.ID, "legs", len(legs))
	return receipt, nil
}

// Balance implements usecase.TransferService
func (l *Ledger) Balance(ctx context.Context, owner, asset common.Address) (uint64, error) {
	var out uint64
	err := l.backend.Atomic(ctx, func(tx records.Tx) error {
		var err error
		out, err = balance(tx, owner, asset)
		return err
	})
	return out, err
}

// Credit mints amount into a holding. It implements usecase.Funder.
func (l *Ledger) Credit(ctx context.Context, owner, asset common.Address, amount uint64) (*models.Receipt, error) {
	receipt := &models.Receipt{
		ID:        uuid.NewString(),
		Legs:      []models.Transfer{{To: owner, Asset: asset, Amount: amount}},
		AppliedAt: l.now().UTC(),
	}

	err := l.backend.Atomic(ctx, func(tx records.Tx) error {
		current, err := balance(tx, owner, asset)
		if err != nil {
			return err
		}
		credited, err := domain.AddAmount(current, amount)
		if err != nil {
			return err
		}
		if err := setBalance(tx, owner, asset, credited); err != nil {
			return err
		}
		return putReceipt(tx, receipt)
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// Receipt loads a previously applied receipt by id
func (l *Ledger) Receipt(ctx context.Context, id string) (*models.Receipt, error) {
	var out models.Receipt
	err := l.backend.Atomic(ctx, func(tx records.Tx) error {
		data, err := tx.Get(kindReceipt, id)
		if err != nil {
			return err
		}
		return json.Unmarshal(data, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func balance(tx records.Tx, owner, asset common.Address) (uint64, error) {
	data, err := tx.Get(kindHolding, holdingKey(owner, asset))
	if errors.Is(err, domain.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var h models.Holding
	if err := json.Unmarshal(data, &h); err != nil {
		return 0, fmt.Errorf("failed to decode holding: %w", err)
	}
	return h.Balance, nil
}

func setBalance(tx records.Tx, owner, asset common.Address, amount uint64) error {
	data, err := json.Marshal(models.Holding{Owner: owner, Asset: asset, Balance: amount})
	if err != nil {
		return err
	}
	return tx.Put(kindHolding, holdingKey(owner, asset), data)
}

func putReceipt(tx records.Tx, receipt *models.Receipt) error {
	data, err := json.Marshal(receipt)
	if err != nil {
		return err
	}
	return tx.Put(kindReceipt, receipt.ID, data)
}
