package models

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
)

// MaxLabelLength bounds whitelist labels
const MaxLabelLength = 50

// WhitelistedRecipient marks a recipient as an allowed payee. Existence of the
// record is the membership test.
type WhitelistedRecipient struct {
	Treasury  common.Address `json:"treasury" yaml:"treasury"`
	Recipient common.Address `json:"recipient" yaml:"recipient"`
	Label     string         `json:"label" yaml:"label"`
	AddedBy   common.Address `json:"addedBy" yaml:"addedBy"`
	AddedAt   time.Time      `json:"addedAt" yaml:"addedAt"`
}

// Address is the record address of the entry
func (w *WhitelistedRecipient) Address() common.Address {
	return domain.RecipientRecordAddress(domain.SeedWhitelist, w.Treasury, w.Recipient)
}

// ValidateLabel checks the label length
func ValidateLabel(label string) error {
	if len(label) > MaxLabelLength {
		return fmt.Errorf("%w: label longer than %d bytes", domain.ErrInvalidText, MaxLabelLength)
	}
	return nil
}
