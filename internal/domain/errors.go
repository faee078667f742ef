package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for record operations
var (
	// ErrNotFound is returned when a requested record doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when creating a record at an address that is already taken
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidAddress is returned when an address is not a valid 20-byte hex address
	ErrInvalidAddress = errors.New("invalid address")
)

// ErrorCategory groups treasury errors by what the caller can do about them
type ErrorCategory string

const (
	CategoryAuthorization ErrorCategory = "authorization"
	CategoryPolicy        ErrorCategory = "policy"
	CategoryInvalidInput  ErrorCategory = "invalid_input"
	CategoryStateConflict ErrorCategory = "state_conflict"
	CategoryNotDue        ErrorCategory = "not_due"
	CategoryResource      ErrorCategory = "resource"
)

// TreasuryError is a coded failure surfaced to the caller. Values are
// package-level sentinels so they can be matched with errors.Is.
type TreasuryError struct {
	Code     string
	Category ErrorCategory
	Message  string
}

func (e *TreasuryError) Error() string {
	return e.Message
}

func newTreasuryError(category ErrorCategory, code, message string) *TreasuryError {
	return &TreasuryError{Code: code, Category: category, Message: message}
}

// Authorization
var (
	ErrInsufficientPermissions = newTreasuryError(CategoryAuthorization, "InsufficientPermissions", "user does not have sufficient permissions for this action")
	ErrAuthorityMismatch       = newTreasuryError(CategoryAuthorization, "AuthorityMismatch", "transfer authority does not own the source holding")
)

// Policy violations
var (
	ErrSpendingLimitExceeded   = newTreasuryError(CategoryPolicy, "SpendingLimitExceeded", "this operation would exceed your spending limit")
	ErrRecipientNotWhitelisted = newTreasuryError(CategoryPolicy, "RecipientNotWhitelisted", "recipient is not on the whitelist")
	ErrTreasuryPaused          = newTreasuryError(CategoryPolicy, "TreasuryPaused", "treasury operations are currently paused")
)

// Invalid input
var (
	ErrInvalidPaymentAmount      = newTreasuryError(CategoryInvalidInput, "InvalidPaymentAmount", "payment amount must be greater than 0")
	ErrInvalidSignatureThreshold = newTreasuryError(CategoryInvalidInput, "InvalidSignatureThreshold", "signature threshold must be greater than 0 and less than or equal to the number of signers")
	ErrInvalidStakePercentage    = newTreasuryError(CategoryInvalidInput, "InvalidStakePercentage", "stake target percentage must be between 0 and 100")
	ErrInvalidSchedule           = newTreasuryError(CategoryInvalidInput, "InvalidSchedule", "schedule durations must be positive and end after start")
	ErrInvalidText               = newTreasuryError(CategoryInvalidInput, "InvalidText", "text field is empty or too long")
	ErrDuplicateSigner           = newTreasuryError(CategoryInvalidInput, "DuplicateSigner", "signer addresses must be unique")
	ErrInvalidBatch              = newTreasuryError(CategoryInvalidInput, "InvalidBatch", "batch must contain one amount per recipient")
	ErrAmountOverflow            = newTreasuryError(CategoryInvalidInput, "AmountOverflow", "amount overflows the 64-bit counter")
)

// State conflicts
var (
	ErrMilestoneAlreadyCompleted = newTreasuryError(CategoryStateConflict, "MilestoneAlreadyCompleted", "this milestone has already been completed")
	ErrProposalAlreadyExecuted   = newTreasuryError(CategoryStateConflict, "ProposalAlreadyExecuted", "this proposal has already been executed")
	ErrProposalNotApproved       = newTreasuryError(CategoryStateConflict, "ProposalNotApproved", "this proposal has not been approved")
	ErrProposalNotOpen           = newTreasuryError(CategoryStateConflict, "ProposalNotOpen", "this proposal is no longer open for voting")
	ErrUserAlreadyVoted          = newTreasuryError(CategoryStateConflict, "UserAlreadyVoted", "user has already voted on this proposal")
)

// Not yet due
var (
	ErrPaymentStreamNotDue   = newTreasuryError(CategoryNotDue, "PaymentStreamNotDue", "no payment is due for this stream yet")
	ErrPaymentStreamInactive = newTreasuryError(CategoryNotDue, "PaymentStreamInactive", "payment stream is not active")
)

// Resource
var (
	ErrInsufficientFunds = newTreasuryError(CategoryResource, "InsufficientFunds", "treasury has insufficient funds for this operation")
)

// CategoryOf returns the category of the first TreasuryError in err's chain,
// or the empty category when err carries none.
func CategoryOf(err error) ErrorCategory {
	var te *TreasuryError
	if errors.As(err, &te) {
		return te.Category
	}
	return ""
}

// CodeOf returns the code of the first TreasuryError in err's chain
func CodeOf(err error) string {
	var te *TreasuryError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

// RecordNotFoundErr names the record kind and key that could not be loaded
type RecordNotFoundErr struct {
	Kind string
	Key  string
}

func (e RecordNotFoundErr) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Key)
}

func (e RecordNotFoundErr) Unwrap() error {
	return ErrNotFound
}
