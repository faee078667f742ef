package domain

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Record discriminators used as the first derivation seed
const (
	SeedTreasury  = "treasury"
	SeedRole      = "role"
	SeedWhitelist = "whitelist"
	SeedStream    = "payment_stream"
	SeedRecurring = "recurring"
	SeedMilestone = "milestone"
	SeedProposal  = "proposal"
	SeedStakePool = "stake_pool"
)

// MaxSeedLength bounds every variable-length seed, including treasury names
const MaxSeedLength = 32

// NativeAsset is the asset identifier for the chain's native currency
var NativeAsset = common.Address{}

// DeriveAddress deterministically maps a discriminator and its seeds to an address.
// The same inputs always produce the same address, so record creation can detect
// an existing record at the derived location.
func DeriveAddress(discriminator string, seeds ...[]byte) common.Address {
	parts := make([][]byte, 0, len(seeds)+1)
	parts = append(parts, []byte(discriminator))
	parts = append(parts, seeds...)
	return common.BytesToAddress(crypto.Keccak256(parts...))
}

// TreasuryAddress returns the treasury record address, which is also the vault
// holding the treasury's funds.
func TreasuryAddress(name string) common.Address {
	return DeriveAddress(SeedTreasury, []byte(name))
}

// RecipientRecordAddress derives the address of a record keyed by (treasury, recipient)
func RecipientRecordAddress(discriminator string, treasury, recipient common.Address) common.Address {
	return DeriveAddress(discriminator, treasury.Bytes(), recipient.Bytes())
}

// IDRecordAddress derives the address of a record keyed by (treasury, numeric id)
func IDRecordAddress(discriminator string, treasury common.Address, id uint64) common.Address {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], id)
	return DeriveAddress(discriminator, treasury.Bytes(), buf[:])
}

// StakePoolAddress is the holding that receives staked funds for a treasury
func StakePoolAddress(treasury common.Address) common.Address {
	return DeriveAddress(SeedStakePool, treasury.Bytes())
}

// ParseAddress parses a 0x-prefixed hex address
func ParseAddress(s string) (common.Address, error) {
	b, err := hexutil.Decode(strings.TrimSpace(s))
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %q: %v", ErrInvalidAddress, s, err)
	}
	if len(b) != common.AddressLength {
		return common.Address{}, fmt.Errorf("%w: %q is %d bytes", ErrInvalidAddress, s, len(b))
	}
	return common.BytesToAddress(b), nil
}

// ParseAsset parses an asset identifier. "native" and the empty string select the
// native currency; anything else must be a token address.
func ParseAsset(s string) (common.Address, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "native":
		return NativeAsset, nil
	}
	return ParseAddress(s)
}

// ValidateName checks a treasury name against the seed length bound
func ValidateName(name string) error {
	if name == "" || len(name) > MaxSeedLength {
		return fmt.Errorf("%w: treasury name must be 1-%d bytes", ErrInvalidText, MaxSeedLength)
	}
	return nil
}
