package domain_test

import (
	"errors"
	"math"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
)

func TestDeriveAddress(t *testing.T) {
	treasury := domain.TreasuryAddress("dao")
	assert.Equal(t, treasury, domain.TreasuryAddress("dao"))
	assert.NotEqual(t, treasury, domain.TreasuryAddress("grants"))

	user := common.HexToAddress("0xb1")
	role := domain.RecipientRecordAddress(domain.SeedRole, treasury, user)
	stream := domain.RecipientRecordAddress(domain.SeedStream, treasury, user)
	assert.NotEqual(t, role, stream, "discriminator separates record kinds")

	assert.NotEqual(t,
		domain.IDRecordAddress(domain.SeedProposal, treasury, 1),
		domain.IDRecordAddress(domain.SeedProposal, treasury, 2))
	assert.NotEqual(t, treasury, domain.StakePoolAddress(treasury))
}

func TestParseAddress(t *testing.T) {
	addr, err := domain.ParseAddress(" 0x00000000000000000000000000000000000000A1 ")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xa1"), addr)

	for _, in := range []string{"", "alice", "00000000000000000000000000000000000000a1", "0xa1", "0xzz00000000000000000000000000000000000000"} {
		_, err := domain.ParseAddress(in)
		assert.ErrorIs(t, err, domain.ErrInvalidAddress, in)
	}
}

func TestParseAsset(t *testing.T) {
	for _, in := range []string{"", "native", "NATIVE"} {
		asset, err := domain.ParseAsset(in)
		require.NoError(t, err)
		assert.Equal(t, domain.NativeAsset, asset)
	}

	token, err := domain.ParseAsset("0x00000000000000000000000000000000000000e1")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xe1"), token)
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, domain.ValidateName("dao"))
	assert.Error(t, domain.ValidateName(""))
	assert.Error(t, domain.ValidateName("a-name-that-is-longer-than-thirty-two-bytes"))
}

func TestAmounts(t *testing.T) {
	sum, err := domain.AddAmount(2, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), sum)

	_, err = domain.AddAmount(math.MaxUint64, 1)
	assert.ErrorIs(t, err, domain.ErrAmountOverflow)

	_, err = domain.MulAmount(math.MaxUint64/2+1, 2)
	assert.ErrorIs(t, err, domain.ErrAmountOverflow)

	total, err := domain.SumAmounts([]uint64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, uint64(6), total)
}

func TestErrorClassification(t *testing.T) {
	err := errors.Join(errors.New("context"), domain.ErrSpendingLimitExceeded)
	assert.Equal(t, domain.ErrSpendingLimitExceeded.Category, domain.CategoryOf(err))
	assert.Equal(t, "SpendingLimitExceeded", domain.CodeOf(err))
	assert.Equal(t, domain.ErrorCategory(""), domain.CategoryOf(errors.New("plain")))

	notFound := domain.RecordNotFoundErr{Kind: "role", Key: "0x1"}
	assert.ErrorIs(t, notFound, domain.ErrNotFound)
}
