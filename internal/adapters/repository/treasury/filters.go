package treasury

import (
	"cmp"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
)

// matchSchedule applies a ScheduleFilter to one schedule
func matchSchedule(filter domain.ScheduleFilter, recipient common.Address, active bool) bool {
	if !active && !filter.IncludeInactive {
		return false
	}
	if filter.Recipient != (common.Address{}) && recipient != filter.Recipient {
		return false
	}
	return true
}

// sortByID orders id-keyed records, whose storage keys are hashes
func sortByID[T any](records []T, id func(T) uint64) {
	slices.SortFunc(records, func(a, b T) int {
		return cmp.Compare(id(a), id(b))
	})
}
