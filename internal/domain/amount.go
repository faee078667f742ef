package domain

import "math/bits"

// AddAmount adds two amounts, failing instead of wrapping
func AddAmount(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrAmountOverflow
	}
	return sum, nil
}

// MulAmount multiplies an amount by a count, failing instead of wrapping
func MulAmount(a, n uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, n)
	if hi != 0 {
		return 0, ErrAmountOverflow
	}
	return lo, nil
}

// SumAmounts adds every amount, failing on overflow
func SumAmounts(amounts []uint64) (uint64, error) {
	var total uint64
	for _, a := range amounts {
		var err error
		if total, err = AddAmount(total, a); err != nil {
			return 0, err
		}
	}
	return total, nil
}
