package schedule

import (
	"fmt"

	"capacity-backend/internal/storage"
)

// RedistributeQuantity absorbs a manual cell edit. The edited cell is set
// and locked, then the difference against totalQuantity is spread over the
// unlocked cells after it (or, with allowBackward, over all unlocked
// cells). When every other cell is locked the edit still lands and the
// total simply stops reconciling; the caller decides what to tell the
// user.
func RedistributeQuantity(periods []storage.Period, editedIndex, newValue, totalQuantity int, allowBackward bool) ([]storage.Period, error) {
	if editedIndex < 0 || editedIndex >= len(periods) {
		return nil, fmt.Errorf("%w: edited index %d out of range", ErrInvalidInput, editedIndex)
	}

	out := make([]storage.Period, len(periods))
	copy(out, periods)

	out[editedIndex].Quantity = newValue
	out[editedIndex].IsLocked = true

	sum := 0
	for _, p := range out {
		sum += p.Quantity
	}
	difference := totalQuantity - sum
	if difference == 0 {
		return out, nil
	}

	var pool []int
	for i := editedIndex + 1; i < len(out); i++ {
		if !out[i].IsLocked {
			pool = append(pool, i)
		}
	}
	if len(pool) == 0 && allowBackward {
		for i := range out {
			if i != editedIndex && !out[i].IsLocked {
				pool = append(pool, i)
			}
		}
	}
	if len(pool) == 0 {
		return out, nil
	}

	base := difference / len(pool)
	remainder := difference % len(pool)
	step := 1
	if remainder < 0 {
		step = -1
	}

	for i, idx := range pool {
		alloc := base
		if i < abs(remainder) {
			alloc += step
		}
		q := out[idx].Quantity + alloc
		if q < 0 {
			q = 0
		}
		out[idx].Quantity = q
	}

	return out, nil
}

// ResetToEvenDistribution is the unlock-all baseline: quantities differ by
// at most one and sum exactly to total.
func ResetToEvenDistribution(periodCount, total int) []int {
	if periodCount <= 0 {
		return nil
	}
	base := total / periodCount
	remainder := total % periodCount

	out := make([]int, periodCount)
	for i := range out {
		out[i] = base
		if i < remainder {
			out[i]++
		}
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
