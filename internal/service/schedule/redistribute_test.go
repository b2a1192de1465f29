package schedule

import (
	"testing"

	"capacity-backend/internal/storage"

	"github.com/stretchr/testify/assert"
)

func periodsOf(quantities []int, locked []bool) []storage.Period {
	out := make([]storage.Period, len(quantities))
	for i, q := range quantities {
		out[i].Quantity = q
		if locked != nil {
			out[i].IsLocked = locked[i]
		}
	}
	return out
}

func quantities(periods []storage.Period) []int {
	out := make([]int, len(periods))
	for i, p := range periods {
		out[i] = p.Quantity
	}
	return out
}

func sum(periods []storage.Period) int {
	s := 0
	for _, p := range periods {
		s += p.Quantity
	}
	return s
}

func TestRedistributeQuantity_ForwardSplit(t *testing.T) {
	periods := periodsOf([]int{100, 100, 100}, nil)

	out, err := RedistributeQuantity(periods, 0, 150, 300, false)
	assert.NoError(t, err)
	assert.Equal(t, []int{150, 75, 75}, quantities(out))
	assert.True(t, out[0].IsLocked, "an edit always locks the edited cell")
	assert.False(t, out[1].IsLocked)
	assert.Equal(t, 300, sum(out))
}

func TestRedistributeQuantity_RemainderGoesToFirstCandidates(t *testing.T) {
	periods := periodsOf([]int{0, 0, 0, 0}, nil)

	out, err := RedistributeQuantity(periods, 0, 0, 100, false)
	assert.NoError(t, err)
	// 100 over 3 candidates: base 33, remainder 1 to the first.
	assert.Equal(t, []int{0, 34, 33, 33}, quantities(out))
	assert.Equal(t, 100, sum(out))
}

func TestRedistributeQuantity_SkipsLockedPeriods(t *testing.T) {
	periods := periodsOf([]int{100, 100, 100, 100}, []bool{false, false, true, false})

	out, err := RedistributeQuantity(periods, 0, 200, 400, false)
	assert.NoError(t, err)
	assert.Equal(t, []int{200, 50, 100, 50}, quantities(out))
	assert.Equal(t, 400, sum(out))
}

func TestRedistributeQuantity_NegativeDelta(t *testing.T) {
	periods := periodsOf([]int{100, 100, 100}, nil)

	out, err := RedistributeQuantity(periods, 0, 250, 300, false)
	assert.NoError(t, err)
	assert.Equal(t, 300, sum(out))
	assert.Equal(t, 250, out[0].Quantity)
	// The 250 over-allocation pulls 200 total from the tail.
	assert.Equal(t, 50, out[1].Quantity+out[2].Quantity)
}

func TestRedistributeQuantity_FlooredAtZero(t *testing.T) {
	periods := periodsOf([]int{10, 5, 5}, nil)

	out, err := RedistributeQuantity(periods, 0, 100, 20, false)
	assert.NoError(t, err)
	assert.Equal(t, 100, out[0].Quantity)
	assert.Equal(t, 0, out[1].Quantity)
	assert.Equal(t, 0, out[2].Quantity)
}

func TestRedistributeQuantity_BackwardFallback(t *testing.T) {
	periods := periodsOf([]int{100, 100, 100}, nil)

	// Editing the last cell leaves no forward pool.
	out, err := RedistributeQuantity(periods, 2, 40, 300, false)
	assert.NoError(t, err)
	assert.Equal(t, []int{100, 100, 40}, quantities(out), "no forward pool and no fallback leaves the rest alone")

	out, err = RedistributeQuantity(periods, 2, 40, 300, true)
	assert.NoError(t, err)
	assert.Equal(t, []int{130, 130, 40}, quantities(out))
	assert.Equal(t, 300, sum(out))
}

func TestRedistributeQuantity_AllLockedIsPartialResult(t *testing.T) {
	periods := periodsOf([]int{100, 100, 100}, []bool{false, true, true})

	out, err := RedistributeQuantity(periods, 0, 10, 300, true)
	assert.NoError(t, err, "an unreconcilable edit is not an error")
	assert.Equal(t, []int{10, 100, 100}, quantities(out))
	assert.NotEqual(t, 300, sum(out))
}

func TestRedistributeQuantity_IndexOutOfRange(t *testing.T) {
	_, err := RedistributeQuantity(periodsOf([]int{1}, nil), 3, 5, 10, false)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = RedistributeQuantity(periodsOf([]int{1}, nil), -1, 5, 10, false)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestResetToEvenDistribution(t *testing.T) {
	out := ResetToEvenDistribution(4, 103)
	assert.Equal(t, []int{26, 26, 26, 25}, out)

	out = ResetToEvenDistribution(3, 300)
	assert.Equal(t, []int{100, 100, 100}, out)

	assert.Nil(t, ResetToEvenDistribution(0, 10))
}

func TestResetToEvenDistribution_InvariantHolds(t *testing.T) {
	for _, tc := range []struct{ n, total int }{{1, 7}, {5, 3}, {7, 100}, {13, 9999}} {
		out := ResetToEvenDistribution(tc.n, tc.total)
		assert.Len(t, out, tc.n)

		s, min, max := 0, out[0], out[0]
		for _, q := range out {
			s += q
			if q < min {
				min = q
			}
			if q > max {
				max = q
			}
		}
		assert.Equal(t, tc.total, s)
		assert.LessOrEqual(t, max-min, 1)
	}
}
