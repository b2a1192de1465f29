package schedule

import (
	"testing"

	"capacity-backend/internal/storage"

	"github.com/stretchr/testify/assert"
)

func TestConvertWeeklyToGranularity_WeeklyIdentityKeepsLocks(t *testing.T) {
	weekly := []int{100, 200, 300}
	locked := []bool{false, true, false}

	periods, err := ConvertWeeklyToGranularity(weekly, locked, ms(2026, 1, 5), ms(2026, 1, 25), storage.GranularityWeekly)
	assert.NoError(t, err)
	assert.Len(t, periods, 3)
	assert.Equal(t, 100, periods[0].Quantity)
	assert.Equal(t, 200, periods[1].Quantity)
	assert.Equal(t, 300, periods[2].Quantity)
	assert.True(t, periods[1].IsLocked)
	assert.False(t, periods[0].IsLocked)
}

func TestConvertWeeklyToGranularity_DailySums(t *testing.T) {
	periods, err := ConvertWeeklyToGranularity([]int{700}, []bool{true}, ms(2026, 1, 5), ms(2026, 1, 11), storage.GranularityDaily)
	assert.NoError(t, err)
	assert.Len(t, periods, 7)
	for _, p := range periods {
		assert.Equal(t, 100, p.Quantity)
		assert.False(t, p.IsLocked, "locks must not survive a non-weekly view")
	}
}

func TestConvertWeeklyToGranularity_MonthlyAggregation(t *testing.T) {
	// 4 weeks from Jan 19: Jan 19-25, Jan 26-Feb 1, Feb 2-8, Feb 9-15.
	weekly := []int{700, 700, 700, 700}
	periods, err := ConvertWeeklyToGranularity(weekly, nil, ms(2026, 1, 19), ms(2026, 2, 15), storage.GranularityMonthly)
	assert.NoError(t, err)
	assert.Len(t, periods, 2)

	// Week 2 straddles the month edge: 6 days in January, 1 in February.
	assert.Equal(t, 1300, periods[0].Quantity)
	assert.Equal(t, 1500, periods[1].Quantity)
}

func TestConvertGranularityToWeekly_Identity(t *testing.T) {
	periods := []storage.Period{
		{StartDate: ms(2026, 1, 5), EndDate: ms(2026, 1, 11), Quantity: 120, IsLocked: true},
		{StartDate: ms(2026, 1, 12), EndDate: ms(2026, 1, 18), Quantity: 80},
	}

	split, err := ConvertGranularityToWeekly(periods, ms(2026, 1, 5), ms(2026, 1, 18), storage.GranularityWeekly, 200)
	assert.NoError(t, err)
	assert.Equal(t, []int{120, 80}, split.WeeklySplit)
	assert.Equal(t, []bool{true, false}, split.LockedWeeks)
}

func TestConvertGranularityToWeekly_DriftLandsOnLastWeek(t *testing.T) {
	// 10 days as daily periods of 1 each; total claimed is 17, so the
	// 7 units of drift all land on the final week.
	daily, err := CalculatePeriods(ms(2026, 1, 5), ms(2026, 1, 14), storage.GranularityDaily)
	assert.NoError(t, err)
	for i := range daily {
		daily[i].Quantity = 1
	}

	split, err := ConvertGranularityToWeekly(daily, ms(2026, 1, 5), ms(2026, 1, 14), storage.GranularityDaily, 17)
	assert.NoError(t, err)
	assert.Len(t, split.WeeklySplit, 2)
	assert.Equal(t, 7, split.WeeklySplit[0])
	assert.Equal(t, 10, split.WeeklySplit[1])

	for _, l := range split.LockedWeeks {
		assert.False(t, l, "locks never survive conversion from a non-weekly source")
	}
}

func TestConvert_RoundTripPreservesTotal(t *testing.T) {
	weekly := []int{950, 1050, 400, 600}
	start, end := ms(2026, 3, 2), ms(2026, 3, 29)
	total := 3000

	for _, g := range []storage.Granularity{
		storage.GranularityDaily,
		storage.GranularityWeekly,
		storage.GranularityMonthly,
		storage.GranularityQuarterly,
	} {
		view, err := ConvertWeeklyToGranularity(weekly, nil, start, end, g)
		assert.NoError(t, err)

		split, err := ConvertGranularityToWeekly(view, start, end, g, total)
		assert.NoError(t, err)

		sum := 0
		for _, q := range split.WeeklySplit {
			sum += q
		}
		assert.Equal(t, total, sum, "granularity %s", g)
	}
}

func TestConvert_WeeklyRoundTripIsExact(t *testing.T) {
	weekly := []int{123, 456, 789}
	start, end := ms(2026, 5, 4), ms(2026, 5, 24)

	view, err := ConvertWeeklyToGranularity(weekly, []bool{true, false, true}, start, end, storage.GranularityWeekly)
	assert.NoError(t, err)

	split, err := ConvertGranularityToWeekly(view, start, end, storage.GranularityWeekly, 1368)
	assert.NoError(t, err)
	assert.Equal(t, weekly, split.WeeklySplit)
	assert.Equal(t, []bool{true, false, true}, split.LockedWeeks)
}
