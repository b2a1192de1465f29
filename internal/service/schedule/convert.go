package schedule

import (
	"math"

	"capacity-backend/internal/storage"
)

// ConvertWeeklyToGranularity renders the stored weekly split at another
// granularity. The conversion always goes weekly -> per-day -> target; it
// never maps buckets to buckets directly. Locks only survive on the weekly
// identity path: a lock belongs to a specific weekly cell and has no
// meaning in a derived view.
func ConvertWeeklyToGranularity(weekly []int, locked []bool, startMs, endMs int64, target storage.Granularity) ([]storage.Period, error) {
	if target == storage.GranularityWeekly {
		weeks, err := CalculatePeriods(startMs, endMs, storage.GranularityWeekly)
		if err != nil {
			return nil, err
		}
		for i := range weeks {
			if i < len(weekly) {
				weeks[i].Quantity = weekly[i]
			}
			if i < len(locked) {
				weeks[i].IsLocked = locked[i]
			}
		}
		return weeks, nil
	}

	days, err := DailyQuantities(weekly, startMs, endMs)
	if err != nil {
		return nil, err
	}
	targets, err := CalculatePeriods(startMs, endMs, target)
	if err != nil {
		return nil, err
	}

	for i := range targets {
		sum := 0.0
		for _, d := range days {
			if d.Date >= targets[i].StartDate && d.Date <= targets[i].EndDate {
				sum += d.Quantity
			}
		}
		targets[i].Quantity = int(math.Round(sum))
	}

	return targets, nil
}

// WeeklySplit is the storage form of a distribution.
type WeeklySplit struct {
	WeeklySplit []int  `json:"weekly_split"`
	LockedWeeks []bool `json:"locked_weeks"`
}

// ConvertGranularityToWeekly folds an edited view back onto anchored weeks.
// Per-period rounding can drift from the requested total; the whole
// discrepancy is added to the last week rather than spread out, so earlier
// weeks stay exactly what the per-day math produced.
func ConvertGranularityToWeekly(periods []storage.Period, startMs, endMs int64, source storage.Granularity, totalQuantity int) (WeeklySplit, error) {
	weeks, err := CalculatePeriods(startMs, endMs, storage.GranularityWeekly)
	if err != nil {
		return WeeklySplit{}, err
	}

	split := WeeklySplit{
		WeeklySplit: make([]int, len(weeks)),
		LockedWeeks: make([]bool, len(weeks)),
	}

	if source == storage.GranularityWeekly {
		for i := range weeks {
			if i < len(periods) {
				split.WeeklySplit[i] = periods[i].Quantity
				split.LockedWeeks[i] = periods[i].IsLocked
			}
		}
		return split, nil
	}

	for i := range weeks {
		sum := 0.0
		for _, p := range periods {
			perDay := float64(p.Quantity) / float64(daysInPeriod(p))
			ds := dayStart(p.StartDate)
			for d := 0; d < daysInPeriod(p); d++ {
				date := ds.AddDate(0, 0, d).UnixMilli()
				if date >= weeks[i].StartDate && date <= weeks[i].EndDate {
					sum += perDay
				}
			}
		}
		split.WeeklySplit[i] = int(math.Round(sum))
	}

	computed := 0
	for _, q := range split.WeeklySplit {
		computed += q
	}
	if drift := totalQuantity - computed; drift != 0 && len(split.WeeklySplit) > 0 {
		split.WeeklySplit[len(split.WeeklySplit)-1] += drift
	}

	return split, nil
}
