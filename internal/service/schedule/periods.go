package schedule

import (
	"errors"
	"fmt"
	"time"

	"capacity-backend/internal/storage"
)

// ErrInvalidInput marks caller contract violations (bad granularity,
// inverted ranges, out-of-range edit index).
var ErrInvalidInput = errors.New("invalid input")

// CalculatePeriods cuts [startMs, endMs] (inclusive) into empty buckets.
// Weekly periods are 7-day spans anchored at the job start, not calendar
// weeks; monthly and quarterly are calendar-aligned and clipped to the
// range.
func CalculatePeriods(startMs, endMs int64, granularity storage.Granularity) ([]storage.Period, error) {
	if !granularity.Valid() {
		return nil, fmt.Errorf("%w: unknown granularity %q", ErrInvalidInput, granularity)
	}
	start := dayStart(startMs)
	end := dayStart(endMs)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}

	var periods []storage.Period

	switch granularity {
	case storage.GranularityDaily:
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			periods = append(periods, storage.Period{
				StartDate: d.UnixMilli(),
				EndDate:   d.UnixMilli(),
				Label:     d.Format("Jan 2"),
			})
		}

	case storage.GranularityWeekly:
		week := 1
		for ws := start; !ws.After(end); ws = ws.AddDate(0, 0, 7) {
			we := ws.AddDate(0, 0, 6)
			if we.After(end) {
				we = end
			}
			periods = append(periods, storage.Period{
				StartDate: ws.UnixMilli(),
				EndDate:   we.UnixMilli(),
				Label:     fmt.Sprintf("Week %d", week),
			})
			week++
		}

	case storage.GranularityMonthly:
		for ms := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC); !ms.After(end); ms = ms.AddDate(0, 1, 0) {
			ps := maxDay(ms, start)
			pe := minDay(ms.AddDate(0, 1, -1), end)
			periods = append(periods, storage.Period{
				StartDate: ps.UnixMilli(),
				EndDate:   pe.UnixMilli(),
				Label:     ms.Format("Jan 2006"),
			})
		}

	case storage.GranularityQuarterly:
		qMonth := time.Month((int(start.Month())-1)/3*3 + 1)
		for qs := time.Date(start.Year(), qMonth, 1, 0, 0, 0, 0, time.UTC); !qs.After(end); qs = qs.AddDate(0, 3, 0) {
			ps := maxDay(qs, start)
			pe := minDay(qs.AddDate(0, 3, -1), end)
			periods = append(periods, storage.Period{
				StartDate: ps.UnixMilli(),
				EndDate:   pe.UnixMilli(),
				Label:     fmt.Sprintf("Q%d %d", (int(qs.Month())-1)/3+1, qs.Year()),
			})
		}
	}

	return periods, nil
}

// DayQuantity is one calendar day's share of a distribution.
type DayQuantity struct {
	Date     int64   `json:"date"`
	Quantity float64 `json:"quantity"`
}

// DailyQuantities spreads a weekly split evenly over each week's calendar
// days. The fractional per-day values are the common currency every
// granularity conversion goes through.
func DailyQuantities(weekly []int, startMs, endMs int64) ([]DayQuantity, error) {
	weeks, err := CalculatePeriods(startMs, endMs, storage.GranularityWeekly)
	if err != nil {
		return nil, err
	}

	var days []DayQuantity
	for i, w := range weeks {
		qty := 0
		if i < len(weekly) {
			qty = weekly[i]
		}
		n := daysInPeriod(w)
		perDay := float64(qty) / float64(n)
		ws := dayStart(w.StartDate)
		for d := 0; d < n; d++ {
			days = append(days, DayQuantity{
				Date:     ws.AddDate(0, 0, d).UnixMilli(),
				Quantity: perDay,
			})
		}
	}
	return days, nil
}

func daysInPeriod(p storage.Period) int {
	return daysBetween(dayStart(p.StartDate), dayStart(p.EndDate)) + 1
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

func dayStart(ms int64) time.Time {
	t := time.UnixMilli(ms).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func maxDay(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minDay(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
