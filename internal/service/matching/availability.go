package matching

import (
	"time"

	"capacity-backend/internal/storage"
)

// Two 8-hour shifts per calendar day; overlapping assignments are assumed
// to eat one shift per day of overlap, regardless of their own size. A
// deliberately naive model kept for parity with the planner UI.
const (
	shiftHoursPerDay = 16.0
	allocHoursPerDay = 8.0
)

// Availability is the naive free-capacity estimate for one machine over a
// window.
type Availability struct {
	TotalHours     float64 `json:"total_hours"`
	AllocatedHours float64 `json:"allocated_hours"`
	AvailableHours float64 `json:"available_hours"`
	UtilizationPct float64 `json:"utilization_pct"`
}

// EstimateAvailability sums the hours existing assignments consume on the
// machine inside [startMs, dueMs] and subtracts them from the window's
// shift capacity. Both endpoints are inclusive.
func EstimateAvailability(machineID int64, startMs, dueMs int64, assignments []storage.JobAssignment) Availability {
	days := daysInclusive(startMs, dueMs)
	if days <= 0 {
		return Availability{}
	}

	total := float64(days) * shiftHoursPerDay
	allocated := 0.0

	for _, a := range assignments {
		if !assignedTo(a, machineID) {
			continue
		}
		overlap := overlapDays(startMs, dueMs, a.StartDate, a.DueDate)
		allocated += float64(overlap) * allocHoursPerDay
	}

	avail := total - allocated
	if avail < 0 {
		avail = 0
	}
	util := allocated / total * 100
	if util > 100 {
		util = 100
	}

	return Availability{
		TotalHours:     total,
		AllocatedHours: allocated,
		AvailableHours: avail,
		UtilizationPct: util,
	}
}

func assignedTo(a storage.JobAssignment, machineID int64) bool {
	for _, id := range a.MachinesID {
		if id == machineID {
			return true
		}
	}
	return false
}

func daysInclusive(startMs, endMs int64) int {
	start := truncateDay(startMs)
	end := truncateDay(endMs)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

func overlapDays(aStart, aEnd, bStart, bEnd int64) int {
	start := aStart
	if bStart > start {
		start = bStart
	}
	end := aEnd
	if bEnd < end {
		end = bEnd
	}
	if end < start {
		return 0
	}
	return daysInclusive(start, end)
}

func truncateDay(ms int64) time.Time {
	t := time.UnixMilli(ms).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
