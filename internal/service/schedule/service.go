package schedule

import (
	"context"
	"fmt"

	"capacity-backend/internal/storage"
)

type ScheduleStorage interface {
	GetJob(ctx context.Context, id int64) (*storage.ScheduledJob, error)
	UpdateJobSchedule(ctx context.Context, id int64, weeklySplit []int, lockedWeeks []bool) error
}

// Service applies interactive schedule edits: it loads the job's weekly
// split, works in the granularity the user is looking at, and writes the
// result back in weekly form.
type Service struct {
	storage ScheduleStorage
}

func NewService(storage ScheduleStorage) *Service {
	return &Service{storage: storage}
}

// PeriodsForJob renders the stored weekly split at the requested
// granularity.
func (s *Service) PeriodsForJob(ctx context.Context, jobID int64, granularity storage.Granularity) ([]storage.Period, error) {
	const op = "service.schedule.PeriodsForJob"

	job, err := s.storage.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ConvertWeeklyToGranularity(job.WeeklySplit, job.LockedWeeks, job.StartDate, job.DueDate, granularity)
}

// EditPeriod sets one cell of the view, redistributes the remainder and
// persists the weekly form. Returns the updated view periods.
func (s *Service) EditPeriod(ctx context.Context, jobID int64, granularity storage.Granularity, editedIndex, newValue int, allowBackward bool) ([]storage.Period, error) {
	const op = "service.schedule.EditPeriod"

	job, err := s.storage.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	view, err := ConvertWeeklyToGranularity(job.WeeklySplit, job.LockedWeeks, job.StartDate, job.DueDate, granularity)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	edited, err := RedistributeQuantity(view, editedIndex, newValue, job.Quantity, allowBackward)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	split, err := ConvertGranularityToWeekly(edited, job.StartDate, job.DueDate, granularity, job.Quantity)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.UpdateJobSchedule(ctx, jobID, split.WeeklySplit, split.LockedWeeks); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return edited, nil
}

// ResetJob replaces the job's split with an even weekly distribution and
// clears every lock.
func (s *Service) ResetJob(ctx context.Context, jobID int64) ([]storage.Period, error) {
	const op = "service.schedule.ResetJob"

	job, err := s.storage.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	weeks, err := CalculatePeriods(job.StartDate, job.DueDate, storage.GranularityWeekly)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	split := ResetToEvenDistribution(len(weeks), job.Quantity)
	locks := make([]bool, len(weeks))

	if err := s.storage.UpdateJobSchedule(ctx, jobID, split, locks); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range weeks {
		weeks[i].Quantity = split[i]
	}
	return weeks, nil
}
