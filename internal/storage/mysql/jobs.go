package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"capacity-backend/internal/storage"
)

// GetJob loads one scheduled job with its weekly split and lock flags.
func (s *Storage) GetJob(ctx context.Context, id int64) (*storage.ScheduledJob, error) {
	const op = "storage.mysql.GetJob"

	query := `SELECT j.id, j.order_num, j.name, j.process_type_key, j.machines_id,
			j.quantity, j.start_date, j.due_date, j.weekly_split, j.locked_weeks
		FROM jobs j
		WHERE j.id = ?`

	var job storage.ScheduledJob
	var machines, split, locks sql.NullString

	err := s.db.QueryRowContext(ctx, query, id).Scan(&job.ID, &job.OrderNum, &job.Name,
		&job.ProcessTypeKey, &machines, &job.Quantity, &job.StartDate, &job.DueDate, &split, &locks)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s: job %d: %w", op, id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := decodeJSONColumn(machines, &job.MachinesID); err != nil {
		return nil, fmt.Errorf("%s: decode machines_id: %w", op, err)
	}
	if err := decodeJSONColumn(split, &job.WeeklySplit); err != nil {
		return nil, fmt.Errorf("%s: decode weekly_split: %w", op, err)
	}
	if err := decodeJSONColumn(locks, &job.LockedWeeks); err != nil {
		return nil, fmt.Errorf("%s: decode locked_weeks: %w", op, err)
	}

	return &job, nil
}

// GetAssignmentsInWindow returns every job overlapping [startMs, endMs];
// only the fields the availability estimate reads.
func (s *Storage) GetAssignmentsInWindow(ctx context.Context, startMs, endMs int64) ([]storage.JobAssignment, error) {
	const op = "storage.mysql.GetAssignmentsInWindow"

	query := `SELECT j.id, j.machines_id, j.start_date, j.due_date, j.quantity
		FROM jobs j
		WHERE j.start_date <= ? AND j.due_date >= ?
		ORDER BY j.start_date ASC`

	rows, err := s.db.QueryContext(ctx, query, endMs, startMs)
	if err != nil {
		return nil, fmt.Errorf("%s: query assignments: %w", op, err)
	}
	defer rows.Close()

	var assignments []storage.JobAssignment
	for rows.Next() {
		var a storage.JobAssignment
		var machines sql.NullString

		if err := rows.Scan(&a.ID, &machines, &a.StartDate, &a.DueDate, &a.Quantity); err != nil {
			return nil, fmt.Errorf("%s: scan assignment: %w", op, err)
		}
		if err := decodeJSONColumn(machines, &a.MachinesID); err != nil {
			return nil, fmt.Errorf("%s: decode machines_id for job %d: %w", op, a.ID, err)
		}

		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return assignments, nil
}

// GetJobsInWindow is GetAssignmentsInWindow plus the schedule payload; the
// Excel report needs the splits, the matcher does not.
func (s *Storage) GetJobsInWindow(ctx context.Context, startMs, endMs int64) ([]storage.ScheduledJob, error) {
	const op = "storage.mysql.GetJobsInWindow"

	query := `SELECT j.id, j.order_num, j.name, j.process_type_key, j.machines_id,
			j.quantity, j.start_date, j.due_date, j.weekly_split, j.locked_weeks
		FROM jobs j
		WHERE j.start_date <= ? AND j.due_date >= ?
		ORDER BY j.start_date ASC`

	rows, err := s.db.QueryContext(ctx, query, endMs, startMs)
	if err != nil {
		return nil, fmt.Errorf("%s: query jobs: %w", op, err)
	}
	defer rows.Close()

	var jobs []storage.ScheduledJob
	for rows.Next() {
		var job storage.ScheduledJob
		var machines, split, locks sql.NullString

		if err := rows.Scan(&job.ID, &job.OrderNum, &job.Name, &job.ProcessTypeKey, &machines,
			&job.Quantity, &job.StartDate, &job.DueDate, &split, &locks); err != nil {
			return nil, fmt.Errorf("%s: scan job: %w", op, err)
		}
		if err := decodeJSONColumn(machines, &job.MachinesID); err != nil {
			return nil, fmt.Errorf("%s: decode machines_id for job %d: %w", op, job.ID, err)
		}
		if err := decodeJSONColumn(split, &job.WeeklySplit); err != nil {
			return nil, fmt.Errorf("%s: decode weekly_split for job %d: %w", op, job.ID, err)
		}
		if err := decodeJSONColumn(locks, &job.LockedWeeks); err != nil {
			return nil, fmt.Errorf("%s: decode locked_weeks for job %d: %w", op, job.ID, err)
		}

		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return jobs, nil
}

// UpdateJobSchedule writes a job's weekly split and lock flags back.
func (s *Storage) UpdateJobSchedule(ctx context.Context, id int64, weeklySplit []int, lockedWeeks []bool) error {
	const op = "storage.mysql.UpdateJobSchedule"

	splitJSON, err := json.Marshal(weeklySplit)
	if err != nil {
		return fmt.Errorf("%s: marshal weekly_split: %w", op, err)
	}
	locksJSON, err := json.Marshal(lockedWeeks)
	if err != nil {
		return fmt.Errorf("%s: marshal locked_weeks: %w", op, err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE jobs SET weekly_split = ?, locked_weeks = ?, updated_at = NOW() WHERE id = ?`,
		string(splitJSON), string(locksJSON), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
