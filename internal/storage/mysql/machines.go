package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"capacity-backend/internal/storage"
)

// GetMachines returns active machines, optionally narrowed to a process
// type and a facility. Capabilities come out of a JSON column.
func (s *Storage) GetMachines(ctx context.Context, processType string, facilityID *int64) ([]storage.Machine, error) {
	const op = "storage.mysql.GetMachines"

	query := `SELECT m.id, m.name, m.process_type_key, m.capabilities, m.speed_hr, m.facilities_id, m.active
		FROM machines m
		WHERE m.active = TRUE`
	var args []interface{}

	if processType != "" {
		query += ` AND m.process_type_key = ?`
		args = append(args, processType)
	}
	if facilityID != nil {
		query += ` AND m.facilities_id = ?`
		args = append(args, *facilityID)
	}
	query += ` ORDER BY m.name ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query machines: %w", op, err)
	}
	defer rows.Close()

	var machines []storage.Machine
	for rows.Next() {
		var m storage.Machine
		var caps sql.NullString

		if err := rows.Scan(&m.ID, &m.Name, &m.ProcessTypeKey, &caps, &m.SpeedHr, &m.FacilitiesID, &m.Active); err != nil {
			return nil, fmt.Errorf("%s: scan machine: %w", op, err)
		}
		if err := decodeJSONColumn(caps, &m.Capabilities); err != nil {
			return nil, fmt.Errorf("%s: decode capabilities for machine %d: %w", op, m.ID, err)
		}

		machines = append(machines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return machines, nil
}

// GetProcessTypeFields is a passthrough for the frontend's dynamic job
// forms; the engine itself never interprets these rows.
func (s *Storage) GetProcessTypeFields(ctx context.Context, processType string) ([]storage.ProcessTypeField, error) {
	const op = "storage.mysql.GetProcessTypeFields"

	query := `SELECT f.id, f.process_type_key, f.field_key, f.field_type, f.options, f.required, f.sort_order
		FROM process_type_fields f
		WHERE f.process_type_key = ?
		ORDER BY f.sort_order ASC`

	rows, err := s.db.QueryContext(ctx, query, processType)
	if err != nil {
		return nil, fmt.Errorf("%s: query fields: %w", op, err)
	}
	defer rows.Close()

	var fields []storage.ProcessTypeField
	for rows.Next() {
		var f storage.ProcessTypeField
		var options sql.NullString

		if err := rows.Scan(&f.ID, &f.ProcessTypeKey, &f.FieldKey, &f.FieldType, &options, &f.Required, &f.SortOrder); err != nil {
			return nil, fmt.Errorf("%s: scan field: %w", op, err)
		}
		if err := decodeJSONColumn(options, &f.Options); err != nil {
			return nil, fmt.Errorf("%s: decode options for field %d: %w", op, f.ID, err)
		}

		fields = append(fields, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return fields, nil
}
