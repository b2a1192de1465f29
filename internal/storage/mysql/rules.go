package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"capacity-backend/internal/storage"
)

// GetActiveRules returns active rules for a process type. A non-nil
// machineID additionally includes only rules bound to that machine or
// bound to no machine at all. Conditions come out of a JSON column.
func (s *Storage) GetActiveRules(ctx context.Context, processType string, machineID *int64) ([]storage.MachineRule, error) {
	const op = "storage.mysql.GetActiveRules"

	query := `SELECT r.id, r.name, r.process_type_key, r.machines_id, r.conditions,
			r.speed_modifier, r.people_required, r.priority, r.active
		FROM machine_rules r
		WHERE r.active = TRUE AND r.process_type_key = ?`
	args := []interface{}{processType}

	if machineID != nil {
		query += ` AND (r.machines_id IS NULL OR r.machines_id = ?)`
		args = append(args, *machineID)
	}
	query += ` ORDER BY r.priority DESC, r.id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query rules: %w", op, err)
	}
	defer rows.Close()

	var ruleset []storage.MachineRule
	for rows.Next() {
		var r storage.MachineRule
		var machinesID sql.NullInt64
		var conditions sql.NullString

		if err := rows.Scan(&r.ID, &r.Name, &r.ProcessTypeKey, &machinesID, &conditions,
			&r.SpeedModifier, &r.PeopleRequired, &r.Priority, &r.Active); err != nil {
			return nil, fmt.Errorf("%s: scan rule: %w", op, err)
		}
		if machinesID.Valid {
			id := machinesID.Int64
			r.MachinesID = &id
		}
		if err := decodeJSONColumn(conditions, &r.Conditions); err != nil {
			return nil, fmt.Errorf("%s: decode conditions for rule %d: %w", op, r.ID, err)
		}

		ruleset = append(ruleset, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ruleset, nil
}
