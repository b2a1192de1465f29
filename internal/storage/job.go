package storage

// ScheduledJob is a job already on the schedule. WeeklySplit and LockedWeeks
// are decoded JSON columns; weekly is the storage granularity, other views
// are derived from it. Dates are epoch milliseconds, ranges inclusive.
type ScheduledJob struct {
	ID             int64   `json:"id"`
	OrderNum       string  `json:"order_num"`
	Name           string  `json:"name"`
	ProcessTypeKey string  `json:"process_type_key"`
	MachinesID     []int64 `json:"machines_id"`
	Quantity       int     `json:"quantity"`
	StartDate      int64   `json:"start_date"`
	DueDate        int64   `json:"due_date"`
	WeeklySplit    []int   `json:"weekly_split"`
	LockedWeeks    []bool  `json:"locked_weeks"`
}

// JobAssignment is the slice of a job the availability estimate needs.
type JobAssignment struct {
	ID         int64   `json:"id"`
	MachinesID []int64 `json:"machines_id"`
	StartDate  int64   `json:"start_date"`
	DueDate    int64   `json:"due_date"`
	Quantity   int     `json:"quantity"`
}
