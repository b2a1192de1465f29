package storage

// Condition operators. Unknown operators are a caller error, not a non-match.
const (
	OpEquals             = "equals"
	OpNotEquals          = "not_equals"
	OpGreaterThan        = "greater_than"
	OpLessThan           = "less_than"
	OpGreaterThanOrEqual = "greater_than_or_equal"
	OpLessThanOrEqual    = "less_than_or_equal"
	OpBetween            = "between"
	OpIn                 = "in"
	OpNotIn              = "not_in"
)

const (
	LogicAnd = "AND"
	LogicOr  = "OR"
)

// RuleCondition is one comparison against a job parameter. Logic joins this
// condition with the NEXT one in the list (left-to-right, default AND).
type RuleCondition struct {
	Parameter string `json:"parameter"`
	Operator  string `json:"operator"`
	Value     any    `json:"value"`
	Logic     string `json:"logic,omitempty"`
}

// MachineRule adjusts a machine's throughput and staffing when its
// conditions match the job. MachinesID nil means the rule applies to every
// machine of the process type.
type MachineRule struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	ProcessTypeKey string          `json:"process_type_key"`
	MachinesID     *int64          `json:"machines_id,omitempty"`
	Conditions     []RuleCondition `json:"conditions"`
	SpeedModifier  float64         `json:"speed_modifier"`
	PeopleRequired int             `json:"people_required"`
	Priority       int             `json:"priority"`
	Active         bool            `json:"active"`
}
