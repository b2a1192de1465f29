package storage

// Machine is one production machine from the registry. Capabilities is the
// decoded JSON column: values are option arrays, {min,max} ranges, booleans
// or plain scalars depending on the capability key.
type Machine struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	ProcessTypeKey string         `json:"process_type_key"`
	Capabilities   map[string]any `json:"capabilities"`
	SpeedHr        float64        `json:"speed_hr"`
	FacilitiesID   int64          `json:"facilities_id"`
	Active         bool           `json:"active"`
}

// ProcessTypeField describes one configurable job parameter for a process
// type. The engine passes these through to the frontend untouched.
type ProcessTypeField struct {
	ID             int64    `json:"id"`
	ProcessTypeKey string   `json:"process_type_key"`
	FieldKey       string   `json:"field_key"`
	FieldType      string   `json:"field_type"`
	Options        []string `json:"options,omitempty"`
	Required       bool     `json:"required"`
	SortOrder      int      `json:"sort_order"`
}
