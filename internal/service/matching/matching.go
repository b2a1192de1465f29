package matching

import (
	"fmt"
	"sort"

	"capacity-backend/internal/service/capability"
	"capacity-backend/internal/service/rules"
	"capacity-backend/internal/storage"
)

// Composite ranking weights. Policy values, not tuning knobs: the frontend
// explains scores in these terms.
const (
	capabilityWeight  = 0.4
	utilizationWeight = 30.0
	speedWeight       = 30.0

	// referenceSpeedHr normalizes machine speed for the composite score; the
	// fastest inserters on the floor run around this rate.
	referenceSpeedHr = 20000.0

	neutralScore = 50.0
)

// metadataParams are job fields that never count as capability requirements.
var metadataParams = map[string]bool{
	"process_type": true,
	"id":           true,
	"job_id":       true,
	"created_at":   true,
}

// JobCriteria is one match request after the orchestration service has
// gathered the rule set. Dates are epoch milliseconds.
type JobCriteria struct {
	ProcessType string
	Quantity    int
	StartDate   int64
	DueDate     int64
	Parameters  map[string]any
	Rules       []storage.MachineRule
}

// MachineMatch ranks one candidate machine for a job.
type MachineMatch struct {
	MachineID      int64               `json:"machine_id"`
	MachineName    string              `json:"machine_name"`
	CanHandle      bool                `json:"can_handle"`
	Score          float64             `json:"score"`
	CompositeScore float64             `json:"composite_score"`
	Details        []capability.Detail `json:"details"`
	Speed          rules.SpeedResult   `json:"speed"`
	EstimatedHours float64             `json:"estimated_hours"`
	AvailableHours float64             `json:"available_hours"`
	UtilizationPct float64             `json:"utilization_pct"`
}

// CapabilityCheck is the per-machine requirement verdict before any
// availability or speed weighting.
type CapabilityCheck struct {
	CanHandle bool                `json:"can_handle"`
	Details   []capability.Detail `json:"details"`
	Score     float64             `json:"score"`
}

// MatchJobToMachine checks whether one machine can run the job at all. A
// process-type mismatch disqualifies immediately; nothing else is checked.
func MatchJobToMachine(parameters map[string]any, machine storage.Machine, processType string) CapabilityCheck {
	if processType != "" && machine.ProcessTypeKey != processType {
		return CapabilityCheck{
			Details: []capability.Detail{{
				Parameter: "process_type",
				Required:  processType,
				Reason: fmt.Sprintf("machine runs %q, job needs %q",
					machine.ProcessTypeKey, processType),
			}},
		}
	}

	var details []capability.Detail
	matched := 0
	for _, key := range sortedKeys(parameters) {
		value := parameters[key]
		if metadataParams[key] || value == nil || value == "" {
			continue
		}
		d := capability.MatchCapability(key, value, machine.Capabilities)
		details = append(details, d)
		if d.Matches {
			matched++
		}
	}

	if len(details) == 0 {
		// Nothing to check: qualified, but nothing to brag about either.
		return CapabilityCheck{CanHandle: true, Score: neutralScore}
	}

	return CapabilityCheck{
		CanHandle: matched == len(details),
		Details:   details,
		Score:     float64(matched) / float64(len(details)) * 100,
	}
}

// FindMatchingMachines scores and ranks every candidate. Machines that can
// handle the job always sort above machines that cannot, regardless of the
// composite score; within each group higher composite wins.
func FindMatchingMachines(criteria JobCriteria, machines []storage.Machine, assignments []storage.JobAssignment) ([]MachineMatch, error) {
	matches := make([]MachineMatch, 0, len(machines))

	for _, machine := range machines {
		check := MatchJobToMachine(criteria.Parameters, machine, criteria.ProcessType)

		machineID := machine.ID
		matchedRules, err := rules.FindMatchingRules(criteria.Rules, criteria.Parameters, &machineID)
		if err != nil {
			return nil, fmt.Errorf("machine %d: %w", machine.ID, err)
		}
		speed := rules.ResolveSpeed(machine.SpeedHr, rules.SelectMostRestrictiveRule(matchedRules))

		avail := EstimateAvailability(machine.ID, criteria.StartDate, criteria.DueDate, assignments)

		m := MachineMatch{
			MachineID:      machine.ID,
			MachineName:    machine.Name,
			CanHandle:      check.CanHandle,
			Score:          check.Score,
			Details:        check.Details,
			Speed:          speed,
			AvailableHours: avail.AvailableHours,
			UtilizationPct: avail.UtilizationPct,
		}
		if speed.EffectiveSpeedHr > 0 {
			m.EstimatedHours = float64(criteria.Quantity) / speed.EffectiveSpeedHr
		}
		m.CompositeScore = compositeScore(check.Score, avail.UtilizationPct, machine.SpeedHr)
		matches = append(matches, m)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].CanHandle != matches[j].CanHandle {
			return matches[i].CanHandle
		}
		return matches[i].CompositeScore > matches[j].CompositeScore
	})

	return matches, nil
}

// FindBestMachine returns the top-ranked machine that can handle the job,
// or nil when none qualifies.
func FindBestMachine(criteria JobCriteria, machines []storage.Machine, assignments []storage.JobAssignment) (*MachineMatch, error) {
	matches, err := FindMatchingMachines(criteria, machines, assignments)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 || !matches[0].CanHandle {
		return nil, nil
	}
	return &matches[0], nil
}

func compositeScore(capScore, utilizationPct, speedHr float64) float64 {
	speedRatio := speedHr / referenceSpeedHr
	if speedRatio > 1 {
		speedRatio = 1
	}
	return capabilityWeight*capScore +
		utilizationWeight*(1-utilizationPct/100) +
		speedWeight*speedRatio
}

// sortedKeys keeps requirement iteration deterministic; map order would
// shuffle the details list between calls.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
