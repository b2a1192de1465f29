package rules

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"capacity-backend/internal/storage"

	"github.com/spf13/cast"
)

// ErrInvalidInput marks caller contract violations: unknown operators,
// between without two bounds, in/not_in without a list. Business mismatches
// are never errors, only false results.
var ErrInvalidInput = errors.New("invalid input")

// EvaluateConditions folds the condition list strictly left to right. The
// Logic field of condition i joins it with condition i+1; there is no
// precedence and no grouping, mixed AND/OR sequences evaluate in encounter
// order. That mirrors how operators build these rules in the UI.
func EvaluateConditions(conditions []storage.RuleCondition, parameters map[string]any) (bool, error) {
	if len(conditions) == 0 {
		return true, nil
	}

	result, err := evaluateCondition(conditions[0], parameters)
	if err != nil {
		return false, err
	}

	for i := 1; i < len(conditions); i++ {
		next, err := evaluateCondition(conditions[i], parameters)
		if err != nil {
			return false, err
		}
		if strings.EqualFold(conditions[i-1].Logic, storage.LogicOr) {
			result = result || next
		} else {
			result = result && next
		}
	}

	return result, nil
}

func evaluateCondition(cond storage.RuleCondition, parameters map[string]any) (bool, error) {
	value, ok := parameters[cond.Parameter]
	if !ok || value == nil {
		// Absent parameter is a non-match, never an error.
		return false, nil
	}

	switch cond.Operator {
	case storage.OpEquals:
		return looseEqual(value, cond.Value), nil
	case storage.OpNotEquals:
		return !looseEqual(value, cond.Value), nil
	case storage.OpGreaterThan, storage.OpLessThan, storage.OpGreaterThanOrEqual, storage.OpLessThanOrEqual:
		return compareNumeric(cond.Operator, value, cond.Value), nil
	case storage.OpBetween:
		bounds, ok := toList(cond.Value)
		if !ok || len(bounds) < 2 {
			return false, fmt.Errorf("%w: between requires [min, max], got %v", ErrInvalidInput, cond.Value)
		}
		return compareNumeric(storage.OpGreaterThanOrEqual, value, bounds[0]) &&
			compareNumeric(storage.OpLessThanOrEqual, value, bounds[1]), nil
	case storage.OpIn, storage.OpNotIn:
		options, ok := toList(cond.Value)
		if !ok {
			return false, fmt.Errorf("%w: %s requires a list, got %v", ErrInvalidInput, cond.Operator, cond.Value)
		}
		found := false
		for _, opt := range options {
			if looseEqual(value, opt) {
				found = true
				break
			}
		}
		if cond.Operator == storage.OpNotIn {
			return !found, nil
		}
		return found, nil
	default:
		return false, fmt.Errorf("%w: unknown operator %q", ErrInvalidInput, cond.Operator)
	}
}

// FindMatchingRules returns the active rules whose conditions hold for the
// job parameters. machineID narrows machine-scoped rules; rules without a
// machine binding always stay in play.
func FindMatchingRules(rules []storage.MachineRule, parameters map[string]any, machineID *int64) ([]storage.MachineRule, error) {
	var matched []storage.MachineRule
	for _, rule := range rules {
		if !rule.Active {
			continue
		}
		if rule.MachinesID != nil && (machineID == nil || *rule.MachinesID != *machineID) {
			continue
		}
		ok, err := EvaluateConditions(rule.Conditions, parameters)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", rule.ID, err)
		}
		if ok {
			matched = append(matched, rule)
		}
	}
	return matched, nil
}

// SelectMostRestrictiveRule picks the slowest applicable rule: lowest speed
// modifier first, ties broken by higher priority. Worst case wins when
// several constraints apply at once.
func SelectMostRestrictiveRule(matches []storage.MachineRule) *storage.MachineRule {
	if len(matches) == 0 {
		return nil
	}
	sorted := make([]storage.MachineRule, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].SpeedModifier != sorted[j].SpeedModifier {
			return sorted[i].SpeedModifier < sorted[j].SpeedModifier
		}
		return sorted[i].Priority > sorted[j].Priority
	})
	return &sorted[0]
}

// SpeedResult is the rule-adjusted throughput for one machine.
type SpeedResult struct {
	EffectiveSpeedHr float64              `json:"effective_speed_hr"`
	PeopleRequired   int                  `json:"people_required"`
	Rule             *storage.MachineRule `json:"rule,omitempty"`
	Explanation      string               `json:"explanation"`
}

// ResolveSpeed applies the governing rule to the machine's base speed. With
// no matching rule the machine runs at base speed with one operator.
func ResolveSpeed(baseSpeedHr float64, rule *storage.MachineRule) SpeedResult {
	if rule == nil {
		return SpeedResult{
			EffectiveSpeedHr: baseSpeedHr,
			PeopleRequired:   1,
			Explanation:      "no matching rules, running at base speed with 1 person",
		}
	}
	return SpeedResult{
		EffectiveSpeedHr: math.Round(baseSpeedHr * rule.SpeedModifier / 100),
		PeopleRequired:   rule.PeopleRequired,
		Rule:             rule,
		Explanation: fmt.Sprintf("rule %q applies: %.0f%% speed, %d people",
			rule.Name, rule.SpeedModifier, rule.PeopleRequired),
	}
}

func looseEqual(a, b any) bool {
	af, aerr := cast.ToFloat64E(a)
	bf, berr := cast.ToFloat64E(b)
	if aerr == nil && berr == nil {
		return af == bf
	}
	return strings.EqualFold(cast.ToString(a), cast.ToString(b))
}

func compareNumeric(operator string, a, b any) bool {
	af, aerr := cast.ToFloat64E(a)
	bf, berr := cast.ToFloat64E(b)
	if aerr != nil || berr != nil {
		// Coercion failure is a non-match.
		return false
	}
	switch operator {
	case storage.OpGreaterThan:
		return af > bf
	case storage.OpLessThan:
		return af < bf
	case storage.OpGreaterThanOrEqual:
		return af >= bf
	case storage.OpLessThanOrEqual:
		return af <= bf
	}
	return false
}

func toList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	case []float64:
		out := make([]any, len(t))
		for i, f := range t {
			out[i] = f
		}
		return out, true
	case []int:
		out := make([]any, len(t))
		for i, n := range t {
			out[i] = n
		}
		return out, true
	}
	return nil, false
}
