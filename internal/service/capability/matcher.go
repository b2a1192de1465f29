package capability

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Detail is the audit record for one requirement/capability comparison.
// Reason is part of the contract: the frontend shows it in the match
// breakdown, so every branch fills it.
type Detail struct {
	Parameter  string `json:"parameter"`
	Capability string `json:"capability,omitempty"`
	Required   any    `json:"required"`
	Matches    bool   `json:"matches"`
	Reason     string `json:"reason"`
}

// resolver tries to find the capability entry answering a parameter name.
// Resolvers run in a fixed order so the key precedence stays stable.
type resolver func(parameter string, caps map[string]any) (key string, value any, ok bool)

var resolvers = []resolver{
	resolveLiteral,
	resolveSupported,
	resolveSupportedPlural,
	resolveRangeSuffix,
	resolveMinMaxPair,
	resolveSnake,
	resolveCamel,
}

// MatchCapability checks one job requirement against the machine's
// capability map. Pure: unknown keys and bad values are non-matches with a
// reason, never errors.
func MatchCapability(parameter string, required any, caps map[string]any) Detail {
	d := Detail{Parameter: parameter, Required: required}

	if len(caps) == 0 {
		d.Reason = fmt.Sprintf("machine does not define capability for %q", parameter)
		return d
	}

	var capValue any
	var capKey string
	found := false
	for _, resolve := range resolvers {
		if key, value, ok := resolve(parameter, caps); ok {
			capKey, capValue = key, value
			found = true
			break
		}
	}
	if !found {
		d.Reason = fmt.Sprintf("machine does not define capability for %q", parameter)
		return d
	}
	d.Capability = capKey

	switch cv := capValue.(type) {
	case []any:
		return matchOptions(d, cv, required)
	case []string:
		opts := make([]any, len(cv))
		for i, s := range cv {
			opts[i] = s
		}
		return matchOptions(d, opts, required)
	case map[string]any:
		return matchRange(d, cv, required)
	case bool:
		return matchBool(d, cv, required)
	default:
		return matchScalar(d, capValue, required)
	}
}

func matchOptions(d Detail, options []any, required any) Detail {
	want := cast.ToString(required)
	for _, opt := range options {
		if strings.EqualFold(cast.ToString(opt), want) {
			d.Matches = true
			d.Reason = fmt.Sprintf("%q is in supported options for %s", want, d.Capability)
			return d
		}
	}
	d.Reason = fmt.Sprintf("%q is not in supported options for %s", want, d.Capability)
	return d
}

func matchRange(d Detail, capRange map[string]any, required any) Detail {
	v, err := cast.ToFloat64E(required)
	if err != nil {
		d.Reason = fmt.Sprintf("value %v is not numeric, cannot compare against range %s", required, d.Capability)
		return d
	}

	if minRaw, ok := capRange["min"]; ok && minRaw != nil {
		min, err := cast.ToFloat64E(minRaw)
		if err == nil && v < min {
			d.Reason = fmt.Sprintf("%v is below minimum %v for %s", v, min, d.Capability)
			return d
		}
	}
	if maxRaw, ok := capRange["max"]; ok && maxRaw != nil {
		max, err := cast.ToFloat64E(maxRaw)
		if err == nil && v > max {
			d.Reason = fmt.Sprintf("%v is above maximum %v for %s", v, max, d.Capability)
			return d
		}
	}

	d.Matches = true
	d.Reason = fmt.Sprintf("%v is within range for %s", v, d.Capability)
	return d
}

func matchBool(d Detail, capFlag bool, required any) Detail {
	if !capFlag {
		d.Reason = fmt.Sprintf("machine does not support %s", d.Capability)
		return d
	}
	if isTruthy(required) {
		d.Matches = true
		d.Reason = fmt.Sprintf("machine supports %s", d.Capability)
		return d
	}
	d.Reason = fmt.Sprintf("%s requested as %v, expected a truthy value", d.Parameter, required)
	return d
}

func matchScalar(d Detail, capValue, required any) Detail {
	if strings.EqualFold(cast.ToString(capValue), cast.ToString(required)) {
		d.Matches = true
		d.Reason = fmt.Sprintf("%s matches %v", d.Capability, capValue)
		return d
	}
	d.Reason = fmt.Sprintf("required %v but machine has %v for %s", required, capValue, d.Capability)
	return d
}

// isTruthy mirrors the loose truthiness the frontend sends: true, "true" or 1.
func isTruthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(t, "true")
	default:
		f, err := cast.ToFloat64E(v)
		return err == nil && f == 1
	}
}
