package capability

import (
	"strings"
	"unicode"
)

func resolveLiteral(parameter string, caps map[string]any) (string, any, bool) {
	v, ok := caps[parameter]
	return parameter, v, ok
}

func resolveSnake(parameter string, caps map[string]any) (string, any, bool) {
	key := toSnake(parameter)
	if key == parameter {
		return "", nil, false
	}
	v, ok := caps[key]
	return key, v, ok
}

func resolveCamel(parameter string, caps map[string]any) (string, any, bool) {
	key := toCamel(parameter)
	if key == parameter {
		return "", nil, false
	}
	v, ok := caps[key]
	return key, v, ok
}

func resolveSupported(parameter string, caps map[string]any) (string, any, bool) {
	key := "supported_" + toSnake(parameter)
	v, ok := caps[key]
	return key, v, ok
}

func resolveSupportedPlural(parameter string, caps map[string]any) (string, any, bool) {
	key := "supported_" + toSnake(parameter) + "s"
	v, ok := caps[key]
	return key, v, ok
}

func resolveRangeSuffix(parameter string, caps map[string]any) (string, any, bool) {
	key := toSnake(parameter) + "_range"
	v, ok := caps[key]
	return key, v, ok
}

// resolveMinMaxPair synthesizes a range from split min_<p>/max_<p> keys.
func resolveMinMaxPair(parameter string, caps map[string]any) (string, any, bool) {
	snake := toSnake(parameter)
	minV, hasMin := caps["min_"+snake]
	maxV, hasMax := caps["max_"+snake]
	if !hasMin && !hasMax {
		return "", nil, false
	}
	synth := map[string]any{}
	if hasMin {
		synth["min"] = minV
	}
	if hasMax {
		synth["max"] = maxV
	}
	return "min_" + snake + "/max_" + snake, synth, true
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func toCamel(s string) string {
	parts := strings.Split(s, "_")
	if len(parts) == 1 {
		return s
	}
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
