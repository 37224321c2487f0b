package tparams

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Boolean token sets accepted by the caster, matched case-insensitively.
var (
	truthyTokens = map[string]struct{}{"true": {}, "t": {}, "yes": {}, "y": {}, "1": {}}
	falsyTokens  = map[string]struct{}{"false": {}, "f": {}, "no": {}, "n": {}, "0": {}}
)

// Layout lists tried in order when casting strings to temporal targets.
var (
	dateLayouts = []string{
		"2006-01-02",
		"2006/01/02",
		"Jan 2, 2006",
		"January 2, 2006",
		time.RFC3339,
	}
	dateTimeLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	}
	timeLayouts = []string{
		"15:04:05",
		"15:04",
		time.RFC3339,
	}
)

// Cast coerces a raw scalar value to the target type. nil passes through
// unchanged, as does a value already of the target type. Cast has no side
// effects and is idempotent: casting its own result is a no-op.
func Cast(v any, target Type) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch target.Kind {
	case KindString:
		return castString(v), nil
	case KindBool:
		return castBool(v, target)
	case KindInteger:
		return castInteger(v, target)
	case KindFloat:
		return castFloat(v, target)
	case KindDate:
		return castTemporal(v, target, dateLayouts, false)
	case KindTime:
		return castTemporal(v, target, timeLayouts, true)
	case KindDateTime:
		return castTemporal(v, target, dateTimeLayouts, true)
	case KindEnum:
		return castEnum(v, target)
	}
	return nil, &CastingError{Value: v, Target: target}
}

// castString never fails: every value has a canonical text form.
func castString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case []byte:
		return string(s)
	}
	return fmt.Sprint(v)
}

func castBool(v any, target Type) (any, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		tok := strings.ToLower(strings.TrimSpace(b))
		if _, ok := truthyTokens[tok]; ok {
			return true, nil
		}
		if _, ok := falsyTokens[tok]; ok {
			return false, nil
		}
		return nil, &CastingError{Value: v, Target: target}
	}
	if n, ok := toInt64(v); ok {
		return n != 0, nil
	}
	return nil, &CastingError{Value: v, Target: target}
}

func castInteger(v any, target Type) (any, error) {
	if n, ok := toInt64(v); ok {
		return n, nil
	}
	switch x := v.(type) {
	case float64:
		return int64(x), nil // truncates
	case float32:
		return int64(x), nil
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f), nil
		}
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, nil
		}
		if f, err := x.Float64(); err == nil {
			return int64(f), nil
		}
	}
	return nil, &CastingError{Value: v, Target: target}
}

func castFloat(v any, target Type) (any, error) {
	if f, ok := toFloat(v); ok {
		return f, nil
	}
	if s, ok := v.(string); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, nil
		}
	}
	return nil, &CastingError{Value: v, Target: target}
}

// castTemporal accepts same-family time.Time values, layout-parsed strings,
// and, when epoch is set, integers as Unix-epoch seconds.
func castTemporal(v any, target Type, layouts []string, epoch bool) (any, error) {
	switch t := v.(type) {
	case time.Time:
		return normalizeTemporal(t, target), nil
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range layouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return normalizeTemporal(parsed, target), nil
			}
		}
		return nil, &CastingError{Value: v, Target: target}
	}
	if epoch {
		if n, ok := toInt64(v); ok {
			return time.Unix(n, 0).UTC(), nil
		}
		if num, ok := v.(json.Number); ok {
			if n, err := num.Int64(); err == nil {
				return time.Unix(n, 0).UTC(), nil
			}
		}
	}
	return nil, &CastingError{Value: v, Target: target}
}

// normalizeTemporal drops the sub-day component of dates so casting a Date
// twice yields the same value.
func normalizeTemporal(t time.Time, target Type) time.Time {
	if target.Kind == KindDate {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	}
	return t
}

func castEnum(v any, target Type) (any, error) {
	e := target.Enum
	if e == nil {
		return nil, &CastingError{Value: v, Target: target}
	}
	if m, ok := v.(EnumMember); ok && e.Contains(m) {
		return m, nil
	}
	switch v.(type) {
	case string, json.Number, int, int8, int16, int32, int64, uint, uint8, uint16, uint32:
		if m, ok := e.Deserialize(v); ok {
			return m, nil
		}
	}
	return nil, &CastingError{Value: v, Target: target}
}

// ---- scalar helpers ----

// toInt64 converts exact integer values, including whole float64s produced
// by JSON decoding, without parsing strings.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	}
	return 0, false
}

// toFloat converts any numeric value to float64 without parsing strings.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f, true
		}
		return 0, false
	}
	if i, ok := toInt64(v); ok {
		return float64(i), true
	}
	return 0, false
}
