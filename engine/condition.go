// engine/condition.go
package engine

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/arbiterhq/arbiter/logging"
	"github.com/arbiterhq/arbiter/model"
	"go.uber.org/zap"
)

// EvaluateCondition resolves the condition's attribute and applies its
// operator against the literal value. Unresolvable attributes fail the
// condition; malformed operands fail the condition; it never errors.
func EvaluateCondition(condition model.Condition, ctx model.PolicyContext) bool {
	resolved, ok := ResolveAttribute(condition.Attribute, ctx)
	if !ok {
		return false
	}

	switch condition.Operator {
	case model.OpEq:
		return valuesEqual(resolved, condition.Value)
	case model.OpNe:
		return !valuesEqual(resolved, condition.Value)
	case model.OpGt, model.OpGte, model.OpLt, model.OpLte:
		return compareNumeric(resolved, condition.Value, condition.Operator)
	case model.OpIn:
		return valueIn(resolved, condition.Value)
	case model.OpContains:
		return valueContains(resolved, condition.Value)
	case model.OpRegex:
		return matchRegex(resolved, condition.Value)
	default:
		logging.Warn("Unknown condition operator", zap.String("operator", string(condition.Operator)))
		return false
	}
}

// valuesEqual is type-aware: numbers compare as numbers regardless of the
// concrete numeric type, but a string never equals a number.
func valuesEqual(a, b any) bool {
	na, aNum := toFloat(a)
	nb, bNum := toFloat(b)
	if aNum || bNum {
		return aNum && bNum && na == nb
	}
	return reflect.DeepEqual(a, b)
}

func compareNumeric(resolved, value any, op model.Operator) bool {
	a, ok := toFloat(resolved)
	if !ok {
		return false
	}
	b, ok := toFloat(value)
	if !ok {
		return false
	}
	switch op {
	case model.OpGt:
		return a > b
	case model.OpGte:
		return a >= b
	case model.OpLt:
		return a < b
	case model.OpLte:
		return a <= b
	}
	return false
}

func valueIn(resolved, value any) bool {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		if valuesEqual(resolved, rv.Index(i).Interface()) {
			return true
		}
	}
	return false
}

func valueContains(resolved, value any) bool {
	switch r := resolved.(type) {
	case string:
		needle, ok := value.(string)
		if !ok {
			return false
		}
		return strings.Contains(r, needle)
	default:
		rv := reflect.ValueOf(resolved)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return false
		}
		for i := 0; i < rv.Len(); i++ {
			if valuesEqual(rv.Index(i).Interface(), value) {
				return true
			}
		}
		return false
	}
}

// matchRegex matches case-insensitively unless the pattern itself opts out.
func matchRegex(resolved, value any) bool {
	s, ok := resolved.(string)
	if !ok {
		return false
	}
	pattern, ok := value.(string)
	if !ok {
		return false
	}
	if !strings.HasPrefix(pattern, "(?") {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		logging.Warn("Invalid condition regex", zap.String("pattern", pattern), zap.Error(err))
		return false
	}
	return re.MatchString(s)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// conditionsMet is the AND fold used by every policy kind: all conditions
// must pass; an empty list passes.
func conditionsMet(conditions []model.Condition, ctx model.PolicyContext) (bool, *model.Condition) {
	for i := range conditions {
		if !EvaluateCondition(conditions[i], ctx) {
			return false, &conditions[i]
		}
	}
	return true, nil
}
