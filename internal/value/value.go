// Package value defines the runtime representation moon expressions
// evaluate to and the handful of operations — display, truthiness,
// equality — that don't require knowledge of how functions or classes
// are executed.
package value

import (
	"fmt"
	"strconv"
)

// Value is the tagged union every expression evaluates to: a string, a
// float64 number, a bool, nil, or one of the Callable/*Instance types
// internal/interpreter defines. The evaluator type-switches on the
// concrete Go type rather than carrying an explicit tag field.
type Value interface{}

// Callable is implemented by anything moon code can invoke with a call
// expression: native functions, user-defined functions, bound
// methods, and classes (whose Call constructs an instance).
type Callable interface {
	Arity() int
	String() string
}

// Display renders a Value the way `print` does: numbers
// drop a trailing ".0", strings are wrapped in double quotes, nil
// prints as "nil", and everything else uses its String()/Go %v form.
func Display(v Value) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return formatNumber(val)
	case string:
		return `"` + val + `"`
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// formatNumber strips the trailing ".0" moon quietly produces for
// integral values (e.g. `1 + 2 * 3` displays as `7`, not `7.0`),
// formatting everything else with the shortest round-trip
// representation.
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// IsTruthy implements moon's truthiness rule: nil and false are
// falsey, everything else — including 0 and "" — is truthy.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	default:
		return true
	}
}

// Equal implements moon's `==`. Values of different dynamic types are
// never equal; NaN follows ordinary float64 comparison (NaN != NaN).
func Equal(a, b Value) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		return a == b
	}
}

// TypeNamer lets a runtime type outside this package (Function, Class,
// Instance) report its own name for diagnostics.
type TypeNamer interface {
	TypeName() string
}

// TypeName reports the name used in runtime type-mismatch diagnostics.
func TypeName(v Value) string {
	if tn, ok := v.(TypeNamer); ok {
		return tn.TypeName()
	}
	switch v.(type) {
	case nil:
		return "nil"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	default:
		return "value"
	}
}
