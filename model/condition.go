// model/condition.go
package model

// Operator is the closed set of attribute comparison operators.
type Operator string

const (
	OpEq       Operator = "eq"
	OpNe       Operator = "ne"
	OpGt       Operator = "gt"
	OpGte      Operator = "gte"
	OpLt       Operator = "lt"
	OpLte      Operator = "lte"
	OpIn       Operator = "in"
	OpContains Operator = "contains"
	OpRegex    Operator = "regex"
)

// Condition compares a dot-path attribute of the evaluation context against
// a literal value. An unresolvable attribute path makes the condition fail;
// it never errors.
type Condition struct {
	Attribute string   `json:"attribute" yaml:"attribute" validate:"required"`
	Operator  Operator `json:"operator" yaml:"operator" validate:"required,oneof=eq ne gt gte lt lte in contains regex"`
	Value     any      `json:"value" yaml:"value"`
}
