// model/decision.go
package model

// Decision is the outcome of evaluating one policy or a batch of policies.
// AppliedPolicies lists the id of every active policy that was actually
// evaluated, in evaluation order, regardless of pass/fail.
type Decision struct {
	Allowed          bool           `json:"allowed"`
	Reason           string         `json:"reason"`
	AppliedPolicies  []string       `json:"applied_policies"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	EvaluationTimeMs float64        `json:"evaluation_time_ms"`
}

// EvaluationResult wraps a Decision so the public contract can grow fields
// (trace spans, per-policy timings) without breaking callers.
type EvaluationResult struct {
	Decision Decision `json:"decision"`
}
