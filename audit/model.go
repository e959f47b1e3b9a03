// audit/model.go
package audit

import "time"

// Event records one compliance decision for the external audit trail.
// ContextDigest is a hash of the evaluation context, not the context itself,
// so the trail never stores raw subject data.
type Event struct {
	PolicyID      string    `json:"policy_id"`
	Framework     string    `json:"framework"`
	Allowed       bool      `json:"allowed"`
	Reason        string    `json:"reason"`
	Timestamp     time.Time `json:"timestamp"`
	ContextDigest string    `json:"context_digest"`
}
