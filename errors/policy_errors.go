// errors/policy_errors.go
package errors

import "errors"

var (
	ErrUnknownPolicyKind = errors.New("unknown policy kind")
	ErrInvalidPolicyData = errors.New("invalid policy data")
	ErrPolicyNotFound    = errors.New("policy not found")

	ErrStoreUnavailable = errors.New("rate limit store unavailable")
	ErrAuditUnavailable = errors.New("audit sink unavailable")
)
