// errors/configuration_error.go
package errors

import "fmt"

// ConfigurationError marks a malformed policy: a missing per-kind spec, a
// field that fails validation, or an unrecognized kind. It is raised at
// build time where possible and at dispatch time otherwise, and never
// surfaces as a panic.
type ConfigurationError struct {
	PolicyID string
	Detail   string
	Err      error
}

func NewConfigurationError(policyID, detail string, err error) *ConfigurationError {
	return &ConfigurationError{PolicyID: policyID, Detail: detail, Err: err}
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("policy %s: %s: %v", e.PolicyID, e.Detail, e.Err)
	}
	return fmt.Sprintf("policy %s: %s", e.PolicyID, e.Detail)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
