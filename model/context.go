// model/context.go
package model

// PolicyContext is the subject/resource/action/data tuple a policy is
// evaluated against. It is constructed per request and never mutated by the
// engine.
type PolicyContext struct {
	Subject  map[string]any `json:"subject"`
	Resource map[string]any `json:"resource"`
	Action   string         `json:"action"`
	// Data is the payload under evaluation: a string, or a structured
	// map for field-level policies (masking, compliance).
	Data any `json:"data,omitempty"`
}

// SubjectRole is a convenience accessor for the conventional subject.role
// attribute used by RBAC policies.
func (c PolicyContext) SubjectRole() string {
	if c.Subject == nil {
		return ""
	}
	if role, ok := c.Subject["role"].(string); ok {
		return role
	}
	return ""
}

// ResourceName is a convenience accessor for the conventional resource.name
// attribute used by RBAC policies.
func (c PolicyContext) ResourceName() string {
	if c.Resource == nil {
		return ""
	}
	if name, ok := c.Resource["name"].(string); ok {
		return name
	}
	return ""
}
