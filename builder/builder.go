// builder/builder.go
package builder

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/arbiterhq/arbiter/errors"
	"github.com/arbiterhq/arbiter/model"
)

var validate = validator.New()

// finish applies the common defaults, runs struct validation on the kind
// spec, and freezes the policy. Every builder funnel through here so a
// malformed policy fails fast with a ConfigurationError instead of
// misbehaving at evaluation time.
func finish(policy model.Policy, spec any) (model.Policy, error) {
	if policy.ID == "" {
		policy.ID = uuid.NewString()
	}
	if policy.Status == "" {
		policy.Status = model.StatusActive
	}
	if err := validate.Struct(spec); err != nil {
		return model.Policy{}, errors.NewConfigurationError(policy.ID, "validation failed", err)
	}
	return policy, nil
}

// RBACBuilder assembles a role-based access policy.
type RBACBuilder struct {
	policy model.Policy
	spec   model.RBACSpec
}

func NewRBACPolicy(name string) *RBACBuilder {
	return &RBACBuilder{policy: model.Policy{Name: name, Kind: model.KindRBAC}}
}

func (b *RBACBuilder) WithID(id string) *RBACBuilder {
	b.policy.ID = id
	return b
}

func (b *RBACBuilder) Inactive() *RBACBuilder {
	b.policy.Status = model.StatusInactive
	return b
}

func (b *RBACBuilder) Role(role string) *RBACBuilder {
	b.spec.Role = role
	return b
}

func (b *RBACBuilder) Resource(pattern string) *RBACBuilder {
	b.spec.Resource = pattern
	return b
}

func (b *RBACBuilder) Action(pattern string) *RBACBuilder {
	b.spec.Action = pattern
	return b
}

func (b *RBACBuilder) When(attribute string, op model.Operator, value any) *RBACBuilder {
	b.spec.Conditions = append(b.spec.Conditions, model.Condition{Attribute: attribute, Operator: op, Value: value})
	return b
}

func (b *RBACBuilder) Build() (model.Policy, error) {
	b.policy.RBAC = &b.spec
	return finish(b.policy, b.spec)
}

// ABACBuilder assembles an attribute-based access policy.
type ABACBuilder struct {
	policy model.Policy
	spec   model.ABACSpec
}

func NewABACPolicy(name string) *ABACBuilder {
	return &ABACBuilder{policy: model.Policy{Name: name, Kind: model.KindABAC}}
}

func (b *ABACBuilder) WithID(id string) *ABACBuilder {
	b.policy.ID = id
	return b
}

func (b *ABACBuilder) Inactive() *ABACBuilder {
	b.policy.Status = model.StatusInactive
	return b
}

func (b *ABACBuilder) SubjectAttr(key string, value any) *ABACBuilder {
	if b.spec.SubjectAttrs == nil {
		b.spec.SubjectAttrs = map[string]any{}
	}
	b.spec.SubjectAttrs[key] = value
	return b
}

func (b *ABACBuilder) ResourceAttr(key string, value any) *ABACBuilder {
	if b.spec.ResourceAttrs == nil {
		b.spec.ResourceAttrs = map[string]any{}
	}
	b.spec.ResourceAttrs[key] = value
	return b
}

func (b *ABACBuilder) When(attribute string, op model.Operator, value any) *ABACBuilder {
	b.spec.Conditions = append(b.spec.Conditions, model.Condition{Attribute: attribute, Operator: op, Value: value})
	return b
}

func (b *ABACBuilder) Build() (model.Policy, error) {
	b.policy.ABAC = &b.spec
	return finish(b.policy, b.spec)
}

// ContentFilterBuilder assembles a content filtering policy.
type ContentFilterBuilder struct {
	policy model.Policy
	spec   model.ContentFilterSpec
}

func NewContentFilterPolicy(name string) *ContentFilterBuilder {
	return &ContentFilterBuilder{policy: model.Policy{Name: name, Kind: model.KindContentFilter}}
}

func (b *ContentFilterBuilder) WithID(id string) *ContentFilterBuilder {
	b.policy.ID = id
	return b
}

func (b *ContentFilterBuilder) Inactive() *ContentFilterBuilder {
	b.policy.Status = model.StatusInactive
	return b
}

func (b *ContentFilterBuilder) Keyword(pattern string, caseSensitive bool) *ContentFilterBuilder {
	b.spec.Filters = append(b.spec.Filters, model.ContentFilterRule{Type: model.FilterKeyword, Pattern: pattern, CaseSensitive: caseSensitive})
	return b
}

func (b *ContentFilterBuilder) Regex(pattern string, caseSensitive bool) *ContentFilterBuilder {
	b.spec.Filters = append(b.spec.Filters, model.ContentFilterRule{Type: model.FilterRegex, Pattern: pattern, CaseSensitive: caseSensitive})
	return b
}

func (b *ContentFilterBuilder) Email(pattern string) *ContentFilterBuilder {
	b.spec.Filters = append(b.spec.Filters, model.ContentFilterRule{Type: model.FilterEmail, Pattern: pattern})
	return b
}

func (b *ContentFilterBuilder) OnMatch(action model.MatchAction) *ContentFilterBuilder {
	b.spec.OnMatchAction = action
	return b
}

func (b *ContentFilterBuilder) Build() (model.Policy, error) {
	b.policy.ContentFilter = &b.spec
	return finish(b.policy, b.spec)
}

// RateLimitBuilder assembles a rate limiting policy.
type RateLimitBuilder struct {
	policy model.Policy
	spec   model.RateLimitSpec
}

func NewRateLimitPolicy(name string) *RateLimitBuilder {
	return &RateLimitBuilder{policy: model.Policy{Name: name, Kind: model.KindRateLimit}}
}

func (b *RateLimitBuilder) WithID(id string) *RateLimitBuilder {
	b.policy.ID = id
	return b
}

func (b *RateLimitBuilder) Inactive() *RateLimitBuilder {
	b.policy.Status = model.StatusInactive
	return b
}

func (b *RateLimitBuilder) Limit(limit, windowSeconds int) *RateLimitBuilder {
	b.spec.Limit = limit
	b.spec.WindowSeconds = windowSeconds
	return b
}

func (b *RateLimitBuilder) Scope(attributePath string) *RateLimitBuilder {
	b.spec.Scope = attributePath
	return b
}

func (b *RateLimitBuilder) OnExceed(action model.MatchAction) *RateLimitBuilder {
	b.spec.OnExceedAction = action
	return b
}

func (b *RateLimitBuilder) Build() (model.Policy, error) {
	b.policy.RateLimit = &b.spec
	return finish(b.policy, b.spec)
}

// DataMaskingBuilder assembles a data masking policy.
type DataMaskingBuilder struct {
	policy model.Policy
	spec   model.DataMaskingSpec
}

func NewDataMaskingPolicy(name string) *DataMaskingBuilder {
	return &DataMaskingBuilder{policy: model.Policy{Name: name, Kind: model.KindDataMasking}}
}

func (b *DataMaskingBuilder) WithID(id string) *DataMaskingBuilder {
	b.policy.ID = id
	return b
}

func (b *DataMaskingBuilder) Inactive() *DataMaskingBuilder {
	b.policy.Status = model.StatusInactive
	return b
}

func (b *DataMaskingBuilder) Fields(fields ...string) *DataMaskingBuilder {
	b.spec.Fields = append(b.spec.Fields, fields...)
	return b
}

func (b *DataMaskingBuilder) MaskingType(maskingType model.MaskingType) *DataMaskingBuilder {
	b.spec.MaskingType = maskingType
	return b
}

func (b *DataMaskingBuilder) When(attribute string, op model.Operator, value any) *DataMaskingBuilder {
	b.spec.Conditions = append(b.spec.Conditions, model.Condition{Attribute: attribute, Operator: op, Value: value})
	return b
}

func (b *DataMaskingBuilder) Build() (model.Policy, error) {
	b.policy.DataMasking = &b.spec
	return finish(b.policy, b.spec)
}

// FraudPreventionBuilder assembles a fraud prevention policy.
type FraudPreventionBuilder struct {
	policy model.Policy
	spec   model.FraudPreventionSpec
}

func NewFraudPreventionPolicy(name string) *FraudPreventionBuilder {
	return &FraudPreventionBuilder{policy: model.Policy{Name: name, Kind: model.KindFraudPrevention}}
}

func (b *FraudPreventionBuilder) WithID(id string) *FraudPreventionBuilder {
	b.policy.ID = id
	return b
}

func (b *FraudPreventionBuilder) Inactive() *FraudPreventionBuilder {
	b.policy.Status = model.StatusInactive
	return b
}

func (b *FraudPreventionBuilder) RiskLevel(level model.RiskLevel) *FraudPreventionBuilder {
	b.spec.RiskLevel = level
	return b
}

func (b *FraudPreventionBuilder) Signal(name string, value, weight float64) *FraudPreventionBuilder {
	b.spec.Signals = append(b.spec.Signals, model.Signal{Name: name, Value: value, Weight: weight})
	return b
}

func (b *FraudPreventionBuilder) MinScore(score float64) *FraudPreventionBuilder {
	b.spec.MinScore = score
	return b
}

func (b *FraudPreventionBuilder) OnSuspicion(action model.MatchAction) *FraudPreventionBuilder {
	b.spec.OnSuspicionAction = action
	return b
}

func (b *FraudPreventionBuilder) Build() (model.Policy, error) {
	b.policy.FraudPrevention = &b.spec
	return finish(b.policy, b.spec)
}

// ComplianceBuilder assembles a regulatory compliance policy.
type ComplianceBuilder struct {
	policy model.Policy
	spec   model.ComplianceSpec
}

func NewCompliancePolicy(name, framework string) *ComplianceBuilder {
	b := &ComplianceBuilder{policy: model.Policy{Name: name, Kind: model.KindCompliance}}
	b.spec.Framework = framework
	return b
}

func (b *ComplianceBuilder) WithID(id string) *ComplianceBuilder {
	b.policy.ID = id
	return b
}

func (b *ComplianceBuilder) Inactive() *ComplianceBuilder {
	b.policy.Status = model.StatusInactive
	return b
}

func (b *ComplianceBuilder) AuditRequired() *ComplianceBuilder {
	b.spec.AuditRequired = true
	return b
}

func (b *ComplianceBuilder) Requirement(req model.Requirement) *ComplianceBuilder {
	b.spec.Requirements = append(b.spec.Requirements, req)
	return b
}

func (b *ComplianceBuilder) Build() (model.Policy, error) {
	b.policy.Compliance = &b.spec
	return finish(b.policy, b.spec)
}
