// model/policy.go
package model

// Kind discriminates the policy variants. Every Policy carries exactly one
// spec matching its Kind; evaluation dispatches on it.
type Kind string

const (
	KindRBAC            Kind = "rbac"
	KindABAC            Kind = "abac"
	KindContentFilter   Kind = "content_filter"
	KindRateLimit       Kind = "rate_limit"
	KindDataMasking     Kind = "data_masking"
	KindFraudPrevention Kind = "fraud_prevention"
	KindCompliance      Kind = "compliance"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// MatchAction is what a policy does when it trips: content filters on a
// filter match, rate limits on an exceeded window, fraud prevention on a
// suspicious score.
type MatchAction string

const (
	ActionDeny      MatchAction = "deny"
	ActionFlag      MatchAction = "flag"
	ActionChallenge MatchAction = "challenge"
)

// Policy is a tagged union: Kind selects which of the spec pointers is set.
// Policies are built once (see the builder package) and treated as immutable
// values for the lifetime of an evaluation.
type Policy struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Kind   Kind   `json:"kind" yaml:"kind"`
	Status Status `json:"status" yaml:"status"`

	RBAC            *RBACSpec            `json:"rbac,omitempty" yaml:"rbac,omitempty"`
	ABAC            *ABACSpec            `json:"abac,omitempty" yaml:"abac,omitempty"`
	ContentFilter   *ContentFilterSpec   `json:"content_filter,omitempty" yaml:"content_filter,omitempty"`
	RateLimit       *RateLimitSpec       `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`
	DataMasking     *DataMaskingSpec     `json:"data_masking,omitempty" yaml:"data_masking,omitempty"`
	FraudPrevention *FraudPreventionSpec `json:"fraud_prevention,omitempty" yaml:"fraud_prevention,omitempty"`
	Compliance      *ComplianceSpec      `json:"compliance,omitempty" yaml:"compliance,omitempty"`
}

// Active reports whether the policy participates in evaluation.
func (p Policy) Active() bool {
	return p.Status == StatusActive
}

// Wildcard matches any resource or action in RBAC patterns.
const Wildcard = "*"

type RBACSpec struct {
	Role       string      `json:"role" yaml:"role" validate:"required"`
	Resource   string      `json:"resource" yaml:"resource" validate:"required"`
	Action     string      `json:"action" yaml:"action" validate:"required"`
	Conditions []Condition `json:"conditions,omitempty" yaml:"conditions,omitempty" validate:"dive"`
}

type ABACSpec struct {
	SubjectAttrs  map[string]any `json:"subject_attrs,omitempty" yaml:"subject_attrs,omitempty"`
	ResourceAttrs map[string]any `json:"resource_attrs,omitempty" yaml:"resource_attrs,omitempty"`
	Conditions    []Condition    `json:"conditions,omitempty" yaml:"conditions,omitempty" validate:"dive"`
}

type FilterType string

const (
	FilterKeyword FilterType = "keyword"
	FilterRegex   FilterType = "regex"
	FilterEmail   FilterType = "email"
)

type ContentFilterRule struct {
	Type          FilterType `json:"type" yaml:"type" validate:"required,oneof=keyword regex email"`
	Pattern       string     `json:"pattern" yaml:"pattern"`
	CaseSensitive bool       `json:"case_sensitive" yaml:"case_sensitive"`
}

type ContentFilterSpec struct {
	Filters       []ContentFilterRule `json:"filters" yaml:"filters" validate:"min=1,dive"`
	OnMatchAction MatchAction         `json:"on_match_action" yaml:"on_match_action" validate:"required,oneof=deny flag"`
}

type RateLimitSpec struct {
	Limit          int         `json:"limit" yaml:"limit" validate:"gt=0"`
	WindowSeconds  int         `json:"window_seconds" yaml:"window_seconds" validate:"gt=0"`
	Scope          string      `json:"scope" yaml:"scope" validate:"required"`
	OnExceedAction MatchAction `json:"on_exceed_action" yaml:"on_exceed_action" validate:"required,oneof=deny flag"`
}

type MaskingType string

const (
	MaskPartial MaskingType = "partial"
	MaskFull    MaskingType = "full"
	MaskHash    MaskingType = "hash"
)

type DataMaskingSpec struct {
	Fields      []string    `json:"fields" yaml:"fields" validate:"min=1"`
	MaskingType MaskingType `json:"masking_type" yaml:"masking_type" validate:"required,oneof=partial full hash"`
	Conditions  []Condition `json:"conditions,omitempty" yaml:"conditions,omitempty" validate:"dive"`
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type Signal struct {
	Name   string  `json:"name" yaml:"name" validate:"required"`
	Value  float64 `json:"value" yaml:"value"`
	Weight float64 `json:"weight" yaml:"weight"`
}

type FraudPreventionSpec struct {
	RiskLevel         RiskLevel   `json:"risk_level" yaml:"risk_level" validate:"required,oneof=low medium high"`
	Signals           []Signal    `json:"signals" yaml:"signals" validate:"min=1,dive"`
	MinScore          float64     `json:"min_score" yaml:"min_score"`
	OnSuspicionAction MatchAction `json:"on_suspicion_action" yaml:"on_suspicion_action" validate:"required,oneof=deny flag challenge"`
}

type Requirement struct {
	ID          string      `json:"id" yaml:"id" validate:"required"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	AppliesTo   []string    `json:"applies_to,omitempty" yaml:"applies_to,omitempty"`
	Conditions  []Condition `json:"conditions,omitempty" yaml:"conditions,omitempty" validate:"dive"`
}

type ComplianceSpec struct {
	Framework     string        `json:"framework" yaml:"framework" validate:"required"`
	AuditRequired bool          `json:"audit_required" yaml:"audit_required"`
	Requirements  []Requirement `json:"requirements" yaml:"requirements" validate:"min=1,dive"`
}

// Spec returns the variant payload matching p.Kind, or nil when the policy
// is malformed (kind without a matching spec).
func (p Policy) Spec() any {
	switch p.Kind {
	case KindRBAC:
		if p.RBAC != nil {
			return p.RBAC
		}
	case KindABAC:
		if p.ABAC != nil {
			return p.ABAC
		}
	case KindContentFilter:
		if p.ContentFilter != nil {
			return p.ContentFilter
		}
	case KindRateLimit:
		if p.RateLimit != nil {
			return p.RateLimit
		}
	case KindDataMasking:
		if p.DataMasking != nil {
			return p.DataMasking
		}
	case KindFraudPrevention:
		if p.FraudPrevention != nil {
			return p.FraudPrevention
		}
	case KindCompliance:
		if p.Compliance != nil {
			return p.Compliance
		}
	}
	return nil
}
