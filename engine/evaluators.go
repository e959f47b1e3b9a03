// engine/evaluators.go
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/arbiterhq/arbiter/audit"
	"github.com/arbiterhq/arbiter/logging"
	"github.com/arbiterhq/arbiter/model"
	"go.uber.org/zap"
)

// emailPattern matches email-shaped substrings for the email filter type.
var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

func (e *Engine) evaluateRBAC(policy model.Policy, ctx model.PolicyContext) model.Decision {
	spec := policy.RBAC
	decision := model.Decision{AppliedPolicies: []string{policy.ID}}

	if spec.Role != model.Wildcard && spec.Role != ctx.SubjectRole() {
		decision.Reason = "Role mismatch"
		return decision
	}
	if spec.Resource != model.Wildcard && spec.Resource != ctx.ResourceName() {
		decision.Reason = "Resource mismatch"
		return decision
	}
	if spec.Action != model.Wildcard && spec.Action != ctx.Action {
		decision.Reason = "Action mismatch"
		return decision
	}
	if ok, failed := conditionsMet(spec.Conditions, ctx); !ok {
		decision.Reason = conditionFailureReason(*failed)
		return decision
	}

	decision.Allowed = true
	decision.Reason = "Access granted"
	return decision
}

func (e *Engine) evaluateABAC(policy model.Policy, ctx model.PolicyContext) model.Decision {
	spec := policy.ABAC
	decision := model.Decision{AppliedPolicies: []string{policy.ID}}

	if !attrsMatch(spec.SubjectAttrs, ctx.Subject) {
		decision.Reason = "Subject attributes mismatch"
		return decision
	}
	if !attrsMatch(spec.ResourceAttrs, ctx.Resource) {
		decision.Reason = "Resource attributes mismatch"
		return decision
	}
	if ok, failed := conditionsMet(spec.Conditions, ctx); !ok {
		decision.Reason = conditionFailureReason(*failed)
		return decision
	}

	decision.Allowed = true
	decision.Reason = "Access granted"
	return decision
}

// attrsMatch checks that every required attribute is present with an equal
// value: the context attributes must be a superset of the policy's.
func attrsMatch(required map[string]any, actual map[string]any) bool {
	for key, want := range required {
		got, ok := actual[key]
		if !ok || !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

func conditionFailureReason(c model.Condition) string {
	return fmt.Sprintf("Condition failed: %s %s %v", c.Attribute, c.Operator, c.Value)
}

func (e *Engine) evaluateContentFilter(policy model.Policy, ctx model.PolicyContext) model.Decision {
	spec := policy.ContentFilter
	decision := model.Decision{AppliedPolicies: []string{policy.ID}}
	content := coerceString(ctx.Data)

	for _, filter := range spec.Filters {
		if !filterMatches(filter, content) {
			continue
		}
		if spec.OnMatchAction == model.ActionDeny {
			decision.Reason = fmt.Sprintf("Content blocked: %s matched", filter.Type)
		} else {
			decision.Allowed = true
			decision.Reason = fmt.Sprintf("Content flagged: %s matched", filter.Type)
		}
		decision.Metadata = map[string]any{
			"matchedFilterType": string(filter.Type),
			"matchedPattern":    filter.Pattern,
		}
		return decision
	}

	decision.Allowed = true
	decision.Reason = "Content allowed"
	return decision
}

func filterMatches(filter model.ContentFilterRule, content string) bool {
	switch filter.Type {
	case model.FilterKeyword:
		if filter.CaseSensitive {
			return strings.Contains(content, filter.Pattern)
		}
		return strings.Contains(strings.ToLower(content), strings.ToLower(filter.Pattern))
	case model.FilterRegex:
		pattern := filter.Pattern
		if !filter.CaseSensitive && !strings.HasPrefix(pattern, "(?") {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			logging.Warn("Invalid content filter regex", zap.String("pattern", filter.Pattern), zap.Error(err))
			return false
		}
		return re.MatchString(content)
	case model.FilterEmail:
		// A non-empty pattern narrows the match to addresses containing it
		// (domain filtering).
		for _, match := range emailPattern.FindAllString(content, -1) {
			if filter.Pattern == "" || strings.Contains(match, filter.Pattern) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// coerceString renders the context payload for text matching. Structured
// payloads are matched against their JSON encoding.
func coerceString(data any) string {
	switch d := data.(type) {
	case nil:
		return ""
	case string:
		return d
	case []byte:
		return string(d)
	default:
		encoded, err := json.Marshal(d)
		if err != nil {
			return fmt.Sprint(d)
		}
		return string(encoded)
	}
}

// evaluateRateLimit never counts in-process. With a store configured the
// check is forwarded through the guard; without one the decision carries the
// limiter configuration so the caller can forward it.
func (e *Engine) evaluateRateLimit(ctx context.Context, policy model.Policy, pctx model.PolicyContext) model.Decision {
	spec := policy.RateLimit
	window := time.Duration(spec.WindowSeconds) * time.Second
	decision := model.Decision{
		Allowed:         true,
		AppliedPolicies: []string{policy.ID},
		Metadata: map[string]any{
			"limit":  spec.Limit,
			"window": spec.WindowSeconds,
			"scope":  spec.Scope,
		},
	}

	if e.limiter == nil {
		decision.Reason = "Rate limit check deferred to caller"
		return decision
	}

	scopeKey := scopeBucketKey(policy.ID, spec.Scope, pctx)
	result, fromStore := e.limiter.Check(ctx, scopeKey, spec.Limit, window)
	decision.Metadata["remaining"] = result.Remaining
	decision.Metadata["resetAt"] = result.ResetAt

	if !fromStore {
		if result.Allowed {
			decision.Reason = "Rate limit store unavailable, failing open"
		} else {
			decision.Allowed = false
			decision.Reason = "Rate limit store unavailable, failing closed"
		}
		return decision
	}

	if result.Allowed {
		decision.Reason = "Rate limit not exceeded"
		return decision
	}

	if spec.OnExceedAction == model.ActionDeny {
		decision.Allowed = false
		decision.Reason = "Rate limit exceeded"
	} else {
		decision.Reason = "Rate limit exceeded, flagged"
		decision.Metadata["flagged"] = true
	}
	return decision
}

// scopeBucketKey resolves the scope attribute against the context; an
// unresolvable scope buckets all callers together per policy.
func scopeBucketKey(policyID, scope string, ctx model.PolicyContext) string {
	if value, ok := ResolveAttribute(scope, ctx); ok {
		return fmt.Sprintf("%s:%v", policyID, value)
	}
	return fmt.Sprintf("%s:global", policyID)
}

// evaluateDataMasking signals a downstream transformation; it never blocks
// access.
func (e *Engine) evaluateDataMasking(policy model.Policy, ctx model.PolicyContext) model.Decision {
	spec := policy.DataMasking
	decision := model.Decision{Allowed: true, AppliedPolicies: []string{policy.ID}}

	if ok, _ := conditionsMet(spec.Conditions, ctx); !ok {
		decision.Reason = "Masking conditions not met"
		return decision
	}

	decision.Reason = "Data masking applied"
	decision.Metadata = map[string]any{
		"fields":      spec.Fields,
		"maskingType": string(spec.MaskingType),
	}
	if preview := maskedFieldPreview(spec, ctx); len(preview) > 0 {
		decision.Metadata["maskedFields"] = preview
	}
	return decision
}

// maskedFieldPreview masks the listed fields that are actually present as
// string values in the data payload.
func maskedFieldPreview(spec *model.DataMaskingSpec, ctx model.PolicyContext) map[string]string {
	data, ok := ctx.Data.(map[string]any)
	if !ok {
		return nil
	}
	preview := make(map[string]string)
	for _, field := range spec.Fields {
		if raw, ok := data[field]; ok {
			if s, ok := raw.(string); ok {
				preview[field] = MaskValue(s, spec.MaskingType)
			}
		}
	}
	return preview
}

func (e *Engine) evaluateFraudPrevention(policy model.Policy, ctx model.PolicyContext) model.Decision {
	spec := policy.FraudPrevention
	decision := model.Decision{AppliedPolicies: []string{policy.ID}}

	var score float64
	for _, signal := range spec.Signals {
		score += signal.Value * signal.Weight
	}
	decision.Metadata = map[string]any{
		"fraudScore": score,
		"riskLevel":  string(spec.RiskLevel),
	}

	if score < spec.MinScore {
		decision.Allowed = true
		decision.Reason = "Risk score within threshold"
		return decision
	}

	decision.Metadata["suspicionAction"] = string(spec.OnSuspicionAction)
	switch spec.OnSuspicionAction {
	case model.ActionDeny:
		decision.Reason = "Fraud risk threshold exceeded"
	case model.ActionChallenge:
		decision.Allowed = true
		decision.Reason = "Fraud risk threshold exceeded, challenge required"
	default:
		decision.Allowed = true
		decision.Reason = "Fraud risk threshold exceeded, flagged"
	}
	return decision
}

func (e *Engine) evaluateCompliance(policy model.Policy, ctx model.PolicyContext) model.Decision {
	spec := policy.Compliance
	decision := model.Decision{AppliedPolicies: []string{policy.ID}}

	var failing []string
	for _, req := range spec.Requirements {
		if !requirementApplies(req, ctx) {
			continue
		}
		if ok, _ := conditionsMet(req.Conditions, ctx); !ok {
			failing = append(failing, req.ID)
		}
	}

	if len(failing) > 0 {
		decision.Reason = fmt.Sprintf("Compliance requirement failed: %s", failing[0])
		decision.Metadata = map[string]any{
			"framework":          spec.Framework,
			"failedRequirements": failing,
		}
	} else {
		decision.Allowed = true
		decision.Reason = "All compliance requirements met"
		decision.Metadata = map[string]any{"framework": spec.Framework}
	}

	if spec.AuditRequired && e.auditor != nil {
		e.auditor.Record(audit.Event{
			PolicyID:      policy.ID,
			Framework:     spec.Framework,
			Allowed:       decision.Allowed,
			Reason:        decision.Reason,
			Timestamp:     time.Now(),
			ContextDigest: contextDigest(ctx),
		})
	}
	return decision
}

// requirementApplies checks the appliesTo scope against the context action
// and resource name; an empty scope applies unconditionally.
func requirementApplies(req model.Requirement, ctx model.PolicyContext) bool {
	if len(req.AppliesTo) == 0 {
		return true
	}
	name := ctx.ResourceName()
	for _, target := range req.AppliesTo {
		if target == ctx.Action || target == name {
			return true
		}
	}
	return false
}
