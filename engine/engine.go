// engine/engine.go
package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/arbiterhq/arbiter/audit"
	"github.com/arbiterhq/arbiter/config"
	"github.com/arbiterhq/arbiter/errors"
	"github.com/arbiterhq/arbiter/logging"
	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/ratelimit"
	"go.uber.org/zap"
)

const reasonTimeout = "Evaluation timeout"

// Engine evaluates policies against request contexts. The evaluation path
// is synchronous and free of shared mutable state, so one Engine is safe
// for any number of concurrent callers. The two collaborators are optional:
// without a limiter, rate-limit checks are deferred to the caller; without
// an auditor, compliance audit emission is skipped.
type Engine struct {
	limiter *ratelimit.Guard
	auditor audit.Recorder
}

// Options configures the collaborator wiring.
type Options struct {
	// Limiter is the external counter store, already wrapped in a Guard.
	Limiter *ratelimit.Guard
	// Auditor receives compliance audit events, best-effort.
	Auditor audit.Recorder
}

func New(opts Options) *Engine {
	return &Engine{limiter: opts.Limiter, auditor: opts.Auditor}
}

// NewFromConfig wires the guard's fail mode and check timeout from the
// viper-managed configuration.
func NewFromConfig(store ratelimit.Store, auditor audit.Recorder) *Engine {
	var guard *ratelimit.Guard
	if store != nil {
		guard = ratelimit.NewGuard(store,
			config.GetBool("ratelimit.failOpen"),
			config.GetDuration("ratelimit.checkTimeout"))
	}
	return &Engine{limiter: guard, auditor: auditor}
}

// Evaluate runs a single policy against the context. A malformed policy
// (unknown kind, missing spec) returns a ConfigurationError; everything
// else, including an expired deadline, terminates in a well-formed
// decision.
func (e *Engine) Evaluate(ctx context.Context, policy model.Policy, pctx model.PolicyContext) (*model.EvaluationResult, error) {
	start := time.Now()

	decision, err := e.evaluatePolicy(ctx, policy, pctx)
	if err != nil {
		return nil, err
	}

	decision.EvaluationTimeMs = elapsedMs(start)
	logging.Debug("Policy evaluated",
		zap.String("policyId", policy.ID),
		zap.String("kind", string(policy.Kind)),
		zap.Bool("allowed", decision.Allowed),
		zap.Float64("durationMs", decision.EvaluationTimeMs))
	return &model.EvaluationResult{Decision: decision}, nil
}

// EvaluateAll runs every active policy in input order and folds the
// decisions: allowed is the AND across policies, the reason is the first
// failure, metadata is keyed by policy id. Inactive policies are skipped
// entirely and never appear in AppliedPolicies.
func (e *Engine) EvaluateAll(ctx context.Context, policies []model.Policy, pctx model.PolicyContext) (*model.EvaluationResult, error) {
	start := time.Now()

	aggregate := model.Decision{
		Allowed:         true,
		AppliedPolicies: []string{},
		Metadata:        map[string]any{},
	}

	evaluated := 0
	for _, policy := range policies {
		if !policy.Active() {
			continue
		}
		if ctx.Err() != nil {
			aggregate.Allowed = false
			aggregate.Reason = reasonTimeout
			aggregate.EvaluationTimeMs = elapsedMs(start)
			return &model.EvaluationResult{Decision: aggregate}, nil
		}

		decision, err := e.evaluatePolicy(ctx, policy, pctx)
		if err != nil {
			return nil, err
		}
		evaluated++
		aggregate.AppliedPolicies = append(aggregate.AppliedPolicies, policy.ID)
		if len(decision.Metadata) > 0 {
			aggregate.Metadata[policy.ID] = decision.Metadata
		}
		if !decision.Allowed && aggregate.Allowed {
			aggregate.Allowed = false
			aggregate.Reason = decision.Reason
		}
	}

	if aggregate.Allowed {
		aggregate.Reason = fmt.Sprintf("All %d policies passed", evaluated)
	}
	aggregate.EvaluationTimeMs = elapsedMs(start)
	return &model.EvaluationResult{Decision: aggregate}, nil
}

// evaluatePolicy dispatches on the policy kind. The kind switch is the one
// place that enumerates the closed set of variants.
func (e *Engine) evaluatePolicy(ctx context.Context, policy model.Policy, pctx model.PolicyContext) (model.Decision, error) {
	if !policy.Active() {
		return model.Decision{
			Allowed:         true,
			Reason:          fmt.Sprintf("Policy inactive: %s", policy.ID),
			AppliedPolicies: []string{},
		}, nil
	}
	if ctx.Err() != nil {
		return model.Decision{
			Reason:          reasonTimeout,
			AppliedPolicies: []string{policy.ID},
		}, nil
	}
	if policy.Spec() == nil {
		return model.Decision{}, errors.NewConfigurationError(policy.ID,
			fmt.Sprintf("missing spec for kind %q", policy.Kind), errors.ErrInvalidPolicyData)
	}

	switch policy.Kind {
	case model.KindRBAC:
		return e.evaluateRBAC(policy, pctx), nil
	case model.KindABAC:
		return e.evaluateABAC(policy, pctx), nil
	case model.KindContentFilter:
		return e.evaluateContentFilter(policy, pctx), nil
	case model.KindRateLimit:
		return e.evaluateRateLimit(ctx, policy, pctx), nil
	case model.KindDataMasking:
		return e.evaluateDataMasking(policy, pctx), nil
	case model.KindFraudPrevention:
		return e.evaluateFraudPrevention(policy, pctx), nil
	case model.KindCompliance:
		return e.evaluateCompliance(policy, pctx), nil
	default:
		return model.Decision{}, errors.NewConfigurationError(policy.ID,
			fmt.Sprintf("unrecognized kind %q", policy.Kind), errors.ErrUnknownPolicyKind)
	}
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}

// contextDigest hashes the canonical JSON of the context so audit events
// carry a stable fingerprint instead of raw subject data.
func contextDigest(ctx model.PolicyContext) string {
	encoded, err := json.Marshal(ctx)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:])
}
