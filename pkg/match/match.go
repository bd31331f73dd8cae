package match

import (
	"github.com/razorzibra-dot/authzkit/pkg/token"
)

// Outcome identifies which branch of the matching algorithm decided a check.
type Outcome int

const (
	// OutcomeDenied means every grant branch was exhausted without a match.
	OutcomeDenied Outcome = iota

	// OutcomeExact means the two normalized token strings were identical.
	OutcomeExact

	// OutcomeShortForm means a bare verb on one side was satisfied by the
	// other side's action segment.
	OutcomeShortForm

	// OutcomeComposite means the namespace, scope and action checks all
	// passed on the two full-form tokens.
	OutcomeComposite

	// OutcomeFallback means at least one side failed to parse and the check
	// degraded to verbatim string equality between the raw inputs. The
	// decision's Granted field carries the equality result. This branch
	// exists so an unrecognized grammar never silently denies a literally
	// identical grant, and never grants more than was literally written.
	OutcomeFallback
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDenied:
		return "denied"
	case OutcomeExact:
		return "exact"
	case OutcomeShortForm:
		return "short_form"
	case OutcomeComposite:
		return "composite"
	case OutcomeFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Decision is the result of matching a held token against a requested one.
type Decision struct {
	Granted bool
	Outcome Outcome
}

// Grants reports whether the held permission token satisfies the requested
// one. It is a pure function of its inputs.
func Grants(held, requested string) bool {
	return Evaluate(held, requested).Granted
}

// Evaluate matches a held permission token against a requested one and
// reports both the verdict and the branch that produced it. The checks run in
// a fixed order:
//
//  1. Parse failure on either side falls back to verbatim equality.
//  2. Identical normalized strings grant.
//  3. A short form on either side is matched against the other side's action,
//     ignoring namespaces entirely; holding bare "read" grants any namespaced
//     read-like token. A short form that fails its rule table is denied.
//  4. App, domain and resource must agree wherever both sides specify them.
//  5. A requested scope requires a held scope of equal or greater rank.
//  6. A requested action must be matched exactly, via synonym, or via the
//     held action's implication set.
//
// Short-form matching deliberately runs before the namespace check so short
// forms stay namespace-agnostic.
func Evaluate(held, requested string) Decision {
	h := token.Parse(held)
	r := token.Parse(requested)
	if h == nil || r == nil {
		return Decision{Granted: held == requested, Outcome: OutcomeFallback}
	}

	if h.Original == r.Original {
		return Decision{Granted: true, Outcome: OutcomeExact}
	}

	if h.Short != "" && shortFormSatisfiedBy(h.Short, r.Action) {
		return Decision{Granted: true, Outcome: OutcomeShortForm}
	}
	if r.Short != "" && shortFormSatisfiedBy(r.Short, h.Action) {
		return Decision{Granted: true, Outcome: OutcomeShortForm}
	}

	// A short form carries no namespace, scope or action segments, so the
	// composite checks below cannot constrain it; a short form that failed
	// its rule table is denied rather than allowed to fall through.
	if h.Short != "" || r.Short != "" {
		return Decision{Outcome: OutcomeDenied}
	}

	if !namespacesAgree(h, r) {
		return Decision{Outcome: OutcomeDenied}
	}
	if !scopeContains(h, r) {
		return Decision{Outcome: OutcomeDenied}
	}
	if !actionSatisfies(h, r) {
		return Decision{Outcome: OutcomeDenied}
	}
	return Decision{Granted: true, Outcome: OutcomeComposite}
}

// namespacesAgree denies as soon as a namespace segment is present on both
// tokens with different values. There are no namespace wildcards and no
// namespace hierarchy.
func namespacesAgree(h, r *token.Token) bool {
	if h.App != "" && r.App != "" && h.App != r.App {
		return false
	}
	if h.Domain != "" && r.Domain != "" && h.Domain != r.Domain {
		return false
	}
	if h.Resource != "" && r.Resource != "" && h.Resource != r.Resource {
		return false
	}
	return true
}

// scopeContains checks access breadth: an unscoped request passes, a scoped
// request requires the held token to carry a recognized scope of equal or
// greater rank. Unrecognized scope values on either side deny rather than
// pass permissively.
func scopeContains(h, r *token.Token) bool {
	if r.Scope == "" {
		return true
	}
	requestedRank, ok := token.ScopeRank(r.Scope)
	if !ok {
		return false
	}
	heldRank, ok := token.ScopeRank(h.Scope)
	if !ok {
		return false
	}
	return heldRank >= requestedRank
}

func actionSatisfies(h, r *token.Token) bool {
	if r.Action == "" {
		return true
	}
	if h.Action == "" {
		return false
	}
	return actionCompatible(h.Action, r.Action)
}
