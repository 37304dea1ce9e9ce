// Package policy answers capability questions for the current caller: which
// of the logbook's views may be shown. Decisions are pure functions of the
// request context; callers are expected to withhold data when a check returns
// false rather than treat it as an error.
package policy

// Simulated roles, used to exercise group gating without a real directory.
const (
	RoleUser     = "user"
	RoleOperator = "operator"
	RoleAdmin    = "admin"
)

// Context carries everything a capability decision depends on. It is built
// once per request from configuration and never mutated.
type Context struct {
	// Environment "local" bypasses all group checks.
	Environment string

	// UserGroups is the caller's real group membership.
	UserGroups []string

	// SimulateRole overrides UserGroups when set to one of the Role
	// constants; anything else is ignored.
	SimulateRole string

	OperatorGroups []string
	AdminGroups    []string
}

func (c Context) IsLocal() bool {
	return c.Environment == "local"
}

type Engine struct {
	ctx Context
}

func New(ctx Context) *Engine {
	return &Engine{ctx: ctx}
}

// CanViewActiveList reports whether the caller may see who is currently on
// premises. The presence list is deliberately open to any desk user; only the
// history and audit views below are group-gated. Flagged for product review,
// kept as observed.
func (e *Engine) CanViewActiveList() bool {
	return true
}

// CanViewHistory requires membership in either the operator or the admin
// group set.
func (e *Engine) CanViewHistory() bool {
	if e.ctx.IsLocal() {
		return true
	}
	return e.hasAnyGroup(e.ctx.OperatorGroups) || e.hasAnyGroup(e.ctx.AdminGroups)
}

// CanViewAuditLogs requires membership in the admin group set.
func (e *Engine) CanViewAuditLogs() bool {
	if e.ctx.IsLocal() {
		return true
	}
	return e.hasAnyGroup(e.ctx.AdminGroups)
}

// effectiveGroups resolves the group set used for every gated decision,
// applying the role simulation override first so the three checks can never
// drift apart.
func (e *Engine) effectiveGroups() []string {
	switch e.ctx.SimulateRole {
	case RoleAdmin:
		return append(append([]string{}, e.ctx.AdminGroups...), e.ctx.OperatorGroups...)
	case RoleOperator:
		return e.ctx.OperatorGroups
	case RoleUser:
		return nil
	}
	return e.ctx.UserGroups
}

// hasAnyGroup is the uniform intersection test. An empty required set means
// the capability was never restricted and resolves to allow.
func (e *Engine) hasAnyGroup(required []string) bool {
	if len(required) == 0 {
		return true
	}
	for _, have := range e.effectiveGroups() {
		for _, want := range required {
			if have == want {
				return true
			}
		}
	}
	return false
}
