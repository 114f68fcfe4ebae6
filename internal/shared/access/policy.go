package access

import (
	"net/http"
	"strings"
)

// Decision is the outcome of evaluating a request against the policy.
type Decision int

const (
	Allow Decision = iota
	Unauthorized
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

type requirementKind int

// The zero Requirement demands authentication.
const (
	authenticated requirementKind = iota
	public
	anyRole
)

// Requirement is what a principal needs to pass a rule.
type Requirement struct {
	kind  requirementKind
	roles []string
}

func Public() Requirement        { return Requirement{kind: public} }
func Authenticated() Requirement { return Requirement{kind: authenticated} }

// AnyRole requires an authenticated principal holding one of roles.
func AnyRole(roles ...string) Requirement {
	return Requirement{kind: anyRole, roles: roles}
}

// Principal is the caller as seen by the policy. The zero value is anonymous.
type Principal struct {
	Username string
	Role     string
}

func (p Principal) Authenticated() bool { return p.Username != "" }

// Rule binds a path pattern and optional verb to a requirement. An empty Method matches every verb.
type Rule struct {
	Pattern     string
	Method      string
	Requirement Requirement
}

// Policy evaluates rules in declared order; the first match wins.
type Policy struct {
	rules    []Rule
	fallback Requirement
}

func New(rules []Rule, fallback Requirement) *Policy {
	copied := make([]Rule, len(rules))
	copy(copied, rules)
	return &Policy{rules: copied, fallback: fallback}
}

// Default is the rule table of the instrument store API.
func Default() *Policy {
	const (
		admin    = "ADMIN"
		operator = "OPERADOR"
		viewer   = "VISOR"
	)
	return New([]Rule{
		{Pattern: "/api/auth/login", Requirement: Public()},
		{Pattern: "/api/auth/register", Requirement: Public()},
		{Pattern: "/api/auth/logout", Requirement: Public()},
		{Pattern: "/api/auth/me", Requirement: Authenticated()},
		{Pattern: "/api/instrumentos/**", Method: http.MethodGet, Requirement: Public()},
		{Pattern: "/api/instrumentos/**", Requirement: AnyRole(admin)},
		{Pattern: "/api/categoria/**", Method: http.MethodGet, Requirement: AnyRole(admin, operator)},
		{Pattern: "/api/categoria/**", Requirement: AnyRole(admin)},
		{Pattern: "/api/pedidos", Method: http.MethodPost, Requirement: AnyRole(admin, operator)},
		{Pattern: "/api/pedidos/*/preferencia", Method: http.MethodPost, Requirement: AnyRole(admin, operator)},
		{Pattern: "/api/pedidos", Method: http.MethodGet, Requirement: AnyRole(admin, operator, viewer)},
		{Pattern: "/api/pedidos/{id}", Method: http.MethodGet, Requirement: AnyRole(admin, operator, viewer)},
	}, Authenticated())
}

// Match returns the first rule matching the request, if any.
func (p *Policy) Match(method, urlPath string) (Rule, bool) {
	for _, rule := range p.rules {
		if rule.Method != "" && !strings.EqualFold(rule.Method, method) {
			continue
		}
		if MatchAnt(rule.Pattern, urlPath) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Evaluate decides whether principal may call method on urlPath.
func (p *Policy) Evaluate(method, urlPath string, principal Principal) Decision {
	requirement := p.fallback
	if rule, ok := p.Match(method, urlPath); ok {
		requirement = rule.Requirement
	}
	return requirement.check(principal)
}

func (r Requirement) check(principal Principal) Decision {
	switch r.kind {
	case public:
		return Allow
	case authenticated:
		if principal.Authenticated() {
			return Allow
		}
		return Unauthorized
	default:
		if !principal.Authenticated() {
			return Unauthorized
		}
		for _, role := range r.roles {
			if strings.EqualFold(role, principal.Role) {
				return Allow
			}
		}
		return Forbidden
	}
}
