// Package guard holds the route predicates gating navigation. Guards
// are stateless: every call re-evaluates against the current session
// state and answers allow-or-redirect.
package guard

// State is what a guard may ask about the current user.
type State interface {
	SignedIn() bool
	IsAdmin() bool
}

// Decision is the outcome of evaluating a guard.
type Decision struct {
	Allow bool
	// RedirectTo is the route to send the visitor to when not allowed.
	RedirectTo string
}

// RequireUser admits visitors with a provider session and redirects
// everyone else to the login page.
func RequireUser(s State) Decision {
	if s.SignedIn() {
		return Decision{Allow: true}
	}
	return Decision{RedirectTo: "/login"}
}

// RequireAdmin admits visitors holding the admin flag and redirects
// everyone else to the admin login page. The provider session plays no
// part here.
func RequireAdmin(s State) Decision {
	if s.IsAdmin() {
		return Decision{Allow: true}
	}
	return Decision{RedirectTo: "/admin/login"}
}
