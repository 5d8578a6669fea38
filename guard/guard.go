// Package guard decides whether a role-restricted view may render for
// the current session. The decision is a pure function of session state.
package guard

import "github.com/virtualpet/storefront/session"

// Decision is the outcome of a guard check.
type Decision int

const (
	// Allow renders the view.
	Allow Decision = iota
	// RedirectToLogin bounces an unauthenticated session to the login view.
	RedirectToLogin
	// RedirectToHome bounces an authenticated session with the wrong role.
	RedirectToHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect-to-login"
	case RedirectToHome:
		return "redirect-to-home"
	default:
		return "unknown"
	}
}

// Decide gates a view requiring one of the given roles. An empty
// required list means any authenticated session is allowed. A session
// whose role has not been populated yet (possible transiently during
// rehydration) is allowed through; the server still enforces roles.
func Decide(required []session.Role, snap session.Snapshot) Decision {
	if !snap.Authenticated() {
		return RedirectToLogin
	}
	if len(required) == 0 || snap.Role == "" {
		return Allow
	}
	for _, role := range required {
		if snap.Role == role {
			return Allow
		}
	}
	return RedirectToHome
}
