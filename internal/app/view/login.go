package view

import (
	"fmt"

	"github.com/cuckooblock/vendor-portal/internal/app/workflow"
)

// NavigationFallbackMs is the delay before the hard-navigation fallback
// fires if the primary redirect did not take.
const NavigationFallbackMs = 150

const MsgSignupCheckEmail = "Signup OK. Check email if confirmation is enabled."

// Navigation is a redirect target plus its delayed fallback.
type Navigation struct {
	Path            string `json:"path"`
	FallbackAfterMs int    `json:"fallback_after_ms"`
}

func navigateTo(path string) *Navigation {
	return &Navigation{Path: path, FallbackAfterMs: NavigationFallbackMs}
}

type LoginState struct {
	Email  string `json:"email"`
	Busy   bool   `json:"busy"`
	Status string `json:"status,omitempty"`
	Failed bool   `json:"failed"`
	// Notice asks the page to show Status before navigating rather than
	// redirecting immediately.
	Notice     bool        `json:"notice"`
	Navigation *Navigation `json:"navigation,omitempty"`
}

func NewLoginState() LoginState {
	return LoginState{}
}

type LoginEvent interface {
	loginEvent()
}

type (
	SignInStarted struct{ Email string }
	SignUpStarted struct{ Email string }

	AuthFailed struct {
		Err string
	}

	// SignedIn and SignedUp carry the identity id; an empty id means the
	// provider has not issued one yet.
	SignedIn struct{ UserID string }
	SignedUp struct{ UserID string }

	RoleRouted struct {
		Role workflow.Role
	}

	// RoleRouteFailed fails open to the vendor view.
	RoleRouteFailed struct {
		Err string
	}

	SessionLookupFailed struct {
		Err string
	}
)

func (SignInStarted) loginEvent()       {}
func (SignUpStarted) loginEvent()       {}
func (AuthFailed) loginEvent()          {}
func (SignedIn) loginEvent()            {}
func (SignedUp) loginEvent()            {}
func (RoleRouted) loginEvent()          {}
func (RoleRouteFailed) loginEvent()     {}
func (SessionLookupFailed) loginEvent() {}

// ReduceLogin returns the state after e. s is not modified.
func ReduceLogin(s LoginState, e LoginEvent) LoginState {
	switch e := e.(type) {
	case SignInStarted:
		if s.Busy {
			return s
		}
		s = LoginState{Email: e.Email, Busy: true, Status: "Signing in..."}

	case SignUpStarted:
		if s.Busy {
			return s
		}
		s = LoginState{Email: e.Email, Busy: true, Status: "Creating account..."}

	case AuthFailed:
		s.Busy = false
		s.Failed = true
		s.Status = fmt.Sprintf("Error: %s", e.Err)

	case SignedIn:
		s.Busy = false
		if e.UserID == "" {
			s.Failed = true
			s.Status = "Signed in, but could not read user id."
			return s
		}
		s.Status = "Signed in! Routing..."

	case SignedUp:
		s.Busy = false
		if e.UserID == "" {
			s.Status = MsgSignupCheckEmail
			return s
		}
		s.Status = "Signup OK. Routing..."

	case RoleRouted:
		s.Status = fmt.Sprintf("Role: %s. Routing...", e.Role)
		s.Navigation = navigateTo(workflow.HomePath(e.Role))

	case RoleRouteFailed:
		s.Status = fmt.Sprintf("Role lookup failed (%s). Sending to Vendor Intake...", e.Err)
		s.Notice = true
		s.Navigation = navigateTo(workflow.HomePath(workflow.RoleVendor))

	case SessionLookupFailed:
		s.Status = fmt.Sprintf("Session error: %s", e.Err)
	}
	return s
}
