package gateway

// Action is the outcome of evaluating one request against the transition
// table. Exactly one action is produced per request, never a partial one.
// The two refresh actions are intents: the interceptor performs the single
// refresh attempt and maps its failure to ClearAndRedirectToLogin.
type Action int

const (
	// Allow lets the request through untouched.
	Allow Action = iota
	// RedirectToApp sends the browser to the canonical landing path.
	RedirectToApp
	// RedirectToReturn sends an already authenticated browser away from the
	// login form, to the requested return path or home.
	RedirectToReturn
	// RedirectToLogin sends the browser to the login form, preserving the
	// original destination for after re-authentication.
	RedirectToLogin
	// ClearAndRedirectToLogin expires both session cookies and sends the
	// browser to the login form.
	ClearAndRedirectToLogin
	// RefreshAndContinue rotates the credential pair and then lets the
	// request through with the fresh cookies on the response.
	RefreshAndContinue
	// RefreshAndRedirectToReturn rotates the credential pair and then sends
	// the browser away from the login form with the fresh cookies on the
	// redirect.
	RefreshAndRedirectToReturn
)

func (a Action) String() string {
	switch a {
	case Allow:
		return "allow"
	case RedirectToApp:
		return "redirect-to-app"
	case RedirectToReturn:
		return "redirect-to-return"
	case RedirectToLogin:
		return "redirect-to-login"
	case ClearAndRedirectToLogin:
		return "clear-and-redirect-to-login"
	case RefreshAndContinue:
		return "refresh-and-continue"
	case RefreshAndRedirectToReturn:
		return "refresh-and-redirect-to-return"
	}
	return "unknown"
}

// Decide is the gateway state machine as a pure function. accessValid is only
// meaningful when both tokens are present; callers compute it lazily for that
// case and pass false otherwise.
func Decide(class Classification, hasAccess, hasRefresh, accessValid bool) Action {
	switch class {
	case PathSkipped:
		return Allow
	case PathUnclassified:
		return RedirectToApp
	case PathLogin:
		switch {
		case !hasRefresh:
			// no refresh token means no trusted session, render the login form
			return Allow
		case !hasAccess:
			return RefreshAndRedirectToReturn
		case accessValid:
			return RedirectToReturn
		default:
			return ClearAndRedirectToLogin
		}
	case PathProtected:
		switch {
		case !hasAccess && !hasRefresh:
			return RedirectToLogin
		case hasAccess && !hasRefresh:
			// an access token with no refresh token is never trusted
			return RedirectToLogin
		case !hasAccess:
			return RefreshAndContinue
		case accessValid:
			return Allow
		default:
			return RefreshAndContinue
		}
	}
	return RedirectToApp
}
