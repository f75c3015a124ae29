package auth

import "errors"

// Rejection is an expected, user-recoverable authentication failure. Its
// message is safe to show to the end user verbatim. Rejections are never
// logged as application faults.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string { return r.Reason }

// Flash messages match the ones the entry page renders.
var (
	ErrIncorrectUsername  = &Rejection{Reason: "Incorrect username."}
	ErrIncorrectPassword  = &Rejection{Reason: "Incorrect password."}
	ErrPasswordsDontMatch = &Rejection{Reason: "Passwords do not match."}
	ErrSignupFailed       = &Rejection{Reason: "Error signing up. Please try again."}
	ErrMissingCredentials = &Rejection{Reason: "Username and password are required."}
)

// AsRejection reports whether err is (or wraps) a Rejection.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
