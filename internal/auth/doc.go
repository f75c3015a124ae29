// Package auth implements credential verification and account registration.
//
// Outcomes are tagged through the error value: a nil error is a success, a
// *Rejection is an expected, user-facing failure (wrong credentials, duplicate
// username), and any other error is an unexpected fault that callers must not
// present as bad credentials.
package auth
