package domain

import "errors"

var (
	// ErrUnauthenticated means no valid credential accompanied the request.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrNotFound means a referenced user or property does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists means a unique constraint (email) was violated.
	ErrAlreadyExists = errors.New("already exists")
)

// NotAuthorizedError means the principal is authenticated but not allowed to
// perform the operation. Reason is the user-visible message; the API maps all
// authorization failures to 401 regardless of the reason.
type NotAuthorizedError struct {
	Reason string
}

func (e *NotAuthorizedError) Error() string {
	return e.Reason
}

// NotAuthorized builds a NotAuthorizedError with the given message.
func NotAuthorized(reason string) error {
	return &NotAuthorizedError{Reason: reason}
}

// IsNotAuthorized reports whether err is an authorization failure and, if so,
// returns its user-visible reason.
func IsNotAuthorized(err error) (string, bool) {
	var nae *NotAuthorizedError
	if errors.As(err, &nae) {
		return nae.Reason, true
	}
	return "", false
}
