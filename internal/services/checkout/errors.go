package checkout

import "errors"

var (
	// ErrNotFound means the order or valentine id does not exist.
	ErrNotFound = errors.New("checkout: not found")
	// ErrConflict means the transition was attempted from the wrong
	// status (e.g. attesting an already-paid order). Stored state is
	// left unchanged.
	ErrConflict = errors.New("checkout: invalid status transition")
)

// ValidationError is user-correctable bad input: a too-short attestation
// token, an unknown theme.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return "checkout: " + e.Msg }

func validationErr(msg string) error { return &ValidationError{Msg: msg} }
