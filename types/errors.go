package types

import (
	"errors"
	"fmt"
)

// exported errors, one per failure kind; all decisions fail closed on them
var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrRoleMismatch      = errors.New("role mismatch")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnsupportedChange = errors.New("persister changes in a way not supported")
)

// ErrDuplicateSubmission is raised on a second submission for the same
// homework by the same student. It is a kind of ErrInvalidInput.
var ErrDuplicateSubmission = fmt.Errorf("%w: one submission per homework and student", ErrInvalidInput)
