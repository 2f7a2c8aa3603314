package research

import (
	"errors"
	"fmt"
)

// ErrorKind tags the two fatal failure classes of a research call. Provider
// unavailability is not here: it is absorbed inside the Gateway and only
// ever surfaces as unavailable bundle entries.
type ErrorKind string

const (
	// KindConfiguration covers invalid profiles, empty subjects, and
	// provider sets that cannot serve the profile. Raised before any
	// network activity.
	KindConfiguration ErrorKind = "configuration"
	// KindGeneration covers a failed or timed-out case, rebuttal, or
	// verdict generation. Fatal: a report is all-or-nothing.
	KindGeneration ErrorKind = "generation"
)

// Error is the tagged failure returned by Research. Consumers can
// distinguish "operation failed" from a successful low-signal report.
type Error struct {
	Kind  ErrorKind
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("research %s error at %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a research Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var re *Error
	return errors.As(err, &re) && re.Kind == kind
}

func configErr(stage string, format string, args ...interface{}) *Error {
	return &Error{Kind: KindConfiguration, Stage: stage, Err: fmt.Errorf(format, args...)}
}

func generationErr(stage string, err error) *Error {
	return &Error{Kind: KindGeneration, Stage: stage, Err: err}
}
