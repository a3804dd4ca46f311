package academics

import (
	"errors"
	"fmt"
)

// ErrNoGradeData marks a student with zero graded periods in the cycle.
// It is distinct from an average of 0 and blocks promotion for that student
// without aborting the batch.
var ErrNoGradeData = errors.New("el estudiante no tiene calificaciones registradas en el ciclo")

var ErrNotFound = errors.New("registro no encontrado")

// ValidationError rejects bad input before any mutation (dates out of order,
// period outside cycle bounds, overlapping periods).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// PreconditionError rejects an operation whose state gate fails (closing a
// period with ungraded entries, activating a cycle with no periods). Count
// carries the blocking count when one applies, e.g. missing grades.
type PreconditionError struct {
	Reason string
	Count  int
}

func (e *PreconditionError) Error() string { return e.Reason }

func preconditionf(count int, format string, args ...any) error {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...), Count: count}
}

// ReferentialError rejects a deletion that would orphan referencing rows;
// nothing is cascaded silently.
type ReferentialError struct {
	Reason string
}

func (e *ReferentialError) Error() string { return e.Reason }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

func IsReferential(err error) bool {
	var re *ReferentialError
	return errors.As(err, &re)
}
