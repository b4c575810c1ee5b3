package relationships

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks a raw query value that cannot be used. The caller should
	// not retry the same value.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDataIntegrity marks corrupt or inconsistent reference data. It is fatal.
	ErrDataIntegrity = errors.New("reference data integrity")
)

// TableError locates a data-integrity failure inside one of the reference resources.
type TableError struct {
	Resource string
	Line     int
	Err      error
}

func (e *TableError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s line %d: %v", e.Resource, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Resource, e.Err)
}

func (e *TableError) Unwrap() error {
	return e.Err
}

// Is lets every TableError satisfy errors.Is(err, ErrDataIntegrity) even when the
// wrapped cause is a plain parse error.
func (e *TableError) Is(target error) bool {
	return target == ErrDataIntegrity
}

func tableErrorf(resource string, line int, format string, args ...any) error {
	return &TableError{Resource: resource, Line: line, Err: fmt.Errorf(format, args...)}
}
