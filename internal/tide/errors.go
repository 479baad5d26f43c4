package tide

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord is matched by MalformedRecordError via errors.Is.
var ErrMalformedRecord = errors.New("tide: malformed record")

// MalformedRecordError reports a recorded row that cannot become a Sample.
type MalformedRecordError struct {
	Line  int // 1-based line in the input, header included
	Field string
	Value string
	Err   error
}

func (e *MalformedRecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("tide: malformed record on line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("tide: malformed record on line %d: %s %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}
