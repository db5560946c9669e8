package record

import "fmt"

// MalformedInputError reports a payload that cannot be treated as
// delimited text at all. Ragged rows never produce it.
type MalformedInputError struct {
	Reason string
	Err    error
}

func (e *MalformedInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed input: %s: %v", e.Reason, e.Err)
	}
	return "malformed input: " + e.Reason
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}
