package engine

import "fmt"

// ConfigurationError reports an invalid parameter combination detected
// before or by an engine call, such as an ambiguous neighborhood selector.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

// SizeMismatchError reports that an engine output count disagrees with the
// count the contract requires.
type SizeMismatchError struct {
	Want, Got int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("engine output size mismatch: want %d elements, got %d", e.Want, e.Got)
}

// IOError reports a failed load or save. Cause is set when the failure came
// from the local filesystem rather than an engine status code.
type IOError struct {
	Op    string
	Path  string
	Cause error
}

func (e *IOError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Cause)
	}
	return fmt.Sprintf("%s %q failed", e.Op, e.Path)
}

func (e *IOError) Unwrap() error {
	return e.Cause
}

// ResourceError reports a violation of the output buffer ownership
// protocol, such as a failed copy out of an engine-owned buffer. It always
// indicates a programmer error in this library or the bound engine, never
// bad caller input, and is not recoverable.
type ResourceError struct {
	Reason string
	Cause  error
}

func (e *ResourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("engine resource protocol violation: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("engine resource protocol violation: %s", e.Reason)
}

func (e *ResourceError) Unwrap() error {
	return e.Cause
}

func statusError(op string, s Status) error {
	return fmt.Errorf("engine %s failed with status %d", op, s)
}
