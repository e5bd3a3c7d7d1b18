package dataset

import "fmt"

// WriteError reports a failure creating or writing an output file.
// Partially written files are left as they are.
type WriteError struct {
	Path  string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Cause)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

// ReadError reports a failure opening or reading an input file
type ReadError struct {
	Path  string
	Cause error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Cause)
}

func (e *ReadError) Unwrap() error {
	return e.Cause
}

// ParseError reports a malformed row in a dataset file
type ParseError struct {
	File    string
	Line    int
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s:%d: %s: %v", e.File, e.Line, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
