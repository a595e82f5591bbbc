package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrTransport        = errors.New("remote request failed")
	ErrEmptyResult      = errors.New("nothing found")
	ErrNonSuccessStatus = errors.New("remote rejected the request")
	ErrFileIO           = errors.New("file operation failed")
	ErrCorruptState     = errors.New("stored state is corrupt")
	ErrNoSchemaID       = errors.New("version has no schema")
	ErrNoActiveDocument = errors.New("no active document")
	ErrNoSelection      = errors.New("no schema selected")
	ErrMissingAPIKey    = errors.New("api key not configured")
	ErrUserCancelled    = errors.New("user cancelled operation")
	ErrFlowInProgress   = errors.New("operation already in progress")
	ErrNotFound         = errors.New("not found")
)

// ValidationError represents a field validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// TransportError is a failed round trip to the remote service: the request
// never completed, the service answered with a non-2xx status, or the body
// could not be parsed.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d", e.Op, e.URL, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
	}
	return fmt.Sprintf("%s %s: failed", e.Op, e.URL)
}

func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, e.Err}
}

// StatusError reports a publish that reached the service but was not accepted.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrNonSuccessStatus
}

// Empty reports that a listing returned no entries.
func Empty(what string) error {
	return fmt.Errorf("no %s found: %w", what, ErrEmptyResult)
}

// FileError wraps a local read or write failure.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() []error {
	return []error{ErrFileIO, e.Err}
}
