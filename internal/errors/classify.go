package errors

import (
	"context"
	"errors"
)

// ErrorSeverity indicates the severity of an error for UI presentation.
type ErrorSeverity int

const (
	SeverityInfo    ErrorSeverity = iota // User should know, not blocking
	SeverityWarning                      // Degraded functionality
	SeverityError                        // Operation failed, can retry
)

// ErrorAction names a user action offered alongside an error. The UI
// decides what each label does.
type ErrorAction struct {
	Label string
}

// UIError wraps an error with UI-friendly presentation metadata.
type UIError struct {
	Err      error
	Severity ErrorSeverity
	Title    string        // Short user-facing title
	Message  string        // Detailed user-facing message
	Recovery []string      // Suggested actions (bullet points)
	Actions  []ErrorAction // Buttons for user actions
	Details  string        // Technical details (collapsed by default)
}

func (e UIError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Title
}

// Unwrap returns the underlying error.
func (e UIError) Unwrap() error {
	return e.Err
}

// ClassifyError converts a standard error into a UIError with appropriate
// severity, title, message, and recovery suggestions.
func ClassifyError(err error) *UIError {
	if err == nil {
		return nil
	}

	// Check if already a UIError
	var uiErr *UIError
	if errors.As(err, &uiErr) {
		return uiErr
	}

	// Remote status codes carry more specific guidance than the generic kinds
	var transportErr *TransportError
	if errors.As(err, &transportErr) && transportErr.StatusCode != 0 {
		return ClassifyStatus(err, transportErr.StatusCode)
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		uiErr := ClassifyStatus(err, statusErr.StatusCode)
		if statusErr.Body != "" {
			uiErr.Details += "\n\n" + statusErr.Body
		}
		return uiErr
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Request Timeout",
			Message:  "Postman took too long to respond.",
			Recovery: []string{"Try again", "Increase the timeout setting"},
			Actions:  []ErrorAction{{Label: "Settings"}},
		}

	case errors.Is(err, context.Canceled), errors.Is(err, ErrUserCancelled):
		return &UIError{
			Err:      err,
			Severity: SeverityInfo,
			Title:    "Cancelled",
			Message:  "Operation cancelled by user.",
			Recovery: []string{},
		}

	case errors.Is(err, ErrMissingAPIKey):
		return &UIError{
			Err:      err,
			Severity: SeverityWarning,
			Title:    "API Key Required",
			Message:  "Please provide your Postman API key first.",
			Recovery: []string{"Open Preferences and paste your API key"},
			Actions:  []ErrorAction{{Label: "Settings"}},
		}

	case errors.Is(err, ErrEmptyResult):
		return &UIError{
			Err:      err,
			Severity: SeverityWarning,
			Title:    "Nothing Found",
			Message:  err.Error(),
			Recovery: []string{"Check that the API key belongs to the right account"},
		}

	case errors.Is(err, ErrNoSchemaID):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Schema Missing",
			Message:  "The API version has no schema attached.",
			Recovery: []string{"Add a schema to the version in Postman"},
			Details:  err.Error(),
		}

	case errors.Is(err, ErrTransport):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Request Failed",
			Message:  "Unable to reach Postman.",
			Recovery: []string{
				"Check your network connection",
				"Try again",
			},
			Details: err.Error(),
		}

	case errors.Is(err, ErrNonSuccessStatus):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Publish Rejected",
			Message:  "Postman did not accept the schema.",
			Recovery: []string{"Check the schema and try again"},
			Details:  err.Error(),
		}

	case errors.Is(err, ErrFileIO):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "File Error",
			Message:  "A schema file could not be read or written.",
			Recovery: []string{"Check permissions on the mirror folder"},
			Details:  err.Error(),
		}

	case errors.Is(err, ErrCorruptState):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Corrupt Local State",
			Message:  "The local cache could not be read.",
			Recovery: []string{"Clear the cache and fetch again"},
			Details:  err.Error(),
		}

	case errors.Is(err, ErrNoActiveDocument):
		return &UIError{
			Err:      err,
			Severity: SeverityWarning,
			Title:    "No Schema Open",
			Message:  "Please have your schema in the editor and try again.",
			Recovery: []string{"Select a version in the tree to open it"},
		}

	case errors.Is(err, ErrNoSelection):
		return &UIError{
			Err:      err,
			Severity: SeverityWarning,
			Title:    "No Version Selected",
			Message:  "Select an API version before publishing.",
			Recovery: []string{"Fetch an API and select one of its versions"},
		}

	case errors.Is(err, ErrFlowInProgress):
		return &UIError{
			Err:      err,
			Severity: SeverityInfo,
			Title:    "Busy",
			Message:  "The same operation is still running.",
			Recovery: []string{"Wait for it to finish"},
		}

	case errors.Is(err, ErrNotFound):
		return &UIError{
			Err:      err,
			Severity: SeverityWarning,
			Title:    "Not Found",
			Message:  err.Error(),
			Recovery: []string{"Fetch the API again"},
		}
	}

	// Validation errors
	var validationErr ValidationError
	if errors.As(err, &validationErr) {
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Invalid Schema",
			Message:  validationErr.Message,
			Recovery: []string{"Fix the schema and try again"},
			Details:  validationErr.Error(),
		}
	}

	// Default fallback for unknown errors
	return &UIError{
		Err:      err,
		Severity: SeverityError,
		Title:    "Unexpected Error",
		Message:  "An unexpected error occurred.",
		Recovery: []string{"Try again"},
		Details:  err.Error(),
	}
}
