package errors

import (
	"fmt"
	"net/http"
)

// ClassifyStatus converts an HTTP status returned by Postman into a UIError
// with user-friendly messages and recovery suggestions.
func ClassifyStatus(err error, code int) *UIError {
	details := fmt.Sprintf("HTTP %d %s", code, http.StatusText(code))
	if err != nil {
		details += " - " + err.Error()
	}

	switch {
	case code == http.StatusUnauthorized:
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Authentication Required",
			Message:  "Postman rejected the API key.",
			Recovery: []string{
				"Check the API key in Preferences",
				"Generate a new key in your Postman account settings",
			},
			Actions: []ErrorAction{{Label: "Settings"}},
			Details: details,
		}

	case code == http.StatusForbidden:
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Access Denied",
			Message:  "The API key has no access to this resource.",
			Recovery: []string{"Ask the workspace owner for access"},
			Details:  details,
		}

	case code == http.StatusNotFound:
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Not Found",
			Message:  "The API, version or schema no longer exists in Postman.",
			Recovery: []string{"Clear the cache and fetch the API again"},
			Details:  details,
		}

	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Invalid Request",
			Message:  "Postman could not process the schema.",
			Recovery: []string{"Check the schema syntax", "Check the schema type and language"},
			Details:  details,
		}

	case code == http.StatusTooManyRequests:
		return &UIError{
			Err:      err,
			Severity: SeverityWarning,
			Title:    "Rate Limited",
			Message:  "Too many requests were sent to Postman.",
			Recovery: []string{"Wait a minute and try again"},
			Details:  details,
		}

	case code >= 500:
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Server Error",
			Message:  "Postman encountered an internal error.",
			Recovery: []string{"Try again later"},
			Details:  details,
		}
	}

	return &UIError{
		Err:      err,
		Severity: SeverityError,
		Title:    "Request Failed",
		Message:  "Postman answered with an unexpected status.",
		Recovery: []string{"Try again"},
		Details:  details,
	}
}
