package claude

import "fmt"

// APIError is a non-2xx response from the Messages API.
// It is returned unmodified to the host; no retry or mapping happens here.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Type       string `json:"type,omitempty"`
	Message    string `json:"message,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("anthropic api error (status %d, %s): %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("anthropic api error (status %d)", e.StatusCode)
}
