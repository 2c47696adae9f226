package command

import "errors"

// Result is the reply shape reported to IPC clients
type Result struct {
	Success    bool   `json:"success"`
	ParseError bool   `json:"parse_error,omitempty"`
	Error      string `json:"error,omitempty"`
}

// NewResult converts an Execute error into a reply
// Validation failures are parse errors; a missing node is an execution failure
func NewResult(err error) Result {
	if err == nil {
		return Result{Success: true}
	}
	return Result{
		Success:    false,
		ParseError: !errors.Is(err, ErrNodeNotFound),
		Error:      err.Error(),
	}
}
