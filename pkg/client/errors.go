package client

import "errors"

// CommandError is returned for any failed command: transport failure or a
// non-2xx reply. Callers surface Message and do not branch on the cause.
type CommandError struct {
	Op         string // endpoint, e.g. "pick-package"
	StatusCode int    // 0 when no response was received
	Message    string
	Err        error
}

func (e *CommandError) Error() string {
	return e.Message
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// IsCommandError reports whether err is, or wraps, a CommandError.
func IsCommandError(err error) bool {
	var cmdErr *CommandError
	return errors.As(err, &cmdErr)
}
