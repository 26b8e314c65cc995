package main

import "fmt"

// Exit codes for the enhance CLI.
const (
	ExitOK            = 0 // Enhanced prompt printed.
	ExitRemoteFailure = 1 // Completion request failed; "Error: ..." printed.
	ExitInvalidArgs   = 2 // Empty fields or bad flags; no request sent.
)

// exitCodeError carries a process exit code through cobra's error return.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string {
	return e.msg
}

func exitError(code int, format string, args ...any) error {
	return &exitCodeError{code: code, msg: fmt.Sprintf(format, args...)}
}
