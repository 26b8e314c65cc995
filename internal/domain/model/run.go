package model

import "time"

// Run is the metadata recorded for one enhancement when run history is
// enabled. It carries sizes and outcome only: never the credential or the
// prompt text.
type Run struct {
	ID           string
	Provider     Provider
	Model        string
	RoleChars    int
	ContextChars int
	TaskChars    int
	Failed       bool
	ErrorKind    ErrorKind
	Duration     time.Duration
	CreatedAt    time.Time
}
