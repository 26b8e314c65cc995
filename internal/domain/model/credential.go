package model

import "log/slog"

const redacted = "[REDACTED]"

// Secret holds a credential supplied by the user. It formats as [REDACTED]
// through fmt and slog so it cannot leak into log output by accident; use
// Reveal to obtain the raw value at the provider boundary.
type Secret string

// Reveal returns the raw credential.
func (s Secret) Reveal() string {
	return string(s)
}

// String implements fmt.Stringer.
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

// GoString implements fmt.GoStringer so %#v is redacted too.
func (s Secret) GoString() string {
	return s.String()
}

// LogValue implements slog.LogValuer.
func (s Secret) LogValue() slog.Value {
	return slog.StringValue(s.String())
}
