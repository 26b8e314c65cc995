package model

// ErrorKind classifies why a completion request failed. The user-visible
// result stays "Error: <message>" regardless of kind.
type ErrorKind string

const (
	ErrorKindNone      ErrorKind = ""
	ErrorKindAuth      ErrorKind = "auth"       // Credential rejected (401/403).
	ErrorKindRateLimit ErrorKind = "rate_limit" // Quota or rate limit (429).
	ErrorKindNetwork   ErrorKind = "network"    // No HTTP response received.
	ErrorKindMalformed ErrorKind = "malformed"  // Response could not be used (no choices, bad body).
	ErrorKindUpstream  ErrorKind = "upstream"   // Any other non-2xx status.
	ErrorKindUnknown   ErrorKind = "unknown"
)

// Provider identifies the remote completion service.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)
