// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// PageViewModel holds everything the enhancer page renders.
type PageViewModel struct {
	Title       string
	Description string
	CSRFToken   string
	Form        FormViewModel

	// Error is the inline validation message; empty when there is none.
	Error         string
	MissingFields []string

	// Result is nil until an enhancement has run.
	Result *ResultViewModel
}

// FormViewModel holds the labels, help text and submitted values of the
// input form. The credential is never echoed back into the page.
type FormViewModel struct {
	Action          string
	CredentialLabel string
	Fields          []FieldViewModel
	SubmitLabel     string
	BusyText        string
}

// FieldViewModel is one multi-line prompt component input.
type FieldViewModel struct {
	Name    string
	Label   string
	Help    string
	Value   string
	Missing bool
}

// ResultViewModel holds the enhanced prompt for display. HTML is the
// sanitized markdown rendering; Text is the raw copy-friendly text.
type ResultViewModel struct {
	Heading string
	HTML    string
	Text    string
	Failed  bool
	RunID   string
}
