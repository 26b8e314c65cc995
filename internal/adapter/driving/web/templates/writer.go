package templates

import (
	"io"

	"github.com/a-h/templ"
)

// Writer accumulates markup into w and keeps the first write error, so
// components can emit a sequence of fragments and check once at the end.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Raw writes trusted markup as-is.
func (hw *Writer) Raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

// Text writes s HTML-escaped.
func (hw *Writer) Text(s string) {
	hw.Raw(templ.EscapeString(s))
}

// Attr writes name="value" with the value escaped, preceded by a space.
func (hw *Writer) Attr(name, value string) {
	hw.Raw(" " + name + `="`)
	hw.Text(value)
	hw.Raw(`"`)
}

// Err returns the first write error.
func (hw *Writer) Err() error {
	return hw.err
}
