// Package pages holds the full-page templ components.
package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/promptenhancer/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/promptenhancer/internal/adapter/driving/web/viewmodel"
)

// ResultCodeID is the element ID of the copy-friendly result block.
const ResultCodeID = "result-code"

// Enhancer renders the input form, any inline validation message and the
// enhanced prompt when one is present.
func Enhancer(page vm.PageViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := templates.NewWriter(w)

		hw.Raw(`<h1>`)
		hw.Text(page.Title)
		hw.Raw(`</h1><p class="description">`)
		hw.Text(page.Description)
		hw.Raw(`</p>`)

		writeForm(hw, page)

		if page.Error != "" {
			hw.Raw(`<div class="alert" role="alert">`)
			hw.Text(page.Error)
			hw.Raw(`</div>`)
		}

		if page.Result != nil {
			writeResult(hw, page.Result)
		}

		return hw.Err()
	})
}

func writeForm(hw *templates.Writer, page vm.PageViewModel) {
	form := page.Form

	hw.Raw(`<form id="enhance-form" method="post"`)
	hw.Attr("action", form.Action)
	hw.Raw(`>`)

	hw.Raw(`<input type="hidden"`)
	hw.Attr("name", "csrf_token")
	hw.Attr("value", page.CSRFToken)
	hw.Raw(`>`)

	credentialClass := "field"
	for _, name := range page.MissingFields {
		if name == "api_key" {
			credentialClass = "field missing"
		}
	}
	hw.Raw(`<div`)
	hw.Attr("class", credentialClass)
	hw.Raw(`><label for="api_key">`)
	hw.Text(form.CredentialLabel)
	hw.Raw(`</label><input type="password" id="api_key" name="api_key" autocomplete="off" spellcheck="false"></div>`)

	for _, field := range form.Fields {
		class := "field"
		if field.Missing {
			class = "field missing"
		}
		hw.Raw(`<div`)
		hw.Attr("class", class)
		hw.Raw(`><label`)
		hw.Attr("for", field.Name)
		hw.Raw(`>`)
		hw.Text(field.Label)
		hw.Raw(`</label><textarea`)
		hw.Attr("id", field.Name)
		hw.Attr("name", field.Name)
		hw.Attr("aria-describedby", field.Name+"-help")
		// Browsers drop one newline directly after <textarea>; emit one so a
		// value that starts with a newline round-trips unchanged.
		hw.Raw(">\n")
		hw.Text(field.Value)
		hw.Raw(`</textarea><small`)
		hw.Attr("id", field.Name+"-help")
		hw.Raw(`>`)
		hw.Text(field.Help)
		hw.Raw(`</small></div>`)
	}

	hw.Raw(`<button type="submit">`)
	hw.Text(form.SubmitLabel)
	hw.Raw(`</button><p class="busy" hidden>`)
	hw.Text(form.BusyText)
	hw.Raw(`</p></form>`)
}

func writeResult(hw *templates.Writer, result *vm.ResultViewModel) {
	class := "result"
	if result.Failed {
		class = "result failed"
	}

	hw.Raw(`<section`)
	hw.Attr("class", class)
	if result.RunID != "" {
		hw.Attr("data-run-id", result.RunID)
	}
	hw.Raw(`><h2>`)
	hw.Text(result.Heading)
	hw.Raw(`</h2><div class="rendered">`)
	// HTML was sanitized by bluemonday in the web package.
	hw.Raw(result.HTML)
	hw.Raw(`</div><pre><code class="language-text"`)
	hw.Attr("id", ResultCodeID)
	hw.Raw(`>`)
	hw.Text(result.Text)
	hw.Raw(`</code></pre><button type="button" class="copy"`)
	hw.Attr("data-copy-target", ResultCodeID)
	hw.Raw(`>Copy</button></section>`)
}
