// Package templates holds the page shell shared by every GUI page.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Layout wraps body in the HTML document shell with the given title.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := NewWriter(w)
		hw.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		hw.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.Raw(`<title>`)
		hw.Text(title)
		hw.Raw(`</title><link rel="stylesheet" href="/static/app.css"></head>`)
		hw.Raw(`<body><main class="container">`)
		if err := hw.Err(); err != nil {
			return err
		}

		if err := body.Render(ctx, w); err != nil {
			return err
		}

		hw.Raw(`</main><script src="/static/app.js" defer></script></body></html>`)
		return hw.Err()
	})
}
