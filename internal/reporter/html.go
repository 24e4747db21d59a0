package reporter

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const htmlHeader = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Code smell report</title>
</head>
<body>
`

const htmlFooter = `</body>
</html>
`

// HTMLReporter outputs results as a standalone HTML page rendered from
// the Markdown report
type HTMLReporter struct {
	w    io.Writer
	opts Options
	md   goldmark.Markdown
}

// NewHTMLReporter creates a new HTML reporter
func NewHTMLReporter(w io.Writer, opts Options) *HTMLReporter {
	return &HTMLReporter{
		w:    w,
		opts: opts,
		md:   goldmark.New(goldmark.WithExtensions(extension.Table)),
	}
}

// Report outputs results as HTML
func (r *HTMLReporter) Report(results []FileResult) error {
	var body bytes.Buffer
	if err := r.md.Convert([]byte(RenderMarkdown(results, r.opts)), &body); err != nil {
		return fmt.Errorf("failed to render html: %w", err)
	}

	if _, err := io.WriteString(r.w, htmlHeader); err != nil {
		return err
	}
	if _, err := body.WriteTo(r.w); err != nil {
		return err
	}
	_, err := io.WriteString(r.w, htmlFooter)
	return err
}
