package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; }
table { border-collapse: collapse; margin-bottom: 1.5rem; }
th, td { border: 1px solid #ccc; padding: 0.25rem 0.6rem; text-align: right; }
th:first-child, td:first-child { text-align: left; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// WriteHTML renders the Markdown report into a standalone HTML page.
func WriteHTML(w io.Writer, s Summary) error {
	var src bytes.Buffer
	if err := WriteMarkdown(&src, s); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := markdown.Convert(src.Bytes(), &body); err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}

	title := "Financial report"
	if s.Profile != "" {
		title += ": " + s.Profile
	}
	if err := page.Execute(w, struct {
		Title string
		Body  template.HTML
	}{title, template.HTML(body.String())}); err != nil {
		return fmt.Errorf("writing html: %w", err)
	}
	return nil
}
