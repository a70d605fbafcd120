package docgen

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
		parser.WithAttribute(),
	),
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body>
<main>
{{.Body}}
</main>
</body>
</html>
`))

// renderHTML converts a Markdown body into a standalone HTML page.
func renderHTML(title string, body []byte) ([]byte, error) {
	var content bytes.Buffer
	if err := markdown.Convert(body, &content); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	err := pageTemplate.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		// #nosec G203 -- goldmark output with raw HTML disabled
		Body: template.HTML(content.String()),
	})
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
