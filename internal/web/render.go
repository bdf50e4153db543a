// Package web serves public notes as standalone HTML pages.
package web

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"

	"github.com/kuitang/noteledger/internal/notes"
)

// htmlTemplate is the template for the complete HTML document
const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <meta name="description" content="{{.Description}}">

    <!-- Canonical URL -->
    <link rel="canonical" href="{{.CanonicalURL}}">

    <!-- Open Graph -->
    <meta property="og:title" content="{{.Title}}">
    <meta property="og:description" content="{{.Description}}">
    <meta property="og:url" content="{{.CanonicalURL}}">
    <meta property="og:type" content="article">

    <!-- Twitter Cards -->
    <meta name="twitter:card" content="summary">
    <meta name="twitter:title" content="{{.Title}}">
    <meta name="twitter:description" content="{{.Description}}">

    <style>
        :root {
            --text-color: #1a1a1a;
            --bg-color: #ffffff;
            --link-color: #0066cc;
            --code-bg: #f5f5f5;
            --border-color: #e0e0e0;
            --blockquote-border: #ddd;
        }

        @media (prefers-color-scheme: dark) {
            :root {
                --text-color: #e0e0e0;
                --bg-color: #1a1a1a;
                --link-color: #66b3ff;
                --code-bg: #2d2d2d;
                --border-color: #404040;
                --blockquote-border: #555;
            }
        }

        * {
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: var(--text-color);
            background-color: var(--bg-color);
            max-width: 800px;
            margin: 0 auto;
            padding: 2rem 1rem;
        }

        h1, h2, h3, h4, h5, h6 {
            margin-top: 1.5em;
            margin-bottom: 0.5em;
            line-height: 1.3;
        }

        h1 { font-size: 2rem; }
        h2 { font-size: 1.5rem; }
        h3 { font-size: 1.25rem; }

        a {
            color: var(--link-color);
            text-decoration: none;
        }

        a:hover {
            text-decoration: underline;
        }

        p {
            margin: 1em 0;
        }

        code {
            font-family: 'SF Mono', Monaco, 'Cascadia Code', 'Roboto Mono', Consolas, monospace;
            background-color: var(--code-bg);
            padding: 0.2em 0.4em;
            border-radius: 3px;
            font-size: 0.9em;
        }

        pre {
            background-color: var(--code-bg);
            padding: 1rem;
            border-radius: 6px;
            overflow-x: auto;
        }

        pre code {
            background-color: transparent;
            padding: 0;
        }

        blockquote {
            margin: 1em 0;
            padding: 0.5em 1em;
            border-left: 4px solid var(--blockquote-border);
            opacity: 0.85;
        }

        ul, ol {
            margin: 1em 0;
            padding-left: 2em;
        }

        li {
            margin: 0.25em 0;
        }

        img {
            max-width: 100%;
            height: auto;
        }

        table {
            width: 100%;
            border-collapse: collapse;
            margin: 1em 0;
        }

        th, td {
            border: 1px solid var(--border-color);
            padding: 0.5em 1em;
            text-align: left;
        }

        th {
            background-color: var(--code-bg);
        }

        hr {
            border: none;
            border-top: 1px solid var(--border-color);
            margin: 2em 0;
        }

        .tags {
            margin: 0.5em 0 1.5em;
        }

        .tag {
            display: inline-block;
            background-color: var(--code-bg);
            border: 1px solid var(--border-color);
            border-radius: 3px;
            padding: 0.1em 0.5em;
            margin-right: 0.4em;
            font-size: 0.85em;
        }
    </style>
</head>
<body>
    <article>
        <h1>{{.Title}}</h1>
        {{- if .Tags}}
        <p class="tags">{{range .Tags}}<span class="tag">{{.}}</span>{{end}}</p>
        {{- end}}
        {{.Content}}
    </article>
</body>
</html>`

// notFoundPage is served for ids that do not resolve to a public note.
const notFoundPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Not Found</title>
</head>
<body>
    <h1>Note not found</h1>
    <p>This note does not exist or is not public.</p>
</body>
</html>`

// templateData holds the data for the HTML template
type templateData struct {
	Title        string
	Description  string
	CanonicalURL string
	Tags         []string
	Content      template.HTML
}

var pageTemplate = template.Must(template.New("note").Parse(htmlTemplate))

// descriptionLimit caps the meta description length in bytes.
const descriptionLimit = 160

// RenderNotePage renders a note as a complete HTML document with SEO meta
// tags. The note body is treated as Markdown and sanitized before it is
// embedded, so hostile content cannot script the page. Template escaping
// covers the title, description, and tag values.
func RenderNotePage(n *notes.Note) []byte {
	description := n.Body
	if len(description) > descriptionLimit {
		description = description[:descriptionLimit] + "..."
	}

	data := templateData{
		Title:        n.Title,
		Description:  description,
		CanonicalURL: fmt.Sprintf("/public/%d", n.ID),
		Tags:         n.Tags,
		Content:      renderMarkdown(n.Body),
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		// Fall back to a simple error page if template execution fails
		return []byte(`<!DOCTYPE html><html><head><title>Error</title></head><body><h1>Error rendering page</h1></body></html>`)
	}
	return buf.Bytes()
}

// renderMarkdown converts markdown text to HTML.
// The returned HTML is safe to use in templates (marked as template.HTML).
func renderMarkdown(s string) template.HTML {
	// Configure the markdown parser with common extensions
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)

	// Parse the markdown
	doc := p.Parse([]byte(s))

	// Configure the HTML renderer
	htmlFlags := html.CommonFlags | html.HrefTargetBlank
	opts := html.RendererOptions{
		Flags: htmlFlags,
	}
	renderer := html.NewRenderer(opts)

	// Render to HTML
	htmlContent := markdown.Render(doc, renderer)

	// Sanitize HTML to prevent XSS attacks
	policy := bluemonday.UGCPolicy()
	sanitized := policy.SanitizeBytes(htmlContent)

	return template.HTML(sanitized)
}
