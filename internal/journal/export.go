package journal

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/julianstephens/gratilog/internal/constants"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

var exportTemplate = template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Exported {{.ExportedAt}}</p>
{{range .Entries}}<article id="entry-{{.ID}}">
<h2>{{.Date}}</h2>
{{if .Tags}}<p class="tags">{{range $i, $t := .Tags}}{{if $i}}, {{end}}#{{$t}}{{end}}</p>
{{end}}<div class="content">{{.Content}}</div>
{{if .Insight}}<aside class="insight">{{.Insight}}</aside>
{{end}}</article>
{{else}}<p>No entries yet.</p>
{{end}}</body>
</html>
`))

type exportPage struct {
	Title      string
	ExportedAt string
	Entries    []exportEntry
}

type exportEntry struct {
	ID      string
	Date    string
	Tags    []string
	Content template.HTML
	Insight template.HTML
}

// Export writes every entry, newest first, as a standalone HTML page.
// Entry text is treated as Markdown and sanitized after rendering.
func (l *Ledger) Export(ctx context.Context, w io.Writer) error {
	entries, err := l.List(ctx)
	if err != nil {
		return err
	}

	page := exportPage{
		Title:      constants.AppName + " journal",
		ExportedAt: time.Now().Format(constants.DateFormat + " " + constants.TimeFormat),
		Entries:    make([]exportEntry, 0, len(entries)),
	}
	for _, e := range entries {
		content, err := renderMarkdown(e.Content)
		if err != nil {
			return fmt.Errorf("failed to render entry %s: %w", e.ID, err)
		}
		var insight template.HTML
		if e.HasInsight() {
			if insight, err = renderMarkdown(e.AIInsight); err != nil {
				return fmt.Errorf("failed to render insight for entry %s: %w", e.ID, err)
			}
		}
		page.Entries = append(page.Entries, exportEntry{
			ID:      e.ID,
			Date:    e.Date.Format(constants.DateFormat),
			Tags:    e.Tags,
			Content: content,
			Insight: insight,
		})
	}

	if err := exportTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

func renderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes())), nil
}
