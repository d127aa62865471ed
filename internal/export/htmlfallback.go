package export

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/ParijatSutradhar04/AI-for-Education/internal/markup"
	"github.com/ParijatSutradhar04/AI-for-Education/internal/notes"
)

// The fallback document must stay self-contained: inline styles, no external
// assets, and every piece of note content escaped.
var fallbackTemplate = template.Must(template.New("canvas").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Georgia, serif; max-width: 48rem; margin: 2rem auto; color: #222; }
h1 { font-size: 1.4rem; border-bottom: 2px solid #667eea; padding-bottom: .4rem; }
.note { border: 1px solid #ddd; border-radius: 8px; padding: 1rem 1.2rem; margin: 1rem 0; }
.note .stamp { color: #888; font-size: .8rem; }
.note .question { font-weight: bold; margin: .4rem 0; }
.note img { max-width: 100%; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Notes}}<div class="note">
<div class="stamp">Note {{.Index}} &mdash; {{.Timestamp}}</div>
<div class="question">{{.Question}}</div>
<div class="answer">{{.Answer}}</div>
{{if .ImageURL}}<img src="{{.ImageURL}}" alt="{{.ImageAlt}}">{{end}}
</div>
{{end}}</body>
</html>
`))

type fallbackNote struct {
	Index     int
	Timestamp string
	Question  string
	Answer    string
	ImageURL  string
	ImageAlt  string
}

type fallbackPage struct {
	Title string
	Notes []fallbackNote
}

// exportHTML is the last tier: a styled standalone markup document. Note
// content passes through html/template's contextual escaping, so markup in
// a question or answer renders as literal text.
func (e *Exporter) exportHTML(entries []notes.Note) (Artifact, error) {
	page := fallbackPage{Title: "Canvas Notes " + e.now().Format("2006-01-02")}
	for i, note := range entries {
		answer := note.AnswerPlainText
		if answer == "" {
			answer = markup.StripTags(note.AnswerMarkup)
		}
		entry := fallbackNote{
			Index:     i + 1,
			Timestamp: note.Timestamp,
			Question:  note.Question,
			Answer:    answer,
		}
		if note.Image != nil {
			entry.ImageURL = note.Image.URL
			entry.ImageAlt = note.Image.Description
		}
		page.Notes = append(page.Notes, entry)
	}

	var buf bytes.Buffer
	if err := fallbackTemplate.Execute(&buf, page); err != nil {
		return Artifact{}, fmt.Errorf("html fallback failed: %w", err)
	}
	return Artifact{
		FileName: e.fileName("html"),
		MIME:     "text/html; charset=utf-8",
		Data:     buf.Bytes(),
		Strategy: StrategyHTML,
	}, nil
}
