package guide

import (
	"fmt"
	"strings"
)

// Step represents one actionable suggestion shown before the first question.
type Step struct {
	Title       string
	Description string
}

// Metadata carries just enough session state for personalizing the steps.
type Metadata struct {
	DocumentName string
	ClassLevel   string
}

// Build returns the onboarding checklist shown while the chat is empty.
func Build(meta Metadata) []Step {
	docName := strings.TrimSpace(meta.DocumentName)
	attach := "Attach a PDF of the chapter or worksheet you are teaching. The assistant reads it page by page."
	if docName != "" {
		attach = fmt.Sprintf("%s is loaded. Use the page controls to point the assistant at the pages you are covering today.", docName)
	}
	level := ""
	if strings.TrimSpace(meta.ClassLevel) != "" {
		level = fmt.Sprintf(" for class %s", meta.ClassLevel)
	}

	return []Step{
		{
			Title:       "Set up your classroom",
			Description: "Open the context panel and fill in teaching language, student language, class level, and class strength. Every answer is tailored to these.",
		},
		{
			Title:       "Load your material",
			Description: attach,
		},
		{
			Title:       "Ask a question",
			Description: fmt.Sprintf("Ask anything about the material%s. Structured answers arrive as boxes you can expand, refine, and pin.", level),
		},
		{
			Title:       "Refine a box",
			Description: "Each answer box takes follow-up instructions of its own: ask for a simpler wording, a local-language translation, or an extra example.",
		},
		{
			Title:       "Build your canvas",
			Description: "Pin the answers worth keeping to the notes canvas, then export the canvas as a PDF handout for the class.",
		},
	}
}
