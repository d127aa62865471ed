package tui

type stage int

const (
	stageChat stage = iota
	stageContext
)

const heroTagline = "Classroom answers, refined box by box."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	sectionPreviewLimit       = 160
)

type composerMode int

const (
	composerModeQuestion composerMode = iota
	composerModeRefine
	composerModeAttach
)

const (
	composerQuestionPlaceholder = "Ask about the attached material…"
	composerRefinePlaceholder   = "How should this box change? Esc to cancel."
	composerAttachPlaceholder   = "Path to a PDF (10MB max), Esc to cancel."
)

// contextFields is the tab order of the classroom form.
var contextFields = []string{
	"Teaching language",
	"Student language",
	"Class level",
	"Class strength",
	"Current page",
	"Total pages",
}
