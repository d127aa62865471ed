package tui

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ParijatSutradhar04/AI-for-Education/internal/assistant"
	"github.com/ParijatSutradhar04/AI-for-Education/internal/backend"
	"github.com/ParijatSutradhar04/AI-for-Education/internal/educontext"
	"github.com/ParijatSutradhar04/AI-for-Education/internal/export"
	"github.com/ParijatSutradhar04/AI-for-Education/internal/guide"
	"github.com/ParijatSutradhar04/AI-for-Education/internal/pdfdoc"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Backend   backend.Client
	Exporter  *export.Exporter
	ExportDir string
	Context   educontext.Context
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	composer := textinput.New()
	composer.Placeholder = composerQuestionPlaceholder
	composer.Focus()
	composer.CharLimit = 400
	composer.Width = 70

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	edu := config.Context.Normalize()

	return &model{
		config:         config,
		stage:          stageChat,
		composer:       composer,
		composerMode:   composerModeQuestion,
		spinner:        spin,
		viewport:       vp,
		session:        assistant.NewSession(),
		pane:           pdfdoc.NewPane(),
		edu:            edu,
		steps:          guide.Build(guide.Metadata{ClassLevel: edu.ClassLevel}),
		jobs:           newJobBus(),
		activeJobs:     map[string]jobSnapshot{},
		pendingRefines: map[string]string{},
		viewportDirty:  true,
		infoMessage:    "Set up the classroom with Ctrl+G, then ask away.",
	}
}

type model struct {
	config Config
	stage  stage

	composer     textinput.Model
	composerMode composerMode
	spinner      spinner.Model
	viewport     viewport.Model

	session *assistant.Session
	pane    *pdfdoc.Pane
	edu     educontext.Context
	steps   []guide.Step

	jobs       *jobBus
	activeJobs map[string]jobSnapshot

	focusIdx       int
	refineTarget   string
	pendingRefines map[string]string

	contextField int
	contextDraft educontext.Context

	infoMessage  string
	errorMessage string
	helpVisible  bool

	viewportDirty bool
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		newWidth := msg.Width - viewportHorizontalPadding
		if newWidth < minViewportWidth {
			newWidth = minViewportWidth
		}
		m.viewport.Width = newWidth
		height := msg.Height - 10
		if height < 5 {
			height = 5
		}
		m.viewport.Height = height
		m.composer.Width = newWidth
		m.markViewportDirty()
		return m, nil
	case jobSignalMsg:
		m.activeJobs[msg.Snapshot.ID] = msg.Snapshot
		return m, nil
	case jobResultEnvelope:
		delete(m.activeJobs, msg.Snapshot.ID)
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case chatResultMsg:
		return m.handleChatResult(msg)
	case followUpResultMsg:
		return m.handleFollowUpResult(msg)
	case attachResultMsg:
		return m.handleAttachResult(msg)
	case exportResultMsg:
		return m.handleExportResult(msg)
	}
	return m, nil
}

func (m *model) busy() bool {
	return m.session.Sending() || len(m.activeJobs) > 0
}

func (m *model) handleChatResult(msg chatResultMsg) (tea.Model, tea.Cmd) {
	m.session.EndSend()
	if msg.err != nil {
		m.session.AppendAssistantText("Sorry, there was an error reaching the assistant. Please try again.")
		m.errorMessage = msg.err.Error()
		m.infoMessage = "The assistant call failed. Ask again to retry."
		m.markViewportDirty()
		return m, nil
	}
	m.errorMessage = ""
	switch msg.answer.Kind {
	case assistant.AnswerError:
		m.session.AppendAssistantText(msg.answer.ErrorMessage)
		m.infoMessage = "The backend reported a problem with that question."
	case assistant.AnswerStructured:
		m.session.AddStructuredResponse(msg.answer.Structured, msg.question)
		ids := m.sectionIDs()
		m.focusIdx = len(ids) - len(msg.answer.Structured.Sections)
		m.infoMessage = "Structured answer ready. Tab between boxes, Ctrl+R refines, Ctrl+P pins."
	case assistant.AnswerFlat:
		m.session.AppendFlatAnswer(msg.answer.Flat, msg.question)
		m.infoMessage = "Answer ready. Ctrl+P pins it to the canvas."
	default:
		m.infoMessage = "The backend replied in a shape this client does not recognize."
	}
	m.markViewportDirty()
	return m, nil
}

func (m *model) handleFollowUpResult(msg followUpResultMsg) (tea.Model, tea.Cmd) {
	m.session.EndFollowUp(msg.sectionID)
	instruction := m.pendingRefines[msg.sectionID]
	delete(m.pendingRefines, msg.sectionID)
	if msg.err != nil {
		m.refineTarget = msg.sectionID
		m.setComposerMode(composerModeRefine)
		m.composer.SetValue(instruction)
		m.errorMessage = msg.err.Error()
		m.infoMessage = "The refinement failed. The box is unchanged. Enter retries."
		m.markViewportDirty()
		return m, nil
	}
	if err := m.session.ApplySectionUpdate(msg.sectionID, msg.text); err != nil {
		m.errorMessage = err.Error()
	} else {
		m.errorMessage = ""
		m.infoMessage = "Box updated."
	}
	m.markViewportDirty()
	return m, nil
}

func (m *model) handleAttachResult(msg attachResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errorMessage = msg.err.Error()
		m.infoMessage = "Could not read that file."
		return m, nil
	}
	att, err := m.pane.Attach(msg.name, msg.data)
	if err != nil {
		m.errorMessage = err.Error()
		m.infoMessage = "Attachment rejected."
		return m, nil
	}
	m.errorMessage = ""
	m.edu.CurrentPage = m.pane.CurrentPage()
	m.edu.TotalPages = m.pane.TotalPages()
	m.steps = guide.Build(guide.Metadata{DocumentName: att.Name, ClassLevel: m.edu.ClassLevel})
	m.infoMessage = fmt.Sprintf("%s attached (%d pages).", att.Name, att.Pages)
	m.markViewportDirty()
	return m, nil
}

func (m *model) handleExportResult(msg exportResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, export.ErrNoNotes) {
			m.errorMessage = ""
			m.infoMessage = "Pin something to the canvas before exporting."
		} else {
			m.errorMessage = msg.err.Error()
			m.infoMessage = "Export failed."
		}
		return m, nil
	}
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Canvas exported to %s (%s).", msg.path, msg.strategy)
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.stage == stageContext {
		return m.handleContextKey(key)
	}
	if cmd, handled := m.processComposerKey(key); handled {
		return m, cmd
	}
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(key)
	return m, cmd
}

func (m *model) processComposerKey(key tea.KeyMsg) (tea.Cmd, bool) {
	switch key.String() {
	case "esc":
		if m.composerMode != composerModeQuestion {
			m.setComposerMode(composerModeQuestion)
			m.infoMessage = "Back to questions."
			return nil, true
		}
		m.composer.SetValue("")
		return nil, true
	case "enter":
		return m.submitComposer(), true
	case "tab":
		m.cycleFocus(1)
		return nil, true
	case "shift+tab":
		m.cycleFocus(-1)
		return nil, true
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(key)
		return cmd, true
	case "ctrl+r":
		m.startRefine()
		return nil, true
	case "ctrl+o":
		m.setComposerMode(composerModeAttach)
		m.infoMessage = "Type the path to a PDF and press Enter."
		return nil, true
	case "ctrl+g":
		m.startContextForm()
		return nil, true
	case "ctrl+e":
		return m.startExport(), true
	case "ctrl+p":
		m.pinFocused()
		return nil, true
	case "ctrl+t":
		m.toggleFocused()
		return nil, true
	case "ctrl+u":
		m.unpinLatest()
		return nil, true
	case "ctrl+d":
		m.detachActive()
		return nil, true
	case "shift+right":
		m.pane.NextPage()
		m.syncPages()
		return nil, true
	case "shift+left":
		m.pane.PrevPage()
		m.syncPages()
		return nil, true
	case "f1":
		m.helpVisible = !m.helpVisible
		return nil, true
	}
	return nil, false
}

func (m *model) submitComposer() tea.Cmd {
	value := strings.TrimSpace(m.composer.Value())
	if value == "" {
		return nil
	}
	switch m.composerMode {
	case composerModeQuestion:
		return m.submitQuestion(value)
	case composerModeRefine:
		return m.submitRefine(value)
	case composerModeAttach:
		return m.submitAttach(value)
	}
	return nil
}

func (m *model) submitQuestion(value string) tea.Cmd {
	if m.config.Backend == nil {
		m.infoMessage = "No backend configured. Set EDUASSIST_BACKEND and restart."
		return nil
	}
	if err := m.session.BeginSend(); err != nil {
		m.infoMessage = "Waiting on the previous answer first."
		return nil
	}
	m.session.AppendUserMessage(value)
	m.composer.SetValue("")
	m.errorMessage = ""
	m.infoMessage = "Asking the assistant…"
	m.markViewportDirty()
	runner := chatJob(m.config.Backend, value, m.edu, filesForUpload(m.pane))
	return tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindChat, runner))
}

func (m *model) submitRefine(value string) tea.Cmd {
	section, _, err := m.session.SectionByID(m.refineTarget)
	if err != nil {
		m.errorMessage = err.Error()
		m.setComposerMode(composerModeQuestion)
		return nil
	}
	if err := m.session.BeginFollowUp(m.refineTarget); err != nil {
		m.infoMessage = "That box is already being refined."
		return nil
	}
	snapshot := *section
	m.pendingRefines[m.refineTarget] = value
	m.setComposerMode(composerModeQuestion)
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Refining %q…", snapshot.Heading)
	m.markViewportDirty()
	runner := followUpJob(m.config.Backend, value, snapshot, m.edu)
	return tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindFollowUp, runner))
}

func (m *model) submitAttach(value string) tea.Cmd {
	m.setComposerMode(composerModeQuestion)
	m.infoMessage = fmt.Sprintf("Reading %s…", value)
	return tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindAttach, attachFileJob(value)))
}

func (m *model) startRefine() {
	if m.config.Backend == nil {
		m.infoMessage = "No backend configured. Set EDUASSIST_BACKEND and restart."
		return
	}
	id := m.focusedSectionID()
	if id == "" {
		m.infoMessage = "No answer box to refine yet."
		return
	}
	if m.session.FollowUpInFlight(id) {
		m.infoMessage = "That box is already being refined."
		return
	}
	m.refineTarget = id
	m.setComposerMode(composerModeRefine)
}

func (m *model) startExport() tea.Cmd {
	if m.config.Exporter == nil {
		m.infoMessage = "Export is not configured."
		return nil
	}
	if m.session.Canvas().Len() == 0 {
		m.infoMessage = "Pin something to the canvas before exporting."
		return nil
	}
	m.infoMessage = "Exporting canvas…"
	runner := exportCanvasJob(m.config.Exporter, m.config.ExportDir, m.session.Canvas().Notes())
	return tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindExport, runner))
}

func (m *model) pinFocused() {
	if id := m.focusedSectionID(); id != "" {
		note, err := m.session.PromoteSection(id)
		if err != nil {
			m.errorMessage = err.Error()
			return
		}
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("Pinned to the canvas (note %d).", note.ID)
		m.markViewportDirty()
		return
	}
	msgs := m.session.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Sender == assistant.SenderAssistant {
			note := m.session.PromoteMessage(msgs[i])
			m.infoMessage = fmt.Sprintf("Pinned the latest answer (note %d).", note.ID)
			m.markViewportDirty()
			return
		}
	}
	m.infoMessage = "Nothing to pin yet."
}

func (m *model) unpinLatest() {
	pinned := m.session.Canvas().Notes()
	if len(pinned) == 0 {
		m.infoMessage = "Nothing pinned to unpin."
		return
	}
	last := pinned[len(pinned)-1]
	m.session.Canvas().Remove(last.ID)
	m.infoMessage = fmt.Sprintf("Unpinned note %d.", last.ID)
	m.markViewportDirty()
}

func (m *model) detachActive() {
	active := m.pane.Active()
	if active == nil {
		m.infoMessage = "No document attached."
		return
	}
	m.pane.Remove(active.Name)
	m.edu.CurrentPage = m.pane.CurrentPage()
	m.edu.TotalPages = m.pane.TotalPages()
	if next := m.pane.Active(); next != nil {
		m.infoMessage = fmt.Sprintf("Detached %s. Now viewing %s.", active.Name, next.Name)
	} else {
		m.steps = guide.Build(guide.Metadata{ClassLevel: m.edu.ClassLevel})
		m.infoMessage = fmt.Sprintf("Detached %s.", active.Name)
	}
	m.markViewportDirty()
}

func (m *model) toggleFocused() {
	id := m.focusedSectionID()
	if id == "" {
		m.infoMessage = "No answer box selected."
		return
	}
	m.session.ToggleSection(id)
	m.markViewportDirty()
}

func (m *model) sectionIDs() []string {
	var ids []string
	for _, resp := range m.session.StructuredResponses() {
		for _, section := range resp.Sections {
			ids = append(ids, section.ID)
		}
	}
	return ids
}

func (m *model) focusedSectionID() string {
	ids := m.sectionIDs()
	if len(ids) == 0 {
		return ""
	}
	if m.focusIdx < 0 || m.focusIdx >= len(ids) {
		m.focusIdx = len(ids) - 1
	}
	return ids[m.focusIdx]
}

func (m *model) cycleFocus(delta int) {
	ids := m.sectionIDs()
	if len(ids) == 0 {
		return
	}
	m.focusIdx = (m.focusIdx + delta + len(ids)) % len(ids)
	m.markViewportDirty()
}

func (m *model) syncPages() {
	if m.pane.Active() == nil {
		m.infoMessage = "Attach a PDF first (Ctrl+O)."
		return
	}
	m.edu.CurrentPage = m.pane.CurrentPage()
	m.edu.TotalPages = m.pane.TotalPages()
	m.infoMessage = fmt.Sprintf("Viewing page %d of %d.", m.edu.CurrentPage, m.edu.TotalPages)
	m.markViewportDirty()
}

func (m *model) setComposerMode(mode composerMode) {
	m.composerMode = mode
	switch mode {
	case composerModeQuestion:
		m.composer.Placeholder = composerQuestionPlaceholder
	case composerModeRefine:
		m.composer.Placeholder = composerRefinePlaceholder
	case composerModeAttach:
		m.composer.Placeholder = composerAttachPlaceholder
	}
	m.composer.SetValue("")
	m.composer.Focus()
}

func (m *model) startContextForm() {
	m.stage = stageContext
	m.contextDraft = m.edu
	m.contextField = 0
	m.composer.SetValue(m.contextValue(0))
	m.composer.Placeholder = contextFields[0]
}

func (m *model) handleContextKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.stage = stageChat
		m.setComposerMode(composerModeQuestion)
		m.infoMessage = "Classroom changes discarded."
		return m, nil
	case "enter", "tab":
		if err := m.storeContextField(); err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		m.errorMessage = ""
		if key.String() == "enter" && m.contextField == len(contextFields)-1 {
			m.edu = m.contextDraft.Normalize()
			m.stage = stageChat
			m.setComposerMode(composerModeQuestion)
			m.infoMessage = "Classroom saved."
			m.markViewportDirty()
			return m, nil
		}
		m.moveContextField(1)
		return m, nil
	case "shift+tab":
		m.moveContextField(-1)
		return m, nil
	}
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(key)
	return m, cmd
}

func (m *model) moveContextField(delta int) {
	m.contextField = (m.contextField + delta + len(contextFields)) % len(contextFields)
	m.composer.SetValue(m.contextValue(m.contextField))
	m.composer.Placeholder = contextFields[m.contextField]
	m.composer.CursorEnd()
}

func (m *model) contextValue(idx int) string {
	switch idx {
	case 0:
		return m.contextDraft.TeacherLanguage
	case 1:
		return m.contextDraft.StudentLanguage
	case 2:
		return m.contextDraft.ClassLevel
	case 3:
		return m.contextDraft.ClassStrength
	case 4:
		return strconv.Itoa(m.contextDraft.CurrentPage)
	case 5:
		return strconv.Itoa(m.contextDraft.TotalPages)
	}
	return ""
}

func (m *model) storeContextField() error {
	value := strings.TrimSpace(m.composer.Value())
	switch m.contextField {
	case 0:
		m.contextDraft.TeacherLanguage = value
	case 1:
		m.contextDraft.StudentLanguage = value
	case 2:
		m.contextDraft.ClassLevel = value
	case 3:
		m.contextDraft.ClassStrength = value
	default:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be a number", strings.ToLower(contextFields[m.contextField]))
		}
		if m.contextField == 4 {
			m.contextDraft.CurrentPage = n
		} else {
			m.contextDraft.TotalPages = n
		}
	}
	return nil
}

func (m *model) jobStatusBadges() []string {
	if len(m.activeJobs) == 0 {
		return nil
	}
	badges := make([]string, 0, len(m.activeJobs))
	for _, snap := range m.activeJobs {
		badges = append(badges, fmt.Sprintf("%s…", snap.Kind))
	}
	sort.Strings(badges)
	return badges
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty() {
	if !m.viewportDirty {
		return
	}
	m.viewport.SetContent(m.buildDisplayContent())
	m.viewportDirty = false
}

var (
	sectionHeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	focusedSectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	pinnedNoteStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c")).Italic(true)
	refiningSectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("178")).Italic(true)

	heroAccentColor        = lipgloss.Color("#667eea")
	heroEmberColor         = lipgloss.Color("#10103a")
	heroTextColor          = lipgloss.Color("#eef0ff")
	heroSecondaryTextColor = lipgloss.Color("#9aa5ff")

	taglineStyle       = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle           = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(1, 2)
	logoFaceStyle      = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor).Background(heroEmberColor)
	logoShadowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#060618"))
	logoContainerStyle = lipgloss.NewStyle().Padding(0, 1)
	logoArtLines       = []string{
		"███████╗  ██████╗   ██╗   ██╗   █████╗   ███████╗  ███████╗  ██╗  ███████╗  ████████╗",
		"██╔════╝  ██╔══██╗  ██║   ██║  ██╔══██╗  ██╔════╝  ██╔════╝  ██║  ██╔════╝  ╚══██╔══╝",
		"█████╗    ██║  ██║  ██║   ██║  ███████║  ███████╗  ███████╗  ██║  ███████╗     ██║   ",
		"██╔══╝    ██║  ██║  ██║   ██║  ██╔══██║  ╚════██║  ╚════██║  ██║  ╚════██║     ██║   ",
		"███████╗  ██████╔╝  ╚██████╔╝  ██║  ██║  ███████║  ███████║  ██║  ███████║     ██║   ",
		"╚══════╝  ╚═════╝    ╚═════╝   ╚═╝  ╚═╝  ╚══════╝  ╚══════╝  ╚═╝  ╚══════╝     ╚═╝   ",
	}
)
