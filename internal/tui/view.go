package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *model) View() string {
	switch m.stage {
	case stageContext:
		return m.viewContext()
	default:
		return m.viewChat()
	}
}

func (m *model) viewChat() string {
	m.refreshViewportIfDirty()
	parts := []string{m.heroView(), m.viewport.View()}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		message := m.infoMessage
		if m.busy() {
			message = fmt.Sprintf("%s %s", m.spinner.View(), message)
		}
		parts = append(parts, helperStyle.Render(message))
	}
	if m.helpVisible {
		parts = append(parts, m.keyLegendView())
	}
	parts = append(parts, m.composerPanel(), m.statusBarView())
	return joinNonEmpty(parts)
}

func (m *model) viewContext() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Classroom Setup"))
	b.WriteRune('\n')
	for idx, field := range contextFields {
		value := m.contextValue(idx)
		if idx == m.contextField {
			b.WriteString(focusedSectionStyle.Render("▸ " + field + ": "))
			b.WriteString(m.composer.View())
		} else {
			b.WriteString("  " + field + ": " + value)
		}
		b.WriteRune('\n')
	}
	b.WriteRune('\n')
	b.WriteString(helperStyle.Render("Tab/Shift+Tab moves between fields. Enter on the last field saves, Esc discards."))
	parts := []string{m.heroView(), b.String()}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	return joinNonEmpty(parts)
}

func (m *model) composerPanel() string {
	return joinNonEmpty([]string{
		sectionHeaderStyle.Render(m.composerTitle()),
		m.composer.View(),
		helperStyle.Render(m.composerHelpText()),
	})
}

func (m *model) composerTitle() string {
	switch m.composerMode {
	case composerModeRefine:
		return "Composer · Refine Box"
	case composerModeAttach:
		return "Composer · Attach PDF"
	default:
		return "Composer"
	}
}

func (m *model) composerHelpText() string {
	switch m.composerMode {
	case composerModeRefine:
		return "Enter: send refinement • Esc: cancel"
	case composerModeAttach:
		return "Enter: attach • Esc: cancel"
	default:
		return "Enter: ask • Tab: next box • Ctrl+R: refine • Ctrl+P: pin • Ctrl+E: export • F1: keys"
	}
}

func (m *model) statusBarView() string {
	stats := []string{
		fmt.Sprintf("Boxes %d", len(m.sectionIDs())),
		fmt.Sprintf("Canvas %d", m.session.Canvas().Len()),
	}
	if active := m.pane.Active(); active != nil {
		stats = append(stats, fmt.Sprintf("Page %d/%d", m.pane.CurrentPage(), m.pane.TotalPages()))
	}
	if m.config.Backend != nil {
		stats = append(stats, m.config.Backend.Name())
	}
	if badges := m.jobStatusBadges(); len(badges) > 0 {
		stats = append(stats, badges...)
	}
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) heroView() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		renderLogo(),
		taglineStyle.Render(heroTagline),
	)
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyLegendView() string {
	hints := []keyHint{
		{"Enter", "Ask"},
		{"Tab", "Next box"},
		{"Ctrl+R", "Refine box"},
		{"Ctrl+T", "Expand/collapse"},
		{"Ctrl+P", "Pin to canvas"},
		{"Ctrl+U", "Unpin latest"},
		{"Ctrl+E", "Export canvas"},
		{"Ctrl+O", "Attach PDF"},
		{"Ctrl+D", "Detach PDF"},
		{"Ctrl+G", "Classroom setup"},
		{"Shift+←/→", "Turn pages"},
		{"PgUp/PgDn", "Scroll"},
		{"F1", "Toggle this legend"},
		{"Ctrl+C", "Quit"},
	}
	rows := []string{sectionHeaderStyle.Render("Keys")}
	const columns = 3
	for i := 0; i < len(hints); i += columns {
		end := i + columns
		if end > len(hints) {
			end = len(hints)
		}
		var cells []string
		for _, hint := range hints[i:end] {
			key := keyStyle.Render(hint.Key)
			desc := keyDescStyle.Render(" " + hint.Description)
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

// renderLogo paints the block art in the face color with a dimmed echo of
// the bottom edge one column to the right, which reads as a drop shadow
// without compositing the two layers rune by rune.
func renderLogo() string {
	if len(logoArtLines) == 0 {
		return ""
	}
	lines := make([]string, 0, len(logoArtLines)+1)
	for _, line := range logoArtLines {
		lines = append(lines, logoFaceStyle.Render(line))
	}
	bottom := []rune(logoArtLines[len(logoArtLines)-1])
	echo := make([]rune, 0, len(bottom)+1)
	echo = append(echo, ' ')
	for _, r := range bottom {
		if r == ' ' {
			echo = append(echo, ' ')
		} else {
			echo = append(echo, '▀')
		}
	}
	lines = append(lines, logoShadowStyle.Render(strings.TrimRight(string(echo), " ")))
	return logoContainerStyle.Render(strings.Join(lines, "\n"))
}
