package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/ParijatSutradhar04/AI-for-Education/internal/assistant"
	"github.com/ParijatSutradhar04/AI-for-Education/internal/markup"
)

func (m *model) buildDisplayContent() string {
	cb := &strings.Builder{}
	if len(m.session.Messages()) == 0 {
		m.writeGuide(cb)
	}
	m.writeConversationStream(cb)
	m.writeAnswerBoxes(cb)
	m.writeCanvas(cb)
	m.writeDocuments(cb)
	return cb.String()
}

func (m *model) writeGuide(cb *strings.Builder) {
	cb.WriteString(sectionHeaderStyle.Render("Getting Started"))
	cb.WriteRune('\n')
	wrap := m.wrapWidth(4)
	for idx, step := range m.steps {
		cb.WriteString(fmt.Sprintf(" %d. %s", idx+1, step.Title))
		cb.WriteRune('\n')
		cb.WriteString(indentMultiline(helperStyle.Render(wordwrap.String(step.Description, wrap)), "    "))
		cb.WriteRune('\n')
	}
	cb.WriteRune('\n')
}

func (m *model) writeConversationStream(cb *strings.Builder) {
	cb.WriteString(sectionHeaderStyle.Render("Conversation"))
	cb.WriteRune('\n')
	messages := m.session.Messages()
	if len(messages) == 0 {
		cb.WriteString(helperStyle.Render("Your questions and the assistant's answers will appear here."))
		cb.WriteRune('\n')
		return
	}
	wrap := m.wrapWidth(4)
	for idx, msg := range messages {
		cb.WriteString(helperStyle.Render(senderLabel(msg.Sender)))
		cb.WriteRune('\n')
		cb.WriteString(indentMultiline(wordwrap.String(messageText(msg), wrap), "  "))
		cb.WriteRune('\n')
		if msg.Image != nil {
			cb.WriteString(indentMultiline(helperStyle.Render("[image] "+imageCaption(msg.Image.Description)), "  "))
			cb.WriteRune('\n')
		}
		if idx < len(messages)-1 {
			cb.WriteRune('\n')
		}
	}
	if m.session.Sending() {
		cb.WriteRune('\n')
		cb.WriteString(helperStyle.Render(fmt.Sprintf("%s Thinking…", m.spinner.View())))
		cb.WriteRune('\n')
	}
}

func (m *model) writeAnswerBoxes(cb *strings.Builder) {
	responses := m.session.StructuredResponses()
	if len(responses) == 0 {
		return
	}
	cb.WriteRune('\n')
	cb.WriteString(sectionHeaderStyle.Render("Answer Boxes"))
	cb.WriteRune('\n')
	wrap := m.wrapWidth(6)
	focused := m.focusedSectionID()
	flatIdx := 0
	for _, resp := range responses {
		cb.WriteString(helperStyle.Render("Q: " + previewText(resp.OriginalQuestion, sectionPreviewLimit)))
		cb.WriteRune('\n')
		for _, section := range resp.Sections {
			marker := "  "
			heading := section.Heading
			if flatIdx == m.focusIdx && section.ID == focused {
				marker = "▸ "
				heading = focusedSectionStyle.Render(heading)
			}
			suffix := ""
			if m.session.FollowUpInFlight(section.ID) {
				suffix = refiningSectionStyle.Render("  refining…")
			}
			cb.WriteString(marker + heading + suffix)
			cb.WriteRune('\n')
			body := section.Text
			if !m.session.SectionExpanded(section.ID) {
				body = previewText(body, sectionPreviewLimit)
			}
			cb.WriteString(indentMultiline(wordwrap.String(body, wrap), "    "))
			cb.WriteRune('\n')
			flatIdx++
		}
		if resp.Image != nil {
			cb.WriteString(helperStyle.Render("  [image] " + imageCaption(resp.Image.Description)))
			cb.WriteRune('\n')
		}
		cb.WriteRune('\n')
	}
}

func (m *model) writeCanvas(cb *strings.Builder) {
	canvas := m.session.Canvas()
	cb.WriteRune('\n')
	cb.WriteString(sectionHeaderStyle.Render(fmt.Sprintf("Canvas (%d pinned)", canvas.Len())))
	cb.WriteRune('\n')
	entries := canvas.Notes()
	if len(entries) == 0 {
		cb.WriteString(helperStyle.Render("Pin answers with Ctrl+P, export with Ctrl+E."))
		cb.WriteRune('\n')
		return
	}
	for _, note := range entries {
		line := fmt.Sprintf("Note %d · %s", note.ID, previewText(note.Question, 60))
		cb.WriteString(pinnedNoteStyle.Render(line))
		cb.WriteRune('\n')
	}
}

func (m *model) writeDocuments(cb *strings.Builder) {
	attachments := m.pane.Attachments()
	if len(attachments) == 0 {
		return
	}
	cb.WriteRune('\n')
	cb.WriteString(sectionHeaderStyle.Render("Documents"))
	cb.WriteRune('\n')
	for _, att := range attachments {
		cb.WriteString(fmt.Sprintf("  %s (%d pages, %dKB)", att.Name, att.Pages, att.Size/1024))
		cb.WriteRune('\n')
	}
	cb.WriteString(helperStyle.Render(fmt.Sprintf("  Page %d of %d · Shift+←/→ to turn", m.pane.CurrentPage(), m.pane.TotalPages())))
	cb.WriteRune('\n')
}

// messageText picks the terminal-friendly rendering of a message. Rendered
// markup keeps its stored plain text; raw markup is stripped as a last
// resort.
func messageText(msg assistant.Message) string {
	if msg.IsMarkup {
		if msg.PlainText != "" {
			return msg.PlainText
		}
		return markup.StripTags(msg.Content)
	}
	return msg.Content
}

func senderLabel(sender assistant.Sender) string {
	switch sender {
	case assistant.SenderUser:
		return "You"
	case assistant.SenderAssistant:
		return "Assistant"
	default:
		return string(sender)
	}
}

func imageCaption(description string) string {
	if strings.TrimSpace(description) == "" {
		return "generated image"
	}
	return description
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

func previewText(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
