package assistant

import (
	"errors"
	"testing"
)

func structuredFixture() *StructuredResponse {
	return &StructuredResponse{
		Sections: []Section{
			{ID: "box-1", Heading: "Warm-up", Text: "Start with a quiz."},
			{ID: "box-2", Heading: "Activity", Text: "Group reading."},
		},
	}
}

func TestSendGuardRejectsReentry(t *testing.T) {
	t.Parallel()

	s := NewSession()
	if err := s.BeginSend(); err != nil {
		t.Fatalf("first send should pass the guard: %v", err)
	}
	if err := s.BeginSend(); !errors.Is(err, ErrSendInFlight) {
		t.Fatalf("second send should be rejected, got %v", err)
	}
	s.EndSend()
	if err := s.BeginSend(); err != nil {
		t.Fatalf("guard not cleared after EndSend: %v", err)
	}
}

func TestFollowUpGateIsPerSection(t *testing.T) {
	t.Parallel()

	s := NewSession()
	s.AddStructuredResponse(structuredFixture(), "plan a lesson")

	if err := s.BeginFollowUp("box-1"); err != nil {
		t.Fatalf("first follow-up should pass: %v", err)
	}
	if err := s.BeginFollowUp("box-1"); !errors.Is(err, ErrFollowUpInFlight) {
		t.Fatalf("same section should be gated, got %v", err)
	}
	// Other sections and the top-level send are separate domains.
	if err := s.BeginFollowUp("box-2"); err != nil {
		t.Fatalf("other section should not be gated: %v", err)
	}
	if err := s.BeginSend(); err != nil {
		t.Fatalf("top-level send should not be gated by follow-ups: %v", err)
	}

	s.EndFollowUp("box-1")
	if s.FollowUpInFlight("box-1") {
		t.Fatal("gate not released")
	}
}

func TestFollowUpUnknownSection(t *testing.T) {
	t.Parallel()

	s := NewSession()
	if err := s.BeginFollowUp("nope"); !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
}

func TestApplySectionUpdateMutatesInPlace(t *testing.T) {
	t.Parallel()

	s := NewSession()
	s.AddStructuredResponse(structuredFixture(), "plan a lesson")

	if err := s.ApplySectionUpdate("box-2", "Pair reading with role cards."); err != nil {
		t.Fatalf("ApplySectionUpdate() error = %v", err)
	}

	section, resp, err := s.SectionByID("box-2")
	if err != nil {
		t.Fatalf("SectionByID() error = %v", err)
	}
	if section.Text != "Pair reading with role cards." {
		t.Fatalf("text not replaced: %q", section.Text)
	}
	if section.Heading != "Activity" {
		t.Fatalf("heading changed: %q", section.Heading)
	}
	if resp.Sections[0].ID != "box-1" || resp.Sections[1].ID != "box-2" {
		t.Fatalf("section order changed: %#v", resp.Sections)
	}
}

func TestPromoteSectionUsesCurrentText(t *testing.T) {
	t.Parallel()

	s := NewSession()
	s.AddStructuredResponse(structuredFixture(), "plan a lesson")
	if err := s.ApplySectionUpdate("box-1", "Start with a two-minute recap."); err != nil {
		t.Fatalf("ApplySectionUpdate() error = %v", err)
	}

	note, err := s.PromoteSection("box-1")
	if err != nil {
		t.Fatalf("PromoteSection() error = %v", err)
	}
	if note.Question != "plan a lesson" {
		t.Fatalf("note question wrong: %q", note.Question)
	}
	if want := "Warm-up\nStart with a two-minute recap."; note.AnswerPlainText != want {
		t.Fatalf("note does not reflect edited text: %q", note.AnswerPlainText)
	}
}

func TestPromotedNoteIsASnapshot(t *testing.T) {
	t.Parallel()

	s := NewSession()
	s.AddStructuredResponse(structuredFixture(), "plan a lesson")

	note, err := s.PromoteSection("box-1")
	if err != nil {
		t.Fatalf("PromoteSection() error = %v", err)
	}
	before := note.AnswerPlainText

	if err := s.ApplySectionUpdate("box-1", "Completely different."); err != nil {
		t.Fatalf("ApplySectionUpdate() error = %v", err)
	}

	stored := s.Canvas().Notes()
	if len(stored) != 1 {
		t.Fatalf("expected one note, got %d", len(stored))
	}
	if stored[0].AnswerPlainText != before {
		t.Fatalf("existing note changed after follow-up: %q", stored[0].AnswerPlainText)
	}
}

func TestToggleSectionExplicitOnly(t *testing.T) {
	t.Parallel()

	s := NewSession()
	s.AddStructuredResponse(structuredFixture(), "q")

	if s.SectionExpanded("box-1") {
		t.Fatal("sections should start collapsed")
	}
	if !s.ToggleSection("box-1") {
		t.Fatal("toggle should expand")
	}
	if err := s.ApplySectionUpdate("box-1", "edited"); err != nil {
		t.Fatalf("ApplySectionUpdate() error = %v", err)
	}
	if !s.SectionExpanded("box-1") {
		t.Fatal("follow-up edit must not change expansion state")
	}
	if s.ToggleSection("box-1") {
		t.Fatal("toggle should collapse again")
	}
}

func TestMessageLogAppendOrder(t *testing.T) {
	t.Parallel()

	s := NewSession()
	s.AppendUserMessage("first")
	s.AppendFlatAnswer(&FlatAnswer{Content: "answer", PlainText: "answer"}, "first")
	s.AppendAssistantText("Sorry, there was an error processing your request.")

	log := s.Messages()
	if len(log) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(log))
	}
	if log[0].Sender != SenderUser || log[1].Sender != SenderAssistant {
		t.Fatalf("unexpected senders: %v %v", log[0].Sender, log[1].Sender)
	}
	if log[1].OriginalQuestion != "first" {
		t.Fatalf("original question not copied: %q", log[1].OriginalQuestion)
	}
}

func TestPromoteMessageRendersMarkdown(t *testing.T) {
	t.Parallel()

	s := NewSession()
	msg := s.AppendFlatAnswer(&FlatAnswer{Content: "**bold** advice", PlainText: "**bold** advice"}, "how do I start")
	note := s.PromoteMessage(msg)

	if note.Question != "how do I start" {
		t.Fatalf("question wrong: %q", note.Question)
	}
	if note.AnswerMarkup == note.AnswerPlainText {
		t.Fatalf("plain content should be rendered to markup for the canvas: %q", note.AnswerMarkup)
	}
}
