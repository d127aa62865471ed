package assistant

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ParijatSutradhar04/AI-for-Education/internal/markup"
	"github.com/ParijatSutradhar04/AI-for-Education/internal/notes"
)

var (
	// ErrSendInFlight rejects a second top-level send while one is
	// outstanding.
	ErrSendInFlight = errors.New("a send is already in flight")

	// ErrFollowUpInFlight rejects a second follow-up for the same section.
	ErrFollowUpInFlight = errors.New("a follow-up for this section is already in flight")

	// ErrUnknownSection reports a section id that matches no active
	// structured response.
	ErrUnknownSection = errors.New("unknown section")
)

// Session owns one conversation: the append-only message log, the active
// structured responses, and the canvas of promoted notes. All mutation
// happens from the UI event loop, so the in-flight flags are plain booleans,
// not locks.
type Session struct {
	messages   []Message
	structured []*StructuredResponse
	canvas     *notes.Canvas

	sending    bool
	followUps  map[string]bool
	expanded   map[string]bool

	now func() time.Time
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{
		canvas:    notes.NewCanvas(),
		followUps: map[string]bool{},
		expanded:  map[string]bool{},
		now:       time.Now,
	}
}

// AppendUserMessage records the user's turn and returns it.
func (s *Session) AppendUserMessage(text string) Message {
	msg := Message{
		ID:        uuid.NewString(),
		Sender:    SenderUser,
		Content:   text,
		PlainText: text,
		Time:      s.now(),
	}
	s.messages = append(s.messages, msg)
	return msg
}

// AppendFlatAnswer records a flat assistant answer produced by the given
// user question.
func (s *Session) AppendFlatAnswer(flat *FlatAnswer, originalQuestion string) Message {
	msg := Message{
		ID:               uuid.NewString(),
		Sender:           SenderAssistant,
		Content:          flat.Content,
		IsMarkup:         flat.IsMarkup,
		PlainText:        flat.PlainText,
		Image:            flat.Image,
		OriginalQuestion: originalQuestion,
		Time:             s.now(),
	}
	s.messages = append(s.messages, msg)
	return msg
}

// AppendAssistantText records a plain assistant message, used for error
// apologies and other locally generated turns.
func (s *Session) AppendAssistantText(text string) Message {
	msg := Message{
		ID:        uuid.NewString(),
		Sender:    SenderAssistant,
		Content:   text,
		PlainText: text,
		Time:      s.now(),
	}
	s.messages = append(s.messages, msg)
	return msg
}

// AddStructuredResponse registers a structured answer. Sections start
// collapsed.
func (s *Session) AddStructuredResponse(resp *StructuredResponse, originalQuestion string) *StructuredResponse {
	resp.OriginalQuestion = originalQuestion
	s.structured = append(s.structured, resp)
	return resp
}

// Messages returns the conversation log in append order.
func (s *Session) Messages() []Message {
	return append([]Message(nil), s.messages...)
}

// StructuredResponses returns the active structured answers in arrival order.
func (s *Session) StructuredResponses() []*StructuredResponse {
	return append([]*StructuredResponse(nil), s.structured...)
}

// Canvas exposes the session's note collection.
func (s *Session) Canvas() *notes.Canvas {
	return s.canvas
}

// BeginSend claims the top-level send guard. The caller must pair it with
// EndSend on every exit path, including failures.
func (s *Session) BeginSend() error {
	if s.sending {
		return ErrSendInFlight
	}
	s.sending = true
	return nil
}

// EndSend releases the send guard.
func (s *Session) EndSend() {
	s.sending = false
}

// Sending reports whether a top-level send is outstanding.
func (s *Session) Sending() bool {
	return s.sending
}

// BeginFollowUp claims the per-section follow-up gate. Follow-ups for other
// sections and the top-level send are unaffected.
func (s *Session) BeginFollowUp(sectionID string) error {
	if s.sectionByID(sectionID) == nil {
		return ErrUnknownSection
	}
	if s.followUps[sectionID] {
		return ErrFollowUpInFlight
	}
	s.followUps[sectionID] = true
	return nil
}

// EndFollowUp releases a section's follow-up gate.
func (s *Session) EndFollowUp(sectionID string) {
	delete(s.followUps, sectionID)
}

// FollowUpInFlight reports whether the section's input should be disabled.
func (s *Session) FollowUpInFlight(sectionID string) bool {
	return s.followUps[sectionID]
}

// ApplySectionUpdate replaces a section's text in place after a successful
// follow-up. Id, heading, order and expansion state are untouched.
func (s *Session) ApplySectionUpdate(sectionID, updatedText string) error {
	section := s.sectionByID(sectionID)
	if section == nil {
		return fmt.Errorf("%w: %s", ErrUnknownSection, sectionID)
	}
	section.Text = updatedText
	return nil
}

// SectionByID finds a section across all active structured responses.
func (s *Session) SectionByID(id string) (*Section, *StructuredResponse, error) {
	for _, resp := range s.structured {
		if section := resp.SectionByID(id); section != nil {
			return section, resp, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrUnknownSection, id)
}

func (s *Session) sectionByID(id string) *Section {
	section, _, err := s.SectionByID(id)
	if err != nil {
		return nil
	}
	return section
}

// ToggleSection flips a section's presentational expand/collapse state and
// returns the new state. Sections only change state on explicit toggles.
func (s *Session) ToggleSection(id string) bool {
	s.expanded[id] = !s.expanded[id]
	return s.expanded[id]
}

// SectionExpanded reports a section's current presentational state.
func (s *Session) SectionExpanded(id string) bool {
	return s.expanded[id]
}

// PromoteMessage snapshots an assistant message onto the canvas.
func (s *Session) PromoteMessage(msg Message) notes.Note {
	answerMarkup := msg.Content
	if !msg.IsMarkup {
		if rendered, err := markup.Render(msg.Content); err == nil {
			answerMarkup = rendered
		}
	}
	question := msg.OriginalQuestion
	if question == "" {
		question = "Assistant answer"
	}
	return s.canvas.Add(question, answerMarkup, msg.PlainText, msg.Image)
}

// PromoteSection snapshots a section's current text onto the canvas. The
// section object is the source of truth, so notes taken after follow-up
// edits carry the edited text.
func (s *Session) PromoteSection(sectionID string) (notes.Note, error) {
	section, resp, err := s.SectionByID(sectionID)
	if err != nil {
		return notes.Note{}, err
	}
	answerMarkup := section.Text
	if rendered, err := markup.Render(fmt.Sprintf("**%s**\n\n%s", section.Heading, section.Text)); err == nil {
		answerMarkup = rendered
	}
	question := resp.OriginalQuestion
	if question == "" {
		question = section.Heading
	}
	plain := section.Heading + "\n" + section.Text
	return s.canvas.Add(question, answerMarkup, plain, resp.Image), nil
}
