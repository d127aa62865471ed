package assistant

import (
	"time"

	"github.com/ParijatSutradhar04/AI-for-Education/internal/notes"
)

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one turn in the conversation. Messages are immutable once
// appended; the log only grows.
type Message struct {
	ID        string
	Sender    Sender
	Content   string
	IsMarkup  bool
	PlainText string
	Image     *notes.ImageRef

	// OriginalQuestion is a string copy of the user message that produced
	// this assistant message, not an object link.
	OriginalQuestion string

	Time time.Time
}

// Section is one named, independently editable block of a structured answer.
// Text is the only field a follow-up may replace.
type Section struct {
	ID      string
	Heading string
	Text    string
}

// StructuredResponse is the multi-section shape of an assistant answer.
// Section ids are unique within one response and order is display order,
// preserved across follow-up mutation.
type StructuredResponse struct {
	Sections         []Section
	OriginalQuestion string
	Image            *notes.ImageRef
}

// SectionByID returns a pointer into the response's section slice, or nil.
func (r *StructuredResponse) SectionByID(id string) *Section {
	for i := range r.Sections {
		if r.Sections[i].ID == id {
			return &r.Sections[i]
		}
	}
	return nil
}
