package notes

import (
	"time"
)

// ImageRef points at an image owned by a note or message. URL may be a local
// path (preferred) or a remote address.
type ImageRef struct {
	URL         string
	Description string
}

// Note is a user-curated snapshot of one question/answer pair kept on the
// canvas. All fields are copies taken at promotion time; later edits to the
// originating answer never reach an existing note.
type Note struct {
	ID              int64
	Question        string
	AnswerMarkup    string
	AnswerPlainText string
	Image           *ImageRef
	Timestamp       string
}

// Canvas is the insertion-ordered collection of promoted notes. It is owned
// by a single session and is the sole input of the export pipeline.
type Canvas struct {
	entries []Note
	nextID  int64
	now     func() time.Time
}

// NewCanvas returns an empty canvas.
func NewCanvas() *Canvas {
	return &Canvas{nextID: 1, now: time.Now}
}

// Add appends a snapshot note and returns it. Duplicates are allowed:
// promoting the same answer twice yields two notes.
func (c *Canvas) Add(question, answerMarkup, answerPlainText string, image *ImageRef) Note {
	var imageCopy *ImageRef
	if image != nil {
		copied := *image
		imageCopy = &copied
	}
	note := Note{
		ID:              c.nextID,
		Question:        question,
		AnswerMarkup:    answerMarkup,
		AnswerPlainText: answerPlainText,
		Image:           imageCopy,
		Timestamp:       c.now().Format("Jan 2, 2006 3:04 PM"),
	}
	c.nextID++
	c.entries = append(c.entries, note)
	return note
}

// Remove deletes the note with the given id. It reports whether a note was
// found.
func (c *Canvas) Remove(id int64) bool {
	for i, note := range c.entries {
		if note.ID == id {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Notes returns the canvas contents in insertion order. The slice is a copy;
// callers cannot mutate the canvas through it.
func (c *Canvas) Notes() []Note {
	return append([]Note(nil), c.entries...)
}

// Len reports the number of notes on the canvas.
func (c *Canvas) Len() int {
	return len(c.entries)
}
