package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxFileSize caps uploads at 10MB, matching the backend's limit.
const MaxFileSize = 10 * 1024 * 1024

var (
	// ErrNotPDF rejects non-PDF uploads.
	ErrNotPDF = errors.New("only PDF files are supported")

	// ErrTooLarge rejects files over MaxFileSize.
	ErrTooLarge = errors.New("file exceeds the 10MB limit")

	// ErrDuplicate rejects a file whose name and size match an existing
	// attachment.
	ErrDuplicate = errors.New("file is already attached")
)

// Attachment is one validated PDF held for the session.
type Attachment struct {
	Name  string
	Size  int64
	Data  []byte
	Pages int
}

// Pane tracks the attached documents and the viewer position whose page
// numbers accompany every backend call.
type Pane struct {
	attachments []Attachment
	activeIndex int
	currentPage int

	countPages func([]byte) (int, error)
}

// NewPane returns an empty document pane.
func NewPane() *Pane {
	return &Pane{currentPage: 1, countPages: countPages}
}

// Attach validates and stores a PDF. Validation failures are user input
// errors: they are reported before any network call and mutate nothing.
func (p *Pane) Attach(name string, data []byte) (Attachment, error) {
	if !strings.EqualFold(strings.TrimSpace(filepathExt(name)), ".pdf") {
		return Attachment{}, fmt.Errorf("%w: %s", ErrNotPDF, name)
	}
	size := int64(len(data))
	if size > MaxFileSize {
		return Attachment{}, fmt.Errorf("%w: %s", ErrTooLarge, name)
	}
	for _, existing := range p.attachments {
		if existing.Name == name && existing.Size == size {
			return Attachment{}, fmt.Errorf("%w: %s", ErrDuplicate, name)
		}
	}

	pages, err := p.countPages(data)
	if err != nil {
		return Attachment{}, fmt.Errorf("failed to read %s: %w", name, err)
	}

	attachment := Attachment{Name: name, Size: size, Data: data, Pages: pages}
	p.attachments = append(p.attachments, attachment)
	if len(p.attachments) == 1 {
		p.activeIndex = 0
		p.currentPage = 1
	}
	return attachment, nil
}

// Remove drops an attachment by name and reports whether one was found.
func (p *Pane) Remove(name string) bool {
	for i, attachment := range p.attachments {
		if attachment.Name == name {
			p.attachments = append(p.attachments[:i], p.attachments[i+1:]...)
			if p.activeIndex >= len(p.attachments) {
				p.activeIndex = 0
			}
			p.currentPage = 1
			return true
		}
	}
	return false
}

// Attachments returns the attached documents in attach order.
func (p *Pane) Attachments() []Attachment {
	return append([]Attachment(nil), p.attachments...)
}

// Active returns the document the viewer is on, or nil when none is
// attached.
func (p *Pane) Active() *Attachment {
	if len(p.attachments) == 0 {
		return nil
	}
	attachment := p.attachments[p.activeIndex]
	return &attachment
}

// CurrentPage reports the viewer position, always at least 1.
func (p *Pane) CurrentPage() int {
	return p.currentPage
}

// TotalPages reports the active document's page count, or 1 when none is
// attached.
func (p *Pane) TotalPages() int {
	active := p.Active()
	if active == nil || active.Pages < 1 {
		return 1
	}
	return active.Pages
}

// NextPage advances the viewer, clamped to the last page.
func (p *Pane) NextPage() {
	if p.currentPage < p.TotalPages() {
		p.currentPage++
	}
}

// PrevPage rewinds the viewer, clamped to page 1.
func (p *Pane) PrevPage() {
	if p.currentPage > 1 {
		p.currentPage--
	}
}

func countPages(data []byte) (int, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, err
	}
	return reader.NumPage(), nil
}

// filepathExt mirrors path/filepath.Ext without pulling in OS path
// semantics for what is a display name.
func filepathExt(name string) string {
	for i := len(name) - 1; i >= 0 && name[i] != '/' && name[i] != '\\'; i-- {
		if name[i] == '.' {
			return name[i:]
		}
	}
	return ""
}
