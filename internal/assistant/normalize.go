package assistant

import (
	"strings"

	"github.com/ParijatSutradhar04/AI-for-Education/internal/markup"
	"github.com/ParijatSutradhar04/AI-for-Education/internal/notes"
)

// Payload is the duck-typed JSON body the chat endpoint returns. Which keys
// are present determines the answer shape; classification happens exactly
// once, in Normalize, and never again downstream.
type Payload struct {
	Error             string           `json:"error,omitempty"`
	StructuredContent []PayloadSection `json:"structured_content,omitempty"`
	Text              string           `json:"text,omitempty"`
	HTML              string           `json:"html,omitempty"`
	GeneratedImage    *GeneratedImage  `json:"generated_image,omitempty"`
	ImageURL          string           `json:"image_url,omitempty"`
}

// PayloadSection is one section of a structured answer on the wire.
type PayloadSection struct {
	ID      string `json:"id"`
	Heading string `json:"heading"`
	Text    string `json:"text"`
}

// GeneratedImage describes an image the backend produced for this answer.
type GeneratedImage struct {
	ImageURL    string `json:"image_url"`
	LocalURL    string `json:"local_url,omitempty"`
	Description string `json:"description,omitempty"`
}

// AnswerKind discriminates the normalized answer union.
type AnswerKind int

const (
	AnswerUnrecognized AnswerKind = iota
	AnswerError
	AnswerStructured
	AnswerFlat
)

// FlatAnswer is a plain single-block assistant answer.
type FlatAnswer struct {
	Content   string
	IsMarkup  bool
	PlainText string
	Image     *notes.ImageRef
}

// NormalizedAnswer is the result of classifying one backend payload. Exactly
// one of ErrorMessage, Structured, Flat is meaningful, selected by Kind.
type NormalizedAnswer struct {
	Kind         AnswerKind
	ErrorMessage string
	Structured   *StructuredResponse
	Flat         *FlatAnswer
}

// Normalize resolves the payload into exactly one answer shape. A payload
// with no recognized key yields AnswerUnrecognized; the caller decides how to
// surface that.
func Normalize(payload Payload) NormalizedAnswer {
	if strings.TrimSpace(payload.Error) != "" {
		return NormalizedAnswer{Kind: AnswerError, ErrorMessage: payload.Error}
	}

	if len(payload.StructuredContent) > 0 {
		sections := make([]Section, 0, len(payload.StructuredContent))
		for _, s := range payload.StructuredContent {
			sections = append(sections, Section{ID: s.ID, Heading: s.Heading, Text: s.Text})
		}
		return NormalizedAnswer{
			Kind: AnswerStructured,
			Structured: &StructuredResponse{
				Sections: sections,
				Image:    selectImage(payload),
			},
		}
	}

	if payload.Text != "" || payload.HTML != "" {
		flat := &FlatAnswer{Image: selectImage(payload)}
		switch {
		case payload.HTML != "" && payload.Text != "":
			// Markup is shown; the supplied plain text is kept verbatim for
			// export, never regenerated by stripping.
			flat.Content = payload.HTML
			flat.IsMarkup = true
			flat.PlainText = payload.Text
		case payload.HTML != "":
			flat.Content = payload.HTML
			flat.IsMarkup = true
			flat.PlainText = markup.StripTags(payload.HTML)
		default:
			flat.Content = payload.Text
			flat.PlainText = payload.Text
		}
		return NormalizedAnswer{Kind: AnswerFlat, Flat: flat}
	}

	return NormalizedAnswer{Kind: AnswerUnrecognized}
}

// selectImage applies the image precedence rule: a locally cached URL beats
// the remote one, and the per-answer generated image beats the bare
// image_url field.
func selectImage(payload Payload) *notes.ImageRef {
	if gen := payload.GeneratedImage; gen != nil {
		url := gen.LocalURL
		if url == "" {
			url = gen.ImageURL
		}
		if url != "" {
			return &notes.ImageRef{URL: url, Description: gen.Description}
		}
	}
	if payload.ImageURL != "" {
		return &notes.ImageRef{URL: payload.ImageURL}
	}
	return nil
}
