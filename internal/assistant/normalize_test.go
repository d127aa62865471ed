package assistant

import (
	"strings"
	"testing"
)

func TestNormalizeErrorWins(t *testing.T) {
	t.Parallel()

	got := Normalize(Payload{Error: "backend unavailable", Text: "ignored"})
	if got.Kind != AnswerError {
		t.Fatalf("expected error answer, got %v", got.Kind)
	}
	if got.ErrorMessage != "backend unavailable" {
		t.Fatalf("unexpected error message: %q", got.ErrorMessage)
	}
}

func TestNormalizeStructured(t *testing.T) {
	t.Parallel()

	got := Normalize(Payload{
		StructuredContent: []PayloadSection{
			{ID: "box-1", Heading: "Warm-up", Text: "Start with a quiz."},
			{ID: "box-2", Heading: "Activity", Text: "Group reading."},
		},
		ImageURL: "https://host/diagram.png",
	})
	if got.Kind != AnswerStructured {
		t.Fatalf("expected structured answer, got %v", got.Kind)
	}
	sections := got.Structured.Sections
	if len(sections) != 2 || sections[0].ID != "box-1" || sections[1].Heading != "Activity" {
		t.Fatalf("sections mangled: %#v", sections)
	}
	if got.Structured.Image == nil || got.Structured.Image.URL != "https://host/diagram.png" {
		t.Fatalf("structured image lost: %#v", got.Structured.Image)
	}
}

func TestNormalizePrefersLocalImageURL(t *testing.T) {
	t.Parallel()

	got := Normalize(Payload{
		Text: "Here is your image.",
		GeneratedImage: &GeneratedImage{
			ImageURL: "https://x",
			LocalURL: "/local/x.png",
		},
	})
	if got.Kind != AnswerFlat {
		t.Fatalf("expected flat answer, got %v", got.Kind)
	}
	if got.Flat.Image.URL != "/local/x.png" {
		t.Fatalf("remote URL selected over local: %q", got.Flat.Image.URL)
	}
}

func TestNormalizeRemoteImageFallback(t *testing.T) {
	t.Parallel()

	got := Normalize(Payload{
		Text:           "ok",
		GeneratedImage: &GeneratedImage{ImageURL: "https://x", Description: "a chart"},
	})
	if got.Flat.Image.URL != "https://x" || got.Flat.Image.Description != "a chart" {
		t.Fatalf("unexpected image ref: %#v", got.Flat.Image)
	}
}

func TestNormalizeKeepsSuppliedPlainTextVerbatim(t *testing.T) {
	t.Parallel()

	got := Normalize(Payload{
		Text: "plain   form  with   spacing",
		HTML: "<p>rendered form</p>",
	})
	if !got.Flat.IsMarkup || got.Flat.Content != "<p>rendered form</p>" {
		t.Fatalf("markup not preferred for display: %#v", got.Flat)
	}
	if got.Flat.PlainText != "plain   form  with   spacing" {
		t.Fatalf("plain text regenerated instead of kept verbatim: %q", got.Flat.PlainText)
	}
}

func TestNormalizeStripsOnlyWhenNoPlainTextSupplied(t *testing.T) {
	t.Parallel()

	got := Normalize(Payload{HTML: "<p>only <b>markup</b></p>"})
	if strings.Contains(got.Flat.PlainText, "<") {
		t.Fatalf("fallback plain text still contains markup: %q", got.Flat.PlainText)
	}
	if !strings.Contains(got.Flat.PlainText, "only markup") {
		t.Fatalf("fallback plain text lost content: %q", got.Flat.PlainText)
	}
}

func TestNormalizeUnrecognizedPayload(t *testing.T) {
	t.Parallel()

	got := Normalize(Payload{})
	if got.Kind != AnswerUnrecognized {
		t.Fatalf("expected unrecognized, got %v", got.Kind)
	}
}
