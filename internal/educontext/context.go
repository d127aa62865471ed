package educontext

import (
	"net/url"
	"strconv"
	"strings"
)

// Defaults mirror what the backend assumes when a field is omitted.
const (
	DefaultTeacherLanguage = "english"
	DefaultStudentLanguage = "english"
	DefaultClassLevel      = "6"
	DefaultClassStrength   = "30"
)

// Context carries the classroom settings that accompany every backend call.
// The four strings are opaque passthrough values; the page fields track the
// document pane.
type Context struct {
	TeacherLanguage string
	StudentLanguage string
	ClassLevel      string
	ClassStrength   string
	CurrentPage     int
	TotalPages      int
}

// Default returns a context populated with the backend's assumed values.
func Default() Context {
	return Context{
		TeacherLanguage: DefaultTeacherLanguage,
		StudentLanguage: DefaultStudentLanguage,
		ClassLevel:      DefaultClassLevel,
		ClassStrength:   DefaultClassStrength,
		CurrentPage:     1,
		TotalPages:      1,
	}
}

// Normalize fills empty fields with defaults and clamps page numbers so the
// pair is always consistent (1 <= current <= total).
func (c Context) Normalize() Context {
	out := c
	if strings.TrimSpace(out.TeacherLanguage) == "" {
		out.TeacherLanguage = DefaultTeacherLanguage
	}
	if strings.TrimSpace(out.StudentLanguage) == "" {
		out.StudentLanguage = DefaultStudentLanguage
	}
	if strings.TrimSpace(out.ClassLevel) == "" {
		out.ClassLevel = DefaultClassLevel
	}
	if strings.TrimSpace(out.ClassStrength) == "" {
		out.ClassStrength = DefaultClassStrength
	}
	if out.TotalPages < 1 {
		out.TotalPages = 1
	}
	if out.CurrentPage < 1 {
		out.CurrentPage = 1
	}
	if out.CurrentPage > out.TotalPages {
		out.CurrentPage = out.TotalPages
	}
	return out
}

// FormValues returns the context as the flat form fields the chat endpoint
// expects.
func (c Context) FormValues() url.Values {
	c = c.Normalize()
	values := url.Values{}
	values.Set("teacher_language", c.TeacherLanguage)
	values.Set("student_language", c.StudentLanguage)
	values.Set("class_level", c.ClassLevel)
	values.Set("class_strength", c.ClassStrength)
	values.Set("current_page", strconv.Itoa(c.CurrentPage))
	values.Set("total_pages", strconv.Itoa(c.TotalPages))
	return values
}

// wire is the JSON shape embedded in follow-up requests.
type wire struct {
	TeacherLanguage string `json:"teacher_language"`
	StudentLanguage string `json:"student_language"`
	ClassLevel      string `json:"class_level"`
	ClassStrength   string `json:"class_strength"`
	CurrentPage     int    `json:"current_page"`
	TotalPages      int    `json:"total_pages"`
}

// Wire returns the JSON-ready form of the context.
func (c Context) Wire() any {
	c = c.Normalize()
	return wire{
		TeacherLanguage: c.TeacherLanguage,
		StudentLanguage: c.StudentLanguage,
		ClassLevel:      c.ClassLevel,
		ClassStrength:   c.ClassStrength,
		CurrentPage:     c.CurrentPage,
		TotalPages:      c.TotalPages,
	}
}
