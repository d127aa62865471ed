package tui

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ParijatSutradhar04/AI-for-Education/internal/assistant"
	"github.com/ParijatSutradhar04/AI-for-Education/internal/backend"
	"github.com/ParijatSutradhar04/AI-for-Education/internal/educontext"
	"github.com/ParijatSutradhar04/AI-for-Education/internal/export"
	"github.com/ParijatSutradhar04/AI-for-Education/internal/notes"
	"github.com/ParijatSutradhar04/AI-for-Education/internal/pdfdoc"
)

type chatResultMsg struct {
	question string
	answer   assistant.NormalizedAnswer
	err      error
}

type followUpResultMsg struct {
	sectionID string
	text      string
	err       error
}

type attachResultMsg struct {
	name string
	data []byte
	err  error
}

type exportResultMsg struct {
	path     string
	strategy export.Strategy
	err      error
}

func chatJob(client backend.Client, question string, edu educontext.Context, files []backend.FileAttachment) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 2*time.Minute)
		defer cancel()
		payload, err := client.Chat(ctx, backend.ChatRequest{
			Message: question,
			Files:   files,
			Context: edu,
		})
		if err != nil {
			return chatResultMsg{question: question, err: err}, err
		}
		return chatResultMsg{question: question, answer: assistant.Normalize(payload)}, nil
	}
}

// followUpJob snapshots the section at submit time so a concurrent redraw
// cannot change what the backend sees.
func followUpJob(client backend.Client, instruction string, section assistant.Section, edu educontext.Context) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 2*time.Minute)
		defer cancel()
		text, err := client.FollowUp(ctx, backend.FollowUpRequest{
			Message:    instruction,
			BoxID:      section.ID,
			BoxHeading: section.Heading,
			BoxText:    section.Text,
			Context:    edu,
		})
		return followUpResultMsg{sectionID: section.ID, text: text, err: err}, err
	}
}

func attachFileJob(path string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return attachResultMsg{name: filepath.Base(path), err: err}, err
		}
		return attachResultMsg{name: filepath.Base(path), data: data}, nil
	}
}

func exportCanvasJob(exporter *export.Exporter, dir string, entries []notes.Note) jobRunner {
	toExport := append([]notes.Note(nil), entries...)
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, time.Minute)
		defer cancel()
		artifact, err := exporter.Export(ctx, toExport)
		if err != nil {
			return exportResultMsg{err: err}, err
		}
		path, err := exporter.Save(dir, artifact)
		if err != nil {
			return exportResultMsg{err: err}, err
		}
		return exportResultMsg{path: path, strategy: artifact.Strategy}, nil
	}
}

func filesForUpload(pane *pdfdoc.Pane) []backend.FileAttachment {
	attachments := pane.Attachments()
	files := make([]backend.FileAttachment, 0, len(attachments))
	for _, att := range attachments {
		files = append(files, backend.FileAttachment{Name: att.Name, Data: att.Data})
	}
	return files
}
