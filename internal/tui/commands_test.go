package tui

import (
	"context"
	"testing"

	"github.com/ParijatSutradhar04/AI-for-Education/internal/assistant"
	"github.com/ParijatSutradhar04/AI-for-Education/internal/backend"
	"github.com/ParijatSutradhar04/AI-for-Education/internal/educontext"
)

type fakeBackend struct {
	payload assistant.Payload
	updated string
	err     error

	lastChat     *backend.ChatRequest
	lastFollowUp *backend.FollowUpRequest
}

func (f *fakeBackend) Chat(ctx context.Context, req backend.ChatRequest) (assistant.Payload, error) {
	f.lastChat = &req
	return f.payload, f.err
}

func (f *fakeBackend) FollowUp(ctx context.Context, req backend.FollowUpRequest) (string, error) {
	f.lastFollowUp = &req
	return f.updated, f.err
}

func (f *fakeBackend) Name() string { return "fake" }

func newTestModel(t *testing.T) *model {
	t.Helper()
	teaModel, ok := New(Config{Backend: &fakeBackend{}}).(*model)
	if !ok {
		t.Fatalf("expected *model, got %T", teaModel)
	}
	return teaModel
}

func TestChatJobNormalizesPayload(t *testing.T) {
	t.Parallel()

	client := &fakeBackend{payload: assistant.Payload{Text: "photosynthesis converts light"}}
	runner := chatJob(client, "what is photosynthesis?", educontext.Default(), nil)

	msg, err := runner(context.Background())
	if err != nil {
		t.Fatalf("runner error = %v", err)
	}
	result, ok := msg.(chatResultMsg)
	if !ok {
		t.Fatalf("expected chatResultMsg, got %T", msg)
	}
	if result.answer.Kind != assistant.AnswerFlat {
		t.Fatalf("expected flat answer, got kind %d", result.answer.Kind)
	}
	if client.lastChat.Message != "what is photosynthesis?" {
		t.Fatalf("question not forwarded: %q", client.lastChat.Message)
	}
}

func TestFollowUpJobSendsSectionSnapshot(t *testing.T) {
	t.Parallel()

	client := &fakeBackend{updated: "simpler wording"}
	section := assistant.Section{ID: "box1", Heading: "Definition", Text: "original text"}
	runner := followUpJob(client, "make it simpler", section, educontext.Default())

	msg, err := runner(context.Background())
	if err != nil {
		t.Fatalf("runner error = %v", err)
	}
	result, ok := msg.(followUpResultMsg)
	if !ok {
		t.Fatalf("expected followUpResultMsg, got %T", msg)
	}
	if result.sectionID != "box1" || result.text != "simpler wording" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if client.lastFollowUp.BoxHeading != "Definition" || client.lastFollowUp.BoxText != "original text" {
		t.Fatalf("section snapshot not forwarded: %+v", client.lastFollowUp)
	}
}
