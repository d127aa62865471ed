package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ParijatSutradhar04/AI-for-Education/internal/assistant"
	"github.com/ParijatSutradhar04/AI-for-Education/internal/educontext"
)

const (
	defaultEndpoint = "http://localhost:5000"

	// Every call carries an explicit deadline so a hung backend can never
	// leave the UI loading forever.
	defaultHTTPTimeout = 2 * time.Minute
)

// Config describes how to build a backend client.
type Config struct {
	Endpoint   string
	HTTPClient *http.Client
}

// Client exposes the two calls the assistant makes: the top-level chat round
// trip and the section-scoped follow-up.
type Client interface {
	Chat(ctx context.Context, req ChatRequest) (assistant.Payload, error)
	FollowUp(ctx context.Context, req FollowUpRequest) (string, error)
	Name() string
}

// FileAttachment is one uploaded document blob.
type FileAttachment struct {
	Name string
	Data []byte
}

// ChatRequest is the multipart form sent to /api/chat.
type ChatRequest struct {
	Message string
	Files   []FileAttachment
	Context educontext.Context
}

// FollowUpRequest is the JSON body sent to /api/followup.
type FollowUpRequest struct {
	Message    string
	BoxID      string
	BoxHeading string
	BoxText    string
	Context    educontext.Context
}

// NewFromEnv builds a client from config, falling back to the
// EDUASSIST_BACKEND environment variable and then the local default.
func NewFromEnv(cfg Config) Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		if env := os.Getenv("EDUASSIST_BACKEND"); env != "" {
			endpoint = env
		} else {
			endpoint = defaultEndpoint
		}
	}
	return &httpClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   pickHTTPClient(cfg.HTTPClient),
	}
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	return &http.Client{Timeout: defaultHTTPTimeout}
}

type httpClient struct {
	endpoint string
	client   *http.Client
}

func (c *httpClient) Name() string {
	return fmt.Sprintf("Education backend (%s)", c.endpoint)
}

func (c *httpClient) Chat(ctx context.Context, req ChatRequest) (assistant.Payload, error) {
	if strings.TrimSpace(req.Message) == "" {
		return assistant.Payload{}, fmt.Errorf("message cannot be empty")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("message", req.Message); err != nil {
		return assistant.Payload{}, err
	}
	for key, values := range req.Context.FormValues() {
		for _, value := range values {
			if err := writer.WriteField(key, value); err != nil {
				return assistant.Payload{}, err
			}
		}
	}
	for i, file := range req.Files {
		part, err := writer.CreateFormFile(fmt.Sprintf("file_%d", i), file.Name)
		if err != nil {
			return assistant.Payload{}, err
		}
		if _, err := part.Write(file.Data); err != nil {
			return assistant.Payload{}, err
		}
	}
	if err := writer.Close(); err != nil {
		return assistant.Payload{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/chat", &body)
	if err != nil {
		return assistant.Payload{}, err
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return assistant.Payload{}, fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return assistant.Payload{}, statusError("chat", resp)
	}

	var payload assistant.Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return assistant.Payload{}, fmt.Errorf("failed to decode chat response: %w", err)
	}
	return payload, nil
}

type followUpBody struct {
	Message          string `json:"message"`
	BoxID            string `json:"box_id"`
	BoxHeading       string `json:"box_heading"`
	BoxText          string `json:"box_text"`
	EducationContext any    `json:"education_context"`
}

type followUpResponse struct {
	UpdatedText string `json:"updated_text"`
}

func (c *httpClient) FollowUp(ctx context.Context, req FollowUpRequest) (string, error) {
	if strings.TrimSpace(req.Message) == "" {
		return "", fmt.Errorf("follow-up question cannot be empty")
	}

	raw, err := json.Marshal(followUpBody{
		Message:          req.Message,
		BoxID:            req.BoxID,
		BoxHeading:       req.BoxHeading,
		BoxText:          req.BoxText,
		EducationContext: req.Context.Wire(),
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/followup", bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", statusError("follow-up", resp)
	}

	var decoded followUpResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode follow-up response: %w", err)
	}
	if strings.TrimSpace(decoded.UpdatedText) == "" {
		return "", fmt.Errorf("follow-up response missing updated_text")
	}
	return decoded.UpdatedText, nil
}

func statusError(call string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s call failed: %s (%s)", call, resp.Status, strings.TrimSpace(string(body)))
}
