package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nulzo/shem-api/internal/config"
	"github.com/nulzo/shem-api/internal/httpclient"
	"github.com/nulzo/shem-api/internal/llm"
)

func init() {
	llm.Register("openai", NewAdapter)
}

// defaults for the OpenAI-compatible vendors that ship without explicit config
var defaults = map[llm.ProviderName]struct{ baseURL, model string }{
	llm.Groq:       {"https://api.groq.com/openai/v1", "llama3-70b-8192"},
	llm.OpenRouter: {"https://openrouter.ai/api/v1", "openai/gpt-3.5-turbo"},
}

type Adapter struct {
	config config.ProviderConfig
	client httpclient.HTTPClient
}

func NewAdapter(config config.ProviderConfig) (llm.Provider, error) {
	if config.Name == "" {
		return nil, errors.New("openai-compatible provider requires a name")
	}
	d := defaults[llm.ProviderName(config.Name)]
	if config.BaseURL == "" {
		config.BaseURL = d.baseURL
	}
	if config.Model == "" {
		config.Model = d.model
	}
	if config.BaseURL == "" || config.Model == "" {
		return nil, fmt.Errorf("provider %s: base_url and model are required", config.Name)
	}
	return &Adapter{
		config: config,
		client: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (a *Adapter) Name() llm.ProviderName {
	return llm.ProviderName(a.config.Name)
}

func (a *Adapter) Type() string {
	return "openai"
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages []Message `json:"messages"`
	Model    string    `json:"model"`
}

type Choice struct {
	Index        int      `json:"index"`
	Message      *Message `json:"message"`
	FinishReason string   `json:"finish_reason"`
}

type ChatResponse struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
}

// upstreamErrorResponse mirrors the standard OpenAI error shape
type upstreamErrorResponse struct {
	Error struct {
		Message string      `json:"message"`
		Type    string      `json:"type"`
		Code    interface{} `json:"code"`
	} `json:"error"`
}

func (a *Adapter) handleUpstreamError(err error) error {
	classified := llm.FromHTTPError(a.Name(), err)

	var upstreamErr *httpclient.UpstreamError
	if !errors.As(err, &upstreamErr) {
		return classified
	}

	var apiErr upstreamErrorResponse
	if jsonErr := json.Unmarshal(upstreamErr.Body, &apiErr); jsonErr == nil && apiErr.Error.Message != "" {
		classified.Message = fmt.Sprintf("%s: %s", classified.Message, apiErr.Error.Message)
	}
	return classified
}

// Extract returns choices[0].message.content.
// An empty content is reported as not ok so the relay moves on to the next provider.
func Extract(resp *ChatResponse) (string, bool) {
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		return "", false
	}
	content := resp.Choices[0].Message.Content
	return content, content != ""
}

func (a *Adapter) Complete(ctx context.Context, apiKey, prompt string) (string, error) {
	headers := map[string]string{
		"Authorization": "Bearer " + apiKey,
	}
	for k, v := range a.config.Headers {
		headers[k] = v
	}

	url := fmt.Sprintf("%s/chat/completions", strings.TrimRight(a.config.BaseURL, "/"))

	req := ChatRequest{
		Messages: []Message{{Role: "user", Content: prompt}},
		Model:    a.config.Model,
	}

	var resp ChatResponse
	if err := httpclient.SendRequest(ctx, a.client, http.MethodPost, url, headers, req, &resp); err != nil {
		return "", a.handleUpstreamError(err)
	}

	content, ok := Extract(&resp)
	if !ok {
		return "", llm.NewError(llm.MalformedResponse, a.Name(), "no message content in completion", nil)
	}
	return content, nil
}
