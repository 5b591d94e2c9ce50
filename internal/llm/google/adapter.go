package google

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nulzo/shem-api/internal/config"
	"github.com/nulzo/shem-api/internal/httpclient"
	"github.com/nulzo/shem-api/internal/llm"
)

const pn string = "google"

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.0-flash"
)

func init() {
	llm.Register(pn, NewAdapter)
}

type Adapter struct {
	config config.ProviderConfig
	client httpclient.HTTPClient
}

func NewAdapter(config config.ProviderConfig) (llm.Provider, error) {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.Name == "" {
		config.Name = string(llm.Gemini)
	}
	return &Adapter{
		config: config,
		client: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (a *Adapter) Name() llm.ProviderName { return llm.ProviderName(a.config.Name) }
func (a *Adapter) Type() string           { return pn }

type GeminiPart struct {
	Text string `json:"text"`
}
type GeminiContent struct {
	Parts []GeminiPart `json:"parts"`
}
type GeminiRequest struct {
	Contents []GeminiContent `json:"contents"`
}
type GeminiCandidate struct {
	Content      GeminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}
type GeminiResponse struct {
	Candidates []GeminiCandidate `json:"candidates"`
}

// Shape wraps the prompt as a single-part content block.
func Shape(prompt string) GeminiRequest {
	return GeminiRequest{
		Contents: []GeminiContent{{Parts: []GeminiPart{{Text: prompt}}}},
	}
}

// Extract returns candidates[0].content.parts[0].text.
// An empty text is reported as not ok so the relay moves on to the next provider.
func Extract(resp *GeminiResponse) (string, bool) {
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", false
	}
	text := resp.Candidates[0].Content.Parts[0].Text
	return text, text != ""
}

func (a *Adapter) Complete(ctx context.Context, apiKey, prompt string) (string, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(a.config.BaseURL, "/"),
		a.config.Model,
		url.QueryEscape(apiKey),
	)

	var gResp GeminiResponse
	if err := httpclient.SendRequest(ctx, a.client, http.MethodPost, endpoint, a.config.Headers, Shape(prompt), &gResp); err != nil {
		return "", llm.FromHTTPError(a.Name(), err)
	}

	text, ok := Extract(&gResp)
	if !ok {
		return "", llm.NewError(llm.MalformedResponse, a.Name(), "no candidate text in gemini response", nil)
	}
	return text, nil
}
