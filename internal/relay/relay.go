package relay

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nulzo/shem-api/internal/llm"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ExhaustedMessage is the only failure text callers ever see.
const ExhaustedMessage = "Sorry, I encountered an error communicating with the AI service. Please check your API keys."

const defaultAttemptTimeout = 30 * time.Second

// Credentials returns a provider's API key, or "" when it has none. Implementations
// are consulted on every call.
type Credentials interface {
	APIKey(provider string) string
}

type Request struct {
	Prompt      string
	ContextData map[string]interface{}
}

type Result struct {
	Text     string
	Provider llm.ProviderName
}

// ProviderStatus describes one provider in priority order. Keys are never exposed.
type ProviderStatus struct {
	Name       llm.ProviderName `json:"name"`
	Type       string           `json:"type"`
	Configured bool             `json:"configured"`
}

// Service answers a question using the first provider that succeeds.
type Service interface {
	Chat(ctx context.Context, req Request) (*Result, error)
	Status() []ProviderStatus
}

type Option func(*Relay)

// WithAttemptTimeout bounds each provider call. Non-positive values are ignored.
func WithAttemptTimeout(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.attemptTimeout = d
		}
	}
}

// WithTracer overrides the tracer used for attempt spans.
func WithTracer(t trace.Tracer) Option {
	return func(r *Relay) {
		r.tracer = t
	}
}

// Relay tries providers strictly in order. It holds no mutable state, so one
// instance serves concurrent requests.
type Relay struct {
	providers      []llm.Provider
	creds          Credentials
	logger         *zap.Logger
	tracer         trace.Tracer
	attemptTimeout time.Duration
}

func New(logger *zap.Logger, providers []llm.Provider, creds Credentials, opts ...Option) *Relay {
	r := &Relay{
		providers:      append([]llm.Provider(nil), providers...),
		creds:          creds,
		logger:         logger,
		tracer:         otel.Tracer("github.com/nulzo/shem-api/internal/relay"),
		attemptTimeout: defaultAttemptTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Providers returns the names in the order they are tried.
func (r *Relay) Providers() []llm.ProviderName {
	names := make([]llm.ProviderName, len(r.providers))
	for i, p := range r.providers {
		names[i] = p.Name()
	}
	return names
}

// Status reports, in priority order, which providers currently have a credential.
func (r *Relay) Status() []ProviderStatus {
	out := make([]ProviderStatus, len(r.providers))
	for i, p := range r.providers {
		out[i] = ProviderStatus{
			Name:       p.Name(),
			Type:       p.Type(),
			Configured: r.creds.APIKey(string(p.Name())) != "",
		}
	}
	return out
}

func (r *Relay) Chat(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, llm.NewError(llm.InvalidRequest, "", "prompt must not be empty", nil)
	}

	prompt, err := ComposePrompt(req.Prompt, req.ContextData)
	if err != nil {
		return nil, llm.NewError(llm.InvalidRequest, "", "context data is not serializable", err)
	}

	log := r.logger.With(zap.String("request_id", RequestIDFromContext(ctx)))

	var failures []*llm.Error
	for _, p := range r.providers {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, exhausted(failures, ctxErr)
		}

		text, attemptErr := r.attempt(ctx, p, prompt)
		if attemptErr == nil {
			log.Info("Provider answered", zap.String("provider", string(p.Name())))
			return &Result{Text: text, Provider: p.Name()}, nil
		}

		var classified *llm.Error
		if !errors.As(attemptErr, &classified) {
			classified = llm.NewError(llm.TransportFailure, p.Name(), "request failed", attemptErr)
		}
		failures = append(failures, classified)

		if classified.Kind == llm.MissingCredential {
			log.Debug("Skipping provider without credential", zap.String("provider", string(p.Name())))
			continue
		}
		log.Warn("Provider failed, trying next",
			zap.String("provider", string(p.Name())),
			zap.String("kind", string(classified.Kind)),
			zap.Error(attemptErr),
		)
	}

	err = exhausted(failures, nil)
	log.Error("All providers failed", zap.Strings("attempts", attemptSummaries(failures)))
	return nil, err
}

// attempt performs at most one call against p.
func (r *Relay) attempt(ctx context.Context, p llm.Provider, prompt string) (string, error) {
	ctx, span := r.tracer.Start(ctx, "relay.attempt",
		trace.WithAttributes(attribute.String("llm.provider", string(p.Name()))))
	defer span.End()

	key := r.creds.APIKey(string(p.Name()))
	if key == "" {
		span.SetAttributes(attribute.String("relay.outcome", string(llm.MissingCredential)))
		return "", llm.NewError(llm.MissingCredential, p.Name(), "no API key configured", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, r.attemptTimeout)
	defer cancel()

	text, err := p.Complete(ctx, key, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider failed")
		span.SetAttributes(attribute.String("relay.outcome", string(llm.KindOf(err))))
		return "", err
	}

	span.SetAttributes(attribute.String("relay.outcome", "success"))
	return text, nil
}

func exhausted(failures []*llm.Error, cause error) *llm.Error {
	e := llm.NewError(llm.AllProvidersExhausted, "", ExhaustedMessage, cause)
	e.Attempts = failures
	return e
}

func attemptSummaries(failures []*llm.Error) []string {
	out := make([]string, len(failures))
	for i, f := range failures {
		out[i] = string(f.Provider) + "=" + string(f.Kind)
	}
	return out
}
