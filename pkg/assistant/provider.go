package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"
)

// Provider is a hosted completion backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, system, message string) (string, error)
}

// ErrEmptyReply is returned when a provider answers with no text.
var ErrEmptyReply = errors.New("provider returned an empty reply")

// minKeyLength filters out placeholder keys such as "changeme".
const minKeyLength = 10

// UsableKey reports whether an API key looks real enough to try.
func UsableKey(key string) bool {
	return len(strings.TrimSpace(key)) > minKeyLength
}

// LLM adapts a langchaingo model to Provider.
type LLM struct {
	name        string
	model       llms.Model
	maxTokens   int
	temperature float64
}

// NewLLM wraps an existing langchaingo model.
func NewLLM(name string, model llms.Model, maxTokens int, temperature float64) *LLM {
	return &LLM{name: name, model: model, maxTokens: maxTokens, temperature: temperature}
}

// NewOpenAI creates an OpenAI backed provider.
func NewOpenAI(key, model string, maxTokens int, temperature float64) (*LLM, error) {
	m, err := openai.New(
		openai.WithToken(key),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create openai model: %w", err)
	}
	return NewLLM("openai", m, maxTokens, temperature), nil
}

// NewAnthropic creates an Anthropic backed provider.
func NewAnthropic(key, model string, maxTokens int, temperature float64) (*LLM, error) {
	m, err := anthropic.New(
		anthropic.WithToken(key),
		anthropic.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create anthropic model: %w", err)
	}
	return NewLLM("anthropic", m, maxTokens, temperature), nil
}

// Name implements Provider.
func (l *LLM) Name() string {
	return l.name
}

// Complete implements Provider.
func (l *LLM) Complete(ctx context.Context, system, message string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, message),
	}

	var opts []llms.CallOption
	if l.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(l.maxTokens))
	}
	opts = append(opts, llms.WithTemperature(l.temperature))

	resp, err := l.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("%s: %w", l.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}
	text := strings.TrimSpace(resp.Choices[0].Content)
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
