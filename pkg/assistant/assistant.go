package assistant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/javanetict/jnsuite/internal/logging"
	"github.com/javanetict/jnsuite/pkg/pricing"
)

// SourceRules names the keyword responder in replies and metrics.
const SourceRules = "rules"

// Context is what the assistant knows about the visitor.
type Context struct {
	Country  string
	Currency string
	Fee      pricing.Fee
}

// Reply is an answer and the backend that produced it.
type Reply struct {
	Text   string
	Source string
}

// Observer is told how each provider attempt went. err is nil on success.
type Observer func(provider string, err error)

// Assistant runs the provider fallback chain.
type Assistant struct {
	providers []Provider
	logger    *slog.Logger
	observe   Observer
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) {
		a.logger = logger
	}
}

// WithObserver registers a callback for provider outcomes.
func WithObserver(fn Observer) Option {
	return func(a *Assistant) {
		a.observe = fn
	}
}

// New creates an assistant over the given providers, tried in order.
func New(providers []Provider, opts ...Option) *Assistant {
	a := &Assistant{
		providers: providers,
		logger:    logging.NewNop(),
		observe:   func(string, error) {},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Config selects hosted providers.
type Config struct {
	OpenAIKey      string
	OpenAIModel    string
	AnthropicKey   string
	AnthropicModel string
	MaxTokens      int
	Temperature    float64
}

// Providers builds the hosted providers whose keys are usable.
func Providers(cfg Config, logger *slog.Logger) []Provider {
	if logger == nil {
		logger = logging.NewNop()
	}
	var out []Provider
	if UsableKey(cfg.OpenAIKey) {
		p, err := NewOpenAI(cfg.OpenAIKey, cfg.OpenAIModel, cfg.MaxTokens, cfg.Temperature)
		if err != nil {
			logger.Warn("openai provider disabled", "err", err)
		} else {
			out = append(out, p)
		}
	}
	if UsableKey(cfg.AnthropicKey) {
		p, err := NewAnthropic(cfg.AnthropicKey, cfg.AnthropicModel, cfg.MaxTokens, cfg.Temperature)
		if err != nil {
			logger.Warn("anthropic provider disabled", "err", err)
		} else {
			out = append(out, p)
		}
	}
	return out
}

// Reply answers a message. It never fails: when every hosted provider is
// unavailable the keyword responder answers.
func (a *Assistant) Reply(ctx context.Context, message string, c Context) Reply {
	system := SystemPrompt(c)
	for _, p := range a.providers {
		text, err := p.Complete(ctx, system, message)
		a.observe(p.Name(), err)
		if err == nil {
			return Reply{Text: text, Source: p.Name()}
		}
		a.logger.Warn("assistant provider failed, falling back", "provider", p.Name(), "err", err)
		if ctx.Err() != nil {
			break
		}
	}
	a.observe(SourceRules, nil)
	return Reply{Text: RuleBased(message, c), Source: SourceRules}
}

// SystemPrompt describes the company and the visitor's pricing context.
func SystemPrompt(c Context) string {
	symbol := "$"
	if c.Currency == pricing.NGN {
		symbol = "₦"
	}
	return fmt.Sprintf(`You are JN Assistant for JavaNet EdTech Suite.
Company: JavaNet ICT Solutions Ltd
Website: www.javanetict.com
Live Demo: ischool.ng
Location: %s
Currency: %s (%s)
Deployment Fee: %s one-time fee

Products:
1. CBT Testing System - Computer-based testing with automated grading
2. Live Classroom Platform - Interactive virtual classrooms

Key Features:
- White-label/custom branding
- One-time deployment fee (no monthly subscriptions)
- African countries: ₦5-10 million
- International: $10,000 USD
- Custom proposal generator
- Platform demo simulator

Always be helpful, professional, and encourage users to:
1. Try the live demo at ischool.ng
2. Use the platform simulator
3. Generate a custom proposal
4. Contact for consultation`, c.Country, c.Currency, symbol, c.Fee.Amount)
}
