package middleware

import (
	"context"
	"regexp"

	"github.com/javanetict/jnsuite/pkg/domain"
	"github.com/javanetict/jnsuite/pkg/ports"
)

// Mask replaces every PII match in stored content.
const Mask = "***"

// DefaultPIIPatterns match email addresses and phone numbers.
var DefaultPIIPatterns = []string{
	`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`,
	`\+?\d[\d\s\-]{8,}\d`,
}

type piiMiddleware struct {
	next     ports.MessageLog
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks matches of the patterns
// in message content before it is stored. Masking is one-way.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		patterns[i] = re
	}
	return func(next ports.MessageLog) ports.MessageLog {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Append(ctx context.Context, msg domain.Message) error {
	for _, p := range m.patterns {
		msg.Content = p.ReplaceAllString(msg.Content, Mask)
	}
	return m.next.Append(ctx, msg)
}

func (m *piiMiddleware) History(ctx context.Context, sessionID string) ([]domain.Message, error) {
	return m.next.History(ctx, sessionID)
}
