// Package content serves the marketing catalogue (features, clients,
// testimonials) and accepts contact form submissions.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/javanetict/jnsuite/internal/logging"
	"github.com/javanetict/jnsuite/pkg/model"
	"github.com/javanetict/jnsuite/pkg/ports"
)

// RecentTestimonials is how many testimonials the recent listing returns.
const RecentTestimonials = 6

// DefaultSubject is used when a contact submission names none.
const DefaultSubject = "General Inquiry"

// ErrInvalidContact is returned for contact submissions that fail validation.
var ErrInvalidContact = errors.New("invalid contact submission")

// Repository is the storage the service reads and writes.
type Repository interface {
	Features(ctx context.Context, featureType string) ([]model.Feature, error)
	Clients(ctx context.Context) ([]model.Client, error)
	Testimonials(ctx context.Context, limit int) ([]model.Testimonial, error)
	CreateContact(ctx context.Context, c *model.Contact) error
	Contacts(ctx context.Context) ([]model.Contact, error)
}

// Testimonial is the public view of a testimonial.
type Testimonial struct {
	ID            uint      `json:"id"`
	Content       string    `json:"content"`
	Rating        int       `json:"rating"`
	ClientName    string    `json:"client_name"`
	ClientCountry string    `json:"client_country"`
	CreatedAt     time.Time `json:"created_at"`
}

// ContactRequest is a contact form submission.
type ContactRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Institution string `json:"institution"`
	Phone       string `json:"phone"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
}

// Service reads content and records contact submissions.
type Service struct {
	repo         Repository
	mailer       ports.Mailer
	contactEmail string
	logger       *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMailer notifies contactEmail of every contact submission.
func WithMailer(m ports.Mailer, contactEmail string) Option {
	return func(s *Service) {
		s.mailer = m
		s.contactEmail = contactEmail
	}
}

// NewService creates a content service.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Features lists features of one type, or all of them when featureType is empty.
func (s *Service) Features(ctx context.Context, featureType string) ([]model.Feature, error) {
	return s.repo.Features(ctx, featureType)
}

// Clients lists client institutions.
func (s *Service) Clients(ctx context.Context) ([]model.Client, error) {
	return s.repo.Clients(ctx)
}

// Testimonials lists featured testimonials, newest first. A positive limit
// caps the result.
func (s *Service) Testimonials(ctx context.Context, limit int) ([]Testimonial, error) {
	rows, err := s.repo.Testimonials(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Testimonial, 0, len(rows))
	for _, t := range rows {
		out = append(out, Testimonial{
			ID:            t.ID,
			Content:       t.Content,
			Rating:        t.Rating,
			ClientName:    t.Client.InstitutionName,
			ClientCountry: t.Client.Country,
			CreatedAt:     t.CreatedAt,
		})
	}
	return out, nil
}

// Contacts lists contact submissions, newest first.
func (s *Service) Contacts(ctx context.Context) ([]model.Contact, error) {
	return s.repo.Contacts(ctx)
}

// SubmitContact stores a submission and notifies the contact address.
// A failed notification is logged and does not fail the submission.
func (s *Service) SubmitContact(ctx context.Context, req ContactRequest) (*model.Contact, error) {
	c, err := req.contact()
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateContact(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save contact: %w", err)
	}

	if s.mailer != nil && s.contactEmail != "" {
		subject := "New Contact Form Submission: " + c.Subject
		if err := s.mailer.Send(ctx, s.contactEmail, subject, contactBody(c)); err != nil {
			s.logger.Error("contact notification failed", "contact_id", c.ID, "err", err)
		}
	}
	return c, nil
}

func (r ContactRequest) contact() (*model.Contact, error) {
	c := &model.Contact{
		Name:        strings.TrimSpace(r.Name),
		Email:       strings.TrimSpace(r.Email),
		Institution: strings.TrimSpace(r.Institution),
		Phone:       strings.TrimSpace(r.Phone),
		Subject:     strings.TrimSpace(r.Subject),
		Message:     strings.TrimSpace(r.Message),
	}
	switch {
	case c.Name == "":
		return nil, fmt.Errorf("%w: name is required", ErrInvalidContact)
	case c.Email == "":
		return nil, fmt.Errorf("%w: email is required", ErrInvalidContact)
	case c.Message == "":
		return nil, fmt.Errorf("%w: message is required", ErrInvalidContact)
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return nil, fmt.Errorf("%w: email is invalid", ErrInvalidContact)
	}
	if c.Subject == "" {
		c.Subject = DefaultSubject
	}
	if !slices.Contains(model.ContactSubjects, c.Subject) {
		return nil, fmt.Errorf("%w: unknown subject %q", ErrInvalidContact, c.Subject)
	}
	return c, nil
}

func contactBody(c *model.Contact) string {
	orNone := func(s string) string {
		if s == "" {
			return "Not provided"
		}
		return s
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", c.Name)
	fmt.Fprintf(&b, "Email: %s\n", c.Email)
	fmt.Fprintf(&b, "Phone: %s\n", orNone(c.Phone))
	fmt.Fprintf(&b, "Institution: %s\n", orNone(c.Institution))
	fmt.Fprintf(&b, "Subject: %s\n\n", c.Subject)
	fmt.Fprintf(&b, "Message:\n%s\n\n---\n", c.Message)
	fmt.Fprintf(&b, "Submitted at: %s\n", c.CreatedAt.Format("2006-01-02 15:04:05"))
	return b.String()
}
