// Package proposal turns quote requests into persisted proposals and
// printable PDF documents.
package proposal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/javanetict/jnsuite/internal/logging"
	"github.com/javanetict/jnsuite/pkg/model"
	"github.com/javanetict/jnsuite/pkg/pricing"
)

// ErrMissingField is matched by every FieldError.
var ErrMissingField = errors.New("missing required field")

// FieldError names a required field that was left empty.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return e.Field + " is required"
}

func (e *FieldError) Is(target error) bool {
	return target == ErrMissingField
}

// Defaults applied when a request leaves the value out.
const (
	DefaultStudents = 100
	DefaultTeachers = 10
)

// Repository persists proposal requests.
type Repository interface {
	Create(ctx context.Context, p *model.ProposalRequest) error
	Get(ctx context.Context, id string) (*model.ProposalRequest, error)
	List(ctx context.Context) ([]model.ProposalRequest, error)
}

// Request is an incoming quote request. Pointer fields distinguish
// "not sent" from an explicit zero or false.
type Request struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Institution       string `json:"institution"`
	Phone             string `json:"phone"`
	Country           string `json:"country"`
	NeedsCBT          *bool  `json:"needs_ctb"`
	NeedsLiveClasses  bool   `json:"needs_live_classes"`
	EstimatedStudents *int   `json:"estimated_students"`
	EstimatedTeachers *int   `json:"estimated_teachers"`
	PreferredColors   string `json:"preferred_colors"`
	HasLogo           bool   `json:"has_logo"`
	IPAddress         string `json:"-"`
}

// Validate reports the first missing required field.
func (r Request) Validate() error {
	required := []struct{ name, value string }{
		{"name", r.Name},
		{"email", r.Email},
		{"institution", r.Institution},
		{"country", r.Country},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &FieldError{Field: f.name}
		}
	}
	return nil
}

// Result is a stored proposal and its quote.
type Result struct {
	Proposal *model.ProposalRequest
	Fee      pricing.Fee
}

// Service generates and looks up proposals.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a proposal service.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate validates a request, prices it and stores it as GENERATED.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	needsCBT := true
	if req.NeedsCBT != nil {
		needsCBT = *req.NeedsCBT
	}
	students := DefaultStudents
	if req.EstimatedStudents != nil {
		students = *req.EstimatedStudents
	}
	teachers := DefaultTeachers
	if req.EstimatedTeachers != nil {
		teachers = *req.EstimatedTeachers
	}

	fee := pricing.CalculateFee(pricing.Requirements{
		Country:           req.Country,
		NeedsCBT:          needsCBT,
		NeedsLiveClasses:  req.NeedsLiveClasses,
		EstimatedStudents: students,
	})

	p := &model.ProposalRequest{
		Name:              strings.TrimSpace(req.Name),
		Email:             strings.TrimSpace(req.Email),
		Institution:       strings.TrimSpace(req.Institution),
		Phone:             req.Phone,
		Country:           strings.TrimSpace(req.Country),
		NeedsCBT:          needsCBT,
		NeedsLiveClasses:  req.NeedsLiveClasses,
		EstimatedStudents: students,
		EstimatedTeachers: teachers,
		PreferredColors:   req.PreferredColors,
		HasLogo:           req.HasLogo,
		Currency:          fee.Currency,
		DeploymentFee:     fee.Amount,
		Status:            model.ProposalGenerated,
		IPAddress:         req.IPAddress,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save proposal: %w", err)
	}

	s.logger.Info("proposal generated",
		"proposal_id", p.ID,
		"institution", p.Institution,
		"country", p.Country,
		"fee", fee.Amount)

	return &Result{Proposal: p, Fee: fee}, nil
}

// Get returns one stored proposal.
func (s *Service) Get(ctx context.Context, id string) (*model.ProposalRequest, error) {
	return s.repo.Get(ctx, id)
}

// List returns stored proposals, newest first.
func (s *Service) List(ctx context.Context) ([]model.ProposalRequest, error) {
	return s.repo.List(ctx)
}

// DataFor builds PDF input from a stored proposal.
func DataFor(p *model.ProposalRequest) Data {
	return Data{
		ProposalID:        p.ID,
		Name:              p.Name,
		Email:             p.Email,
		Institution:       p.Institution,
		Phone:             p.Phone,
		Country:           p.Country,
		NeedsCBT:          p.NeedsCBT,
		NeedsLiveClasses:  p.NeedsLiveClasses,
		EstimatedStudents: p.EstimatedStudents,
		EstimatedTeachers: p.EstimatedTeachers,
		DeploymentFee:     Amount(p.DeploymentFee),
	}
}

// TempID names a proposal PDF rendered without a stored proposal.
func TempID(now time.Time) string {
	return "TEMP_" + now.Format("20060102_150405")
}
