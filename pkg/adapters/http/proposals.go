package http

import (
	"bytes"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/javanetict/jnsuite/pkg/pricing"
	"github.com/javanetict/jnsuite/pkg/proposal"
)

const pricingModel = "One-time deployment fee (no monthly subscriptions)"

func (s *Server) proposalRoutes(r chi.Router) {
	r.Post("/proposals/generate/", s.GenerateProposal)
	r.Post("/proposals/generate-pdf/", s.GenerateProposalPDF)
	r.Group(func(r chi.Router) {
		r.Use(s.authenticated, s.adminOnly)
		r.Get("/proposals/requests/", s.ListProposals)
		r.Get("/proposals/requests/{id}/", s.GetProposal)
	})
}

// GenerateProposal handles POST /api/proposals/generate/.
func (s *Server) GenerateProposal(w http.ResponseWriter, r *http.Request) {
	var req proposal.Request
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err, proposalError)
		return
	}
	req.IPAddress = pricing.ClientIP(r)

	res, err := s.deps.Proposals.Generate(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err, proposalError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"status":         "success",
		"message":        "Proposal generated successfully",
		"proposal_id":    res.Proposal.ID,
		"deployment_fee": res.Fee,
		"data":           res.Proposal,
	})
}

// GenerateProposalPDF handles POST /api/proposals/generate-pdf/. A body
// that only names a stored proposal is filled in from the store.
func (s *Server) GenerateProposalPDF(w http.ResponseWriter, r *http.Request) {
	var data proposal.Data
	if err := decode(r, &data); err != nil {
		s.writeError(w, r, err, proposalError)
		return
	}
	requestedID := data.ProposalID
	if data.ProposalID != "" && data.Institution == "" {
		p, err := s.deps.Proposals.Get(r.Context(), data.ProposalID)
		if err != nil {
			s.writeError(w, r, err, proposalError)
			return
		}
		data = proposal.DataFor(p)
	}

	var buf bytes.Buffer
	if err := proposal.RenderPDF(&buf, data, s.now()); err != nil {
		s.logger.Error("proposal PDF failed", "proposal_id", requestedID, "err", err)
		writeJSON(w, http.StatusInternalServerError, proposalError("Error generating PDF: "+err.Error(), s.now()))
		return
	}

	institution := data.Institution
	if institution == "" {
		institution = "Unknown"
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": proposal.Filename(requestedID, institution)}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Warn("proposal PDF write failed", "err", err)
	}
}

// ListProposals handles GET /api/proposals/requests/ (admin).
func (s *Server) ListProposals(w http.ResponseWriter, r *http.Request) {
	ps, err := s.deps.Proposals.List(r.Context())
	if err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(ps))
}

// GetProposal handles GET /api/proposals/requests/{id}/ (admin).
func (s *Server) GetProposal(w http.ResponseWriter, r *http.Request) {
	p, err := s.deps.Proposals.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DetectCurrency handles GET /api/currency/detect/.
func (s *Server) DetectCurrency(w http.ResponseWriter, r *http.Request) {
	loc := pricing.DetectLocation(r)
	fee := pricing.CalculateFee(pricing.Requirements{
		Country:           loc.Country,
		NeedsCBT:          true,
		EstimatedStudents: proposal.DefaultStudents,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"currency":       loc.Currency,
		"country":        loc.Country,
		"deployment_fee": fee,
		"pricing_model":  pricingModel,
	})
}

// demoTTL is how long a simulated platform stays up.
const demoTTL = 24 * time.Hour

type demoRequest struct {
	InstitutionName    string `json:"institution_name"`
	PrimaryColor       string `json:"primary_color"`
	SecondaryColor     string `json:"secondary_color"`
	AccentColor        string `json:"accent_color"`
	CBTEnabled         *bool  `json:"ctb_enabled"`
	LiveClassesEnabled bool   `json:"live_classes_enabled"`
}

// DemoSession is a branded preview of the platform.
type DemoSession struct {
	SessionID       string            `json:"session_id"`
	InstitutionName string            `json:"institution_name"`
	Branding        map[string]string `json:"branding"`
	Modules         map[string]bool   `json:"modules"`
	CreatedAt       string            `json:"created_at"`
	ExpiresAt       string            `json:"expires_at"`
}

// PlatformDemo handles POST /api/demo/platform/.
func (s *Server) PlatformDemo(w http.ResponseWriter, r *http.Request) {
	var req demoRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	or := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	cbt := true
	if req.CBTEnabled != nil {
		cbt = *req.CBTEnabled
	}

	now := s.now()
	demo := DemoSession{
		SessionID:       uuid.NewString(),
		InstitutionName: or(req.InstitutionName, "Your Institution"),
		Branding: map[string]string{
			"primary_color":   or(req.PrimaryColor, "#1A237E"),
			"secondary_color": or(req.SecondaryColor, "#00C853"),
			"accent_color":    or(req.AccentColor, "#7B1FA2"),
		},
		Modules: map[string]bool{
			"ctb":          cbt,
			"live_classes": req.LiveClassesEnabled,
		},
		CreatedAt: now.Format(time.RFC3339),
		ExpiresAt: now.Add(demoTTL).Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "success",
		"demo_session": demo,
		"message":      "Platform demo generated successfully",
	})
}
