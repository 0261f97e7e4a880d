package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/javanetict/jnsuite/pkg/content"
	"github.com/javanetict/jnsuite/pkg/model"
)

func (s *Server) contentRoutes(r chi.Router) {
	r.Get("/features/", s.listFeatures(""))
	r.Get("/features/ctb_features/", s.listFeatures(model.FeatureCBT))
	r.Get("/features/live_features/", s.listFeatures(model.FeatureLive))
	r.Get("/features/general_features/", s.listFeatures(model.FeatureGeneral))

	r.Get("/testimonials/", s.listTestimonials(0))
	r.Get("/testimonials/recent/", s.listTestimonials(content.RecentTestimonials))

	r.Post("/core/contact/", s.SubmitContact)
	r.Group(func(r chi.Router) {
		r.Use(s.authenticated, s.adminOnly)
		r.Get("/core/contact/", s.ListContacts)
		r.Get("/core/clients/", s.ListClients)
	})
}

func (s *Server) listFeatures(featureType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		features, err := s.deps.Content.Features(r.Context(), featureType)
		if err != nil {
			s.writeError(w, r, err, plainError)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(features))
	}
}

func (s *Server) listTestimonials(limit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, err := s.deps.Content.Testimonials(r.Context(), limit)
		if err != nil {
			s.writeError(w, r, err, plainError)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(ts))
	}
}

// SubmitContact handles POST /api/core/contact/.
func (s *Server) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req content.ContactRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	c, err := s.deps.Content.SubmitContact(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Message sent successfully! We will get back to you within 24 hours.",
		"data":    c,
	})
}

// ListContacts handles GET /api/core/contact/ (admin).
func (s *Server) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.deps.Content.Contacts(r.Context())
	if err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(contacts))
}

// ListClients handles GET /api/core/clients/ (admin).
func (s *Server) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.deps.Content.Clients(r.Context())
	if err != nil {
		s.writeError(w, r, err, plainError)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(clients))
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
