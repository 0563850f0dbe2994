// package http implements the HTTP transport layer for the service.
// It handles incoming requests, decodes them, calls the appropriate service methods,
// and encodes the responses.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mkosyakov/kedb-service/internal/apperrors"
	"github.com/mkosyakov/kedb-service/internal/auth"
	"github.com/mkosyakov/kedb-service/internal/service"
	"github.com/mkosyakov/kedb-service/internal/validation"
	"github.com/mkosyakov/kedb-service/pkg/logger/sl"
)

// Server holds the dependencies for the HTTP server, including the logger and service interfaces.
type Server struct {
	log         *slog.Logger
	authService service.AuthService
	records     service.RecordService
	assignments service.AssignmentService
	drafts      service.DraftService
	tokens      *auth.TokenManager
}

// NewServer creates a new instance of the HTTP server.
func NewServer(
	log *slog.Logger,
	as service.AuthService,
	rs service.RecordService,
	asg service.AssignmentService,
	ds service.DraftService,
	tokens *auth.TokenManager,
) *Server {
	return &Server{
		log:         log,
		authService: as,
		records:     rs,
		assignments: asg,
		drafts:      ds,
		tokens:      tokens,
	}
}

// Routes sets up the router with all middleware and API endpoints.
func (s *Server) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(s.requestID)
	mux.Use(s.logRequest)
	mux.Use(s.metricsMiddleware)

	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.PostLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Route("/kebd", func(r chi.Router) {
				r.Post("/", s.PostRecord)
				r.Get("/", s.GetRecords)
				r.Get("/archived", s.GetArchived)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.GetRecord)
					r.Put("/", s.PutRecord)
					r.Patch("/status", s.PatchRecordStatus)
					r.With(s.requireAdmin).Delete("/", s.DeleteRecord)
					r.Post("/assign", s.PostAssign)
					r.Post("/revert", s.PostRevert)
					r.Get("/history", s.GetHistory)
				})
			})

			r.Route("/drafts", func(r chi.Router) {
				r.Post("/", s.PostDraft)
				r.Get("/", s.GetDrafts)
				r.Put("/{id}", s.PutDraft)
				r.Delete("/{id}", s.DeleteDraft)
				r.Post("/{id}/submit", s.PostDraftSubmit)
			})
		})
	})

	return mux
}

// respond is a helper function to encode data to JSON and write it to the response.
// It centralizes setting the Content-Type header and writing the status code.
func (s *Server) respond(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.log.Error("failed to encode response", sl.Err(err))
		}
	}
}

// respondError is a convenience wrapper around respond for sending simple error messages.
func (s *Server) respondError(w http.ResponseWriter, code int, message string) {
	s.respond(w, code, map[string]string{"error": message})
}

// decodeAndValidate is a helper that deserializes a JSON request body into a struct
// and then runs validation checks on it.
func (s *Server) decodeAndValidate(r *http.Request, v interface{}) error {
	if err := s.decode(r.Body, v); err != nil {
		return err
	}

	if err := validation.ValidateStruct(v); err != nil {
		return err
	}

	return nil
}

// decode is a helper function to decode a JSON request body.
func (s *Server) decode(body io.ReadCloser, v interface{}) error {
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
	}

	return nil
}

// handleServiceError provides centralized error handling for all HTTP handlers.
// It logs the internal error and maps it to a user-friendly HTTP response.
func (s *Server) handleServiceError(w http.ResponseWriter, _ *http.Request, op string, err error) {
	log := s.log.With(slog.String("op", op))
	log.Error("service error occurred", sl.Err(err))

	var validationErr *validation.ValidationError

	switch {
	case errors.As(err, &validationErr):
		wrappedErr := fmt.Errorf("%w: %s", apperrors.ErrValidation, validationErr.Error())
		s.respondError(w, http.StatusBadRequest, wrappedErr.Error())
	case errors.Is(err, apperrors.ErrInvalidRequest):
		s.respondError(w, http.StatusBadRequest, "invalid request body")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		s.respondError(w, http.StatusUnauthorized, "invalid username or password")
	case errors.Is(err, apperrors.ErrUnauthorized):
		s.respondError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, apperrors.ErrForbidden):
		s.respondError(w, http.StatusForbidden, "operation not permitted")
	case errors.Is(err, apperrors.ErrNoActiveAssignment):
		s.respondError(w, http.StatusNotFound, apperrors.ErrNoActiveAssignment.Error())
	case errors.Is(err, apperrors.ErrNoPreviousHolder):
		s.respondError(w, http.StatusNotFound, apperrors.ErrNoPreviousHolder.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, apperrors.ErrDuplicateErrorID):
		s.respondError(w, http.StatusConflict, "record code already taken, retry the request")
	case errors.Is(err, apperrors.ErrAssignmentConflict):
		s.respondError(w, http.StatusConflict, "record was assigned concurrently, retry the request")
	default:
		s.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
