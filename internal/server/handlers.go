package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jonathan/career-guide/internal/schemas"
	"github.com/jonathan/career-guide/internal/types"
	"go.uber.org/zap"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Message: "AI Career Guidance API is running!",
	})
}

// handleCatalog returns the options the profile form offers.
func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.catalog)
}

// handleGenerateGuidance validates a profile request and returns guidance for it.
func (s *Server) handleGenerateGuidance(w http.ResponseWriter, r *http.Request) {
	profile, err := s.decodeProfile(w, r)
	if err != nil {
		s.logger.Debug("rejected profile request",
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), errorMessage(err))
		return
	}

	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	rec, err := s.generator.Generate(ctx, profile)
	if err == nil && (rec == nil || rec.Empty()) {
		err = errors.New("generator returned no guidance")
	}
	if err != nil {
		s.logger.Error("guidance generation failed",
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), errorMessage(err))
		return
	}

	s.jsonResponse(w, http.StatusOK, rec)
}

// decodeProfile reads the body, checks it against the profile schema and
// builds a validated Profile.
func (s *Server) decodeProfile(w http.ResponseWriter, r *http.Request) (types.Profile, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return types.Profile{}, &ErrBodyTooLarge{Limit: maxErr.Limit}
		}
		return types.Profile{}, &ErrMalformedBody{Cause: err}
	}

	if len(bytes.TrimSpace(body)) == 0 || !json.Valid(body) {
		return types.Profile{}, &ErrMalformedBody{}
	}

	if err := schemas.ValidateProfile(body); err != nil {
		return types.Profile{}, err
	}

	var req types.ProfileRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return types.Profile{}, &ErrMalformedBody{Cause: err}
	}

	return types.NewProfile(req)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("error encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
