package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"solana-launchpad/internal/curve"
	"solana-launchpad/internal/lookup"
	"solana-launchpad/internal/market"
	"solana-launchpad/internal/settlement"
	"solana-launchpad/internal/storage"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// fail maps a service error to a response. Unexpected errors are logged and hidden.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, curve.ErrInvalidInput), errors.Is(err, storage.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, market.ErrGraduated), errors.Is(err, storage.ErrDuplicateKey):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, lookup.ErrNoCurveData), errors.Is(err, lookup.ErrBeforeHistory):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// statusFor maps a claim outcome to its HTTP status.
func statusFor(o settlement.Outcome) int {
	switch o {
	case settlement.OutcomeCompleted:
		return http.StatusOK
	case settlement.OutcomeInvalidInput:
		return http.StatusBadRequest
	case settlement.OutcomeLocked, settlement.OutcomeNothingLeft:
		return http.StatusConflict
	case settlement.OutcomeBelowMinimum:
		return http.StatusUnprocessableEntity
	case settlement.OutcomeRateLimited:
		return http.StatusTooManyRequests
	case settlement.OutcomeFailed:
		return http.StatusBadGateway
	case settlement.OutcomeInsufficientFunds:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
