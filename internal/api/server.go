// Package api exposes curve quotes, market history and creator fee claims over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/market"
	"solana-launchpad/internal/observability"
	"solana-launchpad/internal/settlement"
)

const shutdownTimeout = 10 * time.Second

// Market is the quoting and history side of the launchpad.
type Market interface {
	Quote(side string, amount decimal.Decimal, r domain.ReserveSnapshot, slippageBps int64) (*market.QuoteResult, error)
	Observe(ctx context.Context, tokenID string, r domain.ReserveSnapshot, at time.Time) (*domain.CurvePoint, error)
	History(ctx context.Context, tokenID string, start, end time.Time) ([]*domain.CurvePoint, error)
	PointAt(ctx context.Context, tokenID string, at time.Time) (*domain.CurvePoint, error)
}

// Ledger is a fee settlement ledger for one surface.
type Ledger interface {
	Surface() settlement.Surface
	ResolveScope(ctx context.Context, beneficiary string) ([]string, error)
	ComputeClaimable(ctx context.Context, beneficiary string, tokenIDs []string) (*settlement.Balance, error)
	CheckCooldown(ctx context.Context, beneficiary string) (settlement.CooldownStatus, error)
	Claim(ctx context.Context, req settlement.ClaimRequest) (*settlement.ClaimResult, error)
}

// Server serves the HTTP API.
type Server struct {
	market  Market
	ledgers map[string]Ledger
	logger  *zap.Logger
	now     func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithClock sets the clock used for observation timestamps and history defaults.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer creates a server over a market service and one ledger per surface.
func NewServer(m Market, ledgers []Ledger, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		market:  m,
		ledgers: make(map[string]Ledger, len(ledgers)),
		logger:  logger.Named("api"),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, l := range ledgers {
		s.ledgers[l.Surface().Name] = l
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", observability.Handler())

	mux.HandleFunc("POST /v1/quote/buy", s.handleQuote(domain.SideBuy))
	mux.HandleFunc("POST /v1/quote/sell", s.handleQuote(domain.SideSell))
	mux.HandleFunc("POST /v1/markets/{token}/observations", s.handleObserve)
	mux.HandleFunc("GET /v1/markets/{token}/history", s.handleHistory)
	mux.HandleFunc("GET /v1/markets/{token}/price", s.handlePrice)

	mux.HandleFunc("GET /v1/surfaces/{surface}/claimable", s.handleClaimable)
	mux.HandleFunc("GET /v1/surfaces/{surface}/cooldown", s.handleCooldown)
	mux.HandleFunc("POST /v1/surfaces/{surface}/claims", s.handleClaim)

	return s.logRequests(mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

func (s *Server) ledger(w http.ResponseWriter, r *http.Request) (Ledger, bool) {
	name := r.PathValue("surface")
	l, ok := s.ledgers[name]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown surface %q", name))
		return nil, false
	}
	return l, true
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
			return
		}
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
