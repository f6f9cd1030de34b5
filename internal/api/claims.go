package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"solana-launchpad/internal/settlement"
)

type tokenBalanceJSON struct {
	TokenID   string          `json:"token_id"`
	Collected decimal.Decimal `json:"collected_sol"`
	Earned    decimal.Decimal `json:"earned_sol"`
	Paid      decimal.Decimal `json:"paid_sol"`
}

type claimableResponse struct {
	Surface     string             `json:"surface"`
	Beneficiary string             `json:"beneficiary"`
	Kind        string             `json:"kind"`
	TotalEarned decimal.Decimal    `json:"total_earned_sol"`
	TotalPaid   decimal.Decimal    `json:"total_paid_sol"`
	Claimable   decimal.Decimal    `json:"claimable_sol"`
	Uncapped    decimal.Decimal    `json:"uncapped_sol"`
	Capped      bool               `json:"capped"`
	MinClaim    decimal.Decimal    `json:"min_claim_sol"`
	Tokens      []tokenBalanceJSON `json:"tokens"`
}

func (s *Server) handleClaimable(w http.ResponseWriter, r *http.Request) {
	l, ok := s.ledger(w, r)
	if !ok {
		return
	}
	who, err := settlement.ParseBeneficiary(r.URL.Query().Get("beneficiary"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	scope, err := l.ResolveScope(r.Context(), who.Key)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	bal, err := l.ComputeClaimable(r.Context(), who.Key, scope)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := claimableResponse{
		Surface:     l.Surface().Name,
		Beneficiary: who.Key,
		Kind:        who.Kind.String(),
		TotalEarned: bal.TotalEarned,
		TotalPaid:   bal.TotalPaid,
		Claimable:   bal.Claimable,
		Uncapped:    bal.Uncapped,
		Capped:      bal.Capped(),
		MinClaim:    l.Surface().MinClaim,
		Tokens:      make([]tokenBalanceJSON, 0, len(bal.Tokens)),
	}
	for _, t := range bal.Tokens {
		resp.Tokens = append(resp.Tokens, tokenBalanceJSON{
			TokenID:   t.TokenID,
			Collected: t.Collected,
			Earned:    t.Earned,
			Paid:      t.Paid,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type cooldownResponse struct {
	Surface          string `json:"surface"`
	Beneficiary      string `json:"beneficiary"`
	CanClaim         bool   `json:"can_claim"`
	RemainingSeconds int64  `json:"remaining_seconds"`
	NextClaimAt      string `json:"next_claim_at,omitempty"`
	LastClaimAt      string `json:"last_claim_at,omitempty"`
}

func (s *Server) handleCooldown(w http.ResponseWriter, r *http.Request) {
	l, ok := s.ledger(w, r)
	if !ok {
		return
	}
	who, err := settlement.ParseBeneficiary(r.URL.Query().Get("beneficiary"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cd, err := l.CheckCooldown(r.Context(), who.Key)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cooldownResponse{
		Surface:          l.Surface().Name,
		Beneficiary:      who.Key,
		CanClaim:         cd.CanClaim,
		RemainingSeconds: cd.RemainingSeconds,
		NextClaimAt:      formatTime(cd.NextClaimAt),
		LastClaimAt:      formatTime(cd.LastClaimAt),
	})
}

type claimRequest struct {
	Beneficiary   string `json:"beneficiary"`
	PayoutAddress string `json:"payout_address,omitempty"`
}

type claimResponse struct {
	Outcome          string           `json:"outcome"`
	Reason           string           `json:"reason,omitempty"`
	Retryable        bool             `json:"retryable"`
	Surface          string           `json:"surface"`
	Beneficiary      string           `json:"beneficiary,omitempty"`
	PayoutAddress    string           `json:"payout_address,omitempty"`
	Amount           decimal.Decimal  `json:"amount_sol"`
	Signature        string           `json:"signature,omitempty"`
	RemainingSeconds int64            `json:"remaining_seconds,omitempty"`
	NextClaimAt      string           `json:"next_claim_at,omitempty"`
	Claimable        *decimal.Decimal `json:"claimable_sol,omitempty"`
	Distributions    int              `json:"distributions,omitempty"`
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	l, ok := s.ledger(w, r)
	if !ok {
		return
	}
	var req claimRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := l.Claim(r.Context(), settlement.ClaimRequest{
		Beneficiary:   req.Beneficiary,
		PayoutAddress: req.PayoutAddress,
	})
	if res == nil {
		s.fail(w, r, err)
		return
	}
	var recErr *settlement.RecordingError
	if err != nil && !errors.As(err, &recErr) {
		s.logger.Error("claim returned unexpected error", zap.Error(err))
	}

	resp := claimResponse{
		Outcome:          string(res.Outcome),
		Reason:           res.Reason,
		Retryable:        res.Outcome.Retryable(),
		Surface:          res.Surface,
		Beneficiary:      res.Beneficiary,
		PayoutAddress:    res.PayoutAddress,
		Amount:           res.Amount,
		Signature:        res.Signature,
		RemainingSeconds: res.RemainingSeconds,
		NextClaimAt:      formatTime(res.NextClaimAt),
		Distributions:    res.Distributions,
	}
	if res.Balance != nil {
		resp.Claimable = &res.Balance.Claimable
	}
	if res.Outcome == settlement.OutcomeRateLimited {
		w.Header().Set("Retry-After", strconv.FormatInt(res.RemainingSeconds, 10))
	}
	writeJSON(w, statusFor(res.Outcome), resp)
}
