package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"solana-launchpad/internal/curve"
	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/market"
)

const defaultHistoryWindow = 24 * time.Hour

type reservesJSON struct {
	VirtualSol   decimal.Decimal `json:"virtual_sol"`
	VirtualToken decimal.Decimal `json:"virtual_token"`
	RealSol      decimal.Decimal `json:"real_sol"`
	RealToken    decimal.Decimal `json:"real_token"`
}

func (r reservesJSON) snapshot() domain.ReserveSnapshot {
	return domain.ReserveSnapshot{
		VirtualSolReserves:   r.VirtualSol,
		VirtualTokenReserves: r.VirtualToken,
		RealSolReserves:      r.RealSol,
		RealTokenReserves:    r.RealToken,
	}
}

func toReservesJSON(r domain.ReserveSnapshot) reservesJSON {
	return reservesJSON{
		VirtualSol:   r.VirtualSolReserves,
		VirtualToken: r.VirtualTokenReserves,
		RealSol:      r.RealSolReserves,
		RealToken:    r.RealTokenReserves,
	}
}

type quoteRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Reserves    reservesJSON    `json:"reserves"`
	SlippageBps int64           `json:"slippage_bps"`
}

type graduationJSON struct {
	ThresholdSol decimal.Decimal `json:"threshold_sol"`
	ProgressPct  decimal.Decimal `json:"progress_pct"`
	RemainingSol decimal.Decimal `json:"remaining_sol"`
	Graduated    bool            `json:"graduated"`
}

type quoteResponse struct {
	Side            string          `json:"side"`
	InputAmount     decimal.Decimal `json:"input_amount"`
	OutputAmount    decimal.Decimal `json:"output_amount"`
	MinimumOutput   decimal.Decimal `json:"minimum_output"`
	SpotPriceBefore decimal.Decimal `json:"spot_price_before"`
	ExecutionPrice  decimal.Decimal `json:"execution_price"`
	PriceImpactPct  decimal.Decimal `json:"price_impact_pct"`
	NewSpotPrice    decimal.Decimal `json:"new_spot_price"`
	ReservesAfter   reservesJSON    `json:"reserves_after"`
	Graduation      graduationJSON  `json:"graduation"`
	WouldGraduate   bool            `json:"would_graduate"`
}

func toQuoteResponse(res *market.QuoteResult) quoteResponse {
	q := res.Quote
	return quoteResponse{
		Side:            q.Side,
		InputAmount:     q.InputAmount,
		OutputAmount:    q.OutputAmount,
		MinimumOutput:   res.MinimumOutput,
		SpotPriceBefore: q.SpotPriceBefore,
		ExecutionPrice:  q.ExecutionPrice,
		PriceImpactPct:  q.PriceImpactPct,
		NewSpotPrice:    q.NewSpotPrice,
		ReservesAfter:   toReservesJSON(res.ReservesAfter),
		Graduation: graduationJSON{
			ThresholdSol: res.After.ThresholdSol,
			ProgressPct:  res.After.ProgressPct,
			RemainingSol: res.After.RemainingSol,
			Graduated:    res.After.Graduated,
		},
		WouldGraduate: res.WouldGraduate,
	}
}

func (s *Server) handleQuote(side string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req quoteRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		res, err := s.market.Quote(side, req.Amount, req.Reserves.snapshot(), req.SlippageBps)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toQuoteResponse(res))
	}
}

type observationRequest struct {
	Reserves    reservesJSON `json:"reserves"`
	TimestampMs int64        `json:"timestamp_ms"` // defaults to now
}

type curvePointJSON struct {
	TokenID        string          `json:"token_id"`
	TimestampMs    int64           `json:"timestamp_ms"`
	SpotPrice      decimal.Decimal `json:"spot_price"`
	EffectiveSol   decimal.Decimal `json:"effective_sol"`
	EffectiveToken decimal.Decimal `json:"effective_token"`
	RealSol        decimal.Decimal `json:"real_sol"`
	MarketCapSol   decimal.Decimal `json:"market_cap_sol"`
	ProgressPct    decimal.Decimal `json:"progress_pct"`
}

func toCurvePointJSON(p *domain.CurvePoint) curvePointJSON {
	return curvePointJSON{
		TokenID:        p.TokenID,
		TimestampMs:    p.TimestampMs,
		SpotPrice:      p.SpotPrice,
		EffectiveSol:   p.EffectiveSol,
		EffectiveToken: p.EffectiveToken,
		RealSol:        p.RealSol,
		MarketCapSol:   p.MarketCapSol,
		ProgressPct:    p.ProgressPct,
	}
}

func (s *Server) handleObserve(w http.ResponseWriter, r *http.Request) {
	var req observationRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	at := s.now()
	if req.TimestampMs > 0 {
		at = time.UnixMilli(req.TimestampMs)
	}

	p, err := s.market.Observe(r.Context(), r.PathValue("token"), req.Reserves.snapshot(), at)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCurvePointJSON(p))
}

type historyResponse struct {
	TokenID string           `json:"token_id"`
	Start   string           `json:"start"`
	End     string           `json:"end"`
	Points  []curvePointJSON `json:"points"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	end, err := parseTimeParam(r, "end", s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	start, err := parseTimeParam(r, "start", end.Add(-defaultHistoryWindow))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	token := r.PathValue("token")
	points, err := s.market.History(r.Context(), token, start, end)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := historyResponse{
		TokenID: token,
		Start:   formatTime(start),
		End:     formatTime(end),
		Points:  make([]curvePointJSON, 0, len(points)),
	}
	for _, p := range points {
		resp.Points = append(resp.Points, toCurvePointJSON(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	at, err := parseTimeParam(r, "at", s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := s.market.PointAt(r.Context(), r.PathValue("token"), at)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCurvePointJSON(p))
}

// parseTimeParam reads an RFC3339 query parameter, falling back to def when absent.
func parseTimeParam(r *http.Request, name string, def time.Time) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be RFC3339", curve.ErrInvalidInput, name)
	}
	return t, nil
}
