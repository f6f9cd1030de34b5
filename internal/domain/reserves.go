package domain

import "github.com/shopspring/decimal"

// ReserveSnapshot is the virtual state of one bonding-curve market at quote time.
// Built fresh per request from the live market state; never persisted by the core.
type ReserveSnapshot struct {
	VirtualSolReserves   decimal.Decimal // base liquidity offset in SOL
	VirtualTokenReserves decimal.Decimal // base liquidity offset in tokens
	RealSolReserves      decimal.Decimal // SOL contributed by trades so far
	RealTokenReserves    decimal.Decimal // tokens removed from the curve by trades so far
}

// EffectiveSol returns virtual + real SOL reserves.
func (r ReserveSnapshot) EffectiveSol() decimal.Decimal {
	return r.VirtualSolReserves.Add(r.RealSolReserves)
}

// EffectiveToken returns virtual - real token reserves.
func (r ReserveSnapshot) EffectiveToken() decimal.Decimal {
	return r.VirtualTokenReserves.Sub(r.RealTokenReserves)
}

// Trade side constants
const (
	SideBuy  = "buy"
	SideSell = "sell"
)
