package curve

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	threshold := d("85")

	tests := []struct {
		name      string
		realSol   string
		progress  string
		remaining string
		graduated bool
	}{
		{"fresh market", "0", "0", "85", false},
		{"halfway", "42.5", "50", "42.5", false},
		{"exactly at threshold", "85", "100", "0", true},
		{"past threshold", "90", "100", "0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := launchReserves()
			r.RealSolReserves = d(tt.realSol)

			g := Progress(r, threshold)

			assert.True(t, g.ProgressPct.Equal(d(tt.progress)), "progress %s", g.ProgressPct)
			assert.True(t, g.RemainingSol.Equal(d(tt.remaining)), "remaining %s", g.RemainingSol)
			assert.Equal(t, tt.graduated, g.Graduated)
		})
	}
}

func TestProgress_Disabled(t *testing.T) {
	g := Progress(launchReserves(), decimal.Zero)
	assert.False(t, g.Graduated)
	assert.True(t, g.ProgressPct.IsZero())
}

func TestApply_BuyThenSell(t *testing.T) {
	r := launchReserves()
	buy := QuoteBuy(d("5"), r)
	after := Apply(r, buy)

	assert.True(t, after.RealSolReserves.Equal(d("5")))
	assert.True(t, after.RealTokenReserves.Equal(buy.OutputAmount))

	sell := QuoteSell(after.RealTokenReserves, after)
	back := Apply(after, sell)
	assert.True(t, back.RealTokenReserves.IsZero())
	assert.False(t, back.RealSolReserves.IsNegative())
}
