package curve

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"solana-launchpad/internal/domain"
)

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(decimal.Zero))
	assert.NoError(t, ValidateAmount(d("1.000000001")))
	assert.ErrorIs(t, ValidateAmount(d("-1")), ErrInvalidInput)
	assert.ErrorIs(t, ValidateAmount(d("0.0000000001")), ErrInvalidInput)
}

func TestValidateReserves(t *testing.T) {
	assert.NoError(t, ValidateReserves(launchReserves()))

	drained := launchReserves()
	drained.RealTokenReserves = drained.VirtualTokenReserves
	assert.ErrorIs(t, ValidateReserves(drained), ErrInvalidInput)

	negative := launchReserves()
	negative.RealSolReserves = d("-0.1")
	assert.ErrorIs(t, ValidateReserves(negative), ErrInvalidInput)

	assert.ErrorIs(t, ValidateReserves(domain.ReserveSnapshot{}), ErrInvalidInput)
}

func TestValidateSell(t *testing.T) {
	r := launchReserves()
	r.RealTokenReserves = d("100")

	assert.NoError(t, ValidateSell(d("100"), r))
	assert.ErrorIs(t, ValidateSell(d("100.5"), r), ErrInvalidInput)
}
