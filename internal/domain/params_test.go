package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFirm(t *testing.T) {
	assert.NoError(t, ValidateFirm(Firm1))
	assert.NoError(t, ValidateFirm(Firm2))

	err := ValidateFirm(Firm(3))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownFirm)

	assert.ErrorIs(t, ValidateFirm(Firm(0)), ErrUnknownFirm)
	assert.ErrorIs(t, ValidateFirm(Firm(-1)), ErrUnknownFirm)
}

func TestFirmRival(t *testing.T) {
	assert.Equal(t, Firm2, Firm1.Rival())
	assert.Equal(t, Firm1, Firm2.Rival())
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	require.NoError(t, p.Validate())

	// El set documentado del experimento
	assert.Equal(t, 5.0, p.Beta0)
	assert.Equal(t, 2.0, p.BetaX)
	assert.Equal(t, 1.0, p.Alpha)
	assert.Equal(t, 1.0, p.SigmaD)
}

func TestParamsValidate(t *testing.T) {
	p := DefaultParams()
	p.Alpha = 0
	assert.Error(t, p.Validate())

	p = DefaultParams()
	p.SigmaD = -1
	assert.Error(t, p.Validate())
}

func TestTrueValues(t *testing.T) {
	p := DefaultParams()
	truth := p.TrueValues()
	require.Len(t, truth, 3)
	assert.Equal(t, 5.0, truth[0])
	assert.Equal(t, 2.0, truth[1])
	// El coeficiente del precio en la regresión es -α
	assert.Equal(t, -1.0, truth[2])
}
