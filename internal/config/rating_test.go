package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplacementRatioFor(t *testing.T) {
	params := DefaultRatingParams()

	cases := []struct {
		monthly float64
		ratio   float64
	}{
		{3000, 0.70},
		{5000, 0.70},
		{6000, 0.65},
		{12000, 0.60},
		{20000, 0.55},
		{25000, 0.55},
		{30000, 0.50},
	}
	for _, c := range cases {
		assert.Equal(t, c.ratio, params.ReplacementRatioFor(c.monthly), "monthly income %.0f", c.monthly)
	}

	// With no bands configured the default ratio applies regardless of
	// income.
	params.ReplacementBands = nil
	assert.Equal(t, 0.60, params.ReplacementRatioFor(3000))
	assert.Equal(t, 0.60, params.ReplacementRatioFor(50000))
}

func TestDefaultRatingParams(t *testing.T) {
	params := DefaultRatingParams()

	assert.Equal(t, 150.0, params.DefaultDailyBenefit)
	assert.Equal(t, 0.60, params.DefaultReplacementRatio)
	assert.Equal(t, 1.0, params.ModalDefaults["annual"].Factor)
	assert.Equal(t, 0.52, params.ModalDefaults["semiannual"].Factor)
	assert.Equal(t, 0.265, params.ModalDefaults["quarterly"].Factor)
	assert.Equal(t, 0.0875, params.ModalDefaults["monthly"].Factor)

	assert.NoError(t, validateRatingParams(params))
}

func TestValidateRatingParams(t *testing.T) {
	bad := DefaultRatingParams()
	bad.DefaultReplacementRatio = 0
	assert.Error(t, validateRatingParams(bad))

	bad = DefaultRatingParams()
	bad.DefaultDailyBenefit = -1
	assert.Error(t, validateRatingParams(bad))

	bad = DefaultRatingParams()
	bad.ReplacementBands = []ReplacementBand{
		{Ceiling: 10000, Ratio: 0.65},
		{Ceiling: 5000, Ratio: 0.70},
	}
	assert.Error(t, validateRatingParams(bad))

	bad = DefaultRatingParams()
	bad.ReplacementBands = []ReplacementBand{{Ceiling: 5000, Ratio: 1.5}}
	assert.Error(t, validateRatingParams(bad))

	bad = DefaultRatingParams()
	bad.ModalDefaults = map[string]ModalDefault{"monthly": {Factor: 0}}
	assert.Error(t, validateRatingParams(bad))
}

func TestRatingParamsHolder_CurrentDefaults(t *testing.T) {
	holder := &RatingParamsHolder{}
	params := holder.Current()
	assert.Equal(t, DefaultRatingParams().DefaultDailyBenefit, params.DefaultDailyBenefit)
}
