package plugin

import (
	"testing"
	"time"

	"github.com/michelevens/insureflow/internal/clock"
	"github.com/michelevens/insureflow/internal/rating/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_RejectsDuplicateClaim(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	_, err := NewRegistry(NewDisabilityPlugin(), NewDisabilityPlugin(), NewPCPlugin(clk))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disability")
}

func TestRegistry_Lookup(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	reg, err := NewRegistry(NewDisabilityPlugin(), NewLifePlugin(), NewPCPlugin(clk))
	require.NoError(t, err)

	for _, pt := range []string{
		domain.ProductDisability, domain.ProductLongTermCare, domain.ProductLife,
		domain.ProductAuto, domain.ProductHomeowners, domain.ProductWorkersComp,
	} {
		_, ok := reg.Lookup(pt)
		assert.True(t, ok, pt)
	}

	_, ok := reg.Lookup("pet")
	assert.False(t, ok)
}

func TestNormalizeSex(t *testing.T) {
	for raw, want := range map[string]string{
		"M": "M", "m": "M", "Male": "M", "MALE": "M",
		"F": "F", "f": "F", "female": "F", " Female ": "F",
	} {
		got, ok := NormalizeSex(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"", "x", "unknown", "men"} {
		_, ok := NormalizeSex(raw)
		assert.False(t, ok, raw)
	}
}

func TestBMIClass(t *testing.T) {
	// 5'10", 175 lbs: BMI ~25.1.
	got, ok := bmiClass(&domain.RateInput{HeightInches: 70, WeightLbs: 175})
	assert.True(t, ok)
	assert.Equal(t, "overweight", got)

	got, ok = bmiClass(&domain.RateInput{HeightInches: 70, WeightLbs: 150})
	assert.True(t, ok)
	assert.Equal(t, "normal", got)

	_, ok = bmiClass(&domain.RateInput{WeightLbs: 150})
	assert.False(t, ok)
}
