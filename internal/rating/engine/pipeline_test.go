package engine

import (
	"testing"

	"github.com/michelevens/insureflow/internal/config"
	ratingdomain "github.com/michelevens/insureflow/internal/rating/domain"
	ratetabledomain "github.com/michelevens/insureflow/internal/ratetable/domain"
	"github.com/stretchr/testify/assert"
)

func TestRound2_HalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 97.5, Round2(97.5))
	assert.Equal(t, 1.13, Round2(1.125))
	assert.Equal(t, -1.13, Round2(-1.125))
	assert.Equal(t, 0.0, Round2(0.004))
}

func factorSnapshot() *ratetabledomain.Snapshot {
	return &ratetabledomain.Snapshot{
		Factors: []ratetabledomain.RateFactor{
			{FactorCode: "tobacco", OptionValue: "smoker", ApplyMode: ratetabledomain.FactorMultiply, FactorValue: 1.25, SortOrder: 10},
			{FactorCode: "tobacco", OptionValue: "non_smoker", ApplyMode: ratetabledomain.FactorMultiply, FactorValue: 1.0, SortOrder: 10},
			{FactorCode: "hazard", OptionValue: "aviation", ApplyMode: ratetabledomain.FactorAdd, FactorValue: 25, SortOrder: 20},
			{FactorCode: "group_discount", OptionValue: "association", ApplyMode: ratetabledomain.FactorSubtract, FactorValue: 10, SortOrder: 30},
		},
	}
}

func TestApplyFactors_ExplicitSelectionWins(t *testing.T) {
	in := &ratingdomain.RateInput{
		TobaccoUse:       false,
		FactorSelections: map[string]string{"tobacco": "smoker"},
	}
	auto := map[string]AutoSelector{
		"tobacco": func(*ratingdomain.RateInput) (string, bool) { return "non_smoker", true },
	}

	premium, applied := ApplyFactors(factorSnapshot(), in, auto, 100)

	assert.Equal(t, 125.0, premium)
	assert.Len(t, applied, 1)
	assert.Equal(t, "smoker", applied[0].Option)
	assert.Equal(t, "multiply", applied[0].Mode)
	assert.Equal(t, 125.0, applied[0].Premium)
}

func TestApplyFactors_AutoSelectAndModes(t *testing.T) {
	in := &ratingdomain.RateInput{
		FactorSelections: map[string]string{
			"hazard":         "aviation",
			"group_discount": "association",
		},
	}
	auto := map[string]AutoSelector{
		"tobacco": func(*ratingdomain.RateInput) (string, bool) { return "smoker", true },
	}

	premium, applied := ApplyFactors(factorSnapshot(), in, auto, 100)

	// 100 * 1.25 + 25 - 10, groups applied in sort order.
	assert.Equal(t, 140.0, premium)
	assert.Len(t, applied, 3)
	assert.Equal(t, "tobacco", applied[0].Code)
	assert.Equal(t, "hazard", applied[1].Code)
	assert.Equal(t, "group_discount", applied[2].Code)
}

func TestApplyFactors_UnmatchedSelectionSkipsGroup(t *testing.T) {
	in := &ratingdomain.RateInput{
		FactorSelections: map[string]string{"tobacco": "pipe_only"},
	}

	premium, applied := ApplyFactors(factorSnapshot(), in, nil, 100)

	assert.Equal(t, 100.0, premium)
	assert.Empty(t, applied)
}

func riderSnapshot() *ratetabledomain.Snapshot {
	return &ratetabledomain.Snapshot{
		Riders: []ratetabledomain.RateRider{
			{RiderCode: "cola", ApplyMode: ratetabledomain.RiderMultiply, RiderValue: 1.15, SortOrder: 10},
			{RiderCode: "residual", ApplyMode: ratetabledomain.RiderAdd, RiderValue: 0.35, IsDefault: true, SortOrder: 20},
		},
	}
}

func TestApplyRiders_DefaultAppliesWhenUnselected(t *testing.T) {
	in := &ratingdomain.RateInput{}

	premium, applied := ApplyRiders(riderSnapshot(), in, 40, 200)

	// Only the default residual rider: 0.35 * 40 exposure.
	assert.Equal(t, 214.0, premium)
	assert.Len(t, applied, 1)
	assert.Equal(t, "residual", applied[0].Code)
	assert.Equal(t, 14.0, applied[0].Charge)
}

func TestApplyRiders_ExplicitDeselectOverridesDefault(t *testing.T) {
	in := &ratingdomain.RateInput{
		RiderSelections: map[string]bool{"residual": false, "cola": true},
	}

	premium, applied := ApplyRiders(riderSnapshot(), in, 40, 200)

	// cola multiply charges against the premium entering the stage.
	assert.Equal(t, 230.0, premium)
	assert.Len(t, applied, 1)
	assert.Equal(t, "cola", applied[0].Code)
	assert.Equal(t, 30.0, applied[0].Charge)
}

func TestApplyFees_PercentUsesRunningPremium(t *testing.T) {
	snap := &ratetabledomain.Snapshot{
		Fees: []ratetabledomain.RateFee{
			{FeeCode: "policy_fee", FeeType: ratetabledomain.FeeTypeFee, ApplyMode: ratetabledomain.FeeAdd, FeeValue: 50, SortOrder: 10},
			{FeeCode: "state_surcharge", FeeType: ratetabledomain.FeeTypeFee, ApplyMode: ratetabledomain.FeePercent, FeeValue: 10, SortOrder: 20},
		},
	}

	premium, applied := ApplyFees(snap, 100)

	// 100 + 50, then 10% of 150.
	assert.Equal(t, 165.0, premium)
	assert.Len(t, applied, 2)
	assert.Equal(t, 15.0, applied[1].Amount)
}

func TestApplyFees_CreditSubtractsAndFloorsAtZero(t *testing.T) {
	snap := &ratetabledomain.Snapshot{
		Fees: []ratetabledomain.RateFee{
			{FeeCode: "group_credit", FeeType: ratetabledomain.FeeTypeCredit, ApplyMode: ratetabledomain.FeeAdd, FeeValue: 80, SortOrder: 10},
		},
	}

	premium, applied := ApplyFees(snap, 50)

	assert.Equal(t, 0.0, premium)
	assert.Equal(t, -80.0, applied[0].Amount)
}

func TestApplyFees_CreditWithNegativeValueStillSubtracts(t *testing.T) {
	snap := &ratetabledomain.Snapshot{
		Fees: []ratetabledomain.RateFee{
			{FeeCode: "group_credit", FeeType: ratetabledomain.FeeTypeCredit, ApplyMode: ratetabledomain.FeeAdd, FeeValue: -20, SortOrder: 10},
		},
	}

	premium, _ := ApplyFees(snap, 100)

	assert.Equal(t, 80.0, premium)
}

func TestModalConvert_TableRowWinsOverDefaults(t *testing.T) {
	snap := &ratetabledomain.Snapshot{
		Modals: []ratetabledomain.RateModalFactor{
			{Mode: ratetabledomain.ModeMonthly, Factor: 0.085, FlatFee: 2},
		},
	}
	params := config.DefaultRatingParams()

	got := ModalConvert(snap, params, ratetabledomain.ModeMonthly, 300)

	assert.Equal(t, 27.5, got.Premium)
	assert.Equal(t, 0.085, got.Factor)
	assert.Equal(t, 2.0, got.FlatFee)
}

func TestModalConvert_FallsBackToConfiguredDefaults(t *testing.T) {
	params := config.DefaultRatingParams()

	got := ModalConvert(&ratetabledomain.Snapshot{}, params, ratetabledomain.ModeMonthly, 300)

	assert.Equal(t, 26.25, got.Premium)
	assert.Equal(t, 0.0875, got.Factor)
}

func TestNormalizePaymentMode(t *testing.T) {
	assert.Equal(t, ratetabledomain.ModeAnnual, NormalizePaymentMode(""))
	assert.Equal(t, ratetabledomain.ModeAnnual, NormalizePaymentMode("weekly"))
	assert.Equal(t, ratetabledomain.ModeQuarterly, NormalizePaymentMode("quarterly"))
}
