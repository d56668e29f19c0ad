package plugin

import (
	"testing"

	"github.com/michelevens/insureflow/internal/config"
	"github.com/michelevens/insureflow/internal/rating/domain"
	"github.com/stretchr/testify/assert"
)

func diInput() *domain.RateInput {
	return &domain.RateInput{
		ProductType:             domain.ProductDisability,
		Age:                     35,
		Sex:                     "male",
		State:                   "ny",
		AnnualIncome:            72000,
		MonthlyBenefitRequested: 5000,
		OccupationClass:         "4A",
		UWClass:                 "standard",
	}
}

func TestDisability_Eligibility(t *testing.T) {
	p := NewDisabilityPlugin()

	assert.Empty(t, p.CheckEligibility(diInput()))

	tooYoung := diInput()
	tooYoung.Age = 17
	assert.NotEmpty(t, p.CheckEligibility(tooYoung))

	tooOld := diInput()
	tooOld.Age = 61
	assert.NotEmpty(t, p.CheckEligibility(tooOld))

	noIncome := diInput()
	noIncome.AnnualIncome = 0
	assert.NotEmpty(t, p.CheckEligibility(noIncome))

	badSex := diInput()
	badSex.Sex = "x"
	assert.NotEmpty(t, p.CheckEligibility(badSex))
}

func TestDisability_ExposureCapsAtReplacementMax(t *testing.T) {
	p := NewDisabilityPlugin()
	params := config.DefaultRatingParams()

	// $6,000/month income sits in the 0.65 band, so the max benefit is
	// $3,900 and the $5,000 request is capped there.
	exposure, reason := p.Exposure(diInput(), params)

	assert.Empty(t, reason)
	assert.Equal(t, 39.0, exposure)
}

func TestDisability_ExposureHonorsSmallerRequest(t *testing.T) {
	p := NewDisabilityPlugin()
	in := diInput()
	in.MonthlyBenefitRequested = 2000

	exposure, reason := p.Exposure(in, config.DefaultRatingParams())

	assert.Empty(t, reason)
	assert.Equal(t, 20.0, exposure)
}

func TestDisability_ExistingCoverageOffsetsBenefit(t *testing.T) {
	p := NewDisabilityPlugin()
	in := diInput()
	in.ExistingCoverageMonthly = 3900

	_, reason := p.Exposure(in, config.DefaultRatingParams())

	assert.NotEmpty(t, reason)
}

func TestDisability_HighIncomeFallsToFloorRatio(t *testing.T) {
	p := NewDisabilityPlugin()
	in := diInput()
	in.AnnualIncome = 600000 // $50,000/month, above every band
	in.MonthlyBenefitRequested = 0

	exposure, reason := p.Exposure(in, config.DefaultRatingParams())

	assert.Empty(t, reason)
	assert.Equal(t, 250.0, exposure) // 50000 * 0.50 / 100
}

func TestDisability_RateKeys(t *testing.T) {
	p := NewDisabilityPlugin()

	assert.Equal(t, []string{
		"35|M|NY|4A|standard",
		"35|M|*|4A|standard",
		"35|M|*|4A|*",
	}, p.RateKeys(diInput()))
}

func TestLTC_Eligibility(t *testing.T) {
	p := NewDisabilityPlugin()
	in := &domain.RateInput{
		ProductType: domain.ProductLongTermCare,
		Age:         55,
		Sex:         "f",
		State:       "FL",
	}

	assert.Empty(t, p.CheckEligibility(in))

	in.Age = 39
	assert.NotEmpty(t, p.CheckEligibility(in))
	in.Age = 80
	assert.NotEmpty(t, p.CheckEligibility(in))
}

func TestLTC_ExposureSources(t *testing.T) {
	p := NewDisabilityPlugin()
	params := config.DefaultRatingParams()

	fromCoverage := &domain.RateInput{
		ProductType: domain.ProductLongTermCare,
		Coverages: []domain.Coverage{
			{CoverageCategory: "daily_benefit", BenefitAmount: 200},
		},
	}
	exposure, _ := p.Exposure(fromCoverage, params)
	assert.Equal(t, 20.0, exposure)

	fromMetadata := &domain.RateInput{
		ProductType: domain.ProductLongTermCare,
		Metadata:    map[string]any{"daily_benefit": 120.0},
	}
	exposure, _ = p.Exposure(fromMetadata, params)
	assert.Equal(t, 12.0, exposure)

	defaulted := &domain.RateInput{ProductType: domain.ProductLongTermCare}
	exposure, _ = p.Exposure(defaulted, params)
	assert.Equal(t, 15.0, exposure)
}

func TestLTC_RateKeys(t *testing.T) {
	p := NewDisabilityPlugin()
	in := &domain.RateInput{
		ProductType:   domain.ProductLongTermCare,
		Age:           62,
		Sex:           "F",
		State:         "fl",
		BenefitPeriod: "3yr",
	}

	assert.Equal(t, []string{
		"62|F|FL|3yr",
		"62|F|FL|*",
		"62|F|*|*",
	}, p.RateKeys(in))

	in.BenefitPeriod = ""
	assert.Equal(t, []string{
		"62|F|FL|*",
		"62|F|*|*",
	}, p.RateKeys(in))
}
