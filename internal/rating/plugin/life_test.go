package plugin

import (
	"testing"

	"github.com/michelevens/insureflow/internal/config"
	"github.com/michelevens/insureflow/internal/rating/domain"
	"github.com/stretchr/testify/assert"
)

func lifeInput() *domain.RateInput {
	return &domain.RateInput{
		ProductType: domain.ProductLife,
		Age:         40,
		Sex:         "female",
		State:       "CA",
		Coverages: []domain.Coverage{
			{CoverageCategory: "death_benefit", BenefitAmount: 250000},
		},
	}
}

func TestLife_Eligibility(t *testing.T) {
	p := NewLifePlugin()

	assert.Empty(t, p.CheckEligibility(lifeInput()))

	tooOld := lifeInput()
	tooOld.Age = 76
	assert.NotEmpty(t, p.CheckEligibility(tooOld))

	noFace := lifeInput()
	noFace.Coverages = nil
	assert.NotEmpty(t, p.CheckEligibility(noFace))
}

func TestLife_ExposurePerThousandOfFace(t *testing.T) {
	p := NewLifePlugin()

	exposure, reason := p.Exposure(lifeInput(), config.DefaultRatingParams())

	assert.Empty(t, reason)
	assert.Equal(t, 250.0, exposure)
}

func TestLife_FaceAmountFromMetadata(t *testing.T) {
	p := NewLifePlugin()
	in := lifeInput()
	in.Coverages = nil
	in.Metadata = map[string]any{"face_amount": 100000.0}

	assert.Empty(t, p.CheckEligibility(in))
	exposure, _ := p.Exposure(in, config.DefaultRatingParams())
	assert.Equal(t, 100.0, exposure)
}

func TestLife_RateKeysCarryTobaccoSegment(t *testing.T) {
	p := NewLifePlugin()

	assert.Equal(t, []string{
		"40|F|NT|standard",
		"40|F|NT|*",
	}, p.RateKeys(lifeInput()))

	smoker := lifeInput()
	smoker.TobaccoUse = true
	smoker.UWClass = "Preferred"
	assert.Equal(t, []string{
		"40|F|T|preferred",
		"40|F|T|*",
	}, p.RateKeys(smoker))
}
