package plugin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/michelevens/insureflow/internal/config"
	"github.com/michelevens/insureflow/internal/rating/domain"
	"github.com/michelevens/insureflow/internal/rating/engine"
)

const (
	lifeMinAge = 18
	lifeMaxAge = 75
)

// LifePlugin rates term life. Exposure is per $1,000 of face amount, and
// the rate key carries the tobacco segment directly (NT/T) rather than as
// a factor, matching how life tables are filed.
type LifePlugin struct{}

func NewLifePlugin() *LifePlugin { return &LifePlugin{} }

func (p *LifePlugin) ProductTypes() []string {
	return []string{domain.ProductLife}
}

func (p *LifePlugin) CheckEligibility(in *domain.RateInput) string {
	if _, ok := NormalizeSex(in.Sex); !ok {
		return fmt.Sprintf("sex %q is not recognized", in.Sex)
	}
	if NormalizeState(in.State) == "" {
		return "state is required"
	}
	if in.Age < lifeMinAge || in.Age > lifeMaxAge {
		return fmt.Sprintf("issue age %d outside %d-%d", in.Age, lifeMinAge, lifeMaxAge)
	}
	if faceAmount(in) <= 0 {
		return "face amount is required"
	}
	return ""
}

func (p *LifePlugin) Exposure(in *domain.RateInput, _ config.RatingParams) (float64, string) {
	return faceAmount(in) / 1000, ""
}

// faceAmount reads the death-benefit coverage record, falling back to the
// face_amount metadata key.
func faceAmount(in *domain.RateInput) float64 {
	for _, cov := range in.Coverages {
		if cov.CoverageCategory == "death_benefit" && cov.BenefitAmount > 0 {
			return cov.BenefitAmount
		}
	}
	if v, ok := metaFloat(in, "face_amount"); ok {
		return v
	}
	return 0
}

func (p *LifePlugin) RateKeys(in *domain.RateInput) []string {
	sex, _ := NormalizeSex(in.Sex)
	tobacco := "NT"
	if in.TobaccoUse {
		tobacco = "T"
	}
	uw := strings.ToLower(strings.TrimSpace(in.UWClass))
	if uw == "" {
		uw = "standard"
	}
	exact := []string{strconv.Itoa(in.Age), sex, tobacco, uw}
	return engine.DedupeKeys([]string{
		engine.BuildKey(exact),
		engine.BuildKey(engine.WithWildcards(exact, 3)),
	})
}

func (p *LifePlugin) AutoSelectors() map[string]engine.AutoSelector {
	return map[string]engine.AutoSelector{
		"tobacco": tobaccoClass,
		"bmi":     bmiClass,
		"uw_class": func(in *domain.RateInput) (string, bool) {
			uw := strings.ToLower(strings.TrimSpace(in.UWClass))
			return uw, uw != ""
		},
	}
}
