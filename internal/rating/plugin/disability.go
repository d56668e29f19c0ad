package plugin

import (
	"fmt"
	"strconv"

	"github.com/michelevens/insureflow/internal/config"
	"github.com/michelevens/insureflow/internal/rating/domain"
	"github.com/michelevens/insureflow/internal/rating/engine"
)

// Issue age bounds per product family.
const (
	diMinAge  = 18
	diMaxAge  = 60
	ltcMinAge = 40
	ltcMaxAge = 79
)

// DisabilityPlugin rates individual disability income and long-term care.
// Both families share benefit-based exposure; DI normalizes per $100 of
// approved monthly benefit, LTC per $10 of daily benefit.
type DisabilityPlugin struct{}

func NewDisabilityPlugin() *DisabilityPlugin { return &DisabilityPlugin{} }

func (p *DisabilityPlugin) ProductTypes() []string {
	return []string{domain.ProductDisability, domain.ProductLongTermCare}
}

func (p *DisabilityPlugin) CheckEligibility(in *domain.RateInput) string {
	if _, ok := NormalizeSex(in.Sex); !ok {
		return fmt.Sprintf("sex %q is not recognized", in.Sex)
	}
	if NormalizeState(in.State) == "" {
		return "state is required"
	}
	switch in.ProductType {
	case domain.ProductLongTermCare:
		if in.Age < ltcMinAge || in.Age > ltcMaxAge {
			return fmt.Sprintf("issue age %d outside %d-%d", in.Age, ltcMinAge, ltcMaxAge)
		}
	default:
		if in.Age < diMinAge || in.Age > diMaxAge {
			return fmt.Sprintf("issue age %d outside %d-%d", in.Age, diMinAge, diMaxAge)
		}
		if in.AnnualIncome <= 0 {
			return "annual income is required for disability income"
		}
	}
	return ""
}

func (p *DisabilityPlugin) Exposure(in *domain.RateInput, params config.RatingParams) (float64, string) {
	if in.ProductType == domain.ProductLongTermCare {
		return ltcExposure(in, params)
	}
	return diExposure(in, params)
}

// diExposure caps the requested monthly benefit at the income-replacement
// maximum net of in-force coverage, then prices per $100 of benefit.
func diExposure(in *domain.RateInput, params config.RatingParams) (float64, string) {
	monthly := in.AnnualIncome / 12
	ratio := params.ReplacementRatioFor(monthly)
	maxBenefit := monthly*ratio - in.ExistingCoverageMonthly

	approved := maxBenefit
	if in.MonthlyBenefitRequested > 0 && in.MonthlyBenefitRequested < maxBenefit {
		approved = in.MonthlyBenefitRequested
	}
	if approved <= 0 {
		return 0, "no insurable benefit remains after existing coverage"
	}
	return approved / 100, ""
}

// ltcExposure resolves the daily benefit from a coverage record, the
// daily_benefit metadata key, or the configured default, then prices per
// $10 of daily benefit.
func ltcExposure(in *domain.RateInput, params config.RatingParams) (float64, string) {
	daily := 0.0
	for _, cov := range in.Coverages {
		if cov.CoverageCategory == "daily_benefit" && cov.BenefitAmount > 0 {
			daily = cov.BenefitAmount
			break
		}
	}
	if daily <= 0 {
		if v, ok := metaFloat(in, "daily_benefit"); ok {
			daily = v
		}
	}
	if daily <= 0 {
		daily = params.DefaultDailyBenefit
	}
	return daily / 10, ""
}

func (p *DisabilityPlugin) RateKeys(in *domain.RateInput) []string {
	sex, _ := NormalizeSex(in.Sex)
	age := strconv.Itoa(in.Age)
	state := NormalizeState(in.State)

	if in.ProductType == domain.ProductLongTermCare {
		period := in.BenefitPeriod
		if period == "" {
			period = engine.Wildcard
		}
		exact := []string{age, sex, state, period}
		return engine.DedupeKeys([]string{
			engine.BuildKey(exact),
			engine.BuildKey(engine.WithWildcards(exact, 3)),
			engine.BuildKey(engine.WithWildcards(exact, 2, 3)),
		})
	}

	occ := in.OccupationClass
	if occ == "" {
		occ = engine.Wildcard
	}
	uw := in.UWClass
	if uw == "" {
		uw = "standard"
	}
	exact := []string{age, sex, state, occ, uw}
	return engine.DedupeKeys([]string{
		engine.BuildKey(exact),
		engine.BuildKey(engine.WithWildcards(exact, 2)),
		engine.BuildKey(engine.WithWildcards(exact, 2, 4)),
	})
}

func (p *DisabilityPlugin) AutoSelectors() map[string]engine.AutoSelector {
	return map[string]engine.AutoSelector{
		"tobacco": tobaccoClass,
		"bmi":     bmiClass,
		"occupation_class": func(in *domain.RateInput) (string, bool) {
			return in.OccupationClass, in.OccupationClass != ""
		},
		"elimination_period": func(in *domain.RateInput) (string, bool) {
			if in.EliminationPeriodDays <= 0 {
				return "", false
			}
			return strconv.Itoa(in.EliminationPeriodDays), true
		},
		"benefit_period": func(in *domain.RateInput) (string, bool) {
			return in.BenefitPeriod, in.BenefitPeriod != ""
		},
		"definition_of_disability": func(in *domain.RateInput) (string, bool) {
			return in.DefinitionOfDisability, in.DefinitionOfDisability != ""
		},
	}
}
