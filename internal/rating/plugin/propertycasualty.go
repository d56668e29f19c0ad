package plugin

import (
	"fmt"
	"strings"

	"github.com/michelevens/insureflow/internal/clock"
	"github.com/michelevens/insureflow/internal/config"
	"github.com/michelevens/insureflow/internal/rating/domain"
	"github.com/michelevens/insureflow/internal/rating/engine"
)

const (
	pcMinAge = 18
	pcMaxAge = 99
)

// Vehicle age class cutoffs in years.
const (
	vehicleNewMaxAge      = 3
	vehicleStandardMaxAge = 10
)

// PCPlugin rates the property & casualty lines. Exposure depends on the
// sub-line: vehicle count for vehicle lines, insured value per $1,000 for
// property, aggregate limit per $1M for liability, and annual payroll per
// $100 for workers' comp. The rate key is state plus a line descriptor.
type PCPlugin struct {
	clk clock.Clock
}

func NewPCPlugin(clk clock.Clock) *PCPlugin { return &PCPlugin{clk: clk} }

func (p *PCPlugin) ProductTypes() []string {
	return []string{
		domain.ProductAuto,
		domain.ProductMotorcycle,
		domain.ProductBoat,
		domain.ProductRV,
		domain.ProductHomeowners,
		domain.ProductRenters,
		domain.ProductCommercialProperty,
		domain.ProductGeneralLiability,
		domain.ProductUmbrella,
		domain.ProductWorkersComp,
	}
}

func isVehicleLine(productType string) bool {
	switch productType {
	case domain.ProductAuto, domain.ProductMotorcycle, domain.ProductBoat, domain.ProductRV:
		return true
	}
	return false
}

func isPropertyLine(productType string) bool {
	switch productType {
	case domain.ProductHomeowners, domain.ProductRenters, domain.ProductCommercialProperty:
		return true
	}
	return false
}

func isLiabilityLine(productType string) bool {
	return productType == domain.ProductGeneralLiability || productType == domain.ProductUmbrella
}

func (p *PCPlugin) CheckEligibility(in *domain.RateInput) string {
	if _, ok := NormalizeSex(in.Sex); !ok {
		return fmt.Sprintf("sex %q is not recognized", in.Sex)
	}
	if NormalizeState(in.State) == "" {
		return "state is required"
	}
	if in.Age < pcMinAge || in.Age > pcMaxAge {
		return fmt.Sprintf("applicant age %d outside %d-%d", in.Age, pcMinAge, pcMaxAge)
	}
	if len(in.InsuredObjects) == 0 && len(in.Coverages) == 0 {
		return "at least one insured object or coverage is required"
	}
	return ""
}

func (p *PCPlugin) Exposure(in *domain.RateInput, _ config.RatingParams) (float64, string) {
	switch {
	case isVehicleLine(in.ProductType):
		count := len(in.InsuredObjects)
		if count < 1 {
			count = 1
		}
		return float64(count), ""
	case isPropertyLine(in.ProductType):
		value := insuredValue(in)
		if value <= 0 {
			return 1, ""
		}
		return value / 1000, ""
	case isLiabilityLine(in.ProductType):
		limit := aggregateLimit(in)
		if limit <= 0 {
			return 1, ""
		}
		return limit / 1_000_000, ""
	case in.ProductType == domain.ProductWorkersComp:
		payroll := annualPayroll(in)
		if payroll <= 0 {
			return 1, ""
		}
		return payroll / 100, ""
	}
	return 1, ""
}

func insuredValue(in *domain.RateInput) float64 {
	for _, obj := range in.InsuredObjects {
		if obj.InsuredValue > 0 {
			return obj.InsuredValue
		}
	}
	for _, cov := range in.Coverages {
		if cov.LimitAmount > 0 {
			return cov.LimitAmount
		}
	}
	if v, ok := metaFloat(in, "insured_value"); ok {
		return v
	}
	return 0
}

func aggregateLimit(in *domain.RateInput) float64 {
	for _, cov := range in.Coverages {
		if cov.AggregateLimit > 0 {
			return cov.AggregateLimit
		}
	}
	if v, ok := metaFloat(in, "aggregate_limit"); ok {
		return v
	}
	return 0
}

func annualPayroll(in *domain.RateInput) float64 {
	if v, ok := metaFloat(in, "annual_payroll"); ok {
		return v
	}
	for _, obj := range in.InsuredObjects {
		if obj.AnnualRevenue > 0 {
			return obj.AnnualRevenue
		}
	}
	return 0
}

// vehicleAgeClass buckets the first insured vehicle by model-year age.
// A missing model year rates as standard.
func (p *PCPlugin) vehicleAgeClass(in *domain.RateInput) string {
	year := 0
	for _, obj := range in.InsuredObjects {
		if obj.VehicleYear > 0 {
			year = obj.VehicleYear
			break
		}
	}
	if year == 0 {
		return "standard"
	}
	age := p.clk.Now().Year() - year
	switch {
	case age <= vehicleNewMaxAge:
		return "new"
	case age <= vehicleStandardMaxAge:
		return "standard"
	default:
		return "classic"
	}
}

// descriptor is the second key segment, chosen per sub-line.
func (p *PCPlugin) descriptor(in *domain.RateInput) string {
	switch {
	case isVehicleLine(in.ProductType):
		return p.vehicleAgeClass(in)
	case isPropertyLine(in.ProductType):
		for _, obj := range in.InsuredObjects {
			if obj.ConstructionType != "" {
				return strings.ToLower(strings.TrimSpace(obj.ConstructionType))
			}
		}
		return engine.Wildcard
	default:
		return in.ProductType
	}
}

func (p *PCPlugin) RateKeys(in *domain.RateInput) []string {
	exact := []string{NormalizeState(in.State), p.descriptor(in)}
	return engine.DedupeKeys([]string{
		engine.BuildKey(exact),
		engine.BuildKey(engine.WithWildcards(exact, 1)),
	})
}

func (p *PCPlugin) AutoSelectors() map[string]engine.AutoSelector {
	return map[string]engine.AutoSelector{
		"construction_type": func(in *domain.RateInput) (string, bool) {
			for _, obj := range in.InsuredObjects {
				if obj.ConstructionType != "" {
					return strings.ToLower(strings.TrimSpace(obj.ConstructionType)), true
				}
			}
			return "", false
		},
		"vehicle_age": func(in *domain.RateInput) (string, bool) {
			if !isVehicleLine(in.ProductType) {
				return "", false
			}
			return p.vehicleAgeClass(in), true
		},
	}
}
