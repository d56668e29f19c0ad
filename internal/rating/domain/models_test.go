package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateInput_JSONRoundTrip(t *testing.T) {
	original := RateInput{
		ProductType:      ProductDisability,
		RateTableVersion: 2,
		CarrierCode:      "ACME",
		Age:              35,
		Sex:              "M",
		State:            "NY",
		Coverages: []Coverage{
			{CoverageType: "disability_income", CoverageCategory: "monthly_benefit", BenefitAmount: 3900},
		},
		InsuredObjects: []InsuredObject{
			{ObjectType: "vehicle", VehicleYear: 2022, InsuredValue: 38000},
		},
		FactorSelections: map[string]string{
			"tobacco":            "non_smoker",
			"elimination_period": "90",
		},
		RiderSelections:         map[string]bool{"cola": true, "residual": false},
		OccupationClass:         "4A",
		UWClass:                 "standard",
		AnnualIncome:            72000,
		MonthlyBenefitRequested: 5000,
		PaymentMode:             "monthly",
		Metadata:                map[string]any{"broker": "acme", "annual_payroll": 250000.0},
	}

	payload, err := json.Marshal(original)
	assert.NoError(t, err)

	var decoded RateInput
	assert.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, original, decoded)
}

func TestRateOutput_JSONRoundTrip(t *testing.T) {
	original := RateOutput{
		Eligible:         true,
		EngineVersion:    EngineVersion,
		RateTableVersion: 1,
		Exposure:         39,
		BaseRateKey:      "35|M|NY|4A|standard",
		BaseRateValue:    2.50,
		BasePremium:      97.50,
		PremiumFactored:  97.50,
		FactorsApplied: []AppliedFactor{
			{Code: "tobacco", Option: "non_smoker", Mode: "multiply", Value: 1.0, Premium: 97.50},
		},
		PremiumWithRiders: 111.15,
		RidersApplied: []AppliedRider{
			{Code: "residual", Mode: "add", Value: 0.35, Charge: 13.65},
		},
		PremiumAnnual: 141.15,
		FeesApplied: []AppliedFee{
			{Code: "policy_fee", Type: "fee", Mode: "add", Value: 30, Amount: 30},
		},
		PremiumModal: 12.35,
		ModalMode:    "monthly",
		ModalFactor:  0.0875,
	}

	payload, err := json.Marshal(original)
	assert.NoError(t, err)

	var decoded RateOutput
	assert.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, original, decoded)
}
