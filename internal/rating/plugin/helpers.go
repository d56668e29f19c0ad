package plugin

import (
	"strconv"
	"strings"

	"github.com/michelevens/insureflow/internal/rating/domain"
)

// NormalizeSex maps accepted spellings onto the canonical key segment.
// Anything else fails eligibility.
func NormalizeSex(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "m", "male":
		return "M", true
	case "f", "female":
		return "F", true
	}
	return "", false
}

// NormalizeState uppercases and trims the state code.
func NormalizeState(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func metaFloat(in *domain.RateInput, key string) (float64, bool) {
	raw, ok := in.Metadata[key]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, v > 0
	case int:
		return float64(v), v > 0
	case int64:
		return float64(v), v > 0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil && f > 0
	}
	return 0, false
}

// BMI classes for the shared bmi auto-selected factor.
const (
	bmiUnderweight = "underweight"
	bmiNormal      = "normal"
	bmiOverweight  = "overweight"
	bmiObese       = "obese"
)

// bmiClass derives the build classification from imperial height/weight.
// Returns false when either measurement is missing.
func bmiClass(in *domain.RateInput) (string, bool) {
	if in.HeightInches <= 0 || in.WeightLbs <= 0 {
		return "", false
	}
	bmi := 703 * in.WeightLbs / (in.HeightInches * in.HeightInches)
	switch {
	case bmi < 18.5:
		return bmiUnderweight, true
	case bmi < 25:
		return bmiNormal, true
	case bmi < 30:
		return bmiOverweight, true
	default:
		return bmiObese, true
	}
}

// tobaccoClass is shared by every family that rates on tobacco use.
func tobaccoClass(in *domain.RateInput) (string, bool) {
	if in.TobaccoUse {
		return "smoker", true
	}
	return "non_smoker", true
}
