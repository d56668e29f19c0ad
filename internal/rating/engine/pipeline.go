package engine

import (
	"math"

	"github.com/michelevens/insureflow/internal/config"
	ratingdomain "github.com/michelevens/insureflow/internal/rating/domain"
	ratetabledomain "github.com/michelevens/insureflow/internal/ratetable/domain"
)

// Round2 rounds to two decimal places, half away from zero. Recorded
// amounts use this; the running premium stays at full precision between
// stages.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AutoSelector derives a factor option from the input when the caller did
// not select one explicitly. The bool reports whether a value could be
// derived.
type AutoSelector func(in *ratingdomain.RateInput) (string, bool)

// ApplyFactors walks the snapshot's factor groups in sort order. For each
// group the explicit selection wins; otherwise the registered auto-selector
// for that code is consulted; a group with no selection, or a selection
// matching no option row, is skipped.
func ApplyFactors(snap *ratetabledomain.Snapshot, in *ratingdomain.RateInput, auto map[string]AutoSelector, premium float64) (float64, []ratingdomain.AppliedFactor) {
	applied := make([]ratingdomain.AppliedFactor, 0, 4)
	for _, group := range snap.FactorGroups() {
		selected, ok := in.FactorSelections[group.Code]
		if !ok || selected == "" {
			if sel, found := auto[group.Code]; found {
				selected, ok = sel(in)
			}
		}
		if !ok || selected == "" {
			continue
		}
		var row *ratetabledomain.RateFactor
		for i := range group.Options {
			if group.Options[i].OptionValue == selected {
				row = &group.Options[i]
				break
			}
		}
		if row == nil {
			continue
		}
		switch row.ApplyMode {
		case ratetabledomain.FactorAdd:
			premium += row.FactorValue
		case ratetabledomain.FactorSubtract:
			premium -= row.FactorValue
		default:
			premium *= row.FactorValue
		}
		applied = append(applied, ratingdomain.AppliedFactor{
			Code:    group.Code,
			Label:   row.Label,
			Option:  selected,
			Mode:    string(row.ApplyMode),
			Value:   row.FactorValue,
			Premium: Round2(premium),
		})
	}
	return premium, applied
}

// ApplyRiders charges each applicable rider. A rider applies when the
// caller selected it explicitly, or when it is a default rider the caller
// did not explicitly deselect. Multiplicative rider charges are computed
// against the premium entering the rider stage, not the running premium,
// so rider order does not change the total.
func ApplyRiders(snap *ratetabledomain.Snapshot, in *ratingdomain.RateInput, exposure, premium float64) (float64, []ratingdomain.AppliedRider) {
	entering := premium
	applied := make([]ratingdomain.AppliedRider, 0, 2)
	for _, rider := range snap.SortedRiders() {
		selected, explicit := in.RiderSelections[rider.RiderCode]
		if explicit && !selected {
			continue
		}
		if !explicit && !rider.IsDefault {
			continue
		}
		var charge float64
		switch rider.ApplyMode {
		case ratetabledomain.RiderMultiply:
			charge = entering * (rider.RiderValue - 1)
		default:
			charge = rider.RiderValue * exposure
		}
		premium += charge
		applied = append(applied, ratingdomain.AppliedRider{
			Code:   rider.RiderCode,
			Label:  rider.Label,
			Mode:   string(rider.ApplyMode),
			Value:  rider.RiderValue,
			Charge: Round2(charge),
		})
	}
	return premium, applied
}

// ApplyFees adds fees and subtracts credits in sort order. Percent amounts
// are computed against the running premium at that point. Credits always
// subtract regardless of sign, and the annual premium floors at zero after
// the last fee.
func ApplyFees(snap *ratetabledomain.Snapshot, premium float64) (float64, []ratingdomain.AppliedFee) {
	applied := make([]ratingdomain.AppliedFee, 0, 2)
	for _, fee := range snap.SortedFees() {
		amount := fee.FeeValue
		if fee.ApplyMode == ratetabledomain.FeePercent {
			amount = premium * fee.FeeValue / 100
		}
		if fee.FeeType == ratetabledomain.FeeTypeCredit {
			amount = -math.Abs(amount)
		}
		premium += amount
		applied = append(applied, ratingdomain.AppliedFee{
			Code:   fee.FeeCode,
			Label:  fee.Label,
			Type:   string(fee.FeeType),
			Mode:   string(fee.ApplyMode),
			Value:  fee.FeeValue,
			Amount: Round2(amount),
		})
	}
	if premium < 0 {
		premium = 0
	}
	return premium, applied
}

// ModalResult is the outcome of converting an annual premium to a payment
// mode.
type ModalResult struct {
	Mode    ratetabledomain.PaymentMode
	Factor  float64
	FlatFee float64
	Premium float64
}

// NormalizePaymentMode maps the input string onto a known payment mode.
// Empty and unrecognized values fall back to annual.
func NormalizePaymentMode(raw string) ratetabledomain.PaymentMode {
	switch ratetabledomain.PaymentMode(raw) {
	case ratetabledomain.ModeSemiannual:
		return ratetabledomain.ModeSemiannual
	case ratetabledomain.ModeQuarterly:
		return ratetabledomain.ModeQuarterly
	case ratetabledomain.ModeMonthly:
		return ratetabledomain.ModeMonthly
	default:
		return ratetabledomain.ModeAnnual
	}
}

// ModalConvert applies the table's modal row for the mode, falling back to
// the configured defaults when the table defines none.
func ModalConvert(snap *ratetabledomain.Snapshot, params config.RatingParams, mode ratetabledomain.PaymentMode, annual float64) ModalResult {
	factor := 1.0
	flat := 0.0
	if row := snap.ModalFor(mode); row != nil {
		factor = row.Factor
		flat = row.FlatFee
	} else if def, ok := params.ModalDefaults[string(mode)]; ok {
		factor = def.Factor
		flat = def.FlatFee
	}
	return ModalResult{
		Mode:    mode,
		Factor:  factor,
		FlatFee: flat,
		Premium: Round2(annual*factor + flat),
	}
}
