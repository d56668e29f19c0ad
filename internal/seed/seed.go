// Package seed loads a demo carrier and starter rate tables so a fresh
// install can rate immediately. Seeding is idempotent: it is skipped when
// the demo carrier already exists.
package seed

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	ratetabledomain "github.com/michelevens/insureflow/internal/ratetable/domain"
	pkgdb "github.com/michelevens/insureflow/pkg/db"
	"github.com/michelevens/insureflow/pkg/repository"
	"gorm.io/gorm"
)

const demoCarrierCode = "DEMO"

// EnsureDemoRates seeds one rate table per demo product line.
func EnsureDemoRates(db *gorm.DB, genID *snowflake.Node) error {
	ctx := context.Background()
	carriers := repository.ProvideStore[ratetabledomain.Carrier](db)

	existing, err := carriers.FindOne(ctx, &ratetabledomain.Carrier{Code: demoCarrierCode})
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	now := time.Now().UTC()
	carrier := &ratetabledomain.Carrier{
		ID:        genID.Generate(),
		Code:      demoCarrierCode,
		Name:      "Demo Mutual",
		CreatedAt: now,
	}
	if err := carriers.Create(ctx, carrier); err != nil {
		// Another replica may have seeded concurrently.
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil
		}
		return err
	}

	for _, build := range []func(*snowflake.Node, snowflake.ID, time.Time) seedTable{
		demoDisabilityTable,
		demoLifeTable,
		demoAutoTable,
	} {
		if err := build(genID, carrier.ID, now).insert(ctx, db); err != nil {
			return err
		}
	}
	return nil
}

type seedTable struct {
	table   *ratetabledomain.RateTable
	entries []*ratetabledomain.RateTableEntry
	factors []*ratetabledomain.RateFactor
	riders  []*ratetabledomain.RateRider
	fees    []*ratetabledomain.RateFee
	modals  []*ratetabledomain.RateModalFactor
}

func (s seedTable) insert(ctx context.Context, db *gorm.DB) error {
	if err := repository.ProvideStore[ratetabledomain.RateTable](db).Create(ctx, s.table); err != nil {
		return err
	}
	if err := repository.ProvideStore[ratetabledomain.RateTableEntry](db).BatchCreate(ctx, s.entries); err != nil {
		return err
	}
	if err := repository.ProvideStore[ratetabledomain.RateFactor](db).BatchCreate(ctx, s.factors); err != nil {
		return err
	}
	if err := repository.ProvideStore[ratetabledomain.RateRider](db).BatchCreate(ctx, s.riders); err != nil {
		return err
	}
	if err := repository.ProvideStore[ratetabledomain.RateFee](db).BatchCreate(ctx, s.fees); err != nil {
		return err
	}
	return repository.ProvideStore[ratetabledomain.RateModalFactor](db).BatchCreate(ctx, s.modals)
}

func newSeedTable(genID *snowflake.Node, carrierID snowflake.ID, productType, description string, now time.Time) seedTable {
	return seedTable{
		table: &ratetabledomain.RateTable{
			ID:          genID.Generate(),
			ProductType: productType,
			Version:     1,
			CarrierID:   &carrierID,
			EffectiveAt: now.AddDate(-1, 0, 0),
			IsActive:    true,
			Description: description,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

func demoDisabilityTable(genID *snowflake.Node, carrierID snowflake.ID, now time.Time) seedTable {
	s := newSeedTable(genID, carrierID, "disability", "Demo individual disability income rates", now)
	tableID := s.table.ID

	for key, value := range map[string]string{
		"35|M|NY|4A|standard": "2.50",
		"35|F|NY|4A|standard": "2.20",
		"35|M|*|4A|standard":  "2.80",
		"35|M|*|4A|*":         "3.10",
		"40|M|NY|3A|standard": "3.40",
		"40|M|*|3A|*":         "3.90",
	} {
		s.entries = append(s.entries, &ratetabledomain.RateTableEntry{
			ID:          genID.Generate(),
			RateTableID: tableID,
			RateKey:     key,
			RateValue:   value,
			CreatedAt:   now,
		})
	}

	s.factors = []*ratetabledomain.RateFactor{
		{ID: genID.Generate(), RateTableID: tableID, FactorCode: "tobacco", Label: "Tobacco use", OptionValue: "non_smoker", ApplyMode: ratetabledomain.FactorMultiply, FactorValue: 1.00, SortOrder: 10, CreatedAt: now},
		{ID: genID.Generate(), RateTableID: tableID, FactorCode: "tobacco", Label: "Tobacco use", OptionValue: "smoker", ApplyMode: ratetabledomain.FactorMultiply, FactorValue: 1.25, SortOrder: 10, CreatedAt: now},
		{ID: genID.Generate(), RateTableID: tableID, FactorCode: "elimination_period", Label: "Elimination period 90 days", OptionValue: "90", ApplyMode: ratetabledomain.FactorMultiply, FactorValue: 1.00, SortOrder: 20, CreatedAt: now},
		{ID: genID.Generate(), RateTableID: tableID, FactorCode: "elimination_period", Label: "Elimination period 30 days", OptionValue: "30", ApplyMode: ratetabledomain.FactorMultiply, FactorValue: 1.35, SortOrder: 20, CreatedAt: now},
	}

	s.riders = []*ratetabledomain.RateRider{
		{ID: genID.Generate(), RateTableID: tableID, RiderCode: "cola", Label: "Cost of living adjustment", ApplyMode: ratetabledomain.RiderMultiply, RiderValue: 1.15, SortOrder: 10, CreatedAt: now},
		{ID: genID.Generate(), RateTableID: tableID, RiderCode: "residual", Label: "Residual disability", ApplyMode: ratetabledomain.RiderAdd, RiderValue: 0.35, IsDefault: true, SortOrder: 20, CreatedAt: now},
	}

	s.fees = []*ratetabledomain.RateFee{
		{ID: genID.Generate(), RateTableID: tableID, FeeCode: "policy_fee", Label: "Annual policy fee", FeeType: ratetabledomain.FeeTypeFee, ApplyMode: ratetabledomain.FeeAdd, FeeValue: 30, SortOrder: 10, CreatedAt: now},
	}

	s.modals = []*ratetabledomain.RateModalFactor{
		{ID: genID.Generate(), RateTableID: tableID, Mode: ratetabledomain.ModeMonthly, Factor: 0.085, FlatFee: 2, CreatedAt: now},
	}
	return s
}

func demoLifeTable(genID *snowflake.Node, carrierID snowflake.ID, now time.Time) seedTable {
	s := newSeedTable(genID, carrierID, "life", "Demo 20-year term life rates", now)
	tableID := s.table.ID

	for key, value := range map[string]string{
		"40|F|NT|standard":  "1.20",
		"40|M|NT|standard":  "1.45",
		"40|F|T|standard":   "2.60",
		"40|F|NT|*":         "1.55",
		"45|M|NT|preferred": "1.80",
	} {
		s.entries = append(s.entries, &ratetabledomain.RateTableEntry{
			ID:          genID.Generate(),
			RateTableID: tableID,
			RateKey:     key,
			RateValue:   value,
			CreatedAt:   now,
		})
	}

	s.riders = []*ratetabledomain.RateRider{
		{ID: genID.Generate(), RateTableID: tableID, RiderCode: "waiver_of_premium", Label: "Waiver of premium", ApplyMode: ratetabledomain.RiderAdd, RiderValue: 0.08, SortOrder: 10, CreatedAt: now},
	}
	return s
}

func demoAutoTable(genID *snowflake.Node, carrierID snowflake.ID, now time.Time) seedTable {
	s := newSeedTable(genID, carrierID, "auto", "Demo personal auto rates", now)
	tableID := s.table.ID

	for key, value := range map[string]string{
		"TX|new":      "820.00",
		"TX|standard": "640.00",
		"TX|classic":  "510.00",
		"TX|*":        "700.00",
		"*|*":         "780.00",
	} {
		s.entries = append(s.entries, &ratetabledomain.RateTableEntry{
			ID:          genID.Generate(),
			RateTableID: tableID,
			RateKey:     key,
			RateValue:   value,
			CreatedAt:   now,
		})
	}

	s.fees = []*ratetabledomain.RateFee{
		{ID: genID.Generate(), RateTableID: tableID, FeeCode: "safe_driver", Label: "Safe driver credit", FeeType: ratetabledomain.FeeTypeCredit, ApplyMode: ratetabledomain.FeePercent, FeeValue: 5, SortOrder: 10, CreatedAt: now},
	}

	s.modals = []*ratetabledomain.RateModalFactor{
		{ID: genID.Generate(), RateTableID: tableID, Mode: ratetabledomain.ModeMonthly, Factor: 0.0875, CreatedAt: now},
	}
	return s
}
