package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/michelevens/insureflow/internal/ratetable/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) (domain.Repository, *gorm.DB, *snowflake.Node) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&domain.Carrier{},
		&domain.RateTable{},
		&domain.RateTableEntry{},
		&domain.RateFactor{},
		&domain.RateRider{},
		&domain.RateFee{},
		&domain.RateModalFactor{},
	)
	assert.NoError(t, err)

	node, _ := snowflake.NewNode(1)
	return Provide(Params{DB: db}), db, node
}

func TestActiveFor_WindowAndVersion(t *testing.T) {
	repo, db, node := newTestRepo(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	expired := now.Add(-time.Hour)
	v1 := &domain.RateTable{
		ID:          node.Generate(),
		ProductType: "disability",
		Version:     1,
		EffectiveAt: now.AddDate(-2, 0, 0),
		ExpiresAt:   &expired,
		IsActive:    true,
	}
	v2 := &domain.RateTable{
		ID:          node.Generate(),
		ProductType: "disability",
		Version:     2,
		EffectiveAt: now.AddDate(-1, 0, 0),
		IsActive:    true,
	}
	v3Inactive := &domain.RateTable{
		ID:          node.Generate(),
		ProductType: "disability",
		Version:     3,
		EffectiveAt: now.AddDate(0, -1, 0),
		IsActive:    false,
	}
	v4Future := &domain.RateTable{
		ID:          node.Generate(),
		ProductType: "disability",
		Version:     4,
		EffectiveAt: now.AddDate(0, 1, 0),
		IsActive:    true,
	}
	for _, table := range []*domain.RateTable{v1, v2, v3Inactive, v4Future} {
		assert.NoError(t, db.Create(table).Error)
	}

	// Version 0 picks the latest table in its effective window: v1 is
	// expired, v3 deactivated, v4 not yet effective.
	table, err := repo.ActiveFor(context.Background(), nil, "disability", 0, nil, now)
	assert.NoError(t, err)
	assert.NotNil(t, table)
	assert.Equal(t, v2.ID, table.ID)

	// An explicit version is honored only inside its window.
	table, err = repo.ActiveFor(context.Background(), nil, "disability", 2, nil, now)
	assert.NoError(t, err)
	assert.NotNil(t, table)
	assert.Equal(t, 2, table.Version)

	table, err = repo.ActiveFor(context.Background(), nil, "disability", 1, nil, now)
	assert.NoError(t, err)
	assert.Nil(t, table)

	table, err = repo.ActiveFor(context.Background(), nil, "disability", 4, nil, now)
	assert.NoError(t, err)
	assert.Nil(t, table)

	table, err = repo.ActiveFor(context.Background(), nil, "life", 0, nil, now)
	assert.NoError(t, err)
	assert.Nil(t, table)
}

func TestActiveFor_CarrierScoping(t *testing.T) {
	repo, db, node := newTestRepo(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	carrier := &domain.Carrier{ID: node.Generate(), Code: "ACME", Name: "Acme Mutual"}
	assert.NoError(t, db.Create(carrier).Error)

	shared := &domain.RateTable{
		ID:          node.Generate(),
		ProductType: "life",
		Version:     1,
		EffectiveAt: now.AddDate(-1, 0, 0),
		IsActive:    true,
	}
	filed := &domain.RateTable{
		ID:          node.Generate(),
		ProductType: "life",
		Version:     1,
		CarrierID:   &carrier.ID,
		EffectiveAt: now.AddDate(-1, 0, 0),
		IsActive:    true,
	}
	assert.NoError(t, db.Create(shared).Error)
	assert.NoError(t, db.Create(filed).Error)

	// A carrierless lookup never sees carrier-filed tables.
	table, err := repo.ActiveFor(context.Background(), nil, "life", 0, nil, now)
	assert.NoError(t, err)
	assert.NotNil(t, table)
	assert.Equal(t, shared.ID, table.ID)

	table, err = repo.ActiveFor(context.Background(), nil, "life", 0, &carrier.ID, now)
	assert.NoError(t, err)
	assert.NotNil(t, table)
	assert.Equal(t, filed.ID, table.ID)
}

func TestFindCarrierByCode(t *testing.T) {
	repo, db, node := newTestRepo(t)

	carrier := &domain.Carrier{ID: node.Generate(), Code: "ACME", Name: "Acme Mutual"}
	assert.NoError(t, db.Create(carrier).Error)

	found, err := repo.FindCarrierByCode(context.Background(), nil, " ACME ")
	assert.NoError(t, err)
	assert.NotNil(t, found)
	assert.Equal(t, carrier.ID, found.ID)

	found, err = repo.FindCarrierByCode(context.Background(), nil, "NOPE")
	assert.NoError(t, err)
	assert.Nil(t, found)

	found, err = repo.FindCarrierByCode(context.Background(), nil, "")
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestLoadSnapshot(t *testing.T) {
	repo, db, node := newTestRepo(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	table := &domain.RateTable{
		ID:          node.Generate(),
		ProductType: "disability",
		Version:     1,
		EffectiveAt: now.AddDate(-1, 0, 0),
		IsActive:    true,
	}
	other := &domain.RateTable{
		ID:          node.Generate(),
		ProductType: "disability",
		Version:     2,
		EffectiveAt: now,
		IsActive:    true,
	}
	assert.NoError(t, db.Create(table).Error)
	assert.NoError(t, db.Create(other).Error)

	assert.NoError(t, db.Create(&domain.RateTableEntry{
		ID: node.Generate(), RateTableID: table.ID, RateKey: "35|M|NY|4A|standard", RateValue: "2.50",
	}).Error)
	assert.NoError(t, db.Create(&domain.RateTableEntry{
		ID: node.Generate(), RateTableID: other.ID, RateKey: "35|M|NY|4A|standard", RateValue: "9.99",
	}).Error)
	assert.NoError(t, db.Create(&domain.RateFactor{
		ID: node.Generate(), RateTableID: table.ID, FactorCode: "tobacco",
		OptionValue: "smoker", ApplyMode: domain.FactorMultiply, FactorValue: 1.25, SortOrder: 20,
	}).Error)
	assert.NoError(t, db.Create(&domain.RateFactor{
		ID: node.Generate(), RateTableID: table.ID, FactorCode: "tobacco",
		OptionValue: "non_smoker", ApplyMode: domain.FactorMultiply, FactorValue: 1.0, SortOrder: 10,
	}).Error)
	assert.NoError(t, db.Create(&domain.RateRider{
		ID: node.Generate(), RateTableID: table.ID, RiderCode: "cola",
		ApplyMode: domain.RiderMultiply, RiderValue: 1.15,
	}).Error)
	assert.NoError(t, db.Create(&domain.RateFee{
		ID: node.Generate(), RateTableID: table.ID, FeeCode: "policy_fee",
		FeeType: domain.FeeTypeFee, ApplyMode: domain.FeeAdd, FeeValue: 30,
	}).Error)
	assert.NoError(t, db.Create(&domain.RateModalFactor{
		ID: node.Generate(), RateTableID: table.ID, Mode: domain.ModeMonthly, Factor: 0.085, FlatFee: 2,
	}).Error)

	snap, err := repo.LoadSnapshot(context.Background(), nil, *table)
	assert.NoError(t, err)
	assert.Len(t, snap.Entries, 1)
	assert.Len(t, snap.Factors, 2)
	assert.Len(t, snap.Riders, 1)
	assert.Len(t, snap.Fees, 1)
	assert.Len(t, snap.Modals, 1)

	// Rows come back in sort order, and only for the requested table.
	assert.Equal(t, "non_smoker", snap.Factors[0].OptionValue)
	entry := snap.EntryFor("35|M|NY|4A|standard")
	assert.NotNil(t, entry)
	assert.Equal(t, "2.50", entry.RateValue)
	assert.Nil(t, snap.EntryFor("35|M|NJ|4A|standard"))

	modal := snap.ModalFor(domain.ModeMonthly)
	assert.NotNil(t, modal)
	assert.Equal(t, 0.085, modal.Factor)
	assert.Nil(t, snap.ModalFor(domain.ModeQuarterly))
}

func TestListAndGetTables(t *testing.T) {
	repo, db, node := newTestRepo(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, spec := range []struct {
		productType string
		version     int
	}{
		{"disability", 1},
		{"disability", 2},
		{"life", 1},
	} {
		assert.NoError(t, db.Create(&domain.RateTable{
			ID:          node.Generate(),
			ProductType: spec.productType,
			Version:     spec.version,
			EffectiveAt: now,
			IsActive:    true,
		}).Error)
	}

	all, err := repo.ListTables(context.Background(), "")
	assert.NoError(t, err)
	assert.Len(t, all, 3)

	disability, err := repo.ListTables(context.Background(), "disability")
	assert.NoError(t, err)
	assert.Len(t, disability, 2)
	assert.Equal(t, 2, disability[0].Version)

	table, err := repo.GetTable(context.Background(), disability[0].ID)
	assert.NoError(t, err)
	assert.NotNil(t, table)
	assert.Equal(t, disability[0].ID, table.ID)

	table, err = repo.GetTable(context.Background(), node.Generate())
	assert.NoError(t, err)
	assert.Nil(t, table)
}
