package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/michelevens/insureflow/internal/ratetable/domain"
	"github.com/michelevens/insureflow/internal/ratetable/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
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
	svc := NewService(Params{
		DB:   db,
		Log:  zap.NewNop(),
		Repo: repository.Provide(repository.Params{DB: db}),
	})
	return svc, db, node
}

func TestList_FiltersByProductType(t *testing.T) {
	svc, db, node := newTestService(t)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, productType := range []string{"disability", "life", "life"} {
		assert.NoError(t, db.Create(&domain.RateTable{
			ID:          node.Generate(),
			ProductType: productType,
			Version:     1,
			EffectiveAt: now,
			IsActive:    true,
		}).Error)
	}

	resp, err := svc.List(context.Background(), domain.ListTablesRequest{})
	assert.NoError(t, err)
	assert.Len(t, resp.Tables, 3)

	resp, err = svc.List(context.Background(), domain.ListTablesRequest{ProductType: " life "})
	assert.NoError(t, err)
	assert.Len(t, resp.Tables, 2)
}

func TestGet_DetailCountsAndCarrier(t *testing.T) {
	svc, db, node := newTestService(t)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	carrier := &domain.Carrier{ID: node.Generate(), Code: "ACME", Name: "Acme Mutual"}
	assert.NoError(t, db.Create(carrier).Error)

	table := &domain.RateTable{
		ID:          node.Generate(),
		ProductType: "disability",
		Version:     1,
		CarrierID:   &carrier.ID,
		EffectiveAt: now,
		IsActive:    true,
	}
	assert.NoError(t, db.Create(table).Error)

	for _, key := range []string{"35|M|NY|4A|standard", "35|F|NY|4A|standard"} {
		assert.NoError(t, db.Create(&domain.RateTableEntry{
			ID: node.Generate(), RateTableID: table.ID, RateKey: key, RateValue: "2.50",
		}).Error)
	}
	assert.NoError(t, db.Create(&domain.RateFactor{
		ID: node.Generate(), RateTableID: table.ID, FactorCode: "tobacco",
		OptionValue: "smoker", ApplyMode: domain.FactorMultiply, FactorValue: 1.25,
	}).Error)

	detail, err := svc.Get(context.Background(), table.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, table.ID, detail.Table.ID)
	assert.Equal(t, int64(2), detail.EntryCount)
	assert.Equal(t, int64(1), detail.FactorCount)
	assert.Equal(t, int64(0), detail.RiderCount)
	assert.Equal(t, "ACME", detail.CarrierCode)
}

func TestGet_Errors(t *testing.T) {
	svc, _, node := newTestService(t)

	_, err := svc.Get(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.Get(context.Background(), node.Generate().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
