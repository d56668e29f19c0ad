package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/michelevens/insureflow/internal/ratetable/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

type Params struct {
	fx.In

	DB *gorm.DB
}

func Provide(p Params) domain.Repository {
	return &repo{db: p.DB}
}

func (r *repo) FindCarrierByCode(ctx context.Context, tx *gorm.DB, code string) (*domain.Carrier, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}

	var carrier domain.Carrier
	err := r.conn(tx).WithContext(ctx).
		Where("code = ?", code).
		First(&carrier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &carrier, nil
}

func (r *repo) ActiveFor(ctx context.Context, tx *gorm.DB, productType string, version int, carrierID *snowflake.ID, at time.Time) (*domain.RateTable, error) {
	stmt := r.conn(tx).WithContext(ctx).
		Where("product_type = ?", productType).
		Where("is_active = ?", true).
		Where("effective_at <= ?", at).
		Where("expires_at IS NULL OR expires_at > ?", at)

	if version > 0 {
		stmt = stmt.Where("version = ?", version)
	}
	if carrierID != nil {
		stmt = stmt.Where("carrier_id = ?", *carrierID)
	} else {
		stmt = stmt.Where("carrier_id IS NULL")
	}

	var table domain.RateTable
	err := stmt.Order("effective_at DESC, version DESC").First(&table).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &table, nil
}

func (r *repo) LoadSnapshot(ctx context.Context, tx *gorm.DB, table domain.RateTable) (*domain.Snapshot, error) {
	conn := r.conn(tx).WithContext(ctx)
	snap := &domain.Snapshot{Table: table}

	if err := conn.Where("rate_table_id = ?", table.ID).Find(&snap.Entries).Error; err != nil {
		return nil, err
	}
	if err := conn.Where("rate_table_id = ?", table.ID).Order("sort_order, id").Find(&snap.Factors).Error; err != nil {
		return nil, err
	}
	if err := conn.Where("rate_table_id = ?", table.ID).Order("sort_order, id").Find(&snap.Riders).Error; err != nil {
		return nil, err
	}
	if err := conn.Where("rate_table_id = ?", table.ID).Order("sort_order, id").Find(&snap.Fees).Error; err != nil {
		return nil, err
	}
	if err := conn.Where("rate_table_id = ?", table.ID).Find(&snap.Modals).Error; err != nil {
		return nil, err
	}
	return snap, nil
}

func (r *repo) ListTables(ctx context.Context, productType string) ([]domain.RateTable, error) {
	stmt := r.db.WithContext(ctx).Model(&domain.RateTable{})
	if strings.TrimSpace(productType) != "" {
		stmt = stmt.Where("product_type = ?", strings.TrimSpace(productType))
	}

	var tables []domain.RateTable
	err := stmt.Order("product_type, version DESC, effective_at DESC").Find(&tables).Error
	return tables, err
}

func (r *repo) GetTable(ctx context.Context, id snowflake.ID) (*domain.RateTable, error) {
	var table domain.RateTable
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&table).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &table, nil
}

func (r *repo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}
