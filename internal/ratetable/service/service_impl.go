package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/michelevens/insureflow/internal/ratetable/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("ratetable.service"),
		repo: p.Repo,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListTablesRequest) (domain.ListTablesResponse, error) {
	tables, err := s.repo.ListTables(ctx, strings.TrimSpace(req.ProductType))
	if err != nil {
		return domain.ListTablesResponse{}, err
	}
	return domain.ListTablesResponse{Tables: tables}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.TableDetail, error) {
	tableID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	table, err := s.repo.GetTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, domain.ErrNotFound
	}

	detail := &domain.TableDetail{Table: *table}
	counts := []struct {
		model any
		dest  *int64
	}{
		{&domain.RateTableEntry{}, &detail.EntryCount},
		{&domain.RateFactor{}, &detail.FactorCount},
		{&domain.RateRider{}, &detail.RiderCount},
		{&domain.RateFee{}, &detail.FeeCount},
		{&domain.RateModalFactor{}, &detail.ModalCount},
	}
	for _, c := range counts {
		if err := s.db.WithContext(ctx).Model(c.model).
			Where("rate_table_id = ?", table.ID).
			Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	if table.CarrierID != nil {
		var carrier domain.Carrier
		if err := s.db.WithContext(ctx).Where("id = ?", *table.CarrierID).First(&carrier).Error; err == nil {
			detail.CarrierCode = carrier.Code
		}
	}

	return detail, nil
}
