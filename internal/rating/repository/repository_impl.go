package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/michelevens/insureflow/internal/rating/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, run *domain.RatingRun) error {
	if run == nil {
		return nil
	}
	return db.WithContext(ctx).Create(run).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.RatingRun, error) {
	var run domain.RatingRun
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&run).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRunsFilter) ([]*domain.RatingRun, error) {
	var runs []*domain.RatingRun
	stmt := db.WithContext(ctx).Model(&domain.RatingRun{})

	if productType := strings.TrimSpace(filter.ProductType); productType != "" {
		stmt = stmt.Where("product_type = ?", productType)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		stmt = stmt.Where("status = ?", status)
	}
	if filter.Cursor != nil {
		stmt = stmt.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			filter.Cursor.CreatedAt,
			filter.Cursor.CreatedAt,
			filter.Cursor.ID,
		)
	}

	stmt = stmt.Order("created_at desc, id desc")
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit + 1)
	}

	if err := stmt.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
