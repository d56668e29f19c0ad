package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// RunCursor is the keyset position for paging rating runs newest-first.
type RunCursor struct {
	ID        snowflake.ID
	CreatedAt time.Time
}

// ListRunsFilter narrows the run listing.
type ListRunsFilter struct {
	ProductType string
	Status      string
	Cursor      *RunCursor
	Limit       int
}

// Repository persists rating runs. Runs are append-only: Insert is the
// only write, and nothing updates or deletes a recorded run.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, run *RatingRun) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*RatingRun, error)
	List(ctx context.Context, db *gorm.DB, filter ListRunsFilter) ([]*RatingRun, error)
}
