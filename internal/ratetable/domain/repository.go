package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository is the read-only accessor over rate data. Methods accept an
// explicit *gorm.DB so callers can scope all reads of one rating run to a
// single transaction. Rating never writes through this interface.
type Repository interface {
	FindCarrierByCode(ctx context.Context, tx *gorm.DB, code string) (*Carrier, error)

	// ActiveFor resolves the table active for (productType, version,
	// carrier) at the given instant: is_active, effective, not expired,
	// latest effective_at first. Version 0 means any active version.
	// Returns nil on no match.
	ActiveFor(ctx context.Context, tx *gorm.DB, productType string, version int, carrierID *snowflake.ID, at time.Time) (*RateTable, error)

	// LoadSnapshot reads every row family of the table inside tx.
	LoadSnapshot(ctx context.Context, tx *gorm.DB, table RateTable) (*Snapshot, error)

	ListTables(ctx context.Context, productType string) ([]RateTable, error)
	GetTable(ctx context.Context, id snowflake.ID) (*RateTable, error)
}
