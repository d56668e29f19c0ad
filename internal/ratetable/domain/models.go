// Package domain contains the versioned rate data consumed by the rating
// engine. All records are authored externally and read-only during rating.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// FactorMode is how a factor row adjusts the running premium.
type FactorMode string

const (
	FactorMultiply FactorMode = "multiply"
	FactorAdd      FactorMode = "add"
	FactorSubtract FactorMode = "subtract"
)

// RiderMode is how a rider row is priced.
type RiderMode string

const (
	RiderAdd      RiderMode = "add"
	RiderMultiply RiderMode = "multiply"
)

// FeeType distinguishes charges from credits.
type FeeType string

const (
	FeeTypeFee    FeeType = "fee"
	FeeTypeCredit FeeType = "credit"
)

// FeeMode is how a fee amount is computed.
type FeeMode string

const (
	FeeAdd     FeeMode = "add"
	FeePercent FeeMode = "percent"
)

// PaymentMode is the premium payment frequency.
type PaymentMode string

const (
	ModeAnnual     PaymentMode = "annual"
	ModeSemiannual PaymentMode = "semiannual"
	ModeQuarterly  PaymentMode = "quarterly"
	ModeMonthly    PaymentMode = "monthly"
)

// Carrier identifies an insurance carrier whose filed rates a table holds.
type Carrier struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	Code      string       `json:"code" gorm:"type:text;not null;uniqueIndex"`
	Name      string       `json:"name" gorm:"type:text;not null"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Carrier) TableName() string { return "carriers" }

// RateTable is one versioned set of rate data for a product type. At most
// one table is active for a (product_type, version, carrier) at lookup time.
type RateTable struct {
	ID          snowflake.ID  `json:"id" gorm:"primaryKey"`
	ProductType string        `json:"product_type" gorm:"type:text;not null;index"`
	Version     int           `json:"version" gorm:"not null;default:1"`
	CarrierID   *snowflake.ID `json:"carrier_id,omitempty" gorm:"index"`
	EffectiveAt time.Time     `json:"effective_at" gorm:"not null"`
	ExpiresAt   *time.Time    `json:"expires_at,omitempty" gorm:""`
	IsActive    bool          `json:"is_active" gorm:"not null;default:true"`
	Description string        `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time     `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (RateTable) TableName() string { return "rate_tables" }

// RateTableEntry is one base rate row. RateKey is pipe-delimited with `*`
// wildcard segments and unique within its table. RateValue is decimal text
// parsed at use; an unparseable value is a system error, not an authoring
// concern the engine papers over.
type RateTableEntry struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	RateTableID snowflake.ID `json:"rate_table_id" gorm:"not null;index;uniqueIndex:ux_rate_entries_table_key"`
	RateKey     string       `json:"rate_key" gorm:"type:text;not null;uniqueIndex:ux_rate_entries_table_key"`
	RateValue   string       `json:"rate_value" gorm:"type:numeric(12,6);not null"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (RateTableEntry) TableName() string { return "rate_table_entries" }

// RateFactor is one selectable option within a factor_code group.
type RateFactor struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	RateTableID snowflake.ID `json:"rate_table_id" gorm:"not null;index"`
	FactorCode  string       `json:"factor_code" gorm:"type:text;not null;index"`
	Label       string       `json:"label" gorm:"type:text"`
	OptionValue string       `json:"option_value" gorm:"type:text;not null"`
	ApplyMode   FactorMode   `json:"apply_mode" gorm:"type:text;not null"`
	FactorValue float64      `json:"factor_value" gorm:"type:numeric;not null"`
	SortOrder   int          `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (RateFactor) TableName() string { return "rate_factors" }

// RateRider is an optional coverage add-on.
type RateRider struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	RateTableID snowflake.ID `json:"rate_table_id" gorm:"not null;index"`
	RiderCode   string       `json:"rider_code" gorm:"type:text;not null"`
	Label       string       `json:"label" gorm:"type:text"`
	ApplyMode   RiderMode    `json:"apply_mode" gorm:"type:text;not null"`
	RiderValue  float64      `json:"rider_value" gorm:"type:numeric;not null"`
	IsDefault   bool         `json:"is_default" gorm:"not null;default:false"`
	SortOrder   int          `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (RateRider) TableName() string { return "rate_riders" }

// RateFee is a flat or percentage adjustment applied after riders.
type RateFee struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	RateTableID snowflake.ID `json:"rate_table_id" gorm:"not null;index"`
	FeeCode     string       `json:"fee_code" gorm:"type:text;not null"`
	Label       string       `json:"label" gorm:"type:text"`
	FeeType     FeeType      `json:"fee_type" gorm:"type:text;not null"`
	ApplyMode   FeeMode      `json:"apply_mode" gorm:"type:text;not null"`
	FeeValue    float64      `json:"fee_value" gorm:"type:numeric;not null"`
	SortOrder   int          `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (RateFee) TableName() string { return "rate_fees" }

// RateModalFactor converts an annual premium to a periodic payment.
// Unique per (table, mode).
type RateModalFactor struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	RateTableID snowflake.ID `json:"rate_table_id" gorm:"not null;index;uniqueIndex:ux_rate_modal_table_mode"`
	Mode        PaymentMode  `json:"mode" gorm:"type:text;not null;uniqueIndex:ux_rate_modal_table_mode"`
	Factor      float64      `json:"factor" gorm:"type:numeric;not null"`
	FlatFee     float64      `json:"flat_fee" gorm:"type:numeric;not null;default:0"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (RateModalFactor) TableName() string { return "rate_modal_factors" }
