// Package domain contains the value objects crossing the rating pipeline
// boundary and the append-only audit record of every rating invocation.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Product type identifiers. The set is closed: the plugin registry refuses
// to start when a type is claimed twice, and rating an unknown type is a
// system error, not an ineligibility.
const (
	ProductDisability   = "disability"
	ProductLongTermCare = "long_term_care"
	ProductLife         = "life"

	ProductAuto               = "auto"
	ProductMotorcycle         = "motorcycle"
	ProductBoat               = "boat"
	ProductRV                 = "rv"
	ProductHomeowners         = "homeowners"
	ProductRenters            = "renters"
	ProductCommercialProperty = "commercial_property"
	ProductGeneralLiability   = "general_liability"
	ProductUmbrella           = "umbrella"
	ProductWorkersComp        = "workers_comp"
)

// Coverage is one requested coverage on the application.
type Coverage struct {
	CoverageType     string  `json:"coverage_type,omitempty"`
	CoverageCategory string  `json:"coverage_category,omitempty"`
	BenefitAmount    float64 `json:"benefit_amount,omitempty"`
	LimitAmount      float64 `json:"limit_amount,omitempty"`
	AggregateLimit   float64 `json:"aggregate_limit,omitempty"`
}

// InsuredObject is one insured thing on a property & casualty application.
type InsuredObject struct {
	ObjectType       string  `json:"object_type,omitempty"`
	VehicleYear      int     `json:"vehicle_year,omitempty"`
	ConstructionType string  `json:"construction_type,omitempty"`
	InsuredValue     float64 `json:"insured_value,omitempty"`
	AnnualRevenue    float64 `json:"annual_revenue,omitempty"`
}

// RateInput is the normalized applicant/exposure description consumed by
// the pipeline. Metadata is an escape hatch for per-carrier extras; known
// keys (face_amount, daily_benefit, insured_value, annual_payroll) are
// honored as fallbacks by the plugins.
type RateInput struct {
	ProductType      string `json:"product_type"`
	RateTableVersion int    `json:"rate_table_version,omitempty"`
	CarrierCode      string `json:"carrier_code,omitempty"`

	Age   int    `json:"age"`
	Sex   string `json:"sex"`
	State string `json:"state"`

	Coverages      []Coverage      `json:"coverages,omitempty"`
	InsuredObjects []InsuredObject `json:"insured_objects,omitempty"`

	FactorSelections map[string]string `json:"factor_selections,omitempty"`
	RiderSelections  map[string]bool   `json:"rider_selections,omitempty"`

	OccupationClass string  `json:"occupation_class,omitempty"`
	UWClass         string  `json:"uw_class,omitempty"`
	TobaccoUse      bool    `json:"tobacco_use,omitempty"`
	HeightInches    float64 `json:"height_inches,omitempty"`
	WeightLbs       float64 `json:"weight_lbs,omitempty"`

	AnnualIncome            float64 `json:"annual_income,omitempty"`
	ExistingCoverageMonthly float64 `json:"existing_coverage_monthly,omitempty"`
	MonthlyBenefitRequested float64 `json:"monthly_benefit_requested,omitempty"`
	EliminationPeriodDays   int     `json:"elimination_period_days,omitempty"`
	BenefitPeriod           string  `json:"benefit_period,omitempty"`
	DefinitionOfDisability  string  `json:"definition_of_disability,omitempty"`

	PaymentMode string         `json:"payment_mode,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// AppliedFactor records one factor adjustment in the premium breakdown.
type AppliedFactor struct {
	Code    string  `json:"code"`
	Label   string  `json:"label,omitempty"`
	Option  string  `json:"option"`
	Mode    string  `json:"mode"`
	Value   float64 `json:"value"`
	Premium float64 `json:"premium"`
}

// AppliedRider records one rider charge in the premium breakdown.
type AppliedRider struct {
	Code   string  `json:"code"`
	Label  string  `json:"label,omitempty"`
	Mode   string  `json:"mode"`
	Value  float64 `json:"value"`
	Charge float64 `json:"charge"`
}

// AppliedFee records one fee or credit in the premium breakdown. Credits
// carry a negative amount.
type AppliedFee struct {
	Code   string  `json:"code"`
	Label  string  `json:"label,omitempty"`
	Type   string  `json:"type"`
	Mode   string  `json:"mode"`
	Value  float64 `json:"value"`
	Amount float64 `json:"amount"`
}

// RateOutput is the full auditable result of one rating call. Either
// Eligible is true and every stage field is populated, or Eligible is
// false with a reason and the numeric fields left zero from the failed
// stage onward. No partially-successful output exists.
type RateOutput struct {
	Eligible         bool   `json:"eligible"`
	IneligibleReason string `json:"ineligible_reason,omitempty"`

	EngineVersion    string `json:"engine_version"`
	RateTableVersion int    `json:"rate_table_version,omitempty"`

	Exposure      float64 `json:"exposure,omitempty"`
	BaseRateKey   string  `json:"base_rate_key,omitempty"`
	BaseRateValue float64 `json:"base_rate_value,omitempty"`
	BasePremium   float64 `json:"base_premium,omitempty"`

	PremiumFactored float64         `json:"premium_factored,omitempty"`
	FactorsApplied  []AppliedFactor `json:"factors_applied,omitempty"`

	PremiumWithRiders float64        `json:"premium_with_riders,omitempty"`
	RidersApplied     []AppliedRider `json:"riders_applied,omitempty"`

	PremiumAnnual float64      `json:"premium_annual"`
	FeesApplied   []AppliedFee `json:"fees_applied,omitempty"`

	PremiumModal float64 `json:"premium_modal"`
	ModalMode    string  `json:"modal_mode,omitempty"`
	ModalFactor  float64 `json:"modal_factor,omitempty"`
	ModalFee     float64 `json:"modal_fee,omitempty"`
}

// RunStatus is the terminal state of one rating invocation.
type RunStatus string

const (
	RunCompleted  RunStatus = "completed"
	RunIneligible RunStatus = "ineligible"
	RunError      RunStatus = "error"
)

// RatingRun is the immutable reproducibility record appended once per
// rating invocation. Never updated or deleted.
type RatingRun struct {
	ID             snowflake.ID   `json:"id" gorm:"primaryKey"`
	ProductType    string         `json:"product_type" gorm:"type:text;not null;index"`
	RateTableID    *snowflake.ID  `json:"rate_table_id,omitempty" gorm:"index"`
	TableVersion   int            `json:"rate_table_version" gorm:"not null;default:0"`
	EngineVersion  string         `json:"engine_version" gorm:"type:text;not null"`
	CorrelationID  string         `json:"correlation_id,omitempty" gorm:"type:text;index"`
	InputHash      string         `json:"input_hash" gorm:"type:text;not null;index"`
	InputSnapshot  datatypes.JSON `json:"input_snapshot" gorm:"type:jsonb"`
	OutputSnapshot datatypes.JSON `json:"output_snapshot,omitempty" gorm:"type:jsonb"`
	PremiumAnnual  float64        `json:"premium_annual" gorm:"type:numeric;not null;default:0"`
	PremiumModal   float64        `json:"premium_modal" gorm:"type:numeric;not null;default:0"`
	Status         RunStatus      `json:"status" gorm:"type:text;not null;index"`
	ErrorMessage   string         `json:"error_message,omitempty" gorm:"type:text"`
	DurationMS     int64          `json:"duration_ms" gorm:"not null;default:0"`
	CreatedAt      time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (RatingRun) TableName() string { return "rating_runs" }
