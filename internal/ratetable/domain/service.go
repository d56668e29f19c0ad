package domain

import (
	"context"
	"errors"

	"github.com/michelevens/insureflow/pkg/db/pagination"
)

// Service is the read-only listing surface over rate tables. Authoring and
// approval happen in an external process.
type Service interface {
	List(ctx context.Context, req ListTablesRequest) (ListTablesResponse, error)
	Get(ctx context.Context, id string) (*TableDetail, error)
}

type ListTablesRequest struct {
	pagination.Pagination
	ProductType string `form:"product_type"`
}

type ListTablesResponse struct {
	Tables []RateTable `json:"rate_tables"`
}

// TableDetail is a table with its row counts, enough for an operator to
// confirm what the engine will read without dumping every row.
type TableDetail struct {
	Table       RateTable `json:"rate_table"`
	EntryCount  int64     `json:"entry_count"`
	FactorCount int64     `json:"factor_count"`
	RiderCount  int64     `json:"rider_count"`
	FeeCount    int64     `json:"fee_count"`
	ModalCount  int64     `json:"modal_count"`
	CarrierCode string    `json:"carrier_code,omitempty"`
}

var (
	ErrNotFound  = errors.New("rate_table_not_found")
	ErrInvalidID = errors.New("invalid_rate_table_id")
)
