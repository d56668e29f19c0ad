package domain

import (
	"context"
	"errors"

	"github.com/michelevens/insureflow/pkg/db/pagination"
)

// EngineVersion is stamped on every RateOutput and RatingRun so a recorded
// run can be replayed against the exact pipeline that produced it. Bump on
// any change that can alter a premium.
const EngineVersion = "1.4.0"

type Service interface {
	// Rate runs the full pipeline for one input. Business ineligibility is
	// a normal result (Output.Eligible=false), never an error. A non-nil
	// error is a system failure; a run record is still appended.
	Rate(ctx context.Context, input RateInput) (*RateResponse, error)

	GetRun(ctx context.Context, id string) (*RatingRun, error)
	ListRuns(ctx context.Context, req ListRunsRequest) (ListRunsResponse, error)
}

type RateResponse struct {
	RunID  string     `json:"run_id"`
	Output RateOutput `json:"output"`
}

type ListRunsRequest struct {
	pagination.Pagination
	ProductType string `form:"product_type"`
	Status      string `form:"status"`
}

type ListRunsResponse struct {
	Runs     []RatingRun          `json:"rating_runs"`
	PageInfo *pagination.PageInfo `json:"page_info,omitempty"`
}

var (
	ErrUnknownProductType  = errors.New("unknown_product_type")
	ErrMalformedRate       = errors.New("malformed_rate_value")
	ErrRateDataUnavailable = errors.New("rate_data_unavailable")
	ErrInvalidRunID        = errors.New("invalid_rating_run_id")
	ErrRunNotFound         = errors.New("rating_run_not_found")
	ErrInvalidPageToken    = errors.New("invalid_page_token")
)
