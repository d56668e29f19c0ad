// Package service orchestrates one rating run: plugin dispatch, snapshot
// load, the shared pipeline stages, and the append-only run record.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/michelevens/insureflow/internal/clock"
	"github.com/michelevens/insureflow/internal/cloudmetrics"
	"github.com/michelevens/insureflow/internal/config"
	"github.com/michelevens/insureflow/internal/observability/metrics"
	"github.com/michelevens/insureflow/internal/rating/domain"
	"github.com/michelevens/insureflow/internal/rating/engine"
	"github.com/michelevens/insureflow/internal/rating/plugin"
	ratetabledomain "github.com/michelevens/insureflow/internal/ratetable/domain"
	"github.com/michelevens/insureflow/pkg/db/pagination"
	"github.com/michelevens/insureflow/pkg/telemetry/correlation"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clk     clock.Clock
	params  *config.RatingParamsHolder
	metrics *metrics.Metrics

	registry *plugin.Registry
	tables   ratetabledomain.Repository
	runs     domain.Repository
}

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Params   *config.RatingParamsHolder
	Metrics  *metrics.Metrics
	Registry *plugin.Registry
	Tables   ratetabledomain.Repository
	Runs     domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("rating.service"),
		genID:    p.GenID,
		clk:      p.Clock,
		params:   p.Params,
		metrics:  p.Metrics,
		registry: p.Registry,
		tables:   p.Tables,
		runs:     p.Runs,
	}
}

// evaluation carries the pipeline result into the run record.
type evaluation struct {
	output  domain.RateOutput
	tableID *snowflake.ID
	version int
}

func (s *Service) Rate(ctx context.Context, input domain.RateInput) (*domain.RateResponse, error) {
	start := s.clk.Now()
	ctx, corrID := correlation.EnsureCorrelationID(ctx)
	log := s.log.With(
		zap.String("correlation_id", corrID),
		zap.String("product_type", input.ProductType),
	)

	hash, err := domain.InputHash(input)
	if err != nil {
		return nil, fmt.Errorf("hash rate input: %w", err)
	}

	plug, ok := s.registry.Lookup(input.ProductType)
	if !ok {
		err := fmt.Errorf("%w: %q", domain.ErrUnknownProductType, input.ProductType)
		s.record(ctx, log, input, hash, corrID, evaluation{}, err, start)
		return nil, err
	}

	eval, err := s.evaluate(ctx, log, plug, &input)
	run, recordErr := s.record(ctx, log, input, hash, corrID, eval, err, start)
	if err != nil {
		return nil, err
	}
	if recordErr != nil {
		return nil, recordErr
	}

	return &domain.RateResponse{RunID: run.ID.String(), Output: eval.output}, nil
}

// evaluate runs the pipeline inside one read transaction so the run sees a
// consistent snapshot of the rate table even while it is being re-authored.
func (s *Service) evaluate(ctx context.Context, log *zap.Logger, plug plugin.Plugin, input *domain.RateInput) (evaluation, error) {
	eval := evaluation{
		output: domain.RateOutput{EngineVersion: domain.EngineVersion},
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return eval, fmt.Errorf("begin rating transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	var carrierID *snowflake.ID
	if code := strings.TrimSpace(input.CarrierCode); code != "" {
		carrier, err := s.tables.FindCarrierByCode(ctx, tx, code)
		if err != nil {
			return eval, fmt.Errorf("%w: %v", domain.ErrRateDataUnavailable, err)
		}
		if carrier == nil {
			eval.output.IneligibleReason = fmt.Sprintf("no rate data for carrier %q", code)
			return eval, nil
		}
		carrierID = &carrier.ID
	}

	table, err := s.tables.ActiveFor(ctx, tx, input.ProductType, input.RateTableVersion, carrierID, s.clk.Now())
	if err != nil {
		return eval, fmt.Errorf("%w: %v", domain.ErrRateDataUnavailable, err)
	}
	if table == nil {
		eval.output.IneligibleReason = fmt.Sprintf("no active rate table for product type %q", input.ProductType)
		return eval, nil
	}
	eval.tableID = &table.ID
	eval.version = table.Version
	eval.output.RateTableVersion = table.Version

	snap, err := s.tables.LoadSnapshot(ctx, tx, *table)
	if err != nil {
		return eval, fmt.Errorf("%w: %v", domain.ErrRateDataUnavailable, err)
	}

	if reason := plug.CheckEligibility(input); reason != "" {
		eval.output.IneligibleReason = reason
		return eval, nil
	}

	exposure, reason := plug.Exposure(input, s.params.Current())
	if reason != "" {
		eval.output.IneligibleReason = reason
		return eval, nil
	}
	eval.output.Exposure = exposure

	keys := plug.RateKeys(input)
	base, err := engine.ResolveBaseRate(snap, keys)
	if err != nil {
		return eval, err
	}
	if base == nil {
		eval.output.IneligibleReason = fmt.Sprintf("no base rate for key %q", keys[len(keys)-1])
		return eval, nil
	}
	if base.FallbackDepth > 0 {
		s.metrics.RecordLookupFallback(ctx, input.ProductType, base.FallbackDepth)
		log.Debug("base rate resolved via wildcard fallback",
			zap.String("rate_key", base.Key),
			zap.Int("fallback_depth", base.FallbackDepth),
		)
	}

	premium := base.Value * exposure
	eval.output.BaseRateKey = base.Key
	eval.output.BaseRateValue = base.Value
	eval.output.BasePremium = engine.Round2(premium)

	premium, eval.output.FactorsApplied = engine.ApplyFactors(snap, input, plug.AutoSelectors(), premium)
	eval.output.PremiumFactored = engine.Round2(premium)

	premium, eval.output.RidersApplied = engine.ApplyRiders(snap, input, exposure, premium)
	eval.output.PremiumWithRiders = engine.Round2(premium)

	premium, eval.output.FeesApplied = engine.ApplyFees(snap, premium)
	eval.output.PremiumAnnual = engine.Round2(premium)

	mode := engine.NormalizePaymentMode(input.PaymentMode)
	modal := engine.ModalConvert(snap, s.params.Current(), mode, premium)
	eval.output.PremiumModal = modal.Premium
	eval.output.ModalMode = string(modal.Mode)
	eval.output.ModalFactor = modal.Factor
	eval.output.ModalFee = modal.FlatFee

	eval.output.Eligible = true
	return eval, nil
}

// record appends the run after the read transaction closed. A failed
// append fails the rating call: a RunID must never reference a record
// that was not persisted. A pipeline error still wins over the append
// error.
func (s *Service) record(ctx context.Context, log *zap.Logger, input domain.RateInput, hash, corrID string, eval evaluation, pipelineErr error, start time.Time) (*domain.RatingRun, error) {
	status := domain.RunCompleted
	errMsg := ""
	switch {
	case pipelineErr != nil:
		status = domain.RunError
		errMsg = pipelineErr.Error()
	case !eval.output.Eligible:
		status = domain.RunIneligible
	}

	inputJSON, err := domain.CanonicalJSON(input)
	if err != nil {
		log.Error("serialize rating input", zap.Error(err))
	}
	run := &domain.RatingRun{
		ID:            s.genID.Generate(),
		ProductType:   input.ProductType,
		RateTableID:   eval.tableID,
		TableVersion:  eval.version,
		EngineVersion: domain.EngineVersion,
		CorrelationID: corrID,
		InputHash:     hash,
		InputSnapshot: datatypes.JSON(inputJSON),
		PremiumAnnual: eval.output.PremiumAnnual,
		PremiumModal:  eval.output.PremiumModal,
		Status:        status,
		ErrorMessage:  errMsg,
		DurationMS:    s.clk.Now().Sub(start).Milliseconds(),
		CreatedAt:     s.clk.Now(),
	}
	if pipelineErr == nil {
		if outputJSON, err := domain.CanonicalJSON(eval.output); err == nil {
			run.OutputSnapshot = datatypes.JSON(outputJSON)
		}
	}

	var insertErr error
	if err := s.runs.Insert(ctx, s.db, run); err != nil {
		insertErr = fmt.Errorf("append rating run: %w", err)
		log.Error("append rating run", zap.Error(err))
	}
	s.metrics.RecordRatingRun(ctx, input.ProductType, string(status), s.clk.Now().Sub(start))
	cloudmetrics.RecordRatingRun(input.ProductType, string(status))
	if pipelineErr != nil {
		cloudmetrics.RecordEngineError("rate")
	}
	if insertErr == nil {
		log.Info("rating run recorded",
			zap.String("run_id", run.ID.String()),
			zap.String("status", string(status)),
			zap.String("input_hash", hash),
			zap.Float64("premium_annual", run.PremiumAnnual),
		)
	}
	return run, insertErr
}

func (s *Service) GetRun(ctx context.Context, id string) (*domain.RatingRun, error) {
	runID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidRunID
	}
	run, err := s.runs.FindByID(ctx, s.db, runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, domain.ErrRunNotFound
	}
	return run, nil
}

func (s *Service) ListRuns(ctx context.Context, req domain.ListRunsRequest) (domain.ListRunsResponse, error) {
	var cursor *domain.RunCursor
	if strings.TrimSpace(req.PageToken) != "" {
		decoded, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return domain.ListRunsResponse{}, domain.ErrInvalidPageToken
		}
		createdAt, err := time.Parse(time.RFC3339Nano, decoded.CreatedAt)
		if err != nil {
			return domain.ListRunsResponse{}, domain.ErrInvalidPageToken
		}
		id, err := snowflake.ParseString(strings.TrimSpace(decoded.ID))
		if err != nil || id == 0 {
			return domain.ListRunsResponse{}, domain.ErrInvalidPageToken
		}
		cursor = &domain.RunCursor{ID: id, CreatedAt: createdAt}
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	if pageSize > 250 {
		pageSize = 250
	}

	items, err := s.runs.List(ctx, s.db, domain.ListRunsFilter{
		ProductType: req.ProductType,
		Status:      req.Status,
		Cursor:      cursor,
		Limit:       pageSize,
	})
	if err != nil {
		return domain.ListRunsResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, int32(pageSize), func(item *domain.RatingRun) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        item.ID.String(),
			CreatedAt: item.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	runs := make([]domain.RatingRun, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		runs = append(runs, *item)
	}
	return domain.ListRunsResponse{Runs: runs, PageInfo: pageInfo}, nil
}
