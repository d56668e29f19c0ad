package cloudmetrics

import (
	"context"
	"runtime"
	"time"

	"github.com/michelevens/insureflow/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const pushInterval = 30 * time.Minute

var Module = fx.Module("cloud.metrics",
	fx.Provide(func() *prometheus.Registry {
		return prometheus.NewRegistry()
	}),
	fx.Provide(NewPusher),
	fx.Invoke(register),
)

func register(lc fx.Lifecycle, cfg config.Config, registry *prometheus.Registry, pusher Pusher, logger *zap.Logger, db *gorm.DB) {
	if pusher == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.Named("cloudmetrics")

	rec := &recorder{metrics: newMetrics(registry)}
	setRecorder(rec)

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("starting cloud metrics background worker")
			go func() {
				ticker := time.NewTicker(pushInterval)
				defer ticker.Stop()

				collectAndPush(ctx, rec, pusher, registry, db, log)
				for {
					select {
					case <-ticker.C:
						collectAndPush(ctx, rec, pusher, registry, db, log)
					case <-ctx.Done():
						log.Info("stopping cloud metrics background worker")
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func collectAndPush(ctx context.Context, rec *recorder, pusher Pusher, registry *prometheus.Registry, db *gorm.DB, log *zap.Logger) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	rec.SetMemoryUsage(m.Sys)

	if db != nil {
		var count int64
		if err := db.WithContext(ctx).Table("rate_tables").Count(&count).Error; err == nil {
			rec.SetRateTableCount(count)
		}
	}

	pushCtx, cancel := context.WithTimeout(ctx, defaultPushTimeout)
	defer cancel()
	if err := pusher.Push(pushCtx, registry); err != nil {
		log.Error("cloud metrics push failed", zap.Error(err))
	}
}
