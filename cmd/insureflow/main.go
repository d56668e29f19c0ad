package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/michelevens/insureflow/internal/clock"
	"github.com/michelevens/insureflow/internal/cloudmetrics"
	"github.com/michelevens/insureflow/internal/config"
	"github.com/michelevens/insureflow/internal/migration"
	"github.com/michelevens/insureflow/internal/observability"
	"github.com/michelevens/insureflow/internal/rating"
	"github.com/michelevens/insureflow/internal/ratetable"
	"github.com/michelevens/insureflow/internal/server"
	"github.com/michelevens/insureflow/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		cloudmetrics.Module,

		// Rating domains
		ratetable.Module,
		rating.Module,

		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) *snowflake.Node {
	node, err := snowflake.NewNode(cfg.SnowflakeNode)
	if err != nil {
		panic(err)
	}
	return node
}
