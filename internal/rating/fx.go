package rating

import (
	"github.com/michelevens/insureflow/internal/clock"
	"github.com/michelevens/insureflow/internal/rating/plugin"
	"github.com/michelevens/insureflow/internal/rating/repository"
	"github.com/michelevens/insureflow/internal/rating/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rating.service",
	fx.Provide(newRegistry),
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)

func newRegistry(clk clock.Clock) (*plugin.Registry, error) {
	return plugin.NewRegistry(
		plugin.NewDisabilityPlugin(),
		plugin.NewLifePlugin(),
		plugin.NewPCPlugin(clk),
	)
}
