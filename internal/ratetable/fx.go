package ratetable

import (
	"github.com/michelevens/insureflow/internal/ratetable/repository"
	"github.com/michelevens/insureflow/internal/ratetable/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ratetable.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
