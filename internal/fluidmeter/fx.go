package fluidmeter

import (
	"github.com/mekadomus/aquaflow/internal/fluidmeter/repository"
	"github.com/mekadomus/aquaflow/internal/fluidmeter/service"
	"go.uber.org/fx"
)

var Module = fx.Module("fluidmeter.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
