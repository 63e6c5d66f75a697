package alert

import (
	"github.com/mekadomus/aquaflow/internal/alert/service"
	"github.com/mekadomus/aquaflow/internal/alert/sweep"
	"go.uber.org/fx"
)

var Module = fx.Module("alert.service",
	fx.Provide(service.New),
	fx.Provide(sweep.FromConfig),
	fx.Provide(sweep.New),
)
