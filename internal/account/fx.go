package account

import (
	"github.com/mekadomus/aquaflow/internal/account/repository"
	"github.com/mekadomus/aquaflow/internal/account/service"
	"go.uber.org/fx"
)

var Module = fx.Module("account.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
