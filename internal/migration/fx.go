package migration

import (
	"github.com/mekadomus/aquaflow/internal/account/domain"
	"github.com/mekadomus/aquaflow/internal/config"
	fluidmeterdomain "github.com/mekadomus/aquaflow/internal/fluidmeter/domain"
	measurementdomain "github.com/mekadomus/aquaflow/internal/measurement/domain"
	"github.com/mekadomus/aquaflow/internal/runmeta"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// mysql and sqlite have no versioned migration set; let gorm derive
		// the schema from the models.
		return conn.AutoMigrate(
			&domain.Account{},
			&fluidmeterdomain.FluidMeter{},
			&measurementdomain.Measurement{},
			&runmeta.Metadata{},
		)
	}),
)
