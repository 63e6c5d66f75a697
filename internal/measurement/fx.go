package measurement

import (
	"context"

	"github.com/mekadomus/aquaflow/internal/config"
	measurementdomain "github.com/mekadomus/aquaflow/internal/measurement/domain"
	"github.com/mekadomus/aquaflow/internal/measurement/repository"
	"github.com/mekadomus/aquaflow/internal/measurement/service"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProvideRepository picks the measurement backend. Catalog data always sits
// in the relational store; only the high-volume measurement stream moves to
// mongo when configured.
func ProvideRepository(lc fx.Lifecycle, cfg config.Config, db *gorm.DB, log *zap.Logger) (measurementdomain.Repository, error) {
	if cfg.MeasurementStore != config.MeasurementStoreMongo {
		return repository.NewGorm(db, cfg.Measurement.RateWindow), nil
	}

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})

	return repository.NewMongo(client, cfg.MongoDatabase, log), nil
}

var Module = fx.Module("measurement.service",
	fx.Provide(ProvideRepository),
	fx.Provide(service.New),
)
