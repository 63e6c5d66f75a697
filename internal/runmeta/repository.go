package runmeta

import (
	"context"

	"go.uber.org/fx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Get(ctx context.Context, key string) (*Metadata, error)
	// Save upserts; metadata rows are written once per sweep attempt and
	// never deleted.
	Save(ctx context.Context, key, value string) error
}

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Get(ctx context.Context, key string) (*Metadata, error) {
	var meta Metadata
	err := r.db.WithContext(ctx).Raw(
		`SELECT meta_key, value FROM metadata WHERE meta_key = ?`,
		key,
	).Scan(&meta).Error
	if err != nil {
		return nil, err
	}
	if meta.Key == "" {
		return nil, nil
	}
	return &meta, nil
}

func (r *repo) Save(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "meta_key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"value": value}),
		}).
		Create(&Metadata{Key: key, Value: value}).Error
}

// Module provides the run-metadata store.
var Module = fx.Module("runmeta",
	fx.Provide(Provide),
)
