package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	meterdomain "github.com/mekadomus/aquaflow/internal/fluidmeter/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() meterdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, m *meterdomain.FluidMeter) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO fluid_meters (id, owner_id, name, status, recorded_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID,
		m.OwnerID,
		m.Name,
		m.Status,
		m.RecordedAt,
		m.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*meterdomain.FluidMeter, error) {
	var meter meterdomain.FluidMeter
	err := db.WithContext(ctx).Raw(
		`SELECT id, owner_id, name, status, recorded_at, updated_at
		 FROM fluid_meters WHERE id = ?`,
		id,
	).Scan(&meter).Error
	if err != nil {
		return nil, err
	}
	if meter.ID == 0 {
		return nil, nil
	}
	return &meter, nil
}

func (r *repo) ListByOwner(ctx context.Context, db *gorm.DB, ownerID, cursor snowflake.ID, limit int) ([]meterdomain.FluidMeter, error) {
	var meters []meterdomain.FluidMeter
	err := db.WithContext(ctx).Raw(
		`SELECT id, owner_id, name, status, recorded_at, updated_at
		 FROM fluid_meters
		 WHERE owner_id = ? AND status <> ? AND id > ?
		 ORDER BY id ASC
		 LIMIT ?`,
		ownerID,
		meterdomain.StatusDeleted,
		cursor,
		limit,
	).Scan(&meters).Error
	if err != nil {
		return nil, err
	}
	return meters, nil
}

func (r *repo) ListActive(ctx context.Context, db *gorm.DB, cursor snowflake.ID, limit int) ([]meterdomain.FluidMeter, error) {
	var meters []meterdomain.FluidMeter
	err := db.WithContext(ctx).Raw(
		`SELECT id, owner_id, name, status, recorded_at, updated_at
		 FROM fluid_meters
		 WHERE status = ? AND id > ?
		 ORDER BY id ASC
		 LIMIT ?`,
		meterdomain.StatusActive,
		cursor,
		limit,
	).Scan(&meters).Error
	if err != nil {
		return nil, err
	}
	return meters, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status meterdomain.Status, now time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE fluid_meters SET status = ?, updated_at = ? WHERE id = ?`,
		status,
		now,
		id,
	).Error
}

func (r *repo) Touch(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE fluid_meters SET updated_at = ? WHERE id = ?`,
		now,
		id,
	).Error
}
