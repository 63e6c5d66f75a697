package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	measurementdomain "github.com/mekadomus/aquaflow/internal/measurement/domain"
	"gorm.io/gorm"
)

// gormRepo is the relational measurement backend. Readings are rate-limited
// per device with a minimum-interval gate: inside one transaction it reads
// the newest stored reading and rejects the submission when it falls inside
// the rate window. The read-then-insert pair must stay atomic per meter or
// two concurrent submissions can both pass the gate.
type gormRepo struct {
	db         *gorm.DB
	rateWindow time.Duration
}

func NewGorm(db *gorm.DB, rateWindow time.Duration) measurementdomain.Repository {
	return &gormRepo{db: db, rateWindow: rateWindow}
}

func (r *gormRepo) Save(ctx context.Context, m *measurementdomain.Measurement) (*measurementdomain.Measurement, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serialize concurrent saves per meter by locking the meter row.
		// SQLite has a single writer and rejects FOR UPDATE.
		if tx.Dialector.Name() != "sqlite" {
			if err := tx.Exec(
				`SELECT id FROM fluid_meters WHERE id = ? FOR UPDATE`,
				m.DeviceID,
			).Error; err != nil {
				return err
			}
		}

		var last measurementdomain.Measurement
		if err := tx.Raw(
			`SELECT id, device_id, measurement, recorded_at
			 FROM measurements
			 WHERE device_id = ?
			 ORDER BY recorded_at DESC
			 LIMIT 1`,
			m.DeviceID,
		).Scan(&last).Error; err != nil {
			return err
		}

		if last.ID != "" && m.RecordedAt.Sub(last.RecordedAt) < r.rateWindow {
			return measurementdomain.ErrTooFrequent
		}

		return tx.Exec(
			`INSERT INTO measurements (id, device_id, measurement, recorded_at)
			 VALUES (?, ?, ?, ?)`,
			m.ID,
			m.DeviceID,
			m.Measurement,
			m.RecordedAt,
		).Error
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *gormRepo) Range(ctx context.Context, deviceID snowflake.ID, from, to time.Time, limit int) ([]measurementdomain.Measurement, error) {
	var measurements []measurementdomain.Measurement
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, device_id, measurement, recorded_at
		 FROM measurements
		 WHERE device_id = ? AND recorded_at > ? AND recorded_at <= ?
		 ORDER BY recorded_at DESC
		 LIMIT ?`,
		deviceID,
		from,
		to,
		limit,
	).Scan(&measurements).Error
	if err != nil {
		return nil, err
	}
	return measurements, nil
}
