package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Measurement is one timestamped reading submitted by a meter. The value is
// kept as a decimal string on the wire and in storage; it is validated as
// numeric at the ingestion boundary.
type Measurement struct {
	ID          string       `json:"id" bson:"id" gorm:"primaryKey;type:varchar(64)"`
	DeviceID    snowflake.ID `json:"device_id" bson:"device_id" gorm:"not null;index:ix_measurements_device_recorded,priority:1"`
	Measurement string       `json:"measurement" bson:"measurement" gorm:"type:text;not null"`
	RecordedAt  time.Time    `json:"recorded_at" bson:"recorded_at" gorm:"not null;index:ix_measurements_device_recorded,priority:2"`
}

// TableName sets the database table name.
func (Measurement) TableName() string { return "measurements" }

var (
	// ErrInvalidMeter means the submitting meter is unknown, deleted or not
	// Active. Surfaced to the device as a field-level validation error.
	ErrInvalidMeter = errors.New("invalid_device")
	// ErrInvalidValue means the submitted value is not a finite decimal.
	ErrInvalidValue = errors.New("invalid_measurement")
	// ErrTooFrequent means the reading arrived inside the rate window.
	ErrTooFrequent = errors.New("too_frequent")
	// ErrDayRequired means an hourly series was requested without a day.
	ErrDayRequired = errors.New("day_required")
	// ErrInvalidGranularity means the requested bucket width is unknown.
	ErrInvalidGranularity = errors.New("invalid_granularity")
)
