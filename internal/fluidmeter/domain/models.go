package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status gates both ingestion and sweep eligibility.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
	// StatusDeleted meters are excluded from every listing. Rows are kept so
	// historic measurements stay attributable.
	StatusDeleted Status = "Deleted"
)

// FluidMeter is a registered flow-sensing device, the unit of ownership and
// alerting. UpdatedAt is the meter's own liveness signal: it is bumped on
// status changes and on every accepted measurement, and is distinct from
// measurement recency.
type FluidMeter struct {
	ID         snowflake.ID `json:"id" gorm:"primaryKey"`
	OwnerID    snowflake.ID `json:"owner_id" gorm:"not null;index"`
	Name       string       `json:"name" gorm:"type:text;not null"`
	Status     Status       `json:"status" gorm:"type:varchar(16);not null;index:ix_fluid_meters_status_id,priority:1"`
	RecordedAt time.Time    `json:"recorded_at" gorm:"not null"`
	UpdatedAt  time.Time    `json:"updated_at" gorm:"not null"`
}

// TableName sets the database table name.
func (FluidMeter) TableName() string { return "fluid_meters" }

var (
	ErrInvalidOwner = errors.New("invalid_owner_id")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidID    = errors.New("invalid_meter_id")
	ErrNotFound     = errors.New("not_found")
)

func ParseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(value)
}
