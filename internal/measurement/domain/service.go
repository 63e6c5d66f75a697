package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/mekadomus/aquaflow/internal/series"
)

type Service interface {
	Save(ctx context.Context, req SaveRequest) (*Measurement, error)
	Range(ctx context.Context, deviceID snowflake.ID, from, to time.Time, limit int) ([]Measurement, error)
	Series(ctx context.Context, req SeriesRequest) (*series.Series, error)
}

type SaveRequest struct {
	DeviceID    string `json:"device_id"`
	Measurement string `json:"measurement"`
}

type SeriesRequest struct {
	MeterID     snowflake.ID
	Granularity series.Granularity
	// Day selects the 24-hour window for hourly series. Required for Hour,
	// ignored otherwise.
	Day *time.Time
}
