package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/mekadomus/aquaflow/internal/clock"
	"github.com/mekadomus/aquaflow/internal/config"
	meterdomain "github.com/mekadomus/aquaflow/internal/fluidmeter/domain"
	measurementdomain "github.com/mekadomus/aquaflow/internal/measurement/domain"
	"github.com/mekadomus/aquaflow/internal/series"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Clock    clock.Clock
	Config   config.Config
	Repo     measurementdomain.Repository
	MeterSvc meterdomain.Service
}

type Service struct {
	log      *zap.Logger
	clock    clock.Clock
	cfg      config.MeasurementConfig
	repo     measurementdomain.Repository
	metersvc meterdomain.Service
}

func New(p Params) measurementdomain.Service {
	return &Service{
		log:      p.Log.Named("measurement.service"),
		clock:    p.Clock,
		cfg:      p.Config.Measurement,
		repo:     p.Repo,
		metersvc: p.MeterSvc,
	}
}

func (s *Service) Save(ctx context.Context, req measurementdomain.SaveRequest) (*measurementdomain.Measurement, error) {
	deviceID, err := meterdomain.ParseID(strings.TrimSpace(req.DeviceID))
	if err != nil {
		return nil, measurementdomain.ErrInvalidMeter
	}

	meter, err := s.metersvc.GetByID(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if meter == nil || meter.Status != meterdomain.StatusActive {
		return nil, measurementdomain.ErrInvalidMeter
	}

	value := strings.TrimSpace(req.Measurement)
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsInf(parsed, 0) || math.IsNaN(parsed) {
		return nil, measurementdomain.ErrInvalidValue
	}

	m := &measurementdomain.Measurement{
		ID:          uuid.NewString(),
		DeviceID:    meter.ID,
		Measurement: value,
		RecordedAt:  s.clock.Now(),
	}

	saved, err := s.repo.Save(ctx, m)
	if err != nil {
		return nil, err
	}

	// The meter reported, so refresh its liveness signal. Best effort: a
	// failed touch must not undo an accepted reading.
	if err := s.metersvc.Touch(ctx, meter.ID); err != nil {
		s.log.Warn("failed to touch meter after measurement",
			zap.String("device_id", meter.ID.String()),
			zap.Error(err))
	}

	return saved, nil
}

func (s *Service) Range(ctx context.Context, deviceID snowflake.ID, from, to time.Time, limit int) ([]measurementdomain.Measurement, error) {
	return s.repo.Range(ctx, deviceID, from, to, limit)
}

// Series aggregates a meter's readings for display. Hourly series cover the
// requested calendar day; daily and monthly series cover the trailing 30
// days.
func (s *Service) Series(ctx context.Context, req measurementdomain.SeriesRequest) (*series.Series, error) {
	var from, to time.Time
	switch req.Granularity {
	case series.GranularityHour:
		if req.Day == nil {
			return nil, measurementdomain.ErrDayRequired
		}
		day := *req.Day
		from = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		to = from.Add(24 * time.Hour)
	case series.GranularityDay, series.GranularityMonth:
		to = s.clock.Now()
		from = to.Add(-30 * 24 * time.Hour)
	default:
		return nil, measurementdomain.ErrInvalidGranularity
	}

	measurements, err := s.repo.Range(ctx, req.MeterID, from, to, s.cfg.SeriesReadLimit)
	if err != nil {
		return nil, err
	}

	readings := make([]series.Reading, len(measurements))
	for i, m := range measurements {
		readings[i] = series.Reading{
			ID:         m.ID,
			Value:      m.Measurement,
			RecordedAt: m.RecordedAt,
		}
	}

	result := series.Create(readings, req.Granularity)
	return &result, nil
}
