package service

import (
	"context"

	alertdomain "github.com/mekadomus/aquaflow/internal/alert/domain"
	"github.com/mekadomus/aquaflow/internal/alert/detector"
	"github.com/mekadomus/aquaflow/internal/clock"
	"github.com/mekadomus/aquaflow/internal/config"
	meterdomain "github.com/mekadomus/aquaflow/internal/fluidmeter/domain"
	measurementdomain "github.com/mekadomus/aquaflow/internal/measurement/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log            *zap.Logger
	Clock          clock.Clock
	Config         config.Config
	MeasurementSvc measurementdomain.Service
}

// Compiler composes the detectors with a bounded measurement lookback into a
// per-meter alert list.
type Compiler struct {
	log            *zap.Logger
	clock          clock.Clock
	detectors      detector.Config
	lookback       config.AlertsConfig
	measurementsvc measurementdomain.Service
}

func New(p Params) alertdomain.Compiler {
	return &Compiler{
		log:   p.Log.Named("alert.compiler"),
		clock: p.Clock,
		detectors: detector.Config{
			ConstantFlowThreshold: p.Config.Alerts.ConstantFlowThreshold,
			NoReportsThreshold:    p.Config.Alerts.NoReportsThreshold,
		}.WithDefaults(),
		lookback:       p.Config.Alerts,
		measurementsvc: p.MeasurementSvc,
	}
}

// GetAlerts evaluates one meter. A storage failure while reading its recent
// measurements propagates to the caller; the sweep treats that as systemic.
func (c *Compiler) GetAlerts(ctx context.Context, meter *meterdomain.FluidMeter) (*alertdomain.FluidMeterAlerts, error) {
	now := c.clock.Now()
	measurements, err := c.measurementsvc.Range(
		ctx,
		meter.ID,
		now.Add(-c.lookback.MeasurementLookback),
		now,
		c.lookback.LookbackPageSize,
	)
	if err != nil {
		return nil, err
	}

	result := &alertdomain.FluidMeterAlerts{
		Meter:  *meter,
		Alerts: []alertdomain.Alert{},
	}

	if c.detectors.HasConstantFlow(measurements) {
		result.Alerts = append(result.Alerts, alertdomain.Alert{Type: alertdomain.AlertTypeConstantFlow})
	}
	if c.detectors.IsNotReporting(now, meter, measurements) {
		result.Alerts = append(result.Alerts, alertdomain.Alert{Type: alertdomain.AlertTypeNotReporting})
	}

	return result, nil
}
