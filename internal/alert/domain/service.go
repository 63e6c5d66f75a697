package domain

import (
	"context"

	meterdomain "github.com/mekadomus/aquaflow/internal/fluidmeter/domain"
)

// Compiler evaluates one meter against all anomaly detectors.
type Compiler interface {
	GetAlerts(ctx context.Context, meter *meterdomain.FluidMeter) (*FluidMeterAlerts, error)
}
