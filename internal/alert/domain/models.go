package domain

import (
	meterdomain "github.com/mekadomus/aquaflow/internal/fluidmeter/domain"
)

// AlertType tags an anomaly condition. Alerts are computed on demand during
// a sweep and never persisted.
type AlertType string

const (
	// AlertTypeConstantFlow flags uninterrupted flow over the sampling
	// window, a possible leak.
	AlertTypeConstantFlow AlertType = "ConstantFlow"
	// AlertTypeNotReporting flags a meter that went quiet.
	AlertTypeNotReporting AlertType = "NotReporting"
)

type Alert struct {
	Type AlertType `json:"alert_type"`
}

// FluidMeterAlerts is the per-meter evaluation result produced during a
// sweep, grouped by owner before notification.
type FluidMeterAlerts struct {
	Meter  meterdomain.FluidMeter `json:"meter"`
	Alerts []Alert                `json:"alerts"`
}
