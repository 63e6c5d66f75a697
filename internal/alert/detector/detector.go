// Package detector holds the anomaly predicates. Both are pure functions
// over a meter and its recent readings, newest first; the caller owns the
// lookback windowing.
package detector

import (
	"strconv"
	"time"

	meterdomain "github.com/mekadomus/aquaflow/internal/fluidmeter/domain"
	measurementdomain "github.com/mekadomus/aquaflow/internal/measurement/domain"
)

const (
	defaultConstantFlowThreshold = 5
	defaultNoReportsThreshold    = 24 * time.Hour
)

type Config struct {
	// ConstantFlowThreshold is how many consecutive non-zero readings count
	// as non-stop flow.
	ConstantFlowThreshold int
	// NoReportsThreshold is how long a meter may stay silent before it is
	// considered unreachable.
	NoReportsThreshold time.Duration
}

func (c Config) WithDefaults() Config {
	if c.ConstantFlowThreshold <= 0 {
		c.ConstantFlowThreshold = defaultConstantFlowThreshold
	}
	if c.NoReportsThreshold <= 0 {
		c.NoReportsThreshold = defaultNoReportsThreshold
	}
	return c
}

// HasConstantFlow reports whether the most recent readings are all non-zero.
// Fewer readings than the threshold never flags. A reading that fails to
// parse counts as zero.
func (c Config) HasConstantFlow(measurements []measurementdomain.Measurement) bool {
	if len(measurements) < c.ConstantFlowThreshold {
		return false
	}

	for _, m := range measurements[:c.ConstantFlowThreshold] {
		v, err := strconv.ParseFloat(m.Measurement, 64)
		if err != nil || v == 0 {
			return false
		}
	}

	return true
}

// IsNotReporting reports whether an Active meter has gone quiet: its own
// record has been stale for at least the threshold and nothing arrived
// inside the caller's lookback window. The double condition keeps newly
// created or recently active meters from flagging.
func (c Config) IsNotReporting(now time.Time, meter *meterdomain.FluidMeter, measurements []measurementdomain.Measurement) bool {
	if meter.Status != meterdomain.StatusActive {
		return false
	}
	if now.Sub(meter.UpdatedAt) < c.NoReportsThreshold {
		return false
	}
	if len(measurements) == 0 {
		return true
	}
	return now.Sub(measurements[0].RecordedAt) >= c.NoReportsThreshold
}
