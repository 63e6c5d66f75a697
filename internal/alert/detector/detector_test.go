package detector

import (
	"testing"
	"time"

	meterdomain "github.com/mekadomus/aquaflow/internal/fluidmeter/domain"
	measurementdomain "github.com/mekadomus/aquaflow/internal/measurement/domain"
	"github.com/stretchr/testify/assert"
)

func readings(values ...string) []measurementdomain.Measurement {
	out := make([]measurementdomain.Measurement, len(values))
	for i, v := range values {
		out[i] = measurementdomain.Measurement{Measurement: v}
	}
	return out
}

func TestHasConstantFlow(t *testing.T) {
	cfg := Config{}.WithDefaults()

	tests := []struct {
		name string
		in   []measurementdomain.Measurement
		want bool
	}{
		{"five non-zero readings", readings("1", "2.5", "0.1", "4", "5"), true},
		{"more than five, oldest zero ignored", readings("1", "2", "3", "4", "5", "0"), true},
		{"zero among most recent five", readings("1", "2", "0", "4", "5"), false},
		{"fewer than five readings", readings("1", "2", "3", "4"), false},
		{"no readings", nil, false},
		{"unparseable counts as zero", readings("1", "2", "bogus", "4", "5"), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, cfg.HasConstantFlow(tc.in))
		})
	}
}

func TestIsNotReporting(t *testing.T) {
	cfg := Config{}.WithDefaults()
	now := time.Date(2024, 5, 14, 10, 0, 0, 0, time.UTC)

	meter := func(status meterdomain.Status, updatedAgo time.Duration) *meterdomain.FluidMeter {
		return &meterdomain.FluidMeter{
			Status:    status,
			UpdatedAt: now.Add(-updatedAgo),
		}
	}
	recent := []measurementdomain.Measurement{{RecordedAt: now.Add(-30 * time.Minute)}}
	stale := []measurementdomain.Measurement{{RecordedAt: now.Add(-36 * time.Hour)}}

	tests := []struct {
		name         string
		meter        *meterdomain.FluidMeter
		measurements []measurementdomain.Measurement
		want         bool
	}{
		{"inactive meter never flags", meter(meterdomain.StatusInactive, 72*time.Hour), nil, false},
		{"recently updated meter never flags", meter(meterdomain.StatusActive, time.Hour), nil, false},
		{"stale meter with no readings flags", meter(meterdomain.StatusActive, 48*time.Hour), nil, true},
		{"stale meter with recent reading does not flag", meter(meterdomain.StatusActive, 48*time.Hour), recent, false},
		{"stale meter with only old readings flags", meter(meterdomain.StatusActive, 48*time.Hour), stale, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, cfg.IsNotReporting(now, tc.meter, tc.measurements))
		})
	}
}
