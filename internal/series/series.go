// Package series turns time-ordered measurement lists into bucketed sums for
// display. Everything here is pure; callers own storage and windowing.
package series

import (
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Granularity is the bucket width used when summarizing measurements.
type Granularity string

const (
	GranularityHour Granularity = "Hour"
	GranularityDay  Granularity = "Day"
	// Month buckets are an even 30 days. Calendar-accurate months would make
	// the boundary stepping data dependent and are not worth it for display.
	GranularityMonth Granularity = "Month"
)

// Parse maps a query-string value to a Granularity.
func Parse(raw string) (Granularity, bool) {
	switch Granularity(raw) {
	case GranularityHour, GranularityDay, GranularityMonth:
		return Granularity(raw), true
	case "":
		return GranularityDay, true
	default:
		return "", false
	}
}

type Item struct {
	PeriodStart time.Time `json:"period_start"`
	// Value stays a string so callers keep flexibility about the numeric type.
	Value string `json:"value"`
}

type Series struct {
	Granularity Granularity `json:"granularity"`
	Items       []Item      `json:"items"`
}

// Reading is the slice of a stored measurement the aggregation needs.
type Reading struct {
	ID         string
	Value      string
	RecordedAt time.Time
}

func (g Granularity) step() time.Duration {
	switch g {
	case GranularityHour:
		return time.Hour
	case GranularityMonth:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// Create aggregates readings at the given granularity.
//
// readings must be sorted by RecordedAt descending. The first bucket
// boundary is anchored at the start of the calendar day after the most recent
// reading and stepped backwards one granularity unit at a time; each
// bucket sums the readings recorded strictly after its lower boundary.
// Zero-sum buckets are omitted. Stored values that no longer parse are
// skipped and logged, never fatal.
func Create(readings []Reading, granularity Granularity) Series {
	out := Series{Granularity: granularity, Items: []Item{}}
	if len(readings) == 0 {
		return out
	}

	step := granularity.step()
	first := readings[0].RecordedAt
	periodStart := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, first.Location()).
		Add(24 * time.Hour)

	i := 0
	for i < len(readings) {
		total := 0.0
		for i < len(readings) && readings[i].RecordedAt.After(periodStart) {
			v, err := strconv.ParseFloat(readings[i].Value, 64)
			if err != nil {
				zap.L().Warn("skipping unparseable measurement",
					zap.String("measurement_id", readings[i].ID),
					zap.String("value", readings[i].Value))
				i++
				continue
			}
			total += v
			i++
		}

		if total != 0 {
			out.Items = append(out.Items, Item{
				PeriodStart: periodStart,
				Value:       strconv.FormatFloat(total, 'f', -1, 64),
			})
		}

		periodStart = periodStart.Add(-step)
	}

	return out
}
