package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func readingsAt(reference time.Time) []Reading {
	values := []string{"5.5", "1", "22.3", "1", "2", "3"}
	offsets := []time.Duration{0, -40 * time.Minute, -60 * time.Minute, -80 * time.Minute, -100 * time.Minute, -120 * time.Minute}

	out := make([]Reading, len(values))
	for i := range values {
		out[i] = Reading{
			ID:         values[i],
			Value:      values[i],
			RecordedAt: reference.Add(offsets[i]),
		}
	}
	return out
}

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		want Granularity
		ok   bool
	}{
		{"Hour", GranularityHour, true},
		{"Day", GranularityDay, true},
		{"Month", GranularityMonth, true},
		{"", GranularityDay, true},
		{"hour", "", false},
		{"Week", "", false},
	}

	for _, tc := range tests {
		got, ok := Parse(tc.raw)
		assert.Equal(t, tc.ok, ok, "raw=%q", tc.raw)
		assert.Equal(t, tc.want, got, "raw=%q", tc.raw)
	}
}

func TestCreate_HourlyBuckets(t *testing.T) {
	reference := time.Date(2024, 5, 14, 10, 0, 0, 0, time.UTC)

	got := Create(readingsAt(reference), GranularityHour)

	assert.Equal(t, GranularityHour, got.Granularity)
	if assert.Len(t, got.Items, 3) {
		assert.Equal(t, "6.5", got.Items[0].Value)
		assert.Equal(t, "25.3", got.Items[1].Value)
		assert.Equal(t, "3", got.Items[2].Value)
	}

	// Buckets come back newest first.
	for i := 1; i < len(got.Items); i++ {
		assert.True(t, got.Items[i].PeriodStart.Before(got.Items[i-1].PeriodStart))
	}
}

func TestCreate_DailyBucket(t *testing.T) {
	reference := time.Date(2024, 5, 14, 10, 0, 0, 0, time.UTC)

	got := Create(readingsAt(reference), GranularityDay)

	if assert.Len(t, got.Items, 1) {
		assert.Equal(t, "34.8", got.Items[0].Value)
		assert.Equal(t, time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC), got.Items[0].PeriodStart)
	}
}

func TestCreate_Empty(t *testing.T) {
	got := Create(nil, GranularityHour)

	assert.Empty(t, got.Items)
	assert.NotNil(t, got.Items)
}

func TestCreate_Idempotent(t *testing.T) {
	reference := time.Date(2024, 5, 14, 10, 17, 3, 0, time.UTC)
	input := readingsAt(reference)

	first := Create(input, GranularityHour)
	second := Create(input, GranularityHour)

	assert.Equal(t, first, second)
}

func TestCreate_SkipsUnparseableValues(t *testing.T) {
	reference := time.Date(2024, 5, 14, 10, 0, 0, 0, time.UTC)
	input := []Reading{
		{ID: "a", Value: "2.5", RecordedAt: reference},
		{ID: "b", Value: "not-a-number", RecordedAt: reference.Add(-5 * time.Minute)},
		{ID: "c", Value: "1.5", RecordedAt: reference.Add(-10 * time.Minute)},
	}

	got := Create(input, GranularityDay)

	if assert.Len(t, got.Items, 1) {
		assert.Equal(t, "4", got.Items[0].Value)
	}
}

func TestCreate_OmitsZeroBuckets(t *testing.T) {
	reference := time.Date(2024, 5, 14, 10, 0, 0, 0, time.UTC)
	input := []Reading{
		{ID: "a", Value: "1", RecordedAt: reference},
		{ID: "b", Value: "0", RecordedAt: reference.Add(-2 * time.Hour)},
		{ID: "c", Value: "2", RecordedAt: reference.Add(-4 * time.Hour)},
	}

	got := Create(input, GranularityHour)

	if assert.Len(t, got.Items, 2) {
		assert.Equal(t, "1", got.Items[0].Value)
		assert.Equal(t, "2", got.Items[1].Value)
	}
}
