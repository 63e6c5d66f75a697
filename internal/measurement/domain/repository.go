package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Repository stores measurements. Two backends implement it, each satisfying
// the spacing invariant through whatever its engine supports:
//
//   - the relational backend runs a transactional minimum-interval gate and
//     rejects readings inside the rate window with ErrTooFrequent;
//   - the document backend derives a deterministic document id from the
//     reading's time bucket, so a duplicate submission echoes the already
//     stored reading instead of erroring.
//
// Callers must treat both outcomes as valid: Save either returns the caller's
// reading, the previously stored duplicate, or ErrTooFrequent. It never
// silently drops a reading.
type Repository interface {
	Save(ctx context.Context, m *Measurement) (*Measurement, error)
	// Range returns readings with from < recorded_at <= to, newest first,
	// at most limit rows. An empty result is not an error.
	Range(ctx context.Context, deviceID snowflake.ID, from, to time.Time, limit int) ([]Measurement, error)
}
