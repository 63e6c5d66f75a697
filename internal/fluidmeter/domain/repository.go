package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, meter *FluidMeter) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*FluidMeter, error)
	// ListByOwner pages a single owner's meters ascending by id, excluding
	// Deleted ones. cursor = 0 starts from the beginning.
	ListByOwner(ctx context.Context, db *gorm.DB, ownerID, cursor snowflake.ID, limit int) ([]FluidMeter, error)
	// ListActive pages every Active meter ascending by id; the sweep walks
	// the whole fleet through this.
	ListActive(ctx context.Context, db *gorm.DB, cursor snowflake.ID, limit int) ([]FluidMeter, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status Status, now time.Time) error
	// Touch refreshes the meter's liveness signal without changing anything
	// else.
	Touch(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) error
}
