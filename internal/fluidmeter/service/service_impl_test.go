package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/mekadomus/aquaflow/internal/clock"
	meterdomain "github.com/mekadomus/aquaflow/internal/fluidmeter/domain"
	"github.com/mekadomus/aquaflow/internal/fluidmeter/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (meterdomain.Service, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&meterdomain.FluidMeter{}); err != nil {
		t.Fatal(err)
	}

	node, _ := snowflake.NewNode(1)
	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2024, 5, 14, 10, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	})
	return svc, node
}

func TestCreate_Validation(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, meterdomain.CreateRequest{OwnerID: "", Name: "garden"})
	assert.ErrorIs(t, err, meterdomain.ErrInvalidOwner)

	_, err = svc.Create(ctx, meterdomain.CreateRequest{OwnerID: node.Generate().String(), Name: "  "})
	assert.ErrorIs(t, err, meterdomain.ErrInvalidName)
}

func TestCreate_StartsActive(t *testing.T) {
	svc, node := newTestService(t)

	meter, err := svc.Create(context.Background(), meterdomain.CreateRequest{
		OwnerID: node.Generate().String(),
		Name:    "garden",
	})
	assert.NoError(t, err)
	assert.Equal(t, meterdomain.StatusActive, meter.Status)
}

func TestStatusTransitions(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()

	meter, err := svc.Create(ctx, meterdomain.CreateRequest{
		OwnerID: node.Generate().String(),
		Name:    "garden",
	})
	assert.NoError(t, err)

	deactivated, err := svc.Deactivate(ctx, meter.ID)
	assert.NoError(t, err)
	assert.Equal(t, meterdomain.StatusInactive, deactivated.Status)

	activated, err := svc.Activate(ctx, meter.ID)
	assert.NoError(t, err)
	assert.Equal(t, meterdomain.StatusActive, activated.Status)

	assert.NoError(t, svc.Delete(ctx, meter.ID))

	// Deleted meters disappear from reads.
	got, err := svc.GetByID(ctx, meter.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = svc.Deactivate(ctx, meter.ID)
	assert.ErrorIs(t, err, meterdomain.ErrNotFound)
}

func TestList_PaginatesByOwner(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()

	owner := node.Generate()
	other := node.Generate()
	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, meterdomain.CreateRequest{OwnerID: owner.String(), Name: fmt.Sprintf("meter-%d", i)})
		assert.NoError(t, err)
	}
	_, err := svc.Create(ctx, meterdomain.CreateRequest{OwnerID: other.String(), Name: "stranger"})
	assert.NoError(t, err)

	first, err := svc.List(ctx, meterdomain.ListRequest{OwnerID: owner.String(), PageSize: 3})
	assert.NoError(t, err)
	assert.Len(t, first.Items, 3)
	assert.True(t, first.HasMore)
	assert.NotEmpty(t, first.NextPageToken)

	second, err := svc.List(ctx, meterdomain.ListRequest{
		OwnerID:   owner.String(),
		PageSize:  3,
		PageToken: first.NextPageToken,
	})
	assert.NoError(t, err)
	assert.Len(t, second.Items, 2)
	assert.False(t, second.HasMore)
	assert.Empty(t, second.NextPageToken)

	for _, m := range append(first.Items, second.Items...) {
		assert.Equal(t, owner, m.OwnerID)
	}
}

func TestListActive_SkipsInactiveAndDeleted(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()

	owner := node.Generate()
	active, err := svc.Create(ctx, meterdomain.CreateRequest{OwnerID: owner.String(), Name: "active"})
	assert.NoError(t, err)

	inactive, err := svc.Create(ctx, meterdomain.CreateRequest{OwnerID: owner.String(), Name: "inactive"})
	assert.NoError(t, err)
	_, err = svc.Deactivate(ctx, inactive.ID)
	assert.NoError(t, err)

	deleted, err := svc.Create(ctx, meterdomain.CreateRequest{OwnerID: owner.String(), Name: "deleted"})
	assert.NoError(t, err)
	assert.NoError(t, svc.Delete(ctx, deleted.ID))

	meters, err := svc.ListActive(ctx, 0, 100)
	assert.NoError(t, err)
	if assert.Len(t, meters, 1) {
		assert.Equal(t, active.ID, meters[0].ID)
	}
}
