package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/mekadomus/aquaflow/internal/clock"
	meterdomain "github.com/mekadomus/aquaflow/internal/fluidmeter/domain"
	"github.com/mekadomus/aquaflow/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultPageSize = 25

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  meterdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  meterdomain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) meterdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("fluidmeter.service"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) Create(ctx context.Context, req meterdomain.CreateRequest) (*meterdomain.FluidMeter, error) {
	ownerID, err := meterdomain.ParseID(strings.TrimSpace(req.OwnerID))
	if err != nil || ownerID == 0 {
		return nil, meterdomain.ErrInvalidOwner
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, meterdomain.ErrInvalidName
	}

	now := s.clock.Now()
	meter := &meterdomain.FluidMeter{
		ID:         s.genID.Generate(),
		OwnerID:    ownerID,
		Name:       name,
		Status:     meterdomain.StatusActive,
		RecordedAt: now,
		UpdatedAt:  now,
	}

	if err := s.repo.Insert(ctx, s.db, meter); err != nil {
		return nil, err
	}

	return meter, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*meterdomain.FluidMeter, error) {
	meter, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if meter == nil || meter.Status == meterdomain.StatusDeleted {
		return nil, nil
	}
	return meter, nil
}

func (s *Service) List(ctx context.Context, req meterdomain.ListRequest) (*meterdomain.ListResponse, error) {
	ownerID, err := meterdomain.ParseID(strings.TrimSpace(req.OwnerID))
	if err != nil || ownerID == 0 {
		return nil, meterdomain.ErrInvalidOwner
	}

	var cursor snowflake.ID
	if req.PageToken != "" {
		decoded, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return nil, meterdomain.ErrInvalidID
		}
		cursor, err = meterdomain.ParseID(decoded.ID)
		if err != nil {
			return nil, meterdomain.ErrInvalidID
		}
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	// Over-fetch one row to learn whether more pages remain.
	meters, err := s.repo.ListByOwner(ctx, s.db, ownerID, cursor, pageSize+1)
	if err != nil {
		return nil, err
	}

	meters, pageInfo := pagination.BuildCursorPageInfo(meters, pageSize, func(m meterdomain.FluidMeter) string {
		return m.ID.String()
	})

	next := ""
	if pageInfo.HasMore {
		next = pageInfo.NextPageToken
	}

	return &meterdomain.ListResponse{
		Items:         meters,
		NextPageToken: next,
		HasMore:       pageInfo.HasMore,
	}, nil
}

func (s *Service) ListActive(ctx context.Context, cursor snowflake.ID, limit int) ([]meterdomain.FluidMeter, error) {
	return s.repo.ListActive(ctx, s.db, cursor, limit)
}

func (s *Service) Activate(ctx context.Context, id snowflake.ID) (*meterdomain.FluidMeter, error) {
	return s.setStatus(ctx, id, meterdomain.StatusActive)
}

func (s *Service) Deactivate(ctx context.Context, id snowflake.ID) (*meterdomain.FluidMeter, error) {
	return s.setStatus(ctx, id, meterdomain.StatusInactive)
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	_, err := s.setStatus(ctx, id, meterdomain.StatusDeleted)
	return err
}

func (s *Service) Touch(ctx context.Context, id snowflake.ID) error {
	return s.repo.Touch(ctx, s.db, id, s.clock.Now())
}

func (s *Service) setStatus(ctx context.Context, id snowflake.ID, status meterdomain.Status) (*meterdomain.FluidMeter, error) {
	meter, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if meter == nil {
		return nil, meterdomain.ErrNotFound
	}

	now := s.clock.Now()
	if err := s.repo.UpdateStatus(ctx, s.db, id, status, now); err != nil {
		return nil, err
	}

	meter.Status = status
	meter.UpdatedAt = now
	return meter, nil
}
