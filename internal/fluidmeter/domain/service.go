package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*FluidMeter, error)
	GetByID(ctx context.Context, id snowflake.ID) (*FluidMeter, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	ListActive(ctx context.Context, cursor snowflake.ID, limit int) ([]FluidMeter, error)
	Activate(ctx context.Context, id snowflake.ID) (*FluidMeter, error)
	Deactivate(ctx context.Context, id snowflake.ID) (*FluidMeter, error)
	Delete(ctx context.Context, id snowflake.ID) error
	Touch(ctx context.Context, id snowflake.ID) error
}

type CreateRequest struct {
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
}

type ListRequest struct {
	OwnerID   string
	PageToken string
	PageSize  int
}

type ListResponse struct {
	Items         []FluidMeter `json:"items"`
	NextPageToken string       `json:"next_page_token"`
	HasMore       bool         `json:"has_more"`
}
