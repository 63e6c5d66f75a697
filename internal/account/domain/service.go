package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Account, error)
	GetByID(ctx context.Context, id snowflake.ID) (*Account, error)
}

type CreateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
