package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Account is the owner of one or more fluid meters. Authentication and
// session handling live outside this service; this record only carries what
// alerting needs to reach the owner.
type Account struct {
	ID         snowflake.ID `json:"id" gorm:"primaryKey"`
	Name       string       `json:"name" gorm:"type:text;not null"`
	Email      string       `json:"email" gorm:"type:varchar(191);not null;index:ux_accounts_email,unique"`
	RecordedAt time.Time    `json:"recorded_at" gorm:"not null"`
	UpdatedAt  time.Time    `json:"updated_at" gorm:"not null"`
}

// TableName sets the database table name.
func (Account) TableName() string { return "accounts" }

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidEmail = errors.New("invalid_email")
	ErrEmailTaken   = errors.New("email_taken")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
)
