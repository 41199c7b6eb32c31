package repository

import (
	"context"

	"unihub/internal/model"
)

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Fullname   string
	University string
	Major      *string
}

// UserRepository persists accounts in the relational store.
type UserRepository interface {
	// Create inserts a user. A taken email returns ErrDuplicate.
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (*model.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
