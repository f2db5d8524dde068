package repository

import (
	"context"

	"sweetShop/models"
)

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}

// SweetRepositoryI defines operations on Sweet entities.
type SweetRepositoryI interface {
	Create(ctx context.Context, s *models.Sweet) (*models.Sweet, error)
	GetByID(ctx context.Context, id string) (*models.Sweet, error)
	List(ctx context.Context) ([]models.Sweet, error)
	Search(ctx context.Context, f models.SweetFilter) ([]models.Sweet, error)
	Update(ctx context.Context, id string, p models.SweetPatch) (*models.Sweet, error)
	Delete(ctx context.Context, id string) error
	Decrement(ctx context.Context, id string, n int64) (*models.Sweet, error)
	Increment(ctx context.Context, id string, n int64) (*models.Sweet, error)
}

var (
	_ UserRepositoryI  = (*UserRepository)(nil)
	_ SweetRepositoryI = (*SweetRepository)(nil)
)
