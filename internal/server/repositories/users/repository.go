package users

import (
	"context"

	"github.com/tenkil247/taskmanager/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	UpdateAvatar(ctx context.Context, id string, avatar []byte) error
	GetAvatar(ctx context.Context, id string) ([]byte, error)
}
