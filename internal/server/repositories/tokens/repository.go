package tokens

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, userID string, token string, validity time.Duration) error
	Exists(ctx context.Context, userID string, token string) (bool, error)
	Delete(ctx context.Context, userID string, token string) error
	DeleteAllForUser(ctx context.Context, userID string) error
}
