package avatars

import (
	"context"

	"github.com/tenkil247/taskmanager/internal/server/repositories/users"
)

// DBStore keeps avatars in the users table alongside the account record.
type DBStore struct {
	repo users.Repository
}

func NewDBStore(repo users.Repository) *DBStore {
	return &DBStore{repo: repo}
}

func (s *DBStore) Put(ctx context.Context, userID string, data []byte) error {
	return s.repo.UpdateAvatar(ctx, userID, data)
}

func (s *DBStore) Get(ctx context.Context, userID string) ([]byte, error) {
	return s.repo.GetAvatar(ctx, userID)
}

func (s *DBStore) Delete(ctx context.Context, userID string) error {
	return s.repo.UpdateAvatar(ctx, userID, nil)
}
