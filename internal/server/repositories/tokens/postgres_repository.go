package tokens

import (
	"context"
	"fmt"
	"time"

	"github.com/tenkil247/taskmanager/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID string, token string, validity time.Duration) error {

	query :=
		`INSERT INTO tokens (user_id, token, expires_at)
         VALUES ($1, $2, $3)
		 `

	_, err := r.db.ExecContext(ctx, query, userID, token, time.Now().Add(validity))

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// Exists reports whether the token is still part of the user's stored set.
// Expired rows do not count even if they have not been cleaned up yet.
func (r *PostgresRepository) Exists(ctx context.Context, userID string, token string) (bool, error) {
	query :=
		`SELECT EXISTS(SELECT 1 FROM tokens
		 WHERE user_id = $1 AND token = $2 AND expires_at > now())
		 `

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, token).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string, token string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM tokens WHERE user_id = $1 AND token = $2`, userID, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
