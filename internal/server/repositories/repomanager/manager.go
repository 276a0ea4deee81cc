package repomanager

import (
	"context"
	"database/sql"

	"github.com/tenkil247/taskmanager/internal/dbx"
	"github.com/tenkil247/taskmanager/internal/server/repositories/tasks"
	"github.com/tenkil247/taskmanager/internal/server/repositories/tokens"
	"github.com/tenkil247/taskmanager/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a DB handle. Passing a
// transaction instead of *sql.DB makes every repo call run inside it.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tokens(db dbx.DBTX) tokens.Repository
	Tasks(db dbx.DBTX) tasks.Repository
}
