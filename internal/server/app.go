// Package server initializes and runs the application: it opens the database,
// runs migrations, wires repositories and services, and serves the REST API
// with graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/tenkil247/taskmanager/internal/logging"
	"github.com/tenkil247/taskmanager/internal/server/avatars"
	"github.com/tenkil247/taskmanager/internal/server/config"
	"github.com/tenkil247/taskmanager/internal/server/httpapi"
	"github.com/tenkil247/taskmanager/internal/server/repositories/repomanager"
	"github.com/tenkil247/taskmanager/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	taskService *services.TaskService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewDefault()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store, err := newAvatarStore(ctx, cfg, rm, db)
	if err != nil {
		return nil, fmt.Errorf("avatar store init error: %w", err)
	}

	us := services.NewUserService(db, rm, store, cfg)
	ts := services.NewTaskService(db, rm)

	return &App{config: cfg, logger: logger, db: db, userService: us, taskService: ts}, nil
}

func newAvatarStore(ctx context.Context, cfg *config.Config, rm repomanager.RepositoryManager, db *sql.DB) (avatars.Store, error) {
	switch cfg.AvatarStorage {
	case config.AvatarStorageS3:
		return avatars.NewS3Store(ctx, cfg)
	case config.AvatarStorageDB:
		return avatars.NewDBStore(rm.Users(db)), nil
	default:
		return nil, fmt.Errorf("unknown avatar storage %q", cfg.AvatarStorage)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	srv := httpapi.NewServer(app.config, app.logger, app.userService, app.taskService)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, err.Error())
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}

	app.logger.Info(ctx, "app stopped")
}
