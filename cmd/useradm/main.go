// Command useradm creates a user directly against the database, for
// bootstrapping an environment before the API is reachable.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/tenkil247/taskmanager/internal/server/avatars"
	"github.com/tenkil247/taskmanager/internal/server/config"
	"github.com/tenkil247/taskmanager/internal/server/repositories/repomanager"
	"github.com/tenkil247/taskmanager/internal/server/services"
	"github.com/tenkil247/taskmanager/internal/useradm"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("%v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()

	reader := bufio.NewReader(os.Stdin)
	email, err := useradm.GetSimpleText(reader, "Email", os.Stdout)
	if err != nil {
		return err
	}
	name, err := useradm.GetSimpleText(reader, "Name", os.Stdout)
	if err != nil {
		return err
	}
	password, err := useradm.GetPassword(os.Stdout, "Password: ")
	if err != nil {
		return err
	}
	confirm, err := useradm.GetPassword(os.Stdout, "Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	svc := services.NewUserService(db, rm, avatars.NewDBStore(rm.Users(db)), cfg)
	user, token, err := svc.Register(ctx, email, password, name, nil)
	if err != nil {
		return err
	}

	fmt.Printf("created user %s (%s)\n", user.ID, user.Email)
	fmt.Printf("session token: %s\n", token)
	return nil
}
