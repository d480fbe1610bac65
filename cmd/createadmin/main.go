// Command createadmin creates an admin account, or promotes an existing user
// and resets its password.
//
//	createadmin [-d DATABASE_URL] [-t sqlite|postgres] <username> <password>
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/danielhkuo/votedesk/auth"
	"github.com/danielhkuo/votedesk/cliparse"
	"github.com/danielhkuo/votedesk/db"
)

func main() {
	cfg, args, err := cliparse.ParseDatabaseFlags("createadmin", os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}

	if err := run(context.Background(), db.New(dbConn), args); err != nil {
		slog.Error("createadmin failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, store *db.Store, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: createadmin <username> <password>")
	}
	username, password := args[0], args[1]
	if username == "" {
		return errors.New("username must not be empty")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := store.UpsertAdmin(ctx, username, hash)
	if err != nil {
		return err
	}

	if created {
		slog.Info("admin created", "username", username)
	} else {
		slog.Info("existing user promoted to admin", "username", username)
	}
	return nil
}
