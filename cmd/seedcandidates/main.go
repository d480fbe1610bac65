// Command seedcandidates adds candidates that do not exist yet. Without
// arguments it seeds a default list.
//
//	seedcandidates [-d DATABASE_URL] [-t sqlite|postgres] [name ...]
package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/danielhkuo/votedesk/cliparse"
	"github.com/danielhkuo/votedesk/db"
)

var defaultCandidates = []string{"Alice", "Bob", "Charlie", "Diana"}

func main() {
	cfg, args, err := cliparse.ParseDatabaseFlags("seedcandidates", os.Args[1:])
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

	added, err := seed(context.Background(), db.New(dbConn), args)
	if err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	slog.Info("candidates seeded", "added", added)
}

// seed ensures every name exists and returns how many were added
func seed(ctx context.Context, store *db.Store, names []string) (int, error) {
	if len(names) == 0 {
		names = defaultCandidates
	}

	added := 0
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		created, err := store.EnsureCandidate(ctx, name)
		if err != nil {
			return added, err
		}
		if created {
			added++
			slog.Info("candidate added", "name", name)
		}
	}
	return added, nil
}
