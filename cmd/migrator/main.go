package main

import (
	"errors"
	"flag"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/noah-isme/resource-planner-api/pkg/config"
	"github.com/noah-isme/resource-planner-api/pkg/logger"
)

func main() {
	dir := flag.String("dir", "file://./migrations", "directory with migrations")
	dsn := flag.String("dsn", "", "database URL, defaults to the configured database")
	action := flag.String("action", "up", "migration action: up, down, steps, version")
	steps := flag.Int("n", 1, "number of steps for the steps action (negative rolls back)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if *dsn == "" {
		*dsn = cfg.Database.URL()
	}

	m, err := migrate.New(*dir, *dsn)
	if err != nil {
		logr.Fatal("failed to create migrate instance", zap.Error(err))
	}
	defer m.Close()

	switch *action {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		err = m.Steps(*steps)
	case "version":
		version, dirty, verr := m.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			logr.Fatal("failed to read version", zap.Error(verr))
		}
		logr.Info("schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return
	default:
		logr.Fatal("unknown action", zap.String("action", *action))
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logr.Fatal("migration failed", zap.String("action", *action), zap.Error(err))
	}
	logr.Info("migration done", zap.String("action", *action))
}
