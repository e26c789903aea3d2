package main

import (
	"context"
	"fmt"
	"os"

	"github.com/plately/plately-backend/internal/catalog"
	"github.com/plately/plately-backend/internal/db"
	"github.com/plately/plately-backend/internal/logger"
	"github.com/plately/plately-backend/internal/utils"
)

// Loads the content catalog (tutorials, badges, strategies and their
// mission templates) into the database. Safe to re-run.
func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	seedFile := utils.GetEnv("SEED_FILE", "internal/catalog/seed.yaml", log)

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}

	c, err := catalog.Load(seedFile)
	if err != nil {
		log.Fatal("Catalog load failed", "file", seedFile, "error", err)
	}
	if err := c.Apply(context.Background(), postgresService.DB(), log); err != nil {
		log.Fatal("Catalog apply failed", "error", err)
	}
	log.Info("Catalog applied",
		"tutorials", len(c.Tutorials),
		"badges", len(c.Badges),
		"strategies", len(c.Strategies),
	)
}
