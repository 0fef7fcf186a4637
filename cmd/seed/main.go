// Command seed fills the database with fake projects for local development.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	analyticsapp "github.com/nordvest/backend/internal/application/analytics"
	projectapp "github.com/nordvest/backend/internal/application/project"
	"github.com/nordvest/backend/internal/application/readthrough"
	"github.com/nordvest/backend/internal/infrastructure/cache"
	"github.com/nordvest/backend/internal/infrastructure/config"
	"github.com/nordvest/backend/internal/infrastructure/logger"
	"github.com/nordvest/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var (
		count int
		seed  uint64
	)
	flag.IntVar(&count, "n", 25, "Number of projects to create")
	flag.Uint64Var(&seed, "seed", 0, "Random seed (0 picks one)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if cfg.IsProduction() {
		fmt.Fprintln(os.Stderr, "Refusing to seed a production database")
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	// Going through the cache keeps a running server's listings consistent
	store, err := cache.NewFactory(cfg.Redis, cache.WithLogger(log)).Create()
	if err != nil {
		log.Fatal("Failed to initialize cache", zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	recorder := analyticsapp.NewRecorder(persistence.NewGormAnalyticsRepository(db.DB, cfg.Analytics.MaxQueryLimit), log,
		analyticsapp.WithEnabled(cfg.Analytics.Enabled))
	service := projectapp.NewService(persistence.NewGormProjectRepository(db.DB),
		readthrough.New(store, readthrough.WithLogger(log)), recorder, projectapp.CacheTTLs{}, zap.NewNop())

	ctx := context.Background()
	faker := newProjectFaker(seed)
	created := 0
	for i := 0; i < count; i++ {
		p, err := service.Create(ctx, faker.next())
		if err != nil {
			log.Error("Failed to create project", zap.Error(err))
			continue
		}
		created++
		log.Debug("Project created", zap.String("id", p.ID.String()), zap.String("name", p.Name))
	}

	if err := recorder.Drain(ctx); err != nil {
		log.Warn("Analytics events still pending", zap.Error(err))
	}
	log.Info("Seeding finished", zap.Int("created", created), zap.Int("requested", count))
}
