package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/filterdesk/backend/internal/infrastructure/config"
	"github.com/filterdesk/backend/internal/infrastructure/logger"
	"github.com/filterdesk/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	var (
		admin      AdminSeed
		commission string
	)
	flag.StringVar(&admin.Name, "admin-name", envOr("FD_SEED_ADMIN_NAME", "Administrador"), "Name of the first administrator")
	flag.StringVar(&admin.Email, "admin-email", os.Getenv("FD_SEED_ADMIN_EMAIL"), "Email of the first administrator; empty skips it")
	flag.StringVar(&admin.Password, "admin-password", os.Getenv("FD_SEED_ADMIN_PASSWORD"), "Password of the first administrator")
	flag.StringVar(&commission, "commission", "5.00", "Commission percentage of the standard tiers")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.FromAppConfig(cfg.Log, "seed"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	commissionPct, err := decimal.NewFromString(commission)
	if err != nil {
		log.Fatal("Invalid commission", zap.String("value", commission))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	seeder := &Seeder{
		users:      persistence.NewGormUserRepository(db.DB),
		discounts:  persistence.NewGormDiscountRepository(db.DB),
		commission: commissionPct,
		logger:     log,
	}
	if err := seeder.Run(ctx, admin); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
	log.Info("Seeding finished")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
