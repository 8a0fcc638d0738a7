// Command sweep settles every budget slot whose active period has
// elapsed. It is meant to run on a schedule (cron or similar) so budgets
// stay current even for owners who never log in.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"tallybook/internal/database"
	"tallybook/internal/logger"
	"tallybook/internal/services"
)

func main() {
	logger.Init(os.Getenv("APP_ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Sweep error: %v", err)
	}
}

func run() error {
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	db := dbManager.DB()
	spend := services.NewSpendService()
	ledger := services.NewBudgetLedger(db, spend)
	continuation := services.NewContinuationService(db, ledger, spend)
	sweep := services.NewSweepService(ledger, continuation)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	report, err := sweep.Run(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	logger.Get().Infof("Sweep finished: %d slots, %d settled, %d failed",
		report.Slots, report.Settled, report.Failed)
	return nil
}
