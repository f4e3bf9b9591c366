/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the clinic accounting engine server. Handles
  configuration, database seeding, dependency injection, and graceful
  shutdown.

STARTUP SEQUENCE:
  1. Read configuration from the environment
  2. Initialize SQLite store and migrate schema
  3. Seed the chart of accounts on an empty database
  4. Wire the clinic service, reporters, and API handler
  5. Start the payroll scheduler (unless disabled)
  6. Start server with graceful shutdown

CONFIGURATION (environment, LEDGER_ prefix):
  LEDGER_PORT                HTTP server port (default: 8080)
  LEDGER_DB_PATH             SQLite database path (default: clinic.db)
                             Use ":memory:" for in-memory database
  LEDGER_SCHEDULER_ENABLED   Run the payroll scheduler (default: true)
  LEDGER_SCHEDULER_INTERVAL  Scheduler check interval (default: 1h)
  LEDGER_CHART_PATH          JSON chart file; empty = built-in default

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  LEDGER_DB_PATH=./data/clinic.db ./server

  # Run with in-memory database, no scheduler
  LEDGER_DB_PATH=:memory: LEDGER_SCHEDULER_ENABLED=false ./server

SEE ALSO:
  - api/server.go: Router configuration
  - factory/accounts.go: Chart seeding
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/atlasclinic/ledger-engine/api"
	"github.com/atlasclinic/ledger-engine/clinic"
	"github.com/atlasclinic/ledger-engine/factory"
	"github.com/atlasclinic/ledger-engine/reports"
	"github.com/atlasclinic/ledger-engine/store/sqlite"
)

// Config is read from the environment with the LEDGER_ prefix.
type Config struct {
	Port              int           `default:"8080"`
	DBPath            string        `envconfig:"DB_PATH" default:"clinic.db"`
	SchedulerEnabled  bool          `envconfig:"SCHEDULER_ENABLED" default:"true"`
	SchedulerInterval time.Duration `envconfig:"SCHEDULER_INTERVAL" default:"1h"`
	ChartPath         string        `envconfig:"CHART_PATH"`
}

func main() {
	var cfg Config
	if err := envconfig.Process("ledger", &cfg); err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Seed the chart of accounts on first boot
	settings, err := seedChart(store, cfg.ChartPath)
	if err != nil {
		log.Fatalf("Failed to seed chart of accounts: %v", err)
	}

	// Wire the engine
	svc := clinic.NewService(store.Entries(), store.Stores(), settings)
	reporter := reports.NewReporter(store.Entries(), store.Accounts(), store.Stores().PayablesReceivable)
	handler := api.NewHandler(svc, reporter, store.Accounts())
	router := api.NewRouter(handler)

	// Payroll scheduler
	scheduler := api.NewPayrollScheduler(svc)
	scheduler.Enabled = cfg.SchedulerEnabled
	scheduler.CheckInterval = cfg.SchedulerInterval
	scheduler.Start()
	defer scheduler.Stop()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", cfg.Port)
		log.Printf("API available at http://localhost:%d/api", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// seedChart loads the chart of accounts into an empty database and returns
// the derived engine settings. An already-seeded database is left alone.
func seedChart(store *sqlite.Store, chartPath string) (clinic.Settings, error) {
	chartJSON := factory.DefaultChartJSON
	if chartPath != "" {
		raw, err := os.ReadFile(chartPath)
		if err != nil {
			return clinic.Settings{}, fmt.Errorf("failed to read chart file: %w", err)
		}
		chartJSON = string(raw)
	}

	chart, err := factory.ParseChart(chartJSON)
	if err != nil {
		return clinic.Settings{}, err
	}

	existing, err := store.Accounts().Accounts()
	if err != nil {
		return clinic.Settings{}, err
	}
	if len(existing) == 0 {
		for _, a := range chart.Accounts {
			if _, err := store.Accounts().Put(a); err != nil {
				return clinic.Settings{}, err
			}
		}
		log.Printf("Seeded chart of accounts (%d accounts)", len(chart.Accounts))
	}

	return clinic.Settings{ReceivableAccountID: chart.ReceivableAccountID}, nil
}
