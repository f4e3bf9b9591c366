/*
scheduler.go - Automated payroll scheduler

PURPOSE:
  Periodically runs the due-date scan so payslips appear without anyone
  pressing a button. The scan itself is idempotent, so overlapping manual
  runs (the /api/payslips/generate endpoint) are harmless.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Each tick calls GenerateDuePayslips with the current calendar date
  - Skips nothing on error; the next tick retries

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewPayrollScheduler(svc)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: GeneratePayslips endpoint (manual runs)
  - clinic/payroll.go: the due-date scan itself
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/atlasclinic/ledger-engine/clinic"
	"github.com/atlasclinic/ledger-engine/ledger"
)

// PayrollScheduler handles automated payslip generation.
type PayrollScheduler struct {
	Service       *clinic.Service
	CheckInterval time.Duration
	Enabled       bool

	// Today supplies the scan date; swapped out in tests.
	Today ledger.TodayFunc

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewPayrollScheduler creates a new scheduler.
func NewPayrollScheduler(svc *clinic.Service) *PayrollScheduler {
	return &PayrollScheduler{
		Service:       svc,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		Today:         ledger.Today,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (ps *PayrollScheduler) Start() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if !ps.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	ps.ticker = time.NewTicker(ps.CheckInterval)
	ps.wg.Add(1)

	go ps.run()

	log.Printf("[Scheduler] Started with check interval: %v", ps.CheckInterval)
}

// Stop stops the scheduler.
func (ps *PayrollScheduler) Stop() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.ticker != nil {
		ps.ticker.Stop()
		close(ps.stop)
		ps.wg.Wait()
		log.Println("[Scheduler] Stopped")
	}
}

func (ps *PayrollScheduler) run() {
	defer ps.wg.Done()

	// Run immediately on start
	ps.checkAndGenerate()

	for {
		select {
		case <-ps.ticker.C:
			ps.checkAndGenerate()
		case <-ps.stop:
			return
		}
	}
}

func (ps *PayrollScheduler) checkAndGenerate() {
	ctx := context.Background()
	today := ps.Today()

	result, err := ps.Service.GenerateDuePayslips(ctx, today)
	if err != nil {
		log.Printf("[Scheduler] Error generating payslips: %v", err)
		return
	}
	if len(result.Created) > 0 {
		log.Printf("[Scheduler] Generated %d payslip(s) for %s", len(result.Created), today)
	}
}

// RunNow triggers an immediate check (for testing/admin).
func (ps *PayrollScheduler) RunNow() {
	ps.checkAndGenerate()
}
