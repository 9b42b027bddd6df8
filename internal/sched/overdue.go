package sched

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"librarian/internal/store"
)

// OverdueSweeper periodically scans for overdue loans and logs a per-patron
// summary so staff can chase returns. It never mutates state.
type OverdueSweeper struct {
	store store.Store
	now   func() time.Time
	cron  *cron.Cron
}

func NewOverdueSweeper(st store.Store, now func() time.Time) *OverdueSweeper {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &OverdueSweeper{store: st, now: now, cron: cron.New()}
}

// Start schedules the sweep with the given cron spec and starts the
// scheduler.
func (s *OverdueSweeper) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.Sweep); err != nil {
		return fmt.Errorf("schedule overdue sweep: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *OverdueSweeper) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep logs one structured line per patron holding overdue loans.
func (s *OverdueSweeper) Sweep() {
	asOf := s.now()
	loans, err := s.store.OverdueLoans(asOf)
	if err != nil {
		slog.Error("overdue sweep failed", "err", err)
		return
	}
	perPatron := make(map[string]int)
	for _, l := range loans {
		perPatron[l.PatronID]++
	}
	slog.Info("overdue sweep complete", "overdue_loans", len(loans), "patrons", len(perPatron))
	for patron, count := range perPatron {
		slog.Warn("patron has overdue loans", "patron_id", patron, "count", count)
	}
}
