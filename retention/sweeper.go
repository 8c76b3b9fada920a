package retention

import (
	"context"
	"log"
	"time"

	"github.com/KienPC1234/TerraSync-sub000/models"
	"github.com/KienPC1234/TerraSync-sub000/store"
)

// Store is the slice of the record store the sweeper needs.
type Store interface {
	Get(collection string, filter store.Record) ([]store.Record, error)
	Overwrite(collection string, recs []store.Record) error
}

// Result reports how many records one sweep pruned.
type Result struct {
	AlertsPruned    int
	TelemetryPruned int
}

// Sweeper periodically prunes alerts and telemetry older than their
// retention windows. Records whose timestamps cannot be parsed are
// kept: losing data to a format drift is worse than keeping stale rows.
type Sweeper struct {
	store           Store
	alertWindow     time.Duration
	telemetryWindow time.Duration
	interval        time.Duration
	now             func() time.Time
}

func New(st Store, alertWindow, telemetryWindow, interval time.Duration) *Sweeper {
	return &Sweeper{
		store:           st,
		alertWindow:     alertWindow,
		telemetryWindow: telemetryWindow,
		interval:        interval,
		now:             time.Now,
	}
}

// Run sweeps once immediately, then on every tick until ctx is
// cancelled. Sweep failures are logged and retried next tick.
func (s *Sweeper) Run(ctx context.Context) {
	s.sweepAndLog()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepAndLog()
		}
	}
}

func (s *Sweeper) sweepAndLog() {
	res, err := s.SweepOnce()
	if err != nil {
		log.Printf("retention: sweep failed: %v", err)
		return
	}
	log.Printf("retention: pruned %d alerts, %d telemetry records",
		res.AlertsPruned, res.TelemetryPruned)
}

// SweepOnce prunes both collections independently against the current
// time and returns the pruned counts.
func (s *Sweeper) SweepOnce() (Result, error) {
	now := s.now()
	var res Result

	pruned, err := s.prune(store.Alerts, "created_at", now.Add(-s.alertWindow))
	if err != nil {
		return res, err
	}
	res.AlertsPruned = pruned

	pruned, err = s.prune(store.Telemetry, "timestamp", now.Add(-s.telemetryWindow))
	if err != nil {
		return res, err
	}
	res.TelemetryPruned = pruned

	return res, nil
}

// prune computes the retained subset in memory and overwrites the
// collection only when something was actually dropped.
func (s *Sweeper) prune(collection, field string, cutoff time.Time) (int, error) {
	recs, err := s.store.Get(collection, nil)
	if err != nil {
		return 0, err
	}

	retained := make([]store.Record, 0, len(recs))
	for _, rec := range recs {
		if keep(rec, field, cutoff) {
			retained = append(retained, rec)
		}
	}

	pruned := len(recs) - len(retained)
	if pruned == 0 {
		return 0, nil
	}
	if err := s.store.Overwrite(collection, retained); err != nil {
		return 0, err
	}
	return pruned, nil
}

// keep is fail-open: a record with a missing or unparseable timestamp
// is retained regardless of age.
func keep(rec store.Record, field string, cutoff time.Time) bool {
	raw, ok := rec[field].(string)
	if !ok {
		return true
	}
	ts, err := models.ParseTimestamp(raw)
	if err != nil {
		return true
	}
	return !ts.Before(cutoff)
}
