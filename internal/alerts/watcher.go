// Package alerts implements the scheduled-lead alert watcher: it polls for
// Scheduled leads approaching their schedule time and fires threshold-based,
// de-duplicated alerts.
package alerts

import (
	"context"
	"math"
	"time"

	"leadhub_backend/platform/logger"
)

// Thresholds is the descending minute ladder before a schedule time at which
// an alert fires: a day out, then an hour, 30, 15, 5 minutes, and at the
// scheduled moment.
var Thresholds = []int{1440, 60, 30, 15, 5, 0}

// DefaultPollInterval is the watcher's tick period when none is configured.
const DefaultPollInterval = 60 * time.Second

// ScheduledLead is the watcher's view of one lead. Phone is the raw stored
// number; notifiers format it for display.
type ScheduledLead struct {
	ID           int64
	LeadName     string
	Phone        string
	ScheduleTime time.Time
}

// Fetcher supplies the scoped Scheduled leads inside the alert window on
// every poll tick.
type Fetcher interface {
	ScheduledLeads(ctx context.Context) ([]ScheduledLead, error)
}

// Notifier receives each fired alert exactly once per (lead, threshold).
type Notifier interface {
	Notify(ctx context.Context, lead ScheduledLead, thresholdMinutes int) error
}

type firedKey struct {
	leadID    int64
	threshold int
}

// Watcher polls on a fixed interval and fires each (lead, threshold) pair at
// most once for its lifetime. The fired set never expires and never resets;
// dismissing an alert downstream does not un-fire the key.
type Watcher struct {
	fetcher  Fetcher
	notifier Notifier
	log      *logger.Logger
	interval time.Duration
	now      func() time.Time
	fired    map[firedKey]struct{}
}

// NewWatcher creates a watcher. interval <= 0 falls back to
// DefaultPollInterval.
func NewWatcher(fetcher Fetcher, notifier Notifier, log *logger.Logger, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		fetcher:  fetcher,
		notifier: notifier,
		log:      log,
		interval: interval,
		now:      time.Now,
		fired:    map[firedKey]struct{}{},
	}
}

// Run polls until the context is cancelled. The first poll happens
// immediately, then on every tick.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}

// Poll runs one fetch-and-evaluate cycle. Fetch failures are logged and the
// cycle is skipped; the fired set is left untouched.
func (w *Watcher) Poll(ctx context.Context) {
	leads, err := w.fetcher.ScheduledLeads(ctx)
	if err != nil {
		w.log.Error("alert poll failed", "error", err)
		return
	}

	now := w.now()
	for _, lead := range leads {
		diffMinutes := int(math.Floor(lead.ScheduleTime.Sub(now).Minutes()))
		for _, threshold := range Thresholds {
			if diffMinutes < threshold-1 || diffMinutes > threshold {
				continue
			}
			key := firedKey{leadID: lead.ID, threshold: threshold}
			if _, done := w.fired[key]; done {
				continue
			}
			w.fired[key] = struct{}{}

			w.log.AlertFired(lead.ID, threshold)
			if err := w.notifier.Notify(ctx, lead, threshold); err != nil {
				w.log.Error("alert notify failed", "lead_id", lead.ID, "threshold_minutes", threshold, "error", err)
			}
		}
	}
}

// Fired reports whether the (leadID, threshold) pair has already fired.
func (w *Watcher) Fired(leadID int64, threshold int) bool {
	_, done := w.fired[firedKey{leadID: leadID, threshold: threshold}]
	return done
}
