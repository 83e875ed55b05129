package alerts

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadhub_backend/platform/logger"
)

type fakeFetcher struct {
	leads []ScheduledLead
	err   error
}

func (f *fakeFetcher) ScheduledLeads(context.Context) ([]ScheduledLead, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.leads, nil
}

type firing struct {
	leadID    int64
	threshold int
}

type fakeNotifier struct {
	fired []firing
	err   error
}

func (f *fakeNotifier) Notify(_ context.Context, lead ScheduledLead, threshold int) error {
	f.fired = append(f.fired, firing{leadID: lead.ID, threshold: threshold})
	return f.err
}

func newTestWatcher(fetcher *fakeFetcher, notifier *fakeNotifier, now time.Time) *Watcher {
	w := NewWatcher(fetcher, notifier, logger.New("development"), time.Minute)
	w.now = func() time.Time { return now }
	return w
}

func TestPollFiresThresholdExactlyOnce(t *testing.T) {
	now := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{leads: []ScheduledLead{
		{ID: 1, LeadName: "Acme", ScheduleTime: now.Add(30 * time.Minute)},
	}}
	notifier := &fakeNotifier{}
	w := newTestWatcher(fetcher, notifier, now)

	w.Poll(context.Background())
	w.Poll(context.Background())
	w.Poll(context.Background())

	if len(notifier.fired) != 1 {
		t.Fatalf("30-minute threshold must fire exactly once across polls, got %v", notifier.fired)
	}
	if notifier.fired[0] != (firing{leadID: 1, threshold: 30}) {
		t.Fatalf("fired = %+v", notifier.fired[0])
	}
	if !w.Fired(1, 30) {
		t.Fatal("fired key must be retained")
	}
}

func TestPollDoesNotFirePastThresholds(t *testing.T) {
	now := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{leads: []ScheduledLead{
		{ID: 1, LeadName: "Acme", ScheduleTime: now.Add(30 * time.Minute)},
	}}
	notifier := &fakeNotifier{}
	w := newTestWatcher(fetcher, notifier, now)

	w.Poll(context.Background())

	if w.Fired(1, 60) {
		t.Fatal("the 60-minute threshold is already past and must not fire")
	}
	if w.Fired(1, 15) {
		t.Fatal("the 15-minute threshold is not yet due")
	}
}

func TestPollFiresEachThresholdAsTimeAdvances(t *testing.T) {
	start := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	scheduleTime := start.Add(60 * time.Minute)
	fetcher := &fakeFetcher{leads: []ScheduledLead{
		{ID: 7, LeadName: "Acme", ScheduleTime: scheduleTime},
	}}
	notifier := &fakeNotifier{}
	w := NewWatcher(fetcher, notifier, logger.New("development"), time.Minute)

	current := start
	w.now = func() time.Time { return current }

	// Walk minute by minute through the whole hour, including the moment itself.
	for !current.After(scheduleTime) {
		w.Poll(context.Background())
		current = current.Add(time.Minute)
	}

	want := []firing{
		{leadID: 7, threshold: 60},
		{leadID: 7, threshold: 30},
		{leadID: 7, threshold: 15},
		{leadID: 7, threshold: 5},
		{leadID: 7, threshold: 0},
	}
	if len(notifier.fired) != len(want) {
		t.Fatalf("fired = %v, want %v", notifier.fired, want)
	}
	for i := range want {
		if notifier.fired[i] != want[i] {
			t.Fatalf("fired[%d] = %+v, want %+v", i, notifier.fired[i], want[i])
		}
	}
}

func TestPollFetchFailureSkipsCycle(t *testing.T) {
	now := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{err: errors.New("server unreachable")}
	notifier := &fakeNotifier{}
	w := newTestWatcher(fetcher, notifier, now)

	w.Poll(context.Background())
	if len(notifier.fired) != 0 {
		t.Fatalf("failed fetch must not fire alerts, got %v", notifier.fired)
	}

	// Recovery on the next tick still fires.
	fetcher.err = nil
	fetcher.leads = []ScheduledLead{{ID: 2, LeadName: "Beta", ScheduleTime: now.Add(5 * time.Minute)}}
	w.Poll(context.Background())
	if len(notifier.fired) != 1 || notifier.fired[0].threshold != 5 {
		t.Fatalf("fired = %v", notifier.fired)
	}
}

func TestPollNotifyFailureStillMarksFired(t *testing.T) {
	now := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{leads: []ScheduledLead{
		{ID: 3, LeadName: "Gamma", ScheduleTime: now.Add(15 * time.Minute)},
	}}
	notifier := &fakeNotifier{err: errors.New("bell broken")}
	w := newTestWatcher(fetcher, notifier, now)

	w.Poll(context.Background())
	w.Poll(context.Background())

	// The transition is one-way even when delivery fails.
	if len(notifier.fired) != 1 {
		t.Fatalf("expected a single notify attempt, got %d", len(notifier.fired))
	}
}

func TestPollThresholdBoundary(t *testing.T) {
	now := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)

	// 29m30s out floors to 29 minutes, inside [29, 30].
	fetcher := &fakeFetcher{leads: []ScheduledLead{
		{ID: 4, LeadName: "Delta", ScheduleTime: now.Add(29*time.Minute + 30*time.Second)},
	}}
	notifier := &fakeNotifier{}
	w := newTestWatcher(fetcher, notifier, now)
	w.Poll(context.Background())
	if !w.Fired(4, 30) {
		t.Fatal("diff of 29 minutes falls in the 30-minute band")
	}

	// 31 minutes out is outside the band.
	fetcher2 := &fakeFetcher{leads: []ScheduledLead{
		{ID: 5, LeadName: "Epsilon", ScheduleTime: now.Add(31 * time.Minute)},
	}}
	notifier2 := &fakeNotifier{}
	w2 := newTestWatcher(fetcher2, notifier2, now)
	w2.Poll(context.Background())
	if len(notifier2.fired) != 0 {
		t.Fatalf("31 minutes out must not fire, got %v", notifier2.fired)
	}
}
