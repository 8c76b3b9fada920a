package ingest

import (
	"sync"
	"testing"
	"time"

	"github.com/KienPC1234/TerraSync-sub000/alerts"
	"github.com/KienPC1234/TerraSync-sub000/models"
	"github.com/KienPC1234/TerraSync-sub000/store"
)

// fakeStore records writes in memory, optionally delaying each one to
// simulate a slow storage layer.
type fakeStore struct {
	mu      sync.Mutex
	delay   time.Duration
	added   map[string][]store.Record
	updates []store.Record
}

func newFakeStore(delay time.Duration) *fakeStore {
	return &fakeStore{delay: delay, added: make(map[string][]store.Record)}
}

func (f *fakeStore) Add(collection string, rec store.Record) (store.Record, error) {
	time.Sleep(f.delay)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added[collection] = append(f.added[collection], rec)
	return rec, nil
}

func (f *fakeStore) Update(collection string, filter, patch store.Record) (int, error) {
	time.Sleep(f.delay)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, patch)
	return 1, nil
}

func (f *fakeStore) count(collection string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.added[collection])
}

func (f *fakeStore) records(collection string) []store.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]store.Record(nil), f.added[collection]...)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached before timeout")
}

func newTestPipeline(st Store) *Pipeline {
	return New(st, alerts.NewEvaluator(alerts.DefaultThresholds()), nil)
}

func TestAcceptReturnsBeforeSlowStoreFinishes(t *testing.T) {
	st := newFakeStore(300 * time.Millisecond)
	p := newTestPipeline(st)

	start := time.Now()
	receipt, err := p.Accept(validPayload())
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if elapsed > 100*time.Millisecond {
		t.Fatalf("Accept blocked on storage: took %v", elapsed)
	}
	if receipt.HubID != "H1" {
		t.Errorf("expected hub H1 in receipt, got %s", receipt.HubID)
	}
	if receipt.ReceivedAt == "" {
		t.Error("expected received_at in receipt")
	}

	// Processing still completes on the detached goroutine.
	waitFor(t, 2*time.Second, func() bool { return st.count(store.Telemetry) == 1 })
}

func TestRejectedPayloadTouchesNothing(t *testing.T) {
	st := newFakeStore(0)
	p := newTestPipeline(st)

	payload := validPayload()
	payload.HubID = ""
	if _, err := p.Accept(payload); err == nil {
		t.Fatal("expected validation error")
	}

	time.Sleep(50 * time.Millisecond)
	if st.count(store.Telemetry) != 0 || st.count(store.Alerts) != 0 {
		t.Fatal("rejected payload must not reach the store")
	}
}

func TestProcessingPersistsTelemetryAndAlerts(t *testing.T) {
	st := newFakeStore(0)
	p := newTestPipeline(st)

	payload := validPayload()
	payload.Timestamp = "2026-03-14T20:00:00+08:00"
	payload.Data.Soil[0].SoilMoisture = 15 // critical band

	if _, err := p.Accept(payload); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	waitFor(t, time.Second, func() bool {
		return st.count(store.Telemetry) == 1 && st.count(store.Alerts) == 1
	})

	tele := st.records(store.Telemetry)[0]
	if tele["timestamp"] != "2026-03-14T12:00:00Z" {
		t.Errorf("timestamp not normalized to UTC: %v", tele["timestamp"])
	}

	alert := st.records(store.Alerts)[0]
	if alert["level"] != models.LevelCritical {
		t.Errorf("expected critical alert, got %v", alert["level"])
	}
	if alert["node_id"] != "S1" {
		t.Errorf("expected alert on node S1, got %v", alert["node_id"])
	}
	if alert["hub_id"] != "H1" {
		t.Errorf("expected alert for hub H1, got %v", alert["hub_id"])
	}
}

func TestProcessingMarksHubOnline(t *testing.T) {
	st := newFakeStore(0)
	p := newTestPipeline(st)

	if _, err := p.Accept(validPayload()); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	waitFor(t, time.Second, func() bool {
		st.mu.Lock()
		defer st.mu.Unlock()
		return len(st.updates) == 1
	})

	st.mu.Lock()
	patch := st.updates[0]
	st.mu.Unlock()
	if patch["status"] != "online" {
		t.Errorf("expected status online, got %v", patch["status"])
	}
	if _, ok := patch["last_seen"].(string); !ok {
		t.Errorf("expected last_seen stamp, got %v", patch["last_seen"])
	}
}

func TestQuietPayloadGeneratesNoAlerts(t *testing.T) {
	st := newFakeStore(0)
	p := newTestPipeline(st)

	payload := validPayload()
	payload.Data.Soil[0].SoilMoisture = 50
	payload.Data.Atmospheric.AirHumidity = 50
	payload.Data.Atmospheric.RainIntensity = 0
	payload.Data.Atmospheric.WindSpeed = 5

	if _, err := p.Accept(payload); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	waitFor(t, time.Second, func() bool { return st.count(store.Telemetry) == 1 })
	time.Sleep(50 * time.Millisecond)
	if n := st.count(store.Alerts); n != 0 {
		t.Fatalf("expected zero alerts, got %d", n)
	}
}
