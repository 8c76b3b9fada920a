package ingest

import (
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/KienPC1234/TerraSync-sub000/alerts"
	"github.com/KienPC1234/TerraSync-sub000/models"
	"github.com/KienPC1234/TerraSync-sub000/store"
)

var (
	acceptedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "terrasync_ingest_accepted_total",
		Help: "Telemetry payloads accepted for processing.",
	})
	rejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "terrasync_ingest_rejected_total",
		Help: "Telemetry payloads rejected at validation.",
	})
	alertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "terrasync_alerts_generated_total",
		Help: "Alerts generated by telemetry evaluation.",
	}, []string{"level"})
)

// Store is the slice of the record store the pipeline writes through.
type Store interface {
	Add(collection string, rec store.Record) (store.Record, error)
	Update(collection string, filter, patch store.Record) (int, error)
}

// Broadcaster pushes processed records to live consumers. The pipeline
// never blocks on it.
type Broadcaster interface {
	Publish(event, hubID string, payload any)
}

// Receipt acknowledges an accepted payload. It is returned before
// storage or evaluation complete.
type Receipt struct {
	HubID      string `json:"hub_id"`
	ReceivedAt string `json:"received_at"`
}

// Pipeline validates telemetry synchronously and processes it on a
// detached goroutine: persist, evaluate, persist alerts, touch the hub.
type Pipeline struct {
	store Store
	eval  *alerts.Evaluator
	feed  Broadcaster
	now   func() time.Time
}

func New(st Store, eval *alerts.Evaluator, feed Broadcaster) *Pipeline {
	return &Pipeline{store: st, eval: eval, feed: feed, now: time.Now}
}

// Accept validates the payload and, on success, hands it to a detached
// goroutine. The caller gets the receipt before any storage happens;
// failures past this point are logged, never surfaced. Ingestion must
// never block on storage or evaluation latency.
func (p *Pipeline) Accept(payload models.TelemetryPayload) (Receipt, error) {
	if err := Validate(payload); err != nil {
		rejectedTotal.Inc()
		return Receipt{}, err
	}
	acceptedTotal.Inc()

	receivedAt := p.now().UTC().Format(time.RFC3339)
	go p.process(payload, receivedAt)

	return Receipt{HubID: payload.HubID, ReceivedAt: receivedAt}, nil
}

func (p *Pipeline) process(payload models.TelemetryPayload, receivedAt string) {
	ts, err := models.ParseTimestamp(payload.Timestamp)
	if err != nil {
		log.Printf("ingest: dropping payload from %s: %v", payload.HubID, err)
		return
	}

	rec := models.TelemetryRecord{
		HubID:      payload.HubID,
		Timestamp:  ts.Format(time.RFC3339),
		ReceivedAt: receivedAt,
		Location:   payload.Location,
		Data:       payload.Data,
	}
	raw, err := models.ToRecord(rec)
	if err != nil {
		log.Printf("ingest: encode telemetry for %s: %v", payload.HubID, err)
		return
	}
	stored, err := p.store.Add(store.Telemetry, raw)
	if err != nil {
		log.Printf("ingest: store telemetry for %s: %v", payload.HubID, err)
		return
	}
	if p.feed != nil {
		p.feed.Publish("telemetry", payload.HubID, stored)
	}

	for _, alert := range p.eval.Evaluate(payload.HubID, payload.Data, p.now()) {
		alertsTotal.WithLabelValues(alert.Level).Inc()
		raw, err := models.ToRecord(alert)
		if err != nil {
			log.Printf("ingest: encode alert for %s: %v", payload.HubID, err)
			continue
		}
		storedAlert, err := p.store.Add(store.Alerts, raw)
		if err != nil {
			log.Printf("ingest: store alert for %s: %v", payload.HubID, err)
			continue
		}
		if p.feed != nil {
			p.feed.Publish("alert", alert.HubID, storedAlert)
		}
	}

	p.touchHub(payload.HubID)
}

// touchHub marks the hub online with a fresh last_seen. A hub that was
// never registered simply matches nothing.
func (p *Pipeline) touchHub(hubID string) {
	_, err := p.store.Update(store.Hubs,
		store.Record{"hub_id": hubID},
		store.Record{
			"status":    "online",
			"last_seen": p.now().UTC().Format(time.RFC3339),
		})
	if err != nil {
		log.Printf("ingest: update hub %s: %v", hubID, err)
	}
}
