package query

import (
	"sort"
	"time"

	"github.com/KienPC1234/TerraSync-sub000/models"
	"github.com/KienPC1234/TerraSync-sub000/store"
)

// DefaultHistoryLimit caps history pages when the caller supplies none.
const DefaultHistoryLimit = 50

// Store is the read-only slice of the record store the service uses.
type Store interface {
	Get(collection string, filter store.Record) ([]store.Record, error)
}

// HubStatus is the composite view of one hub: its registration record,
// its sensor nodes and the time of its most recent telemetry.
type HubStatus struct {
	Hub          store.Record   `json:"hub"`
	Sensors      []store.Record `json:"sensors"`
	LastDataTime string         `json:"last_data_time,omitempty"`
	Latest       store.Record   `json:"latest_telemetry,omitempty"`
}

// Service provides read-only projections over the record store.
// Sorting and limiting happen here, never in the store; nothing in
// this package mutates state.
type Service struct {
	store Store
}

func NewService(st Store) *Service {
	return &Service{store: st}
}

// Latest returns the most recent telemetry record for hubID, or for
// any hub when hubID is empty. Absent data is reported via ok=false,
// not an error.
func (s *Service) Latest(hubID string) (store.Record, bool, error) {
	recs, err := s.store.Get(store.Telemetry, hubFilter(hubID))
	if err != nil {
		return nil, false, err
	}
	if len(recs) == 0 {
		return nil, false, nil
	}
	sortByTimeDesc(recs, "timestamp")
	return recs[0], true, nil
}

// History returns up to limit telemetry records for hubID, newest
// first, along with the total match count. A zero limit applies the
// default page size; a negative limit returns everything.
func (s *Service) History(hubID string, limit int) ([]store.Record, int, error) {
	recs, err := s.store.Get(store.Telemetry, hubFilter(hubID))
	if err != nil {
		return nil, 0, err
	}
	total := len(recs)
	sortByTimeDesc(recs, "timestamp")
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, total, nil
}

// Alerts returns alerts filtered by hub and level, newest first.
func (s *Service) Alerts(hubID, level string, limit int) ([]store.Record, error) {
	filter := hubFilter(hubID)
	if level != "" {
		if filter == nil {
			filter = store.Record{}
		}
		filter["level"] = level
	}
	recs, err := s.store.Get(store.Alerts, filter)
	if err != nil {
		return nil, err
	}
	sortByTimeDesc(recs, "created_at")
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// HubStatuses joins each hub to its sensors and most recent telemetry
// sample. An empty hubID covers every registered hub.
func (s *Service) HubStatuses(hubID string) ([]HubStatus, error) {
	hubs, err := s.store.Get(store.Hubs, hubFilter(hubID))
	if err != nil {
		return nil, err
	}

	out := make([]HubStatus, 0, len(hubs))
	for _, hub := range hubs {
		id, _ := hub["hub_id"].(string)
		status := HubStatus{Hub: hub, Sensors: []store.Record{}}

		sensors, err := s.store.Get(store.Sensors, store.Record{"hub_id": id})
		if err != nil {
			return nil, err
		}
		if sensors != nil {
			status.Sensors = sensors
		}

		latest, ok, err := s.Latest(id)
		if err != nil {
			return nil, err
		}
		if ok {
			status.Latest = latest
			if ts, ok := latest["timestamp"].(string); ok {
				status.LastDataTime = ts
			}
		}
		out = append(out, status)
	}
	return out, nil
}

func hubFilter(hubID string) store.Record {
	if hubID == "" {
		return nil
	}
	return store.Record{"hub_id": hubID}
}

// sortByTimeDesc orders records newest first by the given timestamp
// field. Records whose timestamps do not parse sort last; storage
// order never stands in for logical time.
func sortByTimeDesc(recs []store.Record, field string) {
	type keyed struct {
		rec   store.Record
		ts    time.Time
		valid bool
	}
	items := make([]keyed, len(recs))
	for i, rec := range recs {
		items[i].rec = rec
		if raw, ok := rec[field].(string); ok {
			if ts, err := models.ParseTimestamp(raw); err == nil {
				items[i].ts, items[i].valid = ts, true
			}
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		switch {
		case items[i].valid && items[j].valid:
			return items[i].ts.After(items[j].ts)
		case items[i].valid:
			return true
		default:
			return false
		}
	})
	for i := range items {
		recs[i] = items[i].rec
	}
}
