package models

// HubRecord describes a registered gateway device. Status and LastSeen
// are updated by the ingestion pipeline; hubs are never auto-deleted.
type HubRecord struct {
	ID           string    `json:"id,omitempty"`
	HubID        string    `json:"hub_id"`
	UserEmail    string    `json:"user_email"`
	FieldID      string    `json:"field_id"`
	Name         string    `json:"name"`
	Location     *Location `json:"location,omitempty"`
	Description  string    `json:"description,omitempty"`
	Status       string    `json:"status"`
	RegisteredAt string    `json:"registered_at"`
	LastSeen     string    `json:"last_seen,omitempty"`
}

// SensorRecord describes one sensor node reporting through a hub.
type SensorRecord struct {
	ID           string `json:"id,omitempty"`
	NodeID       string `json:"node_id"`
	HubID        string `json:"hub_id"`
	Name         string `json:"name"`
	Kind         string `json:"kind"` // soil or atmospheric
	Description  string `json:"description,omitempty"`
	RegisteredAt string `json:"registered_at"`
}
