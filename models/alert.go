package models

// Alert severity levels.
const (
	LevelInfo     = "info"
	LevelWarning  = "warning"
	LevelCritical = "critical"
)

// Alert is a derived notification produced by evaluating telemetry
// against threshold rules. NodeID is empty for hub-wide alerts.
type Alert struct {
	ID        string `json:"id,omitempty"`
	HubID     string `json:"hub_id"`
	NodeID    string `json:"node_id,omitempty"`
	Message   string `json:"message"`
	Level     string `json:"level"`
	CreatedAt string `json:"created_at"`
}

// ValidLevel reports whether s is a known alert level.
func ValidLevel(s string) bool {
	return s == LevelInfo || s == LevelWarning || s == LevelCritical
}
