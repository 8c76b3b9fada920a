package models

import "encoding/json"

// ToRecord flattens a typed model into the schema-free map form the
// record store persists. Conversion goes through JSON so field names
// match the wire format exactly.
func ToRecord(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var rec map[string]any
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// FromRecord rebuilds a typed model from a stored record map.
func FromRecord(rec map[string]any, out any) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
