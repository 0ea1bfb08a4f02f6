package dto

import (
	"bytes"
	"encoding/json"
)

// NullableFloat distinguishes an absent JSON number from an explicit null.
// Set is true whenever the key was present; Valid is true when it held a number.
type NullableFloat struct {
	Set   bool
	Valid bool
	Value float64
}

func (n *NullableFloat) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Valid = false
		n.Value = 0
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

func (n NullableFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Ptr returns the number or nil when absent or null.
func (n NullableFloat) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}
