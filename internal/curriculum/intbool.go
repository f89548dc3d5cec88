package curriculum

import (
	"bytes"
	"encoding/json"
)

// IntBool round-trips the backend's 0/1 boolean columns. Decoding also
// tolerates true/false and numeric strings, which the spreadsheet gateway
// has been seen to emit.
type IntBool bool

func (b IntBool) MarshalJSON() ([]byte, error) {
	if b {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

func (b *IntBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "1", "true", `"1"`, `"true"`:
		*b = true
		return nil
	case "0", "false", `"0"`, `"false"`, "null", `""`:
		*b = false
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*b = false
		return nil // unknown shapes read as unpublished
	}
	*b = f == 1
	return nil
}
