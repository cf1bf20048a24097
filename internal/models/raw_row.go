package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// RawRow keeps the original CSV row of an imported transaction, keyed by header
type RawRow map[string]string

// Value implements driver.Valuer interface
func (r RawRow) Value() (driver.Value, error) {
	if len(r) == 0 {
		return nil, nil
	}
	bytes, err := json.Marshal(map[string]string(r))
	if err != nil {
		return nil, err
	}
	// Return string for SQLite compatibility
	return string(bytes), nil
}

func (r *RawRow) Scan(value interface{}) error {
	if value == nil {
		*r = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into RawRow", value)
	}

	if len(bytes) == 0 {
		*r = nil
		return nil
	}

	return json.Unmarshal(bytes, r)
}
