// Package valueobject holds small shared value types.
package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// ErrScanValue indicates a database value could not be decoded into a JSONMap.
var ErrScanValue = errors.New("valueobject: jsonmap scan value is not json bytes")

// JSONMap stores an arbitrary JSON object, used for jsonb columns.
type JSONMap map[string]any

// Value implements driver.Valuer.
func (j JSONMap) Value() (driver.Value, error) {
	return json.Marshal(j)
}

// Scan implements sql.Scanner.
func (j *JSONMap) Scan(value any) error {
	if value == nil {
		*j = JSONMap{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case map[string]any:
		*j = JSONMap(v)
		return nil
	default:
		return ErrScanValue
	}

	var out JSONMap
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}

	*j = out

	return nil
}

// GetString returns the string at key, or "" if missing or not a string.
func (j JSONMap) GetString(key string) string {
	v, _ := j[key].(string)
	return v
}

// GetInt64 returns the number at key as int64, or 0 if missing. JSON numbers
// decode as float64, so both forms are handled.
func (j JSONMap) GetInt64(key string) int64 {
	switch v := j[key].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// GetBool returns the bool at key, or false if missing or not a bool.
func (j JSONMap) GetBool(key string) bool {
	v, _ := j[key].(bool)
	return v
}
