package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// parseRFC3339 parses an RFC3339 formatted timestamp string.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// now returns the current time at the precision the schema stores.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// encodeList stores a string list as a JSON array; nil becomes "[]".
func encodeList(list []string) string {
	if len(list) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(list)
	return string(b)
}

// decodeList is the inverse of encodeList; an empty array becomes nil.
func decodeList(value, fieldName string) ([]string, error) {
	var list []string
	if err := json.Unmarshal([]byte(value), &list); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list, nil
}

// nullID turns a zero reference ID into SQL NULL.
func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}
