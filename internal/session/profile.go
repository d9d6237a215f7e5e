package session

import (
	"encoding/json"
	"strconv"
)

// UserID extracts the user identifier from a decoded profile.
// The `id` field is preferred over `_id`; numbers are kept in their JSON form.
func UserID(profile map[string]any) string {
	for _, key := range []string{"id", "_id"} {
		switch v := profile[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case json.Number:
			return v.String()
		}
	}
	return ""
}
