package shared

import (
	"net/url"
	"strconv"
)

// QueryInt parses an integer query parameter, falling back to def on absence
// or garbage.
func QueryInt(q url.Values, key string, def int) int {
	raw := q.Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
