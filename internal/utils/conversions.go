package utils

import (
	"encoding/json"
	"strconv"
)

// ToString renders a decoded JSON scalar as a string. Ids arrive as strings
// from the clinic API but numeric ids are accepted as well.
func ToString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	default:
		return "", false
	}
}
