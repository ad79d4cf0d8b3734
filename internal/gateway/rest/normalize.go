package rest

import (
	"encoding/json"
	"strconv"

	"kakeibo/internal/gateway"
)

// The backend spells identifier fields inconsistently across endpoints
// ("id", "ID", "_id"). Normalization happens here, once; nothing past this
// file ever branches on field casing.

var idKeys = []string{"id", "ID", "_id", "Id"}

func normalizeID(m map[string]any) string {
	for _, k := range idKeys {
		if v, ok := m[k]; ok {
			return anyToString(v)
		}
	}
	return ""
}

func normalizeCategory(m map[string]any) gateway.Category {
	var c gateway.Category
	if id, err := strconv.ParseInt(normalizeID(m), 10, 64); err == nil {
		c.ID = id
	}
	for _, k := range []string{"name", "Name", "category_name"} {
		if v, ok := m[k]; ok {
			c.Name = anyToString(v)
			break
		}
	}
	return c
}

// extractRef pulls the remote identifier out of a submit response, which may
// be a single object or an array of one.
func extractRef(body []byte) string {
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err == nil {
		return normalizeID(obj)
	}
	var arr []map[string]any
	if err := json.Unmarshal(body, &arr); err == nil && len(arr) > 0 {
		return normalizeID(arr[0])
	}
	return ""
}

func anyToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	default:
		return ""
	}
}
