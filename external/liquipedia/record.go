package liquipedia

import (
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
)

// Record is one raw API row. The query engine returns loosely typed JSON, so
// every accessor tolerates missing keys and mixed string/number encodings.
type Record map[string]any

func (r Record) Str(key string) string {
	switch v := r[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func (r Record) Int64(key string) int64 {
	switch v := r[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func (r Record) Float64(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// MapVal returns a nested object. Some deployments return nested fields as
// embedded JSON strings, so those are decoded too.
func (r Record) MapVal(key string) map[string]any {
	switch v := r[key].(type) {
	case map[string]any:
		return v
	case string:
		trimmed := strings.TrimSpace(v)
		if !strings.HasPrefix(trimmed, "{") {
			return nil
		}
		var out map[string]any
		if err := sonic.UnmarshalString(trimmed, &out); err != nil {
			return nil
		}
		return out
	default:
		return nil
	}
}

func (r Record) List(key string) []map[string]any {
	items, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func getString(src map[string]any, key string) string {
	return Record(src).Str(key)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// pageNameToTitle converts a wiki page name to a display title.
func pageNameToTitle(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, "_", " "))
}

func isZeroDate(raw string) bool {
	switch raw {
	case "", "0000-00-00", "0000-01-01":
		return true
	default:
		return false
	}
}

// parseDate parses a provider date, treating the sentinel zero dates as
// absent.
func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if isZeroDate(raw) {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &parsed
}

func parseDateTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if isZeroDate(raw) {
		return nil
	}
	layouts := []string{
		"2006-01-02 15:04:05",
		time.RFC3339,
		"2006-01-02",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			parsed = parsed.UTC()
			return &parsed
		}
	}
	return nil
}
