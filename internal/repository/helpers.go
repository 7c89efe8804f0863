package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ideahub/api/internal/database"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// recordID returns the full "table:key" id, accepting either form
func recordID(table, id string) string {
	if strings.HasPrefix(id, table+":") {
		return id
	}
	return table + ":" + id
}

// isUniqueConstraintError checks if an error is a unique index violation
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, database.ErrDuplicate) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "already contains") ||
		strings.Contains(errStr, "already exists")
}

// extractRecordID renders a SurrealDB record id as "table:key"
func extractRecordID(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case models.RecordID:
		return fmt.Sprintf("%s:%v", v.Table, v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprintf("%s:%v", v.Table, v.ID)
		}
	case map[string]interface{}:
		// Handle {"tb": "table", "id": "xxx"} format
		if tb, ok := v["tb"].(string); ok {
			return fmt.Sprintf("%s:%v", tb, v["id"])
		}
		// A fetched record: use its own id
		if inner, ok := v["id"]; ok {
			return extractRecordID(inner)
		}
	}
	return ""
}

// parseTime parses time from the formats the client may return
func parseTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		if t != nil {
			return *t
		}
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	case models.CustomDateTime:
		return t.Time
	case *models.CustomDateTime:
		if t != nil {
			return t.Time
		}
	}
	return time.Time{}
}

// statementRows returns the records of statement idx of a Query result
func statementRows(results []interface{}, idx int) []map[string]interface{} {
	if idx < 0 || idx >= len(results) {
		return nil
	}

	resp, ok := results[idx].(map[string]interface{})
	if !ok {
		return nil
	}

	var raw []interface{}
	switch r := resp["result"].(type) {
	case []interface{}:
		raw = r
	case map[string]interface{}:
		raw = []interface{}{r}
	default:
		return nil
	}

	rows := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]interface{}); ok {
			rows = append(rows, m)
		}
	}
	return rows
}

// firstRow returns the first record of the first statement, or nil
func firstRow(results []interface{}) map[string]interface{} {
	rows := statementRows(results, 0)
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}

// extractCount extracts count from a `SELECT count() ... GROUP ALL` result
func extractCount(results []interface{}) int {
	row := firstRow(results)
	if row == nil {
		return 0
	}
	return extractCountValue(row["count"])
}

// extractCountValue converts various numeric types to int
func extractCountValue(v interface{}) int {
	switch c := v.(type) {
	case float64:
		return int(c)
	case float32:
		return int(c)
	case int:
		return c
	case int64:
		return int(c)
	case uint64:
		return int(c)
	}
	return 0
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getInt extracts an int value from a map
func getInt(m map[string]interface{}, key string) int {
	return extractCountValue(m[key])
}

// getBool extracts a bool value from a map
func getBool(m map[string]interface{}, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}

// getTimePtr extracts an optional time value from a map
func getTimePtr(m map[string]interface{}, key string) *time.Time {
	t := parseTime(m[key])
	if t.IsZero() {
		return nil
	}
	return &t
}

// getStringSlice extracts a string slice from a map
func getStringSlice(m map[string]interface{}, key string) []string {
	result := []string{}
	if v, ok := m[key].([]interface{}); ok {
		for _, item := range v {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
	}
	return result
}

// getMap extracts a nested object from a map
func getMap(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key].(map[string]interface{}); ok {
		return v
	}
	return nil
}

// getObject extracts a nested JSON object, defaulting to an empty one
func getObject(m map[string]interface{}, key string) map[string]interface{} {
	if v := getMap(m, key); v != nil {
		return v
	}
	return map[string]interface{}{}
}

// noneIfEmpty maps "" onto NONE so optional fields are left unset
func noneIfEmpty(s string) interface{} {
	if s == "" {
		return models.None
	}
	return s
}
