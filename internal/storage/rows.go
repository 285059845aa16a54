package storage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Result rows come back with backend-dependent column spellings (Postgres
// folds unquoted identifiers to lowercase, MySQL and SQLite preserve them),
// so every read path coalesces both spellings per column.
type row map[string]any

func scanRows(rows *sqlx.Rows) ([]row, error) {
	defer func() {
		_ = rows.Close()
	}()

	var out []row
	for rows.Next() {
		m := map[string]any{}
		if err := rows.MapScan(m); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

func (r row) value(column string) (any, bool) {
	if v, ok := r[column]; ok {
		return v, true
	}
	v, ok := r[strings.ToLower(column)]
	return v, ok
}

func (r row) str(column string) string {
	v, ok := r.value(column)
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func (r row) blob(column string) []byte {
	v, ok := r.value(column)
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case []byte:
		return t
	case string:
		return []byte(t)
	default:
		return nil
	}
}

func (r row) uint(column string) uint64 {
	u, _ := r.uintOK(column)
	return u
}

// uintOK reports false for NULL columns so nullable reads (globalIdx) can
// distinguish zero from absent.
func (r row) uintOK(column string) (uint64, bool) {
	v, ok := r.value(column)
	if !ok || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case int64:
		if t < 0 {
			return 0, false
		}
		return uint64(t), true
	case uint64:
		return t, true
	case int:
		if t < 0 {
			return 0, false
		}
		return uint64(t), true
	case float64:
		if t < 0 {
			return 0, false
		}
		return uint64(t), true
	case []byte:
		u, err := strconv.ParseUint(string(t), 10, 64)
		return u, err == nil
	case string:
		u, err := strconv.ParseUint(t, 10, 64)
		return u, err == nil
	default:
		return 0, false
	}
}

func (r row) flag(column string) bool {
	v, ok := r.value(column)
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case int64:
		return t != 0
	case []byte:
		return string(t) == "1" || strings.EqualFold(string(t), "true")
	case string:
		return t == "1" || strings.EqualFold(t, "true")
	default:
		return false
	}
}

func (r row) float(column string) float64 {
	v, ok := r.value(column)
	if !ok || v == nil {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case []byte:
		f, _ := strconv.ParseFloat(string(t), 64)
		return f
	case string:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	default:
		return 0
	}
}
