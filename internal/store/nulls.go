package store

import (
	"database/sql"
	"time"
)

// unixVal converts an optional timestamp to its stored form (unix
// seconds, or NULL when absent).
func unixVal(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Unix()
}

// unixPtr converts a scanned nullable unix-seconds column back to an
// optional timestamp.
func unixPtr(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0)
	return &t
}

// nullStr stores empty strings as NULL
func nullStr(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// floatVal converts an optional float to its stored form
func floatVal(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

// floatPtr converts a scanned nullable float back to an optional value
func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// intVal converts an optional int to its stored form
func intVal(n *int) interface{} {
	if n == nil {
		return nil
	}
	return *n
}

// intPtr converts a scanned nullable integer back to an optional value
func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
