package clix

import (
	"context"
	"reflect"
	"time"

	clickhouse "github.com/ClickHouse/clickhouse-go/v2"
)

// Row is a single result row keyed by column name (or alias).
type Row map[string]any

// Executor runs a rendered query and materializes the result set. A pooled
// clickhouse.Conn adapted by NewConn satisfies it; tests substitute fakes.
type Executor interface {
	Query(ctx context.Context, sql string, args ...any) ([]Row, error)
}

type connExecutor struct {
	conn clickhouse.Conn
}

// NewConn adapts a clickhouse connection into an Executor. The connection is
// shared and safe for concurrent query issuance.
func NewConn(conn clickhouse.Conn) Executor {
	return &connExecutor{conn: conn}
}

func (e *connExecutor) Query(ctx context.Context, sql string, args ...any) ([]Row, error) {
	rows, err := e.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := rows.Columns()
	types := rows.ColumnTypes()
	out := make([]Row, 0)
	for rows.Next() {
		dests := make([]any, len(types))
		for i, ct := range types {
			dests[i] = reflect.New(ct.ScanType()).Interface()
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, err
		}
		row := make(Row, len(columns))
		for i, name := range columns {
			row[name] = reflect.ValueOf(dests[i]).Elem().Interface()
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Uint64 reads a column as an unsigned count, coercing the integer widths the
// driver produces. Missing or non-numeric columns read as 0.
func (r Row) Uint64(column string) uint64 {
	switch v := r[column].(type) {
	case uint64:
		return v
	case uint32:
		return uint64(v)
	case uint16:
		return uint64(v)
	case uint8:
		return uint64(v)
	case uint:
		return uint64(v)
	case int64:
		if v < 0 {
			return 0
		}
		return uint64(v)
	case int32:
		if v < 0 {
			return 0
		}
		return uint64(v)
	case int:
		if v < 0 {
			return 0
		}
		return uint64(v)
	case float64:
		if v < 0 {
			return 0
		}
		return uint64(v)
	}
	return 0
}

// Float64 reads a column as a float, coercing integer scan types.
func (r Row) Float64(column string) float64 {
	switch v := r[column].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case uint64:
		return float64(v)
	case uint32:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

func (r Row) String(column string) string {
	switch v := r[column].(type) {
	case string:
		return v
	case *string:
		if v != nil {
			return *v
		}
	}
	return ""
}

func (r Row) Time(column string) time.Time {
	switch v := r[column].(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	}
	return time.Time{}
}
