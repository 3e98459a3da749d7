// Package clix is a small fluent query builder over the ClickHouse SQL
// dialect. Builders are cheap to Clone, so a base query carrying the shared
// scope predicates can be branched into several derived queries without
// re-stating the filters and without sharing mutable state across goroutines.
//
// Column expressions (JSON extraction, date truncation, window aggregates)
// are passed through as opaque SQL fragments; the builder never parses them.
package clix

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

type condition struct {
	column   string
	operator string
	value    any
}

type cte struct {
	name string
	sub  *Builder
}

// Builder assembles a single SELECT statement with positional `?` bindings.
type Builder struct {
	ex       Executor
	timezone string
	table    string
	selects  []string
	wheres   []condition
	groups   []string
	orders   []string
	limit    int
	ctes     []cte
}

// New returns an empty builder bound to an executor. The timezone is carried
// for date-truncation fragments; it does not rewrite expressions by itself.
func New(ex Executor, timezone string) *Builder {
	if strings.TrimSpace(timezone) == "" {
		timezone = "UTC"
	}
	return &Builder{ex: ex, timezone: timezone}
}

// Clone returns a deep copy. Mutating the copy never affects the original,
// including its CTE sub-builders.
func (b *Builder) Clone() *Builder {
	out := &Builder{
		ex:       b.ex,
		timezone: b.timezone,
		table:    b.table,
		selects:  append([]string(nil), b.selects...),
		wheres:   append([]condition(nil), b.wheres...),
		groups:   append([]string(nil), b.groups...),
		orders:   append([]string(nil), b.orders...),
		limit:    b.limit,
	}
	for _, c := range b.ctes {
		out.ctes = append(out.ctes, cte{name: c.name, sub: c.sub.Clone()})
	}
	return out
}

// Timezone returns the timezone the builder was created with.
func (b *Builder) Timezone() string { return b.timezone }

func (b *Builder) From(table string) *Builder {
	b.table = table
	return b
}

func (b *Builder) Select(columns ...string) *Builder {
	b.selects = append(b.selects, columns...)
	return b
}

// Where adds a conjunctive predicate. The operator "IN" expects a slice value
// and expands one placeholder per element; an empty slice yields a predicate
// that matches nothing.
func (b *Builder) Where(column, operator string, value any) *Builder {
	b.wheres = append(b.wheres, condition{column: column, operator: operator, value: value})
	return b
}

func (b *Builder) GroupBy(columns ...string) *Builder {
	b.groups = append(b.groups, columns...)
	return b
}

func (b *Builder) OrderBy(column, direction string) *Builder {
	dir := strings.ToUpper(strings.TrimSpace(direction))
	if dir != "ASC" && dir != "DESC" {
		dir = "ASC"
	}
	b.orders = append(b.orders, column+" "+dir)
	return b
}

func (b *Builder) Limit(n int) *Builder {
	b.limit = n
	return b
}

// With registers a named CTE. The callback receives a fresh builder that
// inherits the executor and timezone.
func (b *Builder) With(name string, fn func(*Builder) *Builder) *Builder {
	sub := fn(New(b.ex, b.timezone))
	b.ctes = append(b.ctes, cte{name: name, sub: sub})
	return b
}

// SQL renders the statement and its bind arguments. CTE arguments come first,
// matching ClickHouse positional binding order.
func (b *Builder) SQL() (string, []any) {
	var sb strings.Builder
	var args []any

	if len(b.ctes) > 0 {
		sb.WriteString("WITH ")
		for i, c := range b.ctes {
			if i > 0 {
				sb.WriteString(", ")
			}
			sub, subArgs := c.sub.SQL()
			sb.WriteString(c.name)
			sb.WriteString(" AS (")
			sb.WriteString(sub)
			sb.WriteString(")")
			args = append(args, subArgs...)
		}
		sb.WriteString(" ")
	}

	sb.WriteString("SELECT ")
	if len(b.selects) == 0 {
		sb.WriteString("*")
	} else {
		sb.WriteString(strings.Join(b.selects, ", "))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(b.table)

	for i, w := range b.wheres {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		frag, wArgs := renderCondition(w)
		sb.WriteString(frag)
		args = append(args, wArgs...)
	}

	if len(b.groups) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(b.groups, ", "))
	}
	if len(b.orders) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orders, ", "))
	}
	if b.limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(b.limit))
	}
	return sb.String(), args
}

func renderCondition(w condition) (string, []any) {
	op := strings.ToUpper(strings.TrimSpace(w.operator))
	if op == "IN" || op == "NOT IN" {
		values := toAnySlice(w.value)
		if len(values) == 0 {
			if op == "NOT IN" {
				return "1 = 1", nil
			}
			return "1 = 0", nil
		}
		placeholders := make([]string, len(values))
		for i := range values {
			placeholders[i] = "?"
		}
		return w.column + " " + op + " (" + strings.Join(placeholders, ", ") + ")", values
	}
	return w.column + " " + op + " ?", []any{w.value}
}

func toAnySlice(value any) []any {
	switch v := value.(type) {
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	default:
		return []any{value}
	}
}

// Execute renders and runs the query against the bound executor.
func (b *Builder) Execute(ctx context.Context) ([]Row, error) {
	if b.ex == nil {
		return nil, fmt.Errorf("clix: no executor bound")
	}
	sql, args := b.SQL()
	return b.ex.Query(ctx, sql, args...)
}
