// Package pgdriver adapts a Postgres connection pool to the handle
// registry and async bridge. names "pg" as an example
// out-of-scope stdlib binding but leaves the handle-registry protocol a
// Postgres adapter must satisfy in scope; this package is that protocol's
// concrete instance, shaped the same way kvcache and passwordhash are:
// register a connection, submit blocking calls to the worker pool,
// resolve with a deferred promise.
package pgdriver

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skelpo/perryc/internal/asyncbridge"
	"github.com/skelpo/perryc/internal/handle"
	"github.com/skelpo/perryc/runtime"
)

// Pool wraps a live connection pool so it satisfies handle.Resource.
type Pool struct {
	pool *pgxpool.Pool
}

// Close implements handle.Resource.
func (p *Pool) Close() error {
	p.pool.Close()
	return nil
}

// Connect parses dsn and registers a connection pool under reg,
// returning its handle. Dialing happens lazily on first query.
func Connect(reg *handle.Registry, dsn string) (handle.Handle, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return handle.Invalid, fmt.Errorf("pgdriver: parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return handle.Invalid, fmt.Errorf("pgdriver: connect: %w", err)
	}
	return reg.Register(&Pool{pool: pool}), nil
}

// Row is one result row as column-name-to-value pairs, the shape
// compiled code turns into a runtime.Object per row.
type Row map[string]any

// Query schedules a parameterized SELECT on the worker pool and
// resolves to the rows as a runtime Array of Objects (see rowsBuild).
func Query(reg *handle.Registry, b *asyncbridge.Bridge, sched *runtime.Scheduler, arena *runtime.Arena, h handle.Handle, sql string, args ...any) int {
	idx := sched.NewPromise()
	p, ok := handle.GetAs[*Pool](reg, h)
	if !ok {
		asyncbridge.Submit(b, idx, func(context.Context) ([]Row, error) {
			return nil, fmt.Errorf("pgdriver: unknown handle %d", h)
		}, rowsBuild(arena), errBuild(arena))
		return idx
	}
	asyncbridge.Submit(b, idx, func(ctx context.Context) ([]Row, error) {
		rows, err := p.pool.Query(ctx, sql, args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		return collectRows(rows)
	}, rowsBuild(arena), errBuild(arena))
	return idx
}

// Exec schedules an INSERT/UPDATE/DELETE on the worker pool and
// resolves to the number of rows affected.
func Exec(reg *handle.Registry, b *asyncbridge.Bridge, sched *runtime.Scheduler, arena *runtime.Arena, h handle.Handle, sql string, args ...any) int {
	idx := sched.NewPromise()
	p, ok := handle.GetAs[*Pool](reg, h)
	if !ok {
		asyncbridge.Submit(b, idx, func(context.Context) (int64, error) {
			return 0, fmt.Errorf("pgdriver: unknown handle %d", h)
		}, int64Build(), errBuild(arena))
		return idx
	}
	asyncbridge.Submit(b, idx, func(ctx context.Context) (int64, error) {
		tag, err := p.pool.Exec(ctx, sql, args...)
		if err != nil {
			return 0, err
		}
		return tag.RowsAffected(), nil
	}, int64Build(), errBuild(arena))
	return idx
}

func collectRows(rows pgx.Rows) ([]Row, error) {
	fields := rows.FieldDescriptions()
	var out []Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(Row, len(fields))
		for i, f := range fields {
			row[string(f.Name)] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// rowsBuild turns the query result into a runtime Array of Objects, one
// object per row, fields named after that row's columns. Field order
// follows Go map iteration over the Row, so it is not defined and need not
// match the query's column order.
func rowsBuild(arena *runtime.Arena) func([]Row) runtime.JSValue {
	return func(rows []Row) runtime.JSValue {
		arr := runtime.ArrayAlloc(arena, len(rows))
		for _, row := range rows {
			names := make([]string, 0, len(row))
			for name := range row {
				names = append(names, name)
			}
			keysArr := runtime.ArrayAlloc(arena, len(names))
			obj := runtime.ObjectAlloc(arena, 0, len(names))
			for i, name := range names {
				runtime.ArraySet(arena, keysArr, i, runtime.StringValue(runtime.NewString(arena, []byte(name))))
				runtime.ObjectSetField(arena, obj, i, columnValue(arena, row[name]))
			}
			runtime.ObjectSetKeys(arena, obj, keysArr)
			runtime.ArrayPush(arena, arr, runtime.ObjectValue(obj))
		}
		return runtime.ArrayValue(arr)
	}
}

func columnValue(arena *runtime.Arena, v any) runtime.JSValue {
	switch t := v.(type) {
	case nil:
		return runtime.Null
	case bool:
		return runtime.BoolValue(t)
	case int32:
		return runtime.Int32Value(t)
	case int64:
		return runtime.NumberValue(float64(t))
	case float32:
		return runtime.NumberValue(float64(t))
	case float64:
		return runtime.NumberValue(t)
	case string:
		return runtime.StringValue(runtime.NewString(arena, []byte(t)))
	case []byte:
		return runtime.StringValue(runtime.NewString(arena, t))
	default:
		return runtime.StringValue(runtime.NewString(arena, []byte(fmt.Sprint(t))))
	}
}

func int64Build() func(int64) runtime.JSValue {
	return func(n int64) runtime.JSValue { return runtime.NumberValue(float64(n)) }
}

func errBuild(arena *runtime.Arena) func(error) runtime.JSValue {
	return func(err error) runtime.JSValue {
		return runtime.StringValue(runtime.NewString(arena, []byte(err.Error())))
	}
}
