package pgde_test

import (
	"context"
	"fmt"
	"reflect"

	"gopkg.in/gomisc/pgde.v1"
)

type (
	memValue struct {
		v any
	}

	memRow struct {
		names  []string
		values []any
	}

	executorFunc func(ctx context.Context, query string, args ...any) ([]pgde.Row, error)
)

func (m memValue) Null() bool {
	return m.v == nil
}

func (m memValue) Scan(dst any) error {
	dv := reflect.ValueOf(dst).Elem()
	sv := reflect.ValueOf(m.v)

	if !sv.Type().AssignableTo(dv.Type()) {
		return fmt.Errorf("cannot scan %T into %T", m.v, dst)
	}

	dv.Set(sv)

	return nil
}

func (m memValue) Elements() ([]pgde.Value, error) {
	items, ok := m.v.([]any)
	if !ok {
		return nil, fmt.Errorf("%T is not an array", m.v)
	}

	out := make([]pgde.Value, 0, len(items))
	for _, item := range items {
		out = append(out, memValue{v: item})
	}

	return out, nil
}

// newRow builds a row from name, value pairs.
func newRow(pairs ...any) *memRow {
	r := &memRow{}

	for i := 0; i < len(pairs); i += 2 {
		r.names = append(r.names, pairs[i].(string))
		r.values = append(r.values, pairs[i+1])
	}

	return r
}

func (r *memRow) Len() int {
	return len(r.values)
}

func (r *memRow) Index(name string) int {
	for i, n := range r.names {
		if n == name {
			return i
		}
	}

	return -1
}

func (r *memRow) At(i int) pgde.Value {
	return memValue{v: r.values[i]}
}

func (f executorFunc) Query(ctx context.Context, query string, args ...any) ([]pgde.Row, error) {
	return f(ctx, query, args...)
}

func rowsOf(rows ...*memRow) []pgde.Row {
	out := make([]pgde.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, r)
	}

	return out
}
