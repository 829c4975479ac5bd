package mysql

import (
	"database/sql"
	"fmt"
	"net"
	"time"

	"gopkg.in/gomisc/errors.v1"

	"gopkg.in/gomisc/pgde.v1"
)

const (
	errArraysUnsupported   = errors.Const("mysql has no array columns")
	errUnsupportedDst      = errors.Const("unsupported scan destination")
	errInvalidIP           = errors.Const("invalid ip address")
	errUnexpectedNullValue = errors.Const("unexpected NULL value")
)

// Форматы DATETIME и DATE при подключении без parseTime=true
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

type (
	columns struct {
		names []string
		index map[string]int
	}

	row struct {
		cols   *columns
		values []any
	}

	value struct {
		raw any
	}
)

func newColumns(names []string) *columns {
	cols := &columns{names: names, index: make(map[string]int, len(names))}

	for i, name := range names {
		if _, ok := cols.index[name]; !ok {
			cols.index[name] = i
		}
	}

	return cols
}

func (r *row) Len() int {
	return len(r.values)
}

func (r *row) Index(name string) int {
	if i, ok := r.cols.index[name]; ok {
		return i
	}

	return -1
}

func (r *row) At(i int) pgde.Value {
	return &value{raw: r.values[i]}
}

func (v *value) Null() bool {
	return v.raw == nil
}

func (v *value) Elements() ([]pgde.Value, error) {
	return nil, errArraysUnsupported
}

func (v *value) Scan(dst any) error {
	var err error

	switch d := dst.(type) {
	case *bool:
		err = assign(d, v.raw)
	case *int8:
		err = assign(d, v.raw)
	case *int16:
		err = assign(d, v.raw)
	case *int32:
		err = assign(d, v.raw)
	case *int64:
		err = assign(d, v.raw)
	case *uint32:
		err = assign(d, v.raw)
	case *float32:
		err = assign(d, v.raw)
	case *float64:
		err = assign(d, v.raw)
	case *string:
		err = assign(d, v.raw)
	case *[]byte:
		err = assign(d, v.raw)
	case *time.Time:
		err = scanTime(d, v.raw)
	case *net.IP:
		err = scanIP(d, v.raw)
	case sql.Scanner:
		err = d.Scan(v.raw)
	default:
		err = errors.Ctx().Str("dst", fmt.Sprintf("%T", dst)).Just(errUnsupportedDst)
	}

	if err != nil {
		return errors.Ctx().Str("src", fmt.Sprintf("%T", v.raw)).Wrap(err, "scan column value")
	}

	return nil
}

// assign использует преобразования database/sql
func assign[T any](dst *T, src any) error {
	var n sql.Null[T]

	if err := n.Scan(src); err != nil {
		return err
	}

	if !n.Valid {
		return errUnexpectedNullValue
	}

	*dst = n.V

	return nil
}

func scanTime(dst *time.Time, src any) error {
	var text string

	switch s := src.(type) {
	case time.Time:
		*dst = s
		return nil
	case []byte:
		text = string(s)
	case string:
		text = s
	default:
		return assign(dst, src)
	}

	var lastErr error

	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, text, time.UTC)
		if err == nil {
			*dst = t
			return nil
		}

		lastErr = err
	}

	return errors.Wrap(lastErr, "parse time")
}

func scanIP(dst *net.IP, src any) error {
	var text string

	if err := assign(&text, src); err != nil {
		return err
	}

	ip := net.ParseIP(text)
	if ip == nil {
		return errors.Ctx().Str("ip", text).Just(errInvalidIP)
	}

	*dst = ip

	return nil
}
