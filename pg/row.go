package pg

import (
	"github.com/jackc/pgproto3/v2"
	"github.com/jackc/pgtype"
	"gopkg.in/gomisc/errors.v1"

	"gopkg.in/gomisc/pgde.v1"
)

type (
	// columns - описание колонок, общее для всех строк одного результата
	columns struct {
		ci     *pgtype.ConnInfo
		fields []pgproto3.FieldDescription
		index  map[string]int
	}

	row struct {
		cols   *columns
		values [][]byte
	}

	value struct {
		ci     *pgtype.ConnInfo
		oid    uint32
		format int16
		raw    []byte
	}
)

// NewRow - строка из описаний полей и значений в формате протокола PostgreSQL.
// Значения не копируются. При ci == nil используется набор типов по умолчанию.
// Значения строк с общим ci нельзя читать из разных горутин одновременно.
func NewRow(ci *pgtype.ConnInfo, fields []pgproto3.FieldDescription, values [][]byte) pgde.Row {
	if ci == nil {
		ci = pgtype.NewConnInfo()
	}

	return &row{cols: newColumns(ci, fields), values: values}
}

func newColumns(ci *pgtype.ConnInfo, fields []pgproto3.FieldDescription) *columns {
	cols := &columns{
		ci:     ci,
		fields: make([]pgproto3.FieldDescription, len(fields)),
		index:  make(map[string]int, len(fields)),
	}

	copy(cols.fields, fields)

	for i, f := range cols.fields {
		name := string(f.Name)
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
	f := r.cols.fields[i]

	return &value{
		ci:     r.cols.ci,
		oid:    f.DataTypeOID,
		format: f.Format,
		raw:    r.values[i],
	}
}

func (v *value) Null() bool {
	return v.raw == nil
}

func (v *value) Scan(dst any) error {
	if err := v.ci.Scan(v.oid, v.format, v.raw, dst); err != nil {
		return errors.Ctx().
			Any("oid", v.oid).
			Any("format", v.format).
			Wrap(err, "scan column value")
	}

	return nil
}
