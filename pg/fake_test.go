package pg

import (
	"context"
	"strconv"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgproto3/v2"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	"gotest.tools/v3/assert"
)

type (
	fakeQuerier struct {
		rows *fakeRows
		err  error

		query string
		args  []any
	}

	// fakeRows reuses one buffer for every row, like the pgx connection does.
	fakeRows struct {
		fields []pgproto3.FieldDescription
		data   [][][]byte
		err    error

		pos    int
		buf    [][]byte
		closed bool
	}
)

func (q *fakeQuerier) Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return nil, nil
}

func (q *fakeQuerier) Query(_ context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	q.query, q.args = sql, args

	if q.err != nil {
		return nil, q.err
	}

	return q.rows, nil
}

func (q *fakeQuerier) QueryRow(context.Context, string, ...interface{}) pgx.Row {
	return nil
}

func (r *fakeRows) Close() {
	r.closed = true
}

func (r *fakeRows) Err() error {
	if r.pos > len(r.data) {
		return r.err
	}

	return nil
}

func (r *fakeRows) CommandTag() pgconn.CommandTag {
	return nil
}

func (r *fakeRows) FieldDescriptions() []pgproto3.FieldDescription {
	return r.fields
}

func (r *fakeRows) Next() bool {
	for _, b := range r.buf {
		for i := range b {
			b[i] = 0xff
		}
	}

	if r.pos >= len(r.data) {
		r.pos = len(r.data) + 1
		return false
	}

	r.buf = make([][]byte, len(r.data[r.pos]))
	for i, v := range r.data[r.pos] {
		if v != nil {
			r.buf[i] = append([]byte{}, v...)
		}
	}

	r.pos++

	return true
}

func (r *fakeRows) Scan(...interface{}) error {
	return nil
}

func (r *fakeRows) Values() ([]interface{}, error) {
	return nil, nil
}

func (r *fakeRows) RawValues() [][]byte {
	return r.buf
}

func field(name string, oid uint32, format int16) pgproto3.FieldDescription {
	return pgproto3.FieldDescription{Name: []byte(name), DataTypeOID: oid, Format: format}
}

func encode(t *testing.T, v pgtype.BinaryEncoder) []byte {
	t.Helper()

	buf, err := v.EncodeBinary(pgtype.NewConnInfo(), nil)
	assert.NilError(t, err)

	return buf
}

type (
	fakePool struct {
		fakeQuerier

		tx       *fakeTx
		txOpts   *pgx.TxOptions
		closed   bool
		beginErr error
	}

	// fakeTx implements only the pgx.Tx methods the client calls.
	fakeTx struct {
		pgx.Tx

		querier    fakeQuerier
		committed  bool
		rolledBack bool
	}

	// seriesQuerier answers every query with fresh text rows holding the first argument.
	seriesQuerier struct {
		rows int
	}
)

func (p *fakePool) Begin(context.Context) (pgx.Tx, error) {
	if p.beginErr != nil {
		return nil, p.beginErr
	}

	return p.tx, nil
}

func (p *fakePool) BeginTx(_ context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	p.txOpts = &opts

	return p.Begin(context.Background())
}

func (p *fakePool) Close() {
	p.closed = true
}

func (tx *fakeTx) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return tx.querier.Query(ctx, sql, args...)
}

func (tx *fakeTx) Commit(context.Context) error {
	tx.committed = true

	return nil
}

func (tx *fakeTx) Rollback(context.Context) error {
	tx.rolledBack = true

	return nil
}

func (q seriesQuerier) Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return nil, nil
}

func (q seriesQuerier) Query(_ context.Context, _ string, args ...interface{}) (pgx.Rows, error) {
	rows := &fakeRows{
		fields: []pgproto3.FieldDescription{field("n", pgtype.Int4OID, pgtype.TextFormatCode)},
	}

	for i := 0; i < q.rows; i++ {
		rows.data = append(rows.data, [][]byte{[]byte(strconv.Itoa(args[0].(int)))})
	}

	return rows, nil
}

func (q seriesQuerier) QueryRow(context.Context, string, ...interface{}) pgx.Row {
	return nil
}
