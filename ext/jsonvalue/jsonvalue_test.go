package jsonvalue

import (
	"testing"

	"github.com/jackc/pgproto3/v2"
	"github.com/jackc/pgtype"
	jsoniter "github.com/json-iterator/go"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"gopkg.in/gomisc/pgde.v1"
	"gopkg.in/gomisc/pgde.v1/pg"
)

func jsonRow(t *testing.T) pgde.Row {
	t.Helper()

	bin, err := (&pgtype.JSONB{Bytes: []byte(`{"a":[1,"x",null]}`), Status: pgtype.Present}).
		EncodeBinary(pgtype.NewConnInfo(), nil)
	assert.NilError(t, err)

	return pg.NewRow(nil, []pgproto3.FieldDescription{
		{Name: []byte("jsonb"), DataTypeOID: pgtype.JSONBOID, Format: pgtype.BinaryFormatCode},
		{Name: []byte("json"), DataTypeOID: pgtype.JSONOID, Format: pgtype.TextFormatCode},
		{Name: []byte("broken"), DataTypeOID: pgtype.JSONOID, Format: pgtype.TextFormatCode},
	}, [][]byte{bin, []byte(`[true, 2.5]`), []byte(`{"a":`)})
}

func TestJSON(t *testing.T) {
	row := jsonRow(t)

	got, err := pgde.Extract(row, pgde.Named("jsonb"), JSON)
	assert.NilError(t, err)
	assert.Check(t, is.DeepEqual(got, map[string]any{"a": []any{float64(1), "x", nil}}))

	got, err = pgde.Extract(row, pgde.Named("json"), JSON)
	assert.NilError(t, err)
	assert.Check(t, is.DeepEqual(got, []any{true, 2.5}))

	_, err = pgde.Extract(row, pgde.Named("broken"), JSON)
	assert.ErrorIs(t, err, pgde.ErrConversion)
}

func TestRawJSON(t *testing.T) {
	row := jsonRow(t)

	got, err := pgde.Extract(row, pgde.Named("jsonb"), RawJSON)
	assert.NilError(t, err)
	assert.Check(t, is.Equal(string(got), `{"a":[1,"x",null]}`))

	_, err = pgde.Extract(row, pgde.Named("broken"), RawJSON)
	assert.ErrorIs(t, err, pgde.ErrConversion)
}

func TestRegister(t *testing.T) {
	type event struct {
		Kind    string              `db:"kind"`
		Payload any                 `db:"payload"`
		Raw     jsoniter.RawMessage `db:"raw"`
	}

	Register()

	_, err := pgde.Derive[event]()
	assert.NilError(t, err)
}
