package mysql

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"gopkg.in/gomisc/pgde.v1"
)

type user struct {
	ID      int32     `db:"id"`
	Name    string    `db:"name"`
	Email   *string   `db:"email"`
	Created time.Time `db:"created"`
	Addr    net.IP    `db:"addr"`
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	assert.NilError(t, err)

	t.Cleanup(func() {
		assert.Check(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestExecutorConsume(t *testing.T) {
	db, mock := newMockDB(t)
	created := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	mock.ExpectQuery("select * from users where id > ?").
		WithArgs(0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "created", "addr"}).
			AddRow(int64(1), []byte("ann"), nil, created, []byte("10.0.0.1")).
			AddRow(int64(2), []byte("bob"), []byte("bob@example.com"), []byte("2024-05-06 07:08:09"), "::1"))

	got, err := pgde.Consume(context.Background(), pgde.MustDerive[user](), NewExecutor(db),
		"select * from users where id > ?", 0)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(got, 2))

	assert.Check(t, is.Equal(got[0].ID, int32(1)))
	assert.Check(t, is.Equal(got[0].Name, "ann"))
	assert.Check(t, is.Nil(got[0].Email))
	assert.Check(t, got[0].Created.Equal(created))
	assert.Check(t, got[0].Addr.Equal(net.ParseIP("10.0.0.1")))

	assert.Assert(t, got[1].Email != nil)
	assert.Check(t, is.Equal(*got[1].Email, "bob@example.com"))
	assert.Check(t, got[1].Created.Equal(created))
	assert.Check(t, got[1].Addr.Equal(net.IPv6loopback))
}

func TestExecutorScalar(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("select 1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(int64(1)))

	got, err := pgde.Consume(context.Background(), pgde.Scalar(pgde.Int32), NewExecutor(db), "select 1")
	assert.NilError(t, err)
	assert.Check(t, is.DeepEqual(got, []int32{1}))
}

func TestExecutorNullIntoRequiredField(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("select id from users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(nil))

	_, err := pgde.Consume(context.Background(), pgde.Scalar(pgde.Int64), NewExecutor(db), "select id from users")
	assert.ErrorIs(t, err, pgde.ErrConversion)
}

func TestExecutorQueryFailure(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("select id from users").
		WillReturnError(errors.New("bad connection"))

	_, err := pgde.Consume(context.Background(), pgde.Scalar(pgde.Int64), NewExecutor(db), "select id from users")
	assert.ErrorIs(t, err, pgde.ErrDatabaseConnection)
}

func TestExecutorRowError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("select id from users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).
			AddRow(int64(1)).
			AddRow(int64(2)).
			RowError(1, errors.New("lost connection")))

	_, err := NewExecutor(db).Query(context.Background(), "select id from users")
	assert.ErrorContains(t, err, "lost connection")
}

func TestClientTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	client := NewClient(db)

	mock.ExpectBegin()
	mock.ExpectQuery("select count(*) from users").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectCommit()

	tx, err := client.Begin(context.Background())
	assert.NilError(t, err)

	got, err := pgde.Consume(tx.Context(), pgde.Scalar(pgde.Int64), client, "select count(*) from users")
	assert.NilError(t, err)
	assert.Check(t, is.DeepEqual(got, []int64{3}))

	assert.NilError(t, tx.Commit(context.Background()))
}

func TestValueScan(t *testing.T) {
	var (
		ns  sql.NullString
		f   float64
		ip  net.IP
		ts  time.Time
		dst struct{}
	)

	assert.NilError(t, (&value{raw: []byte("x")}).Scan(&ns))
	assert.Check(t, is.Equal(ns.String, "x"))

	assert.NilError(t, (&value{raw: []byte("2.5")}).Scan(&f))
	assert.Check(t, is.Equal(f, 2.5))

	assert.NilError(t, (&value{raw: "2024-01-02"}).Scan(&ts))
	assert.Check(t, ts.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))

	assert.Check(t, is.ErrorContains((&value{raw: "not an ip"}).Scan(&ip), "invalid ip address"))
	assert.Check(t, is.ErrorContains((&value{raw: "yesterday"}).Scan(&ts), "parse time"))
	assert.Check(t, is.ErrorContains((&value{raw: int64(1)}).Scan(&dst), "unsupported scan destination"))

	_, err := (&value{raw: []byte("[1,2]")}).Elements()
	assert.Check(t, is.ErrorIs(err, errArraysUnsupported))
}
