package mysql

import (
	"context"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"gopkg.in/gomisc/errors.v1"
	"gopkg.in/gomisc/tracing.v1"

	"gopkg.in/gomisc/pgde.v1"
)

const (
	DefaultScheme = "mysql"
)

var (
	_ pgde.Client   = (*Client)(nil)
	_ pgde.Executor = (*Executor)(nil)
)

type (
	// Client - клиент MySQL поверх пула database/sql
	Client struct {
		pool *sqlx.DB
	}

	// Executor выполняет запросы через заимствованный sqlx.DB, sqlx.Tx или sqlx.Conn
	Executor struct {
		querier sqlx.QueryerContext
	}
)

// New открывает пул соединений по dsn в формате go-sql-driver/mysql
func New(ctx context.Context, dsn string) (*Client, error) {
	span := tracing.SetTrace(ctx)
	defer span.End()

	pool, err := sqlx.Open(DefaultScheme, dsn)
	if err != nil {
		span.WithError(err, "connect to mysql database failed")

		return nil, errors.Wrap(err, "connect to mysql database")
	}

	return &Client{pool: pool}, nil
}

// NewClient - клиент поверх уже открытого пула
func NewClient(pool *sqlx.DB) *Client {
	return &Client{pool: pool}
}

// NewExecutor - исполнитель поверх querier. Владение querier не передается.
func NewExecutor(querier sqlx.QueryerContext) *Executor {
	return &Executor{querier: querier}
}

// Query выполняет запрос и читает результат целиком
func (e *Executor) Query(ctx context.Context, query string, args ...any) ([]pgde.Row, error) {
	return fetch(ctx, e.querier, query, args)
}

func (cli *Client) Close() error {
	if err := cli.pool.Close(); err != nil {
		return errors.Wrap(err, "close database connections")
	}

	return nil
}

func (cli *Client) Begin(ctx context.Context, options ...any) (transaction pgde.Transaction, err error) {
	span := tracing.SetTrace(ctx)
	defer span.End()

	var sqlTx *sqlx.Tx

	if sqlTx, err = cli.pool.BeginTxx(span.Context(), getSQLTxOptions(options...)); err != nil {
		err = wrapMySQLErr(err, "begin transaction")
		span, err = span.WithError(err)
		return nil, err
	}

	return &mysqlTransaction{tx: sqlTx, ctx: span.Context()}, nil
}

func (cli *Client) Query(ctx context.Context, query string, args ...any) ([]pgde.Row, error) {
	span := tracing.SetTrace(ctx)
	defer span.End()

	rows, err := fetch(span.Context(), cli.getExecutor(ctx), query, args)
	if err != nil {
		span, err = span.WithError(err)
		return nil, err
	}

	return rows, nil
}

func (cli *Client) getExecutor(ctx context.Context) sqlx.QueryerContext {
	if tx, ok := ctx.Value(transactionKey{}).(*mysqlTransaction); ok {
		return tx.tx
	}

	return cli.pool
}

func wrapMySQLErr(err error, message string) error {
	var mysqlErr *mysql.MySQLError

	if errors.As(err, &mysqlErr) {
		return errors.Ctx().
			Pos(2).
			Uint16("code", mysqlErr.Number).
			Str("message", mysqlErr.Message).
			Wrap(err, message)
	}

	return errors.Wrap(err, message)
}
