package pg

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgtype/pgxtype"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"gopkg.in/gomisc/errors.v1"
	"gopkg.in/gomisc/tracing.v1"

	"gopkg.in/gomisc/pgde.v1"
)

// DSN schemes
const (
	DefaultScheme = "postgres"
	LongScheme    = "postgresql"
	ShortScheme   = "pg"
	PsqlScheme    = "psql"
)

var (
	_ pgde.Client   = (*Client)(nil)
	_ pgde.Executor = (*Executor)(nil)
	_ connPool      = (*pgxpool.Pool)(nil)
)

type (
	connPool interface {
		pgxtype.Querier
		Begin(ctx context.Context) (pgx.Tx, error)
		BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
		Close()
	}

	// Client - клиент PostgreSQL поверх пула соединений
	Client struct {
		pool connPool
	}

	// Executor выполняет запросы через заимствованное соединение, пул или транзакцию
	Executor struct {
		querier pgxtype.Querier
	}
)

// New открывает пул соединений по dsn
func New(ctx context.Context, dsn string) (*Client, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "configure database client")
	}

	poolConfig.ConnConfig.PreferSimpleProtocol = true

	var pool *pgxpool.Pool

	pool, err = pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.Wrap(err, "connect to postgresql database")
	}

	return &Client{pool: pool}, nil
}

// NewExecutor - исполнитель поверх querier. Владение querier не передается.
func NewExecutor(querier pgxtype.Querier) *Executor {
	return &Executor{querier: querier}
}

// Query выполняет запрос и читает результат целиком
func (e *Executor) Query(ctx context.Context, query string, args ...any) ([]pgde.Row, error) {
	return fetch(ctx, e.querier, query, args)
}

// Close реализация io.Closer
func (cli *Client) Close() error {
	cli.pool.Close()

	return nil
}

// Begin - открывает и возвращает транзакцию
func (cli *Client) Begin(ctx context.Context, options ...any) (tx pgde.Transaction, err error) {
	span := tracing.SetTrace(ctx)
	defer span.End()

	var pgTx pgx.Tx

	if opts := getPgTxOptions(options...); opts != nil {
		pgTx, err = cli.pool.BeginTx(span.Context(), *opts)
		if err != nil {
			err = errors.Ctx().Any("options", opts).Wrap(err, "begin transaction with opts")
			span, err = span.WithError(err)

			return nil, err
		}
	} else {
		pgTx, err = cli.pool.Begin(span.Context())
		if err != nil {
			span, err = span.WithError(err, "begin transaction")

			return nil, err
		}
	}

	return &pgTransaction{tx: pgTx, ctx: span.Context()}, nil
}

// Query - выполняет запрос в пуле или в транзакции из контекста
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

func (cli *Client) getExecutor(ctx context.Context) pgxtype.Querier {
	if tx, ok := ctx.Value(transactionKey{}).(*pgTransaction); ok {
		return tx.tx
	}

	return cli.pool
}

func wrapPgErr(err error, message string) error {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) {
		return errors.Ctx().
			Pos(2).
			Str("code", pgErr.Code).
			Int32("sql-position", pgErr.Position).
			Wrap(err, message)
	}

	return errors.Wrap(err, message)
}
