package factory

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"gopkg.in/gomisc/errors.v1"

	"gopkg.in/gomisc/pgde.v1"
	"gopkg.in/gomisc/pgde.v1/mysql"
	"gopkg.in/gomisc/pgde.v1/pg"
)

const (
	errUnsupportedDriver = errors.Const("unsupported database driver")
	errDatabaseName      = errors.Const("database name not found in dsn")
)

type connector func(ctx context.Context, uri *url.URL) (pgde.Client, error)

type clientsFactory struct {
	ctx context.Context

	sync.RWMutex
	clients    map[string]pgde.Client
	connectors map[string]connector
}

// New конструктор фабрики клиентов баз данных
func New(ctx context.Context) pgde.Factory {
	return newFactory(ctx, map[string]connector{
		pg.DefaultScheme:    connectPostgres,
		pg.LongScheme:       connectPostgres,
		pg.PsqlScheme:       connectPostgres,
		pg.ShortScheme:      connectPostgres,
		mysql.DefaultScheme: connectMySQL,
	})
}

func newFactory(ctx context.Context, connectors map[string]connector) *clientsFactory {
	return &clientsFactory{
		ctx:        ctx,
		clients:    make(map[string]pgde.Client),
		connectors: connectors,
	}
}

// Client - возвращает клиента базы данных, один на каждый dsn
func (f *clientsFactory) Client(dsn string) (pgde.Client, error) {
	if client, ok := f.get(dsn); ok {
		return client, nil
	}

	client, err := f.create(dsn)
	if err != nil {
		return nil, errors.Ctx().
			Str("dsn", redact(dsn)).
			Wrap(err, "create client connection")
	}

	return client, nil
}

func (f *clientsFactory) get(dsn string) (pgde.Client, bool) {
	f.RLock()

	defer f.RUnlock()

	if client, ok := f.clients[dsn]; ok {
		return client, ok
	}

	return nil, false
}

func (f *clientsFactory) create(dsn string) (pgde.Client, error) {
	uri, err := url.Parse(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "parse dsn")
	}

	errCtx := errors.Ctx().Str("uri", uri.Redacted())

	if strings.Trim(uri.Path, "/") == "" {
		return nil, errCtx.Just(errDatabaseName)
	}

	connect, ok := f.connectors[uri.Scheme]
	if !ok {
		return nil, errCtx.Just(errUnsupportedDriver)
	}

	f.Lock()
	defer f.Unlock()

	if client, exists := f.clients[dsn]; exists {
		return client, nil
	}

	client, err := connect(f.ctx, uri)
	if err != nil {
		return nil, errCtx.Wrap(err, "connect")
	}

	f.clients[dsn] = client

	return client, nil
}

func connectPostgres(ctx context.Context, uri *url.URL) (pgde.Client, error) {
	u := *uri
	u.Scheme = pg.DefaultScheme

	client, err := pg.New(ctx, u.String())
	if err != nil {
		return nil, errors.Wrap(err, "create postgres connection")
	}

	return client, nil
}

func connectMySQL(ctx context.Context, uri *url.URL) (pgde.Client, error) {
	client, err := mysql.New(ctx, mysqlDSN(uri))
	if err != nil {
		return nil, errors.Wrap(err, "create mysql connection")
	}

	return client, nil
}

// mysqlDSN переводит url в формат go-sql-driver/mysql, включая parseTime
func mysqlDSN(uri *url.URL) string {
	paswd, _ := uri.User.Password()

	query := uri.Query()
	if query.Get("parseTime") == "" {
		query.Set("parseTime", "true")
	}

	return fmt.Sprintf("%s:%s@tcp(%s)/%s?%s",
		uri.User.Username(),
		paswd,
		uri.Host,
		strings.Trim(uri.Path, "/"),
		query.Encode(),
	)
}

func redact(dsn string) string {
	uri, err := url.Parse(dsn)
	if err != nil {
		return "<invalid dsn>"
	}

	return uri.Redacted()
}
