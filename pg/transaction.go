package pg

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type transactionKey struct{}

type pgTransaction struct {
	ctx context.Context
	tx  pgx.Tx
}

// Context - контекст, запросы клиента с которым идут через транзакцию
func (tx *pgTransaction) Context() context.Context {
	return context.WithValue(tx.ctx, transactionKey{}, tx)
}

func (tx *pgTransaction) Commit(ctx context.Context) error {
	if err := tx.tx.Commit(ctx); err != nil {
		return wrapPgErr(err, "commit transaction")
	}

	return nil
}

func (tx *pgTransaction) Rollback(ctx context.Context) error {
	if err := tx.tx.Rollback(ctx); err != nil {
		return wrapPgErr(err, "rollback transaction")
	}

	return nil
}

func getPgTxOptions(in ...any) *pgx.TxOptions {
	if len(in) == 0 {
		return nil
	}

	switch opts := in[0].(type) {
	case *pgx.TxOptions:
		return opts
	case pgx.TxOptions:
		return &opts
	}

	return nil
}
