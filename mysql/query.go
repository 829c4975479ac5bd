package mysql

import (
	"context"

	"github.com/containerd/log"
	"github.com/jmoiron/sqlx"

	"gopkg.in/gomisc/pgde.v1"
)

func fetch(ctx context.Context, querier sqlx.QueryerContext, query string, args []any) ([]pgde.Row, error) {
	rows, err := querier.QueryxContext(ctx, query, args...)
	if err != nil {
		log.G(ctx).WithError(err).WithField("query", query).Debug("mysql query failed")

		return nil, wrapMySQLErr(err, "execute query")
	}

	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, wrapMySQLErr(err, "read result columns")
	}

	var (
		cols   = newColumns(names)
		result []pgde.Row
	)

	for rows.Next() {
		var values []any

		if values, err = rows.SliceScan(); err != nil {
			return nil, wrapMySQLErr(err, "read result row")
		}

		result = append(result, &row{cols: cols, values: values})
	}

	if err = rows.Err(); err != nil {
		return nil, wrapMySQLErr(err, "read query result")
	}

	return result, nil
}
