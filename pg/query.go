package pg

import (
	"context"

	"github.com/containerd/log"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgtype/pgxtype"

	"gopkg.in/gomisc/pgde.v1"
)

// fetch выполняет запрос и копирует все строки результата до закрытия курсора.
// pgtype.ConnInfo декодирует текстовые значения через общие экземпляры типов,
// поэтому у каждого результата свой ConnInfo.
func fetch(ctx context.Context, querier pgxtype.Querier, query string, args []any) ([]pgde.Row, error) {
	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		log.G(ctx).WithError(err).WithField("query", query).Debug("postgres query failed")

		return nil, wrapPgErr(err, "execute query")
	}

	defer rows.Close()

	var (
		cols   *columns
		result []pgde.Row
	)

	for rows.Next() {
		if cols == nil {
			cols = newColumns(pgtype.NewConnInfo(), rows.FieldDescriptions())
		}

		raw := rows.RawValues()
		values := make([][]byte, len(raw))

		for i, v := range raw {
			if v != nil {
				values[i] = append(make([]byte, 0, len(v)), v...)
			}
		}

		result = append(result, &row{cols: cols, values: values})
	}

	if err = rows.Err(); err != nil {
		return nil, wrapPgErr(err, "read query result")
	}

	return result, nil
}
