package pgde

import (
	"context"

	"github.com/containerd/log"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/gomisc/errors.v1"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Consume выполняет запрос через exec и собирает каждую строку результата через c.
// Ошибка выполнения возвращается как ErrDatabaseConnection без попытки преобразования,
// ошибка сборки - как ErrConversion.
func Consume[T any](ctx context.Context, c Consumer[T], exec Executor, query string, args ...any) ([]T, error) {
	logger := log.G(ctx).WithField("query", query)

	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		logger.WithError(err).Debug("query dispatch failed")

		return nil, errors.Ctx().
			Str("query", query).
			Str("cause", err.Error()).
			Wrap(ErrDatabaseConnection, "execute query")
	}

	out, err := FromRows(c, rows)
	if err != nil {
		logger.WithError(err).WithField("rows", len(rows)).Debug("row conversion failed")

		// ошибки пользовательских экстракторов и потребителей приводятся к ErrConversion
		if !errors.Is(err, ErrConversion) {
			return nil, errors.Ctx().
				Str("query", query).
				Str("cause", err.Error()).
				Wrap(ErrConversion, "consume rows")
		}

		return nil, errors.Ctx().Str("query", query).Wrap(err, "consume rows")
	}

	logger.WithField("rows", len(out)).Debug("query consumed")

	return out, nil
}

// ConsumeAs - Consume с потребителем, подобранным через For
func ConsumeAs[T any](ctx context.Context, exec Executor, query string, args ...any) ([]T, error) {
	c, err := For[T]()
	if err != nil {
		return nil, conversionErr(err, "resolve consumer")
	}

	return Consume(ctx, c, exec, query, args...)
}

// ConsumeJSON - Consume с сериализацией результата в JSON-массив.
// Ошибка сериализации возвращается как ErrConversion.
func ConsumeJSON[T any](ctx context.Context, c Consumer[T], exec Executor, query string, args ...any) (string, error) {
	out, err := Consume(ctx, c, exec, query, args...)
	if err != nil {
		return "", err
	}

	data, err := jsonAPI.MarshalToString(out)
	if err != nil {
		return "", conversionErr(err, "serialize result")
	}

	return data, nil
}
