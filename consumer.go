package pgde

import (
	"gopkg.in/gomisc/errors.v1"
)

// Consumer собирает значение T из одной строки результата
type Consumer[T any] interface {
	FromRow(row Row) (T, error)
}

type scalarConsumer[T any] struct {
	ex Extractor[T]
}

// Scalar - чтение единственного значения из колонки с позицией 0
func Scalar[T any](ex Extractor[T]) Consumer[T] {
	return scalarConsumer[T]{ex: ex}
}

func (c scalarConsumer[T]) FromRow(row Row) (T, error) {
	return Extract(row, Position(0), c.ex)
}

// For подбирает потребителя для T: скалярный, если тип зарегистрирован
// в общем реестре, иначе выведенную запись структуры.
func For[T any]() (Consumer[T], error) {
	if ex, ok := lookupExtractor[T](DefaultRegistry()); ok {
		return Scalar(ex), nil
	}

	rec, err := Derive[T]()
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// FromRows применяет c к строкам по порядку. На первой ошибке чтение
// прекращается и уже собранные значения отбрасываются.
func FromRows[T any](c Consumer[T], rows []Row) ([]T, error) {
	out := make([]T, 0, len(rows))

	for i, row := range rows {
		item, err := c.FromRow(row)
		if err != nil {
			return nil, errors.Ctx().Any("row", i).Just(err)
		}

		out = append(out, item)
	}

	return out, nil
}
