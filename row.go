package pgde

import (
	"context"
	"strconv"

	"gopkg.in/gomisc/errors.v1"
)

const errNullValue = errors.Const("unexpected NULL value")

type (
	// Value - одна колонка строки результата запроса
	Value interface {
		// Null - true, если значение колонки NULL
		Null() bool
		// Scan декодирует значение колонки в dst средствами драйвера
		Scan(dst any) error
		// Elements возвращает элементы колонки-массива по порядку
		Elements() ([]Value, error)
	}

	// Row - неизменяемая строка результата запроса
	Row interface {
		// Len - количество колонок
		Len() int
		// Index - позиция колонки по имени, -1 если такой колонки нет
		Index(name string) int
		// At - значение колонки по позиции
		At(i int) Value
	}

	// Executor выполняет запрос и возвращает полностью прочитанный результат.
	// Соединение принадлежит исполнителю, ядро только заимствует его на время вызова.
	Executor interface {
		Query(ctx context.Context, query string, args ...any) ([]Row, error)
	}
)

// Descriptor указывает на колонку строки: по имени для полей структур,
// по позиции для скалярного чтения.
type Descriptor struct {
	name  string
	index int
}

// Named - дескриптор колонки по имени
func Named(column string) Descriptor {
	return Descriptor{name: column, index: -1}
}

// Position - дескриптор колонки по позиции
func Position(i int) Descriptor {
	return Descriptor{index: i}
}

func (d Descriptor) String() string {
	if d.index < 0 {
		return d.name
	}

	return "#" + strconv.Itoa(d.index)
}

// Resolve находит значение колонки в строке
func (d Descriptor) Resolve(row Row) (Value, error) {
	idx := d.index
	if idx < 0 {
		idx = row.Index(d.name)
	}

	if idx < 0 || idx >= row.Len() {
		return nil, errors.Ctx().
			Str("column", d.String()).
			Wrap(ErrConversion, "column not found")
	}

	return row.At(idx), nil
}
