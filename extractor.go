package pgde

import (
	"net"
	"time"

	"gopkg.in/gomisc/errors.v1"
)

// Extractor декодирует значение одной колонки в тип T.
// Любая ошибка экстрактора имеет вид ErrConversion.
type Extractor[T any] func(Value) (T, error)

// Базовый набор типов, доступный всегда
var (
	Bool      = Decode[bool]("bool")
	Int8      = Decode[int8]("int8")
	Int16     = Decode[int16]("int16")
	Int32     = Decode[int32]("int32")
	Int64     = Decode[int64]("int64")
	Uint32    = Decode[uint32]("uint32")
	Float32   = Decode[float32]("float32")
	Float64   = Decode[float64]("float64")
	Bytes     = Decode[[]byte]("bytes")
	String    = Decode[string]("string")
	Timestamp = Decode[time.Time]("timestamp")
	IP        = Decode[net.IP]("ip")
)

// Extract читает колонку, на которую указывает дескриптор
func Extract[T any](row Row, d Descriptor, ex Extractor[T]) (T, error) {
	val, err := d.Resolve(row)
	if err != nil {
		var zero T

		return zero, err
	}

	out, err := ex(val)
	if err != nil {
		return out, errors.Ctx().Str("column", d.String()).Just(err)
	}

	return out, nil
}

// Decode - экстрактор, который передает драйверу указатель на T.
// NULL считается ошибкой преобразования.
func Decode[T any](typeName string) Extractor[T] {
	return func(val Value) (T, error) {
		var out T

		if val.Null() {
			return out, conversionErr(errNullValue, "decode "+typeName)
		}

		if err := val.Scan(&out); err != nil {
			var zero T

			return zero, conversionErr(err, "decode "+typeName)
		}

		return out, nil
	}
}

// Map строит экстрактор поверх другого, преобразуя результат функцией conv
func Map[S, T any](ex Extractor[S], conv func(S) (T, error)) Extractor[T] {
	return func(val Value) (T, error) {
		src, err := ex(val)
		if err != nil {
			var zero T

			return zero, err
		}

		out, err := conv(src)
		if err != nil {
			var zero T

			return zero, conversionErr(err, "convert value")
		}

		return out, nil
	}
}

// Optional допускает NULL: вместо ошибки возвращается nil.
// Остальные ошибки преобразования передаются как есть.
func Optional[T any](ex Extractor[T]) Extractor[*T] {
	return func(val Value) (*T, error) {
		if val.Null() {
			return nil, nil
		}

		out, err := ex(val)
		if err != nil {
			return nil, err
		}

		return &out, nil
	}
}

// Array читает колонку-массив поэлементно через ex.
// Ошибка любого элемента - ошибка всего значения.
// Предназначен только для скалярного чтения, не для полей структур.
func Array[T any](ex Extractor[T]) Extractor[[]T] {
	return func(val Value) ([]T, error) {
		if val.Null() {
			return nil, conversionErr(errNullValue, "decode array")
		}

		elems, err := val.Elements()
		if err != nil {
			return nil, conversionErr(err, "decode array")
		}

		out := make([]T, 0, len(elems))

		for i, elem := range elems {
			var item T

			if item, err = ex(elem); err != nil {
				return nil, errors.Ctx().Any("element", i).Just(err)
			}

			out = append(out, item)
		}

		return out, nil
	}
}
