package pgde

import (
	"reflect"
	"strings"

	"github.com/georgysavva/scany/dbscan"
	"gopkg.in/gomisc/errors.v1"
)

const (
	errNotStruct        = errors.Const("record type must be a struct")
	errCollectionField  = errors.Const("collection fields are not supported")
	errUnsupportedField = errors.Const("no extractor registered for field type")
	errNoRecordFields   = errors.Const("record has no fields")
	errDuplicateColumn  = errors.Const("column bound to more than one field")
)

// Field - описание поля записи: колонка и способ записать ее значение в S
type Field[S any] struct {
	desc   Descriptor
	assign func(Value, *S) error
}

// Column - имя колонки поля
func (f Field[S]) Column() string {
	return f.desc.name
}

// Bind связывает колонку с полем, для которого NULL недопустим
func Bind[S, F any](column string, ex Extractor[F], field func(*S) *F) Field[S] {
	return Field[S]{
		desc: Named(column),
		assign: func(val Value, dst *S) error {
			out, err := ex(val)
			if err != nil {
				return err
			}

			*field(dst) = out

			return nil
		},
	}
}

// BindOptional связывает колонку с полем-указателем, NULL дает nil
func BindOptional[S, F any](column string, ex Extractor[F], field func(*S) **F) Field[S] {
	return Bind(column, Optional(ex), field)
}

// Record собирает структуру S из строки по таблице полей.
// Таблица строится один раз на тип и переиспользуется.
type Record[S any] struct {
	fields []Field[S]
}

// NewRecord - запись с явно перечисленными полями, в порядке их чтения
func NewRecord[S any](fields ...Field[S]) *Record[S] {
	return &Record[S]{fields: fields}
}

// Columns - имена колонок в порядке чтения полей
func (r *Record[S]) Columns() []string {
	columns := make([]string, 0, len(r.fields))

	for _, f := range r.fields {
		columns = append(columns, f.Column())
	}

	return columns
}

// FromRow читает поля по порядку. Первая ошибка прерывает чтение,
// частично заполненная запись не возвращается.
func (r *Record[S]) FromRow(row Row) (S, error) {
	var out S

	for _, f := range r.fields {
		val, err := f.desc.Resolve(row)
		if err != nil {
			var zero S

			return zero, err
		}

		if err = f.assign(val, &out); err != nil {
			var zero S

			return zero, errors.Ctx().Str("column", f.Column()).Just(err)
		}
	}

	return out, nil
}

// Derive выводит запись для структуры S по ее полям через общий реестр
func Derive[S any]() (*Record[S], error) {
	return DeriveFrom[S](DefaultRegistry())
}

// MustDerive - Derive, паникующий при ошибке
func MustDerive[S any]() *Record[S] {
	rec, err := Derive[S]()
	if err != nil {
		panic(err)
	}

	return rec
}

// DeriveFrom выводит запись для S по реестру reg. Имя колонки берется из тега db,
// иначе из имени поля в snake_case. Поля-указатели допускают NULL.
// Результат кэшируется в реестре.
func DeriveFrom[S any](reg *Registry) (*Record[S], error) {
	st := typeOf[S]()

	if cached, ok := reg.records.Load(st); ok {
		return cached.(*Record[S]), nil
	}

	if st.Kind() != reflect.Struct {
		return nil, errors.Ctx().Stringer("type", st).Just(errNotStruct)
	}

	fields := make([]Field[S], 0, st.NumField())
	seen := make(map[string]struct{}, st.NumField())

	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)

		column, skip := columnName(sf)
		if skip {
			continue
		}

		if _, dup := seen[column]; dup {
			return nil, errors.Ctx().
				Stringer("type", st).
				Str("column", column).
				Just(errDuplicateColumn)
		}

		seen[column] = struct{}{}

		f, err := deriveField[S](reg, sf, column)
		if err != nil {
			return nil, errors.Ctx().
				Stringer("type", st).
				Str("field", sf.Name).
				Wrap(err, "derive record field")
		}

		fields = append(fields, f)
	}

	if len(fields) == 0 {
		return nil, errors.Ctx().Stringer("type", st).Just(errNoRecordFields)
	}

	rec := NewRecord(fields...)
	actual, _ := reg.records.LoadOrStore(st, rec)

	return actual.(*Record[S]), nil
}

func columnName(sf reflect.StructField) (string, bool) {
	if !sf.IsExported() {
		return "", true
	}

	tag, ok := sf.Tag.Lookup("db")
	if !ok {
		return dbscan.SnakeCaseMapper(sf.Name), false
	}

	name, _, _ := strings.Cut(tag, ",")

	switch name {
	case "-":
		return "", true
	case "":
		return dbscan.SnakeCaseMapper(sf.Name), false
	}

	return name, false
}

func deriveField[S any](reg *Registry, sf reflect.StructField, column string) (Field[S], error) {
	index := sf.Index

	if entry, ok := reg.lookup(sf.Type); ok {
		decode, optional := entry.decode, sf.Type.Kind() == reflect.Pointer

		return Field[S]{
			desc: Named(column),
			assign: func(val Value, dst *S) error {
				// зарегистрированный тип-указатель остается nil для NULL
				if optional && val.Null() {
					return nil
				}

				out, err := decode(val)
				if err != nil {
					return err
				}

				reflect.ValueOf(dst).Elem().FieldByIndex(index).Set(out)

				return nil
			},
		}, nil
	}

	if sf.Type.Kind() == reflect.Pointer {
		if entry, ok := reg.lookup(sf.Type.Elem()); ok {
			decode, elem := entry.decode, sf.Type.Elem()

			return Field[S]{
				desc: Named(column),
				assign: func(val Value, dst *S) error {
					if val.Null() {
						return nil
					}

					out, err := decode(val)
					if err != nil {
						return err
					}

					ptr := reflect.New(elem)
					ptr.Elem().Set(out)
					reflect.ValueOf(dst).Elem().FieldByIndex(index).Set(ptr)

					return nil
				},
			}, nil
		}
	}

	switch sf.Type.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return Field[S]{}, errors.Ctx().Stringer("field-type", sf.Type).Just(errCollectionField)
	}

	return Field[S]{}, errors.Ctx().Stringer("field-type", sf.Type).Just(errUnsupportedField)
}
