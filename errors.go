package pgde

import (
	"gopkg.in/gomisc/errors.v1"
)

// Виды ошибок конвейера чтения. Любая ошибка Consume и ConsumeJSON
// соответствует ровно одному из них через errors.Is.
const (
	// ErrConversion - колонка отсутствует, имеет другой тип или NULL там, где значение обязательно
	ErrConversion = errors.Const("conversion error")
	// ErrDatabaseConnection - не удалось выполнить запрос
	ErrDatabaseConnection = errors.Const("database connection error")
)

// IsConversion - true, если err ошибка преобразования
func IsConversion(err error) bool {
	return errors.Is(err, ErrConversion)
}

// IsDatabaseConnection - true, если err ошибка выполнения запроса
func IsDatabaseConnection(err error) bool {
	return errors.Is(err, ErrDatabaseConnection)
}

func conversionErr(cause error, message string) error {
	if cause == nil {
		return errors.Wrap(ErrConversion, message)
	}

	return errors.Ctx().
		Str("cause", cause.Error()).
		Wrap(ErrConversion, message)
}
