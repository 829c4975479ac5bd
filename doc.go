// Package pgde читает строки результатов запросов в типизированные значения Go.
//
// Экстрактор (Extractor) декодирует одну колонку в один тип. Optional и Array
// расширяют любой экстрактор на NULL и колонки-массивы. Record собирает структуру
// по таблице полей, заданной явно (NewRecord, Bind) или выведенной из тегов (Derive).
// Consume выполняет запрос через Executor и собирает результат целиком:
//
//	type Foo struct {
//		ID   int32  `db:"id"`
//		Data string `db:"data"`
//	}
//
//	foos, err := pgde.Consume(ctx, pgde.MustDerive[Foo](), executor, `select id, data from foo`)
//	ids, err := pgde.Consume(ctx, pgde.Scalar(pgde.Int32), executor, `select id from foo`)
//
// Ошибки имеют один из двух видов: ErrConversion или ErrDatabaseConnection.
//
// Дополнительные типы (uuid, json, битовые строки, даты, геометрия, MAC-адреса)
// находятся в пакетах ext/... и подключаются явным вызовом их Register.
package pgde
