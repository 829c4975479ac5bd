// Package jsonvalue - чтение колонок json и jsonb.
//
// JSON декодирует документ в any (map[string]any, []any, string, float64, bool, nil),
// RawJSON возвращает документ без разбора.
package jsonvalue

import (
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/gomisc/errors.v1"

	"gopkg.in/gomisc/pgde.v1"
)

const errInvalidJSON = errors.Const("invalid json document")

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	JSON = pgde.Map(pgde.Decode[[]byte]("json"), func(src []byte) (any, error) {
		var out any

		if err := jsonAPI.Unmarshal(src, &out); err != nil {
			return nil, errors.Wrap(err, "unmarshal json document")
		}

		return out, nil
	})

	RawJSON = pgde.Map(pgde.Decode[[]byte]("json"), func(src []byte) (jsoniter.RawMessage, error) {
		if !jsonAPI.Valid(src) {
			return nil, errInvalidJSON
		}

		return append(jsoniter.RawMessage(nil), src...), nil
	})
)

// Register добавляет any и jsoniter.RawMessage в общий реестр
func Register() {
	reg := pgde.DefaultRegistry()

	pgde.Register(reg, JSON)
	pgde.Register(reg, RawJSON)
}
