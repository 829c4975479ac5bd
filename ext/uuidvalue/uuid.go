// Package uuidvalue - чтение колонок uuid в uuid.UUID
package uuidvalue

import (
	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"gopkg.in/gomisc/errors.v1"

	"gopkg.in/gomisc/pgde.v1"
)

const errNotPresent = errors.Const("uuid value is not present")

// UUID - экстрактор uuid
var UUID = pgde.Map(pgde.Decode[pgtype.UUID]("uuid"), func(src pgtype.UUID) (uuid.UUID, error) {
	if src.Status != pgtype.Present {
		return uuid.Nil, errNotPresent
	}

	return uuid.UUID(src.Bytes), nil
})

// Register добавляет uuid.UUID в общий реестр
func Register() {
	pgde.Register(pgde.DefaultRegistry(), UUID)
}
