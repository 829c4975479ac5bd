// Package bitstring - чтение колонок bit и varbit в битовые множества
package bitstring

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/jackc/pgtype"
	"gopkg.in/gomisc/errors.v1"

	"gopkg.in/gomisc/pgde.v1"
)

const (
	errNotPresent = errors.Const("bit string value is not present")
	errShortData  = errors.Const("bit string data is shorter than its length")
)

// BitString - экстрактор bit(n) и varbit(n). Бит 0 - первый бит строки.
var BitString = pgde.Map(pgde.Decode[pgtype.Varbit]("bit string"), toBitSet)

func toBitSet(src pgtype.Varbit) (*bitset.BitSet, error) {
	if src.Status != pgtype.Present {
		return nil, errNotPresent
	}

	length := uint(src.Len)
	if uint(len(src.Bytes))*8 < length {
		return nil, errors.Ctx().Any("len", src.Len).Just(errShortData)
	}

	bits := bitset.New(length)

	for i := uint(0); i < length; i++ {
		if src.Bytes[i/8]&(0x80>>(i%8)) != 0 {
			bits.Set(i)
		}
	}

	return bits, nil
}

// Register добавляет *bitset.BitSet в общий реестр
func Register() {
	pgde.Register(pgde.DefaultRegistry(), BitString)
}
