// Package civiltime - чтение date, time и timestamp в типы cloud.google.com/go/civil.
// Может использоваться вместе с stdtime.
package civiltime

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgtype"
	"gopkg.in/gomisc/errors.v1"

	"gopkg.in/gomisc/pgde.v1"
)

const (
	errNotPresent = errors.Const("value is not present")
	errInfinite   = errors.Const("infinite values have no civil representation")
)

var (
	Date = pgde.Map(pgde.Decode[pgtype.Date]("date"), func(src pgtype.Date) (civil.Date, error) {
		if err := finite(src.Status, src.InfinityModifier); err != nil {
			return civil.Date{}, err
		}

		return civil.DateOf(src.Time), nil
	})

	Time = pgde.Map(pgde.Decode[pgtype.Time]("time"), func(src pgtype.Time) (civil.Time, error) {
		if src.Status != pgtype.Present {
			return civil.Time{}, errNotPresent
		}

		d := time.Duration(src.Microseconds) * time.Microsecond

		return civil.Time{
			Hour:       int(d / time.Hour),
			Minute:     int(d % time.Hour / time.Minute),
			Second:     int(d % time.Minute / time.Second),
			Nanosecond: int(d % time.Second),
		}, nil
	})

	DateTime = pgde.Map(pgde.Decode[pgtype.Timestamp]("timestamp"), func(src pgtype.Timestamp) (civil.DateTime, error) {
		if err := finite(src.Status, src.InfinityModifier); err != nil {
			return civil.DateTime{}, err
		}

		return civil.DateTimeOf(src.Time), nil
	})
)

func finite(status pgtype.Status, modifier pgtype.InfinityModifier) error {
	if status != pgtype.Present {
		return errNotPresent
	}

	if modifier != pgtype.None {
		return errInfinite
	}

	return nil
}

// Register добавляет civil.Date, civil.Time и civil.DateTime в общий реестр
func Register() {
	reg := pgde.DefaultRegistry()

	pgde.Register(reg, Date)
	pgde.Register(reg, Time)
	pgde.Register(reg, DateTime)
}
