// Package stdtime - чтение date, time и interval в типы на основе стандартного time.
// Может использоваться вместе с civiltime.
package stdtime

import (
	"time"

	"github.com/jackc/pgtype"
	"gopkg.in/gomisc/errors.v1"

	"gopkg.in/gomisc/pgde.v1"
)

const (
	errNotPresent    = errors.Const("value is not present")
	errInfinite      = errors.Const("infinite date")
	errMonthInterval = errors.Const("interval with months has no fixed duration")
)

type (
	// Date - календарная дата, полночь по UTC
	Date struct {
		time.Time
	}

	// TimeOfDay - время суток как смещение от полуночи
	TimeOfDay time.Duration
)

func (t TimeOfDay) String() string {
	return time.Duration(t).String()
}

var (
	DateOf = pgde.Map(pgde.Decode[pgtype.Date]("date"), func(src pgtype.Date) (Date, error) {
		if src.Status != pgtype.Present {
			return Date{}, errNotPresent
		}

		if src.InfinityModifier != pgtype.None {
			return Date{}, errInfinite
		}

		y, m, d := src.Time.Date()

		return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}, nil
	})

	Clock = pgde.Map(pgde.Decode[pgtype.Time]("time"), func(src pgtype.Time) (TimeOfDay, error) {
		if src.Status != pgtype.Present {
			return 0, errNotPresent
		}

		return TimeOfDay(time.Duration(src.Microseconds) * time.Microsecond), nil
	})

	// Interval - interval без месяцев, день считается равным 24 часам
	Interval = pgde.Map(pgde.Decode[pgtype.Interval]("interval"), func(src pgtype.Interval) (time.Duration, error) {
		if src.Status != pgtype.Present {
			return 0, errNotPresent
		}

		if src.Months != 0 {
			return 0, errors.Ctx().Any("months", src.Months).Just(errMonthInterval)
		}

		return time.Duration(src.Days)*24*time.Hour + time.Duration(src.Microseconds)*time.Microsecond, nil
	})
)

// Register добавляет Date, TimeOfDay и time.Duration в общий реестр
func Register() {
	reg := pgde.DefaultRegistry()

	pgde.Register(reg, DateOf)
	pgde.Register(reg, Clock)
	pgde.Register(reg, Interval)
}
