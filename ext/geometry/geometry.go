// Package geometry - чтение point, box и path в типы github.com/paulmach/orb
package geometry

import (
	"math"

	"github.com/jackc/pgtype"
	"github.com/paulmach/orb"
	"gopkg.in/gomisc/errors.v1"

	"gopkg.in/gomisc/pgde.v1"
)

const errNotPresent = errors.Const("geometry value is not present")

var (
	Point = pgde.Map(pgde.Decode[pgtype.Point]("point"), func(src pgtype.Point) (orb.Point, error) {
		if src.Status != pgtype.Present {
			return orb.Point{}, errNotPresent
		}

		return vec(src.P), nil
	})

	// Rect - box, углы упорядочены в Min и Max
	Rect = pgde.Map(pgde.Decode[pgtype.Box]("box"), func(src pgtype.Box) (orb.Bound, error) {
		if src.Status != pgtype.Present {
			return orb.Bound{}, errNotPresent
		}

		a, b := vec(src.P[0]), vec(src.P[1])

		return orb.Bound{
			Min: orb.Point{math.Min(a.X(), b.X()), math.Min(a.Y(), b.Y())},
			Max: orb.Point{math.Max(a.X(), b.X()), math.Max(a.Y(), b.Y())},
		}, nil
	})

	// LineString - path. Для замкнутого пути первая точка повторяется в конце.
	LineString = pgde.Map(pgde.Decode[pgtype.Path]("path"), func(src pgtype.Path) (orb.LineString, error) {
		if src.Status != pgtype.Present {
			return nil, errNotPresent
		}

		ls := make(orb.LineString, 0, len(src.P)+1)
		for _, p := range src.P {
			ls = append(ls, vec(p))
		}

		if src.Closed && len(ls) > 0 && !ls[0].Equal(ls[len(ls)-1]) {
			ls = append(ls, ls[0])
		}

		return ls, nil
	})
)

func vec(v pgtype.Vec2) orb.Point {
	return orb.Point{v.X, v.Y}
}

// Register добавляет orb.Point, orb.Bound и orb.LineString в общий реестр
func Register() {
	reg := pgde.DefaultRegistry()

	pgde.Register(reg, Point)
	pgde.Register(reg, Rect)
	pgde.Register(reg, LineString)
}
