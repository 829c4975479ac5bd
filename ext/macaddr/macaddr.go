// Package macaddr - чтение колонок macaddr в net.HardwareAddr
package macaddr

import (
	"net"

	"github.com/jackc/pgtype"
	"gopkg.in/gomisc/errors.v1"

	"gopkg.in/gomisc/pgde.v1"
)

const errNotPresent = errors.Const("macaddr value is not present")

var MAC = pgde.Map(pgde.Decode[pgtype.Macaddr]("macaddr"), func(src pgtype.Macaddr) (net.HardwareAddr, error) {
	if src.Status != pgtype.Present {
		return nil, errNotPresent
	}

	return append(net.HardwareAddr(nil), src.Addr...), nil
})

func Register() {
	pgde.Register(pgde.DefaultRegistry(), MAC)
}
