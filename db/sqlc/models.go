package sqlc

import (
	"time"

	"github.com/sqlc-dev/pqtype"
)

type GameServerAnalytic struct {
	ServerIp         pqtype.Inet
	GamesCreated     int64
	GamesWonPlayer   int64
	GamesWonComputer int64
	UpdatedAt        time.Time
}
