package sqlc

import (
	"context"

	"github.com/sqlc-dev/pqtype"
)

type Querier interface {
	GetGameServerAnalytics(ctx context.Context, serverIp pqtype.Inet) (GameServerAnalytic, error)
	GetGamesCreatedCount(ctx context.Context, serverIp pqtype.Inet) (int64, error)
	IncrementComputerWinsCount(ctx context.Context, serverIp pqtype.Inet) error
	IncrementGamesCreatedCount(ctx context.Context, serverIp pqtype.Inet) error
	IncrementPlayerWinsCount(ctx context.Context, serverIp pqtype.Inet) error
}

var _ Querier = (*Queries)(nil)
