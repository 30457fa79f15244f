package sqlc

import (
	"context"
	"time"
)

const (
	QuerierCtxTimeout = time.Second * 5
)

// DbManager groups the managers backed by the database. The zero value
// means the server runs without a database.
type DbManager struct {
	Analytics *AnalyticsManager
}

func NewDbManager(db DBTX) DbManager {
	return DbManager{
		Analytics: NewAnalyticsManager(New(db)),
	}
}

func (dm DbManager) Enabled() bool {
	return dm.Analytics != nil
}

func NewQuerierCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), QuerierCtxTimeout)
}
