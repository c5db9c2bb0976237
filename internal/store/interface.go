package store

import (
	"context"
	"errors"

	"tradenote/internal/store/model"
)

// ErrTradeNotFound is returned when an update targets a trade that does
// not exist or belongs to another user.
var ErrTradeNotFound = errors.New("trade not found")

// TradeFilter narrows List/Count queries. Zero values mean "no filter".
type TradeFilter struct {
	UserID   string
	Symbol   string
	Strategy string
	Filename string
	Limit    int
	Offset   int
}

// TradeStore is the persistence seam for reconstructed trades.
type TradeStore interface {
	// InsertTrades bulk-inserts one import's trades.
	InsertTrades(ctx context.Context, trades []model.TradeModel) error
	// ListTrades returns trades matching the filter, newest trade date first.
	ListTrades(ctx context.Context, filter TradeFilter) ([]model.TradeModel, error)
	// CountTrades returns the number of trades matching the filter.
	CountTrades(ctx context.Context, filter TradeFilter) (int64, error)
	// UpdateStrategy reassigns the strategy tag of one trade.
	UpdateStrategy(ctx context.Context, userID, tradeID, strategy string) error
	// DeleteByFilename removes every trade imported from the given file.
	DeleteByFilename(ctx context.Context, userID, filename string) (int64, error)
	// Close closes the store connection.
	Close() error
}
