package view

import (
	"context"

	"github.com/rickgao/bazaarsetu/internal/model"
)

// Source provides price data to screens.
// Both the REST client and the Postgres store implement it.
type Source interface {
	GetStates(ctx context.Context) ([]model.StateEntity, error)
	GetTodayPrices(ctx context.Context, q model.PricesQuery) ([]model.PriceRecord, error)
	GetMarket(ctx context.Context, id int) (model.MarketDetail, error)
	GetTrend(ctx context.Context, q model.TrendQuery) (model.TrendSeries, error)
	Ping(ctx context.Context) error
}
