package view

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rickgao/bazaarsetu/internal/model"
)

// fakeSource serves canned data. Hooks, when set, replace the canned value.
type fakeSource struct {
	mu sync.Mutex

	states    []model.StateEntity
	statesErr error
	prices    []model.PriceRecord
	pricesErr error
	market    model.MarketDetail
	marketErr error
	series    model.TrendSeries
	seriesErr error

	pricesHook func(ctx context.Context, q model.PricesQuery) ([]model.PriceRecord, error)

	priceQueries []model.PricesQuery
	trendQueries []model.TrendQuery
}

func (f *fakeSource) GetStates(ctx context.Context) ([]model.StateEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.states, f.statesErr
}

func (f *fakeSource) GetTodayPrices(ctx context.Context, q model.PricesQuery) ([]model.PriceRecord, error) {
	f.mu.Lock()
	f.priceQueries = append(f.priceQueries, q)
	hook := f.pricesHook
	f.mu.Unlock()

	if hook != nil {
		return hook(ctx, q)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prices, f.pricesErr
}

func (f *fakeSource) GetMarket(ctx context.Context, id int) (model.MarketDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.market, f.marketErr
}

func (f *fakeSource) GetTrend(ctx context.Context, q model.TrendQuery) (model.TrendSeries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trendQueries = append(f.trendQueries, q)
	return f.series, f.seriesErr
}

func (f *fakeSource) Ping(ctx context.Context) error {
	return nil
}

func (f *fakeSource) priceCalls() []model.PricesQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.PricesQuery(nil), f.priceQueries...)
}

func (f *fakeSource) trendCalls() []model.TrendQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.TrendQuery(nil), f.trendQueries...)
}

func intPtr(v int) *int { return &v }

func floatPtr(f float64) *float64 { return &f }

func waitIdle(t *testing.T, w interface{ Wait(context.Context) error }) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := w.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func sampleStates() []model.StateEntity {
	return []model.StateEntity{
		{ID: 1, Name: "Telangana", Names: model.Translations{Hindi: "तेलंगाना"}, Code: "TG"},
		{ID: 2, Name: "Delhi", Code: "DL"},
	}
}

func samplePrices() []model.PriceRecord {
	return []model.PriceRecord{
		{CommodityID: 1, CommodityName: "Tomato", CommodityNames: model.Translations{Hindi: "टमाटर"}, MarketName: "Bowenpally", StateID: 1, ModalPrice: 20, ChangePercent: floatPtr(-4.25)},
		{CommodityID: 2, CommodityName: "Onion", CommodityNames: model.Translations{Hindi: "प्याज"}, MarketName: "Bowenpally", StateID: 1, ModalPrice: 30},
		{CommodityID: 3, CommodityName: "Chicken", MarketName: "Azadpur", StateID: 2, ModalPrice: 220, ChangePercent: floatPtr(1.04)},
	}
}
