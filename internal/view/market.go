package view

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/bazaarsetu/internal/fetch"
	"github.com/rickgao/bazaarsetu/internal/model"
	"github.com/rickgao/bazaarsetu/internal/pricing"
)

// MarketView is the rendered market detail screen.
type MarketView struct {
	Language    model.Language `json:"language"`
	MarketID    int            `json:"market_id"`
	Name        string         `json:"name,omitempty"`
	District    string         `json:"district,omitempty"`
	StateName   string         `json:"state_name,omitempty"`
	Title       string         `json:"title"`
	Cards       []PriceCard    `json:"cards"`
	Count       int            `json:"count"`
	Loading     bool           `json:"loading"`
	LoadingText string         `json:"loading_text,omitempty"`
	Notice      *Notice        `json:"notice,omitempty"`
	Version     uint64         `json:"version"`
}

type marketData struct {
	market model.MarketDetail
	prices []model.PriceRecord
}

// MarketDetail shows one market and today's prices there.
type MarketDetail struct {
	screen

	marketID int
	data     *marketData
	loading  bool
	err      error
}

// NewMarketDetail creates the screen and starts loading the market and its prices.
func NewMarketDetail(ctx context.Context, src Source, lang model.Language, marketID int, logger *slog.Logger) *MarketDetail {
	m := &MarketDetail{marketID: marketID}
	m.init(ctx, src, lang, logger)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.loadLocked(true)
	return m
}

// SetLanguage switches the display language.
func (m *MarketDetail) SetLanguage(lang model.Language) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || !m.setLanguageLocked(lang) {
		return
	}
	m.notifyLocked()
}

// Refresh reloads the market in the background and waits for the result.
func (m *MarketDetail) Refresh(ctx context.Context) error {
	return m.refresh(ctx, func() { m.loadLocked(false) })
}

func (m *MarketDetail) loadLocked(showLoading bool) {
	if showLoading {
		m.loading = true
	}
	load(&m.screen, fetch.Market, m.fetch, func(d marketData, err error) {
		m.loading = false
		m.err = err
		if err == nil {
			m.data = &d
		}
	})
}

// fetch loads the market and its prices concurrently. Either failure fails both.
func (m *MarketDetail) fetch(ctx context.Context) (marketData, error) {
	var d marketData
	id := m.marketID

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		market, err := m.src.GetMarket(gctx, id)
		d.market = market
		return err
	})
	g.Go(func() error {
		prices, err := m.src.GetTodayPrices(gctx, model.PricesQuery{
			MarketID: &id,
			Category: model.CategoryAll,
			Sort:     model.SortNameAsc,
		})
		d.prices = prices
		return err
	})

	if err := g.Wait(); err != nil {
		return marketData{}, err
	}
	return d, nil
}

// View renders the screen.
func (m *MarketDetail) View() MarketView {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.resolver
	v := MarketView{
		Language: r.Language(),
		MarketID: m.marketID,
		Title:    r.Message("today_prices"),
		Cards:    []PriceCard{},
		Loading:  m.loading,
		Version:  m.version,
	}

	switch {
	case m.loading:
		v.LoadingText = r.Message("loading")
	case m.err != nil:
		v.Notice = failureNotice(r, m.err, "failed_to_load")
	case m.data == nil:
		v.Notice = noDataNotice(r, "no_data")
	default:
		v.Name = r.MarketName(m.data.market)
		v.District = m.data.market.District
		v.StateName = m.data.market.StateName

		for _, p := range pricing.Apply(m.data.prices, model.DefaultCriteria(), r) {
			v.Cards = append(v.Cards, NewCard(p, r))
		}
		if len(v.Cards) == 0 {
			v.Notice = noDataNotice(r, "no_market_prices")
		}
	}
	v.Count = len(v.Cards)
	return v
}
