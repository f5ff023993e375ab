package view

import (
	"context"
	"log/slog"

	"github.com/rickgao/bazaarsetu/internal/fetch"
	"github.com/rickgao/bazaarsetu/internal/i18n"
	"github.com/rickgao/bazaarsetu/internal/model"
	"github.com/rickgao/bazaarsetu/internal/trend"
)

// Stat is one labeled summary figure.
type Stat struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Value string    `json:"value"`
	Trend Direction `json:"trend,omitempty"`
}

// TrendView is the rendered commodity trend screen.
type TrendView struct {
	Language      model.Language     `json:"language"`
	CommodityID   int                `json:"commodity_id"`
	CommodityName string             `json:"commodity_name,omitempty"`
	MarketID      *int               `json:"market_id,omitempty"`
	MarketName    string             `json:"market_name,omitempty"`
	Days          int                `json:"days"`
	Title         string             `json:"title"`
	Points        []trend.ChartPoint `json:"points"`
	Stats         []Stat             `json:"stats"`
	MinPrice      *float64           `json:"min_price"`
	MaxPrice      *float64           `json:"max_price"`
	AvgPrice      *float64           `json:"avg_price"`
	ChangePercent *float64           `json:"change_percent"`
	Loading       bool               `json:"loading"`
	LoadingText   string             `json:"loading_text,omitempty"`
	Notice        *Notice            `json:"notice,omitempty"`
	Version       uint64             `json:"version"`
}

// PriceTrend charts one commodity's price history.
type PriceTrend struct {
	screen

	query   model.TrendQuery
	series  model.TrendSeries
	summary trend.Summary
	loaded  bool
	loading bool
	err     error
}

// NewPriceTrend creates the screen and starts loading the series.
// A zero q.Days uses the default window.
func NewPriceTrend(ctx context.Context, src Source, lang model.Language, q model.TrendQuery, logger *slog.Logger) *PriceTrend {
	t := &PriceTrend{query: q.Normalized()}
	t.init(ctx, src, lang, logger)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.loadLocked(true)
	return t
}

// Query returns the current trend query.
func (t *PriceTrend) Query() model.TrendQuery {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.query
}

// SetDays changes the window and re-fetches if it changed.
func (t *PriceTrend) SetDays(days int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	q := t.query
	q.Days = days
	q = q.Normalized()
	if q == t.query {
		return
	}
	t.query = q
	t.loadLocked(true)
	t.notifyLocked()
}

// SetLanguage switches the display language.
func (t *PriceTrend) SetLanguage(lang model.Language) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || !t.setLanguageLocked(lang) {
		return
	}
	t.notifyLocked()
}

// Refresh reloads the series in the background and waits for the result.
func (t *PriceTrend) Refresh(ctx context.Context) error {
	return t.refresh(ctx, func() { t.loadLocked(false) })
}

func (t *PriceTrend) loadLocked(showLoading bool) {
	if showLoading {
		t.loading = true
	}
	q := t.query
	load(&t.screen, fetch.Trend, func(ctx context.Context) (model.TrendSeries, error) {
		return t.src.GetTrend(ctx, q)
	}, func(series model.TrendSeries, err error) {
		t.loading = false
		t.err = err
		if err == nil {
			t.series = series
			t.summary = trend.Aggregate(series)
			t.loaded = true
		}
	})
}

// View renders the screen.
func (t *PriceTrend) View() TrendView {
	t.mu.Lock()
	defer t.mu.Unlock()

	r := t.resolver
	v := TrendView{
		Language:    r.Language(),
		CommodityID: t.query.CommodityID,
		MarketID:    t.query.MarketID,
		Days:        t.query.Days,
		Title:       r.Message("price_trend"),
		Points:      []trend.ChartPoint{},
		Stats:       []Stat{},
		Loading:     t.loading,
		Version:     t.version,
	}
	if t.loaded {
		v.CommodityName = t.series.CommodityName
		v.MarketName = t.series.MarketName
		if v.CommodityName != "" {
			v.Title = v.CommodityName + " - " + v.Title
		}
	}

	switch {
	case t.loading:
		v.LoadingText = r.Message("loading")
	case t.err != nil:
		v.Notice = failureNotice(r, t.err, "trend_failed")
	case !t.loaded || t.summary.Empty():
		v.Notice = noDataNotice(r, "no_data")
	default:
		s := t.summary
		v.Points = s.Points
		v.MinPrice = s.MinPrice
		v.MaxPrice = s.MaxPrice
		v.AvgPrice = s.AvgPrice
		v.ChangePercent = s.ChangePercent
		v.Stats = summaryStats(r, s)
	}
	return v
}

func summaryStats(r *i18n.Resolver, s trend.Summary) []Stat {
	var stats []Stat
	price := func(key string, p *float64) {
		if p != nil {
			stats = append(stats, Stat{Key: key, Label: r.Message(key), Value: r.FormatPrice(*p)})
		}
	}
	price("min_price", s.MinPrice)
	price("avg_price", s.AvgPrice)
	price("max_price", s.MaxPrice)

	dir, change := formatChange(s.ChangePercent)
	if change == "" {
		change = "0.0%"
	}
	stats = append(stats, Stat{Key: "change", Label: r.Message("change"), Value: change, Trend: dir})
	return stats
}
