package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rickgao/bazaarsetu/internal/model"
)

// GetTodayPrices fetches today's prices filtered and sorted by the backend.
func (c *Client) GetTodayPrices(ctx context.Context, q model.PricesQuery) ([]model.PriceRecord, error) {
	query := url.Values{}

	if q.StateID != nil {
		query.Set("state_id", strconv.Itoa(*q.StateID))
	}
	if q.MarketID != nil {
		query.Set("market_id", strconv.Itoa(*q.MarketID))
	}
	if cat := model.ParseCategory(string(q.Category)); cat != model.CategoryAll {
		query.Set("category", string(cat))
	}
	sortBy, sortOrder := q.Sort.Split()
	query.Set("sort_by", sortBy)
	query.Set("sort_order", sortOrder)

	var resp []APIPrice
	if err := c.get(ctx, "/prices/today", query, &resp); err != nil {
		return nil, fmt.Errorf("get today prices: %w", err)
	}

	records := make([]model.PriceRecord, 0, len(resp))
	for i := range resp {
		records = append(records, resp[i].ToModel())
	}
	return records, nil
}

// GetTrend fetches a commodity's price history.
func (c *Client) GetTrend(ctx context.Context, q model.TrendQuery) (model.TrendSeries, error) {
	q = q.Normalized()

	query := url.Values{}
	query.Set("days", strconv.Itoa(q.Days))
	if q.MarketID != nil {
		query.Set("market_id", strconv.Itoa(*q.MarketID))
	}

	var resp TrendResponse
	path := "/prices/trend/" + strconv.Itoa(q.CommodityID)
	if err := c.get(ctx, path, query, &resp); err != nil {
		return model.TrendSeries{}, fmt.Errorf("get trend %d: %w", q.CommodityID, err)
	}

	series := resp.ToModel()
	if series.CommodityID == 0 {
		series.CommodityID = q.CommodityID
	}
	return series, nil
}
