package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rickgao/bazaarsetu/internal/model"
)

// GetMarket fetches a single market by ID.
func (c *Client) GetMarket(ctx context.Context, id int) (model.MarketDetail, error) {
	var resp APIMarket
	if err := c.get(ctx, "/markets/"+strconv.Itoa(id), nil, &resp); err != nil {
		return model.MarketDetail{}, fmt.Errorf("get market %d: %w", id, err)
	}

	m := resp.ToModel()
	if m.ID == 0 {
		m.ID = id
	}
	return m, nil
}

// Ping checks the backend's /health endpoint at the root of the base URL's host.
func (c *Client) Ping(ctx context.Context) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	u.Path = "/health"
	u.RawQuery = ""

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return nil
}
