package api

import (
	"context"
	"fmt"

	"github.com/rickgao/bazaarsetu/internal/model"
)

// GetStates fetches every state with prices.
func (c *Client) GetStates(ctx context.Context) ([]model.StateEntity, error) {
	var resp []APIState
	if err := c.get(ctx, "/states", nil, &resp); err != nil {
		return nil, fmt.Errorf("get states: %w", err)
	}

	states := make([]model.StateEntity, 0, len(resp))
	for i := range resp {
		states = append(states, resp[i].ToModel())
	}
	return states, nil
}
