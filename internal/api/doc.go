// Package api provides the client for the BazaarSetu price backend.
//
// REST endpoints (relative to the /api/v1 base URL):
//   - GET /states
//   - GET /prices/today?state_id&market_id&category&sort_by&sort_order
//   - GET /markets/{id}
//   - GET /prices/trend/{commodity_id}?days&market_id
//
// The backend is read-only from the dashboard's point of view. Responses are
// converted to internal/model types; missing optional fields take their
// documented defaults instead of failing the request.
package api
