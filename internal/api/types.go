package api

// APIState from GET /states
type APIState struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	NameTelugu *string `json:"name_telugu"`
	NameHindi  *string `json:"name_hindi"`
	Code       string  `json:"code"`
}

// APIPrice from GET /prices/today
type APIPrice struct {
	CommodityID         int     `json:"commodity_id"`
	CommodityName       string  `json:"commodity_name"`
	CommodityNameTelugu *string `json:"commodity_name_telugu"`
	CommodityNameHindi  *string `json:"commodity_name_hindi"`
	Category            *string `json:"category"`
	Unit                string  `json:"unit"`

	MarketID   int    `json:"market_id"`
	MarketName string `json:"market_name"`
	District   string `json:"district"`
	StateID    int    `json:"state_id"`
	StateName  string `json:"state_name"`

	// Prices in rupees per unit
	MinPrice   float64 `json:"min_price"`
	MaxPrice   float64 `json:"max_price"`
	ModalPrice float64 `json:"modal_price"`
	PriceDate  string  `json:"price_date"`

	// Day-over-day change. Older backends send price_change instead.
	PriceChangePercent *float64 `json:"price_change_percent"`
	PriceChange        *float64 `json:"price_change"`
}

// APIMarket from GET /markets/{id}
type APIMarket struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	NameTelugu *string   `json:"name_telugu"`
	NameHindi  *string   `json:"name_hindi"`
	District   string    `json:"district"`
	StateID    int       `json:"state_id"`
	StateName  string    `json:"state_name"`
	State      *APIState `json:"state"`
}

// APITrendPoint is one day of GET /prices/trend/{id}.
// Older backends only send modal_price.
type APITrendPoint struct {
	Date       string   `json:"date"`
	MinPrice   *float64 `json:"min_price"`
	MaxPrice   *float64 `json:"max_price"`
	ModalPrice float64  `json:"modal_price"`
}

// TrendResponse from GET /prices/trend/{id}
type TrendResponse struct {
	CommodityID   int     `json:"commodity_id"`
	CommodityName string  `json:"commodity_name"`
	MarketID      *int    `json:"market_id"`
	MarketName    *string `json:"market_name"`

	Prices    []APITrendPoint `json:"prices"`
	TrendData []APITrendPoint `json:"trend_data"` // Older field name for Prices

	// Summary, computed locally when absent
	MinPrice      *float64 `json:"min_price"`
	MaxPrice      *float64 `json:"max_price"`
	AvgPrice      *float64 `json:"avg_price"`
	ChangePercent *float64 `json:"change_percent"`
	PriceChange30 *float64 `json:"price_change_30d"` // Sent instead of change_percent
}
