package model

// Trend window limits accepted by the backend.
const (
	DefaultTrendDays = 30
	MinTrendDays     = 7
	MaxTrendDays     = 365
)

// PricesQuery holds the server-side filters for today's prices.
type PricesQuery struct {
	StateID  *int
	MarketID *int
	Category Category // CategoryAll = no filter
	Sort     SortKey
}

// QueryFor returns the server-side part of criteria.
func QueryFor(c FilterCriteria) PricesQuery {
	c = c.Normalized()
	return PricesQuery{
		StateID:  c.StateID,
		Category: c.Category,
		Sort:     c.Sort,
	}
}

// TrendQuery selects a commodity's price history.
type TrendQuery struct {
	CommodityID int
	MarketID    *int
	Days        int
}

// Normalized clamps Days into the accepted window; 0 means the default.
func (q TrendQuery) Normalized() TrendQuery {
	switch {
	case q.Days <= 0:
		q.Days = DefaultTrendDays
	case q.Days < MinTrendDays:
		q.Days = MinTrendDays
	case q.Days > MaxTrendDays:
		q.Days = MaxTrendDays
	}
	return q
}
