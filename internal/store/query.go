package store

import (
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/rickgao/bazaarsetu/internal/model"
)

const pricesSelect = `
	SELECT c.id, c.name, c.name_telugu, c.name_hindi, c.category, c.unit,
	       m.id, m.name, m.district, s.id, s.name,
	       p.min_price, p.max_price, p.modal_price, p.price_date,
	       y.modal_price
	FROM prices p
	JOIN commodities c ON c.id = p.commodity_id
	JOIN markets m ON m.id = p.market_id
	JOIN states s ON s.id = m.state_id
	LEFT JOIN prices y ON y.commodity_id = p.commodity_id
	                  AND y.market_id = p.market_id
	                  AND y.price_date = $1::date - 1
	WHERE p.price_date = $1`

// buildPricesQuery returns the today-prices SQL and its arguments.
// Change ordering is left to the caller since the change is computed after the scan.
func buildPricesQuery(q model.PricesQuery, today time.Time) (string, []any) {
	var b strings.Builder
	b.WriteString(pricesSelect)
	args := []any{today}

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if q.StateID != nil {
		b.WriteString("\n\t  AND m.state_id = " + arg(*q.StateID))
	}
	if q.MarketID != nil {
		b.WriteString("\n\t  AND p.market_id = " + arg(*q.MarketID))
	}
	if cat := model.ParseCategory(string(q.Category)); cat != model.CategoryAll {
		b.WriteString("\n\t  AND c.category = " + arg(string(cat)))
	}

	b.WriteString("\n\tORDER BY " + orderBy(q.Sort))
	return b.String(), args
}

func orderBy(key model.SortKey) string {
	switch key {
	case model.SortNameDesc:
		return "c.name DESC, m.name"
	case model.SortPriceAsc:
		return "p.modal_price ASC, c.name"
	case model.SortPriceDesc:
		return "p.modal_price DESC, c.name"
	default:
		return "c.name ASC, m.name"
	}
}

func scanPrice(row pgx.CollectableRow) (model.PriceRecord, error) {
	var (
		r             model.PriceRecord
		telugu, hindi *string
		category      *string
		unit          *string
		yesterday     *float64
	)
	err := row.Scan(
		&r.CommodityID, &r.CommodityName, &telugu, &hindi, &category, &unit,
		&r.MarketID, &r.MarketName, &r.District, &r.StateID, &r.StateName,
		&r.MinPrice, &r.MaxPrice, &r.ModalPrice, &r.PriceDate,
		&yesterday,
	)
	if err != nil {
		return r, err
	}

	r.CommodityNames = translations(telugu, hindi)
	r.Unit = trimmed(unit)
	if r.Unit == "" {
		r.Unit = "kg"
	}
	if category != nil {
		if c := model.Category(strings.ToLower(strings.TrimSpace(*category))); c.Valid() {
			r.Category = &c
		}
	}
	r.ChangePercent = changePercent(r.ModalPrice, yesterday)
	return r, nil
}

// changePercent is the day-over-day change rounded to two decimals.
// It is absent when there is no positive price for yesterday.
func changePercent(today float64, yesterday *float64) *float64 {
	if yesterday == nil || *yesterday <= 0 {
		return nil
	}
	prev := decimal.NewFromFloat(*yesterday)
	pct := decimal.NewFromFloat(today).Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).Round(2)
	v := pct.InexactFloat64()
	return &v
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func translations(telugu, hindi *string) model.Translations {
	return model.Translations{Telugu: trimmed(telugu), Hindi: trimmed(hindi)}
}
