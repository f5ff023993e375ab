// Package trend turns a commodity's price history into chart points and summary statistics.
package trend

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/bazaarsetu/internal/model"
)

// DateLabelLayout formats chart dates as "15 Jan".
const DateLabelLayout = "02 Jan"

// ChartPoint is one plotted day. Prices are carried through unchanged.
type ChartPoint struct {
	Date  time.Time `json:"date"`
	Label string    `json:"label"`
	Min   float64   `json:"min"`
	Modal float64   `json:"modal"`
	Max   float64   `json:"max"`
}

// Summary is the chart-ready form of a TrendSeries.
// All summary fields are nil when the series has no points.
type Summary struct {
	Points        []ChartPoint `json:"points"`
	MinPrice      *float64     `json:"min_price"`
	MaxPrice      *float64     `json:"max_price"`
	AvgPrice      *float64     `json:"avg_price"`
	ChangePercent *float64     `json:"change_percent"`
}

// Empty reports whether there is nothing to chart.
func (s Summary) Empty() bool {
	return len(s.Points) == 0
}

// Aggregate converts series into chart points and summary statistics.
// Backend-supplied summary fields take precedence over locally computed ones.
func Aggregate(series model.TrendSeries) Summary {
	out := Summary{Points: make([]ChartPoint, 0, len(series.Points))}
	if len(series.Points) == 0 {
		return out
	}

	sum := decimal.Zero
	lo := series.Points[0].ModalPrice
	hi := lo
	for _, p := range series.Points {
		out.Points = append(out.Points, ChartPoint{
			Date:  p.Date,
			Label: p.Date.Format(DateLabelLayout),
			Min:   p.MinPrice,
			Modal: p.ModalPrice,
			Max:   p.MaxPrice,
		})
		sum = sum.Add(decimal.NewFromFloat(p.ModalPrice))
		lo = min(lo, p.ModalPrice)
		hi = max(hi, p.ModalPrice)
	}

	avg := sum.Div(decimal.NewFromInt(int64(len(series.Points)))).InexactFloat64()
	first := series.Points[0].ModalPrice
	last := series.Points[len(series.Points)-1].ModalPrice

	out.MinPrice = prefer(series.Summary.MinPrice, lo)
	out.MaxPrice = prefer(series.Summary.MaxPrice, hi)
	out.AvgPrice = prefer(series.Summary.AvgPrice, avg)
	out.ChangePercent = prefer(series.Summary.ChangePercent, ChangePercent(first, last))
	return out
}

// ChangePercent returns (last - first) / first * 100, or 0 when first is 0.
func ChangePercent(first, last float64) float64 {
	if first == 0 {
		return 0
	}
	f := decimal.NewFromFloat(first)
	return decimal.NewFromFloat(last).Sub(f).Div(f).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

func prefer(backend *float64, local float64) *float64 {
	if backend != nil {
		v := *backend
		return &v
	}
	return &local
}
