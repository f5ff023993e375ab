package api

import (
	"strings"
	"time"

	"github.com/rickgao/bazaarsetu/internal/model"
)

// DefaultUnit is used when the backend omits a commodity's unit.
const DefaultUnit = "kg"

// ParseDate parses a backend date ("2024-01-15" or RFC 3339).
// Returns the zero time for empty or invalid input.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	// Try without timezone
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}

// nonNegative clamps negative prices to 0.
func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func translations(telugu, hindi *string) model.Translations {
	return model.Translations{
		Telugu: deref(telugu),
		Hindi:  deref(hindi),
	}
}

// ToModel converts an APIState to model.StateEntity.
func (s *APIState) ToModel() model.StateEntity {
	return model.StateEntity{
		ID:    s.ID,
		Name:  s.Name,
		Names: translations(s.NameTelugu, s.NameHindi),
		Code:  s.Code,
	}
}

// ToModel converts an APIPrice to model.PriceRecord.
// Category is kept only if the backend sent a known value; it is never inferred here.
func (p *APIPrice) ToModel() model.PriceRecord {
	rec := model.PriceRecord{
		CommodityID:    p.CommodityID,
		CommodityName:  p.CommodityName,
		CommodityNames: translations(p.CommodityNameTelugu, p.CommodityNameHindi),
		MarketID:       p.MarketID,
		MarketName:     p.MarketName,
		District:       p.District,
		StateID:        p.StateID,
		StateName:      p.StateName,
		Unit:           strings.TrimSpace(p.Unit),
		MinPrice:       nonNegative(p.MinPrice),
		MaxPrice:       nonNegative(p.MaxPrice),
		ModalPrice:     nonNegative(p.ModalPrice),
		PriceDate:      ParseDate(p.PriceDate),
	}
	if rec.Unit == "" {
		rec.Unit = DefaultUnit
	}

	switch {
	case p.PriceChangePercent != nil:
		v := *p.PriceChangePercent
		rec.ChangePercent = &v
	case p.PriceChange != nil:
		v := *p.PriceChange
		rec.ChangePercent = &v
	}

	if p.Category != nil {
		if c := model.Category(strings.ToLower(strings.TrimSpace(*p.Category))); c.Valid() {
			rec.Category = &c
		}
	}

	return rec
}

// ToModel converts an APIMarket to model.MarketDetail.
func (m *APIMarket) ToModel() model.MarketDetail {
	d := model.MarketDetail{
		ID:        m.ID,
		Name:      m.Name,
		Names:     translations(m.NameTelugu, m.NameHindi),
		District:  m.District,
		StateID:   m.StateID,
		StateName: m.StateName,
	}
	if m.State != nil {
		if d.StateName == "" {
			d.StateName = m.State.Name
		}
		if d.StateID == 0 {
			d.StateID = m.State.ID
		}
	}
	return d
}

// ToModel converts a TrendResponse to model.TrendSeries.
// Points missing min or max use the modal price.
func (t *TrendResponse) ToModel() model.TrendSeries {
	points := t.Prices
	if len(points) == 0 {
		points = t.TrendData
	}

	s := model.TrendSeries{
		CommodityID:   t.CommodityID,
		CommodityName: t.CommodityName,
		MarketName:    deref(t.MarketName),
		Points:        make([]model.DailyPoint, 0, len(points)),
		Summary: model.TrendSummary{
			MinPrice:      t.MinPrice,
			MaxPrice:      t.MaxPrice,
			AvgPrice:      t.AvgPrice,
			ChangePercent: t.ChangePercent,
		},
	}
	if s.Summary.ChangePercent == nil && t.PriceChange30 != nil {
		v := *t.PriceChange30
		s.Summary.ChangePercent = &v
	}
	if t.MarketID != nil {
		id := *t.MarketID
		s.MarketID = &id
	}

	for _, p := range points {
		modal := nonNegative(p.ModalPrice)
		dp := model.DailyPoint{
			Date:       ParseDate(p.Date),
			MinPrice:   modal,
			MaxPrice:   modal,
			ModalPrice: modal,
		}
		if p.MinPrice != nil {
			dp.MinPrice = nonNegative(*p.MinPrice)
		}
		if p.MaxPrice != nil {
			dp.MaxPrice = nonNegative(*p.MaxPrice)
		}
		s.Points = append(s.Points, dp)
	}

	return s
}
