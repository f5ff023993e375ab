package view

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/rickgao/bazaarsetu/internal/category"
	"github.com/rickgao/bazaarsetu/internal/i18n"
	"github.com/rickgao/bazaarsetu/internal/model"
)

// Direction is the sign of a price change.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// PriceCard is one rendered price record.
type PriceCard struct {
	CommodityID int            `json:"commodity_id"`
	Name        string         `json:"name"`
	IconText    string         `json:"icon_text"`
	MarketID    int            `json:"market_id"`
	MarketName  string         `json:"market_name"`
	District    string         `json:"district"`
	StateName   string         `json:"state_name"`
	ModalPrice  float64        `json:"modal_price"`
	Price       string         `json:"price"`
	Unit        string         `json:"unit"`
	Category    model.Category `json:"category"`
	Badge       string         `json:"badge,omitempty"`
	Trend       Direction      `json:"trend,omitempty"`
	Change      string         `json:"change,omitempty"`
	Link        string         `json:"link,omitempty"`
}

// NewCard renders p in the resolver's language.
func NewCard(p model.PriceRecord, r *i18n.Resolver) PriceCard {
	c := PriceCard{
		CommodityID: p.CommodityID,
		Name:        r.CommodityName(p),
		IconText:    IconText(p.CommodityName),
		MarketID:    p.MarketID,
		MarketName:  p.MarketName,
		District:    p.District,
		StateName:   p.StateName,
		ModalPrice:  p.ModalPrice,
		Price:       r.FormatPrice(p.ModalPrice),
		Unit:        p.Unit,
		Category:    category.Of(p),
	}
	if c.Unit == "" {
		c.Unit = "kg"
	}
	if c.Category == model.CategoryPoultry {
		c.Badge = r.CategoryLabel(model.CategoryPoultry)
	}
	if p.CommodityID != 0 {
		c.Link = TrendPath(p.CommodityID)
	}

	c.Trend, c.Change = formatChange(p.ChangePercent)
	return c
}

// TrendPath is the view path of a commodity's trend screen.
func TrendPath(commodityID int) string {
	return "/views/trend/" + strconv.Itoa(commodityID)
}

// formatChange returns the direction and absolute change to one decimal ("3.5%").
// A missing or zero change has no direction and no text.
func formatChange(pct *float64) (Direction, string) {
	if pct == nil || *pct == 0 || math.IsNaN(*pct) {
		return "", ""
	}
	dir := Up
	if *pct < 0 {
		dir = Down
	}
	return dir, decimal.NewFromFloat(math.Abs(*pct)).StringFixed(1) + "%"
}

type iconRule struct {
	keywords []string
	text     string
}

var iconRules = []iconRule{
	{[]string{"chicken"}, "CK"},
	{[]string{"egg"}, "EG"},
	{[]string{"tomato"}, "TM"},
	{[]string{"onion"}, "ON"},
	{[]string{"potato"}, "PT"},
	{[]string{"garlic"}, "GL"},
	{[]string{"ginger"}, "GI"},
	{[]string{"carrot"}, "CR"},
	{[]string{"cabbage"}, "CB"},
	{[]string{"cauliflower"}, "CF"},
	{[]string{"brinjal"}, "BJ"},
	{[]string{"beans"}, "BN"},
	{[]string{"gourd"}, "GD"},
	{[]string{"spinach"}, "SP"},
	{[]string{"coriander"}, "CO"},
	{[]string{"methi"}, "MT"},
	{[]string{"lemon"}, "LM"},
	{[]string{"banana"}, "BA"},
	{[]string{"coconut"}, "CN"},
	{[]string{"cucumber"}, "CU"},
	{[]string{"drumstick"}, "DS"},
	{[]string{"lady finger", "okra"}, "LF"},
	{[]string{"chilli"}, "CH"},
	{[]string{"pumpkin"}, "PK"},
	{[]string{"curry"}, "CL"},
	{[]string{"mint"}, "MN"},
}

// IconText returns the two-letter badge for a commodity's default name.
// Unknown names use their first two letters upper-cased.
func IconText(name string) string {
	folded := cases.Fold().String(name)
	for _, rule := range iconRules {
		for _, kw := range rule.keywords {
			if strings.Contains(folded, kw) {
				return rule.text
			}
		}
	}

	runes := []rune(strings.TrimSpace(name))
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return strings.ToUpper(string(runes))
}
