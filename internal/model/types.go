package model

import (
	"strings"
	"time"
)

// -----------------------------------------------------------------------------
// Languages
// -----------------------------------------------------------------------------

// Language is one of the supported display languages.
type Language string

const (
	English Language = "en" // Default language
	Telugu  Language = "te"
	Hindi   Language = "hi"
)

// Languages lists the supported languages, default first.
var Languages = []Language{English, Telugu, Hindi}

// Translations holds optional per-language variants of a name.
// The default (English) name is stored on the owning entity.
type Translations struct {
	Telugu string
	Hindi  string
}

// For returns the translation for lang, or "" if absent.
func (t Translations) For(lang Language) string {
	switch lang {
	case Telugu:
		return t.Telugu
	case Hindi:
		return t.Hindi
	default:
		return ""
	}
}

// -----------------------------------------------------------------------------
// Categories
// -----------------------------------------------------------------------------

// Category is the commodity category enumeration.
type Category string

const (
	CategoryAll       Category = "all" // Filter sentinel, never a record category
	CategoryVegetable Category = "vegetable"
	CategoryPoultry   Category = "poultry"
	CategoryLeafy     Category = "leafy"
	CategorySpice     Category = "spice"
	CategoryFruit     Category = "fruit"
)

// Categories lists every record category in display order.
var Categories = []Category{CategoryVegetable, CategoryPoultry, CategoryLeafy, CategorySpice, CategoryFruit}

// Valid reports whether c is a record category (CategoryAll is not).
func (c Category) Valid() bool {
	switch c {
	case CategoryVegetable, CategoryPoultry, CategoryLeafy, CategorySpice, CategoryFruit:
		return true
	}
	return false
}

// ParseCategory parses a filter value. Empty and unknown values mean all.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c
	}
	return CategoryAll
}

// -----------------------------------------------------------------------------
// Entities
// -----------------------------------------------------------------------------

// PriceRecord is one commodity's price at one market for one day.
type PriceRecord struct {
	CommodityID    int          // Commodity primary key
	CommodityName  string       // Default-language name
	CommodityNames Translations // Optional localized names
	MarketID       int          // Market primary key (0 if not supplied)
	MarketName     string       // Market display name
	District       string       // Market district
	StateID        int          // State primary key
	StateName      string       // Default-language state name
	Unit           string       // Sale unit, "kg" when absent
	MinPrice       float64      // Lowest quoted price
	MaxPrice       float64      // Highest quoted price
	ModalPrice     float64      // Representative price (required, >= 0)
	PriceDate      time.Time    // Quote date
	ChangePercent  *float64     // % change from the previous day, nil if unknown
	Category       *Category    // Backend category, nil if not supplied
}

// StateEntity is an Indian state with prices.
type StateEntity struct {
	ID    int
	Name  string
	Names Translations
	Code  string
}

// MarketDetail describes a single market (mandi).
type MarketDetail struct {
	ID        int
	Name      string
	Names     Translations
	District  string
	StateID   int
	StateName string
}

// -----------------------------------------------------------------------------
// Trend Types
// -----------------------------------------------------------------------------

// DailyPoint is one day in a trend series.
// MinPrice <= ModalPrice <= MaxPrice is expected but not enforced.
type DailyPoint struct {
	Date       time.Time
	MinPrice   float64
	MaxPrice   float64
	ModalPrice float64
}

// TrendSummary holds backend-supplied summary fields. Nil fields are recomputed locally.
type TrendSummary struct {
	MinPrice      *float64
	MaxPrice      *float64
	AvgPrice      *float64
	ChangePercent *float64
}

// TrendSeries is a time-ordered price history for one commodity.
type TrendSeries struct {
	CommodityID   int
	CommodityName string
	MarketID      *int
	MarketName    string
	Points        []DailyPoint
	Summary       TrendSummary
}
