package i18n

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rickgao/bazaarsetu/internal/model"
)

var supportedTags = []language.Tag{
	language.English, // Default, must stay first for the matcher.
	language.Telugu,
	language.Hindi,
}

var matcher = language.NewMatcher(supportedTags)

// ParseLanguage maps a language code to a supported language.
// Region and script subtags are accepted ("te-IN"); anything unrecognized is English.
func ParseLanguage(code string) model.Language {
	code = strings.TrimSpace(code)
	if code == "" {
		return model.English
	}
	tag, err := language.Parse(code)
	if err != nil {
		return model.English
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return model.English
	}
	return model.Languages[idx]
}

// ParseAcceptLanguage matches an Accept-Language header against the supported
// languages as a whole, so an earlier preference wins over a later exact match.
// Empty or malformed headers are English.
func ParseAcceptLanguage(header string) model.Language {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return model.English
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return model.English
	}
	return model.Languages[idx]
}

// Resolver renders names and messages in one language.
type Resolver struct {
	lang    model.Language
	catalog *Catalog
	printer *message.Printer
}

// NewResolver creates a Resolver for lang using the embedded catalog.
// Unsupported languages behave as English.
func NewResolver(lang model.Language) *Resolver {
	return NewResolverWithCatalog(lang, DefaultCatalog())
}

// NewResolverWithCatalog creates a Resolver backed by a specific catalog.
func NewResolverWithCatalog(lang model.Language, catalog *Catalog) *Resolver {
	lang = ParseLanguage(string(lang))
	return &Resolver{
		lang:    lang,
		catalog: catalog,
		printer: message.NewPrinter(supportedTags[indexOf(lang)]),
	}
}

func indexOf(lang model.Language) int {
	for i, l := range model.Languages {
		if l == lang {
			return i
		}
	}
	return 0
}

// Language returns the resolver's language.
func (r *Resolver) Language() model.Language {
	return r.lang
}

// Tag returns the BCP 47 tag of the resolver's language.
func (r *Resolver) Tag() language.Tag {
	return supportedTags[indexOf(r.lang)]
}

// Resolve returns the translation for the resolver's language if present, else defaultName.
func (r *Resolver) Resolve(defaultName string, translations model.Translations) string {
	if r.lang == model.English {
		return defaultName
	}
	if t := strings.TrimSpace(translations.For(r.lang)); t != "" {
		return t
	}
	return defaultName
}

// CommodityName returns the display name of a price record's commodity.
func (r *Resolver) CommodityName(p model.PriceRecord) string {
	return r.Resolve(p.CommodityName, p.CommodityNames)
}

// StateName returns the display name of a state.
func (r *Resolver) StateName(s model.StateEntity) string {
	return r.Resolve(s.Name, s.Names)
}

// MarketName returns the display name of a market.
func (r *Resolver) MarketName(m model.MarketDetail) string {
	return r.Resolve(m.Name, m.Names)
}

// Message returns the inline UI message for key.
func (r *Resolver) Message(key string) string {
	if r.catalog == nil {
		return key
	}
	return r.catalog.Lookup(r.lang, key)
}

// FormatPrice formats a price rounded to whole rupees with locale digit grouping.
func (r *Resolver) FormatPrice(v float64) string {
	return r.printer.Sprintf("₹%d", int64(math.Round(v)))
}

// CategoryLabel returns the localized label for a category filter value.
func (r *Resolver) CategoryLabel(c model.Category) string {
	switch c {
	case model.CategoryVegetable:
		return r.Message("vegetables")
	case model.CategoryPoultry:
		return r.Message("poultry")
	case model.CategoryLeafy:
		return r.Message("leafy_greens")
	case model.CategorySpice:
		return r.Message("spices")
	case model.CategoryFruit:
		return r.Message("fruits")
	default:
		return r.Message("all")
	}
}

// SortLabel returns the localized label for a sort key.
func (r *Resolver) SortLabel(k model.SortKey) string {
	switch k {
	case model.SortNameDesc:
		return r.Message("sort_za")
	case model.SortChangeAsc:
		return r.Message("biggest_drops")
	case model.SortPriceDesc:
		return r.Message("price_high_low")
	case model.SortPriceAsc:
		return r.Message("price_low_high")
	default:
		return r.Message("sort_az")
	}
}
