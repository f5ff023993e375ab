package pricing

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"

	"github.com/rickgao/bazaarsetu/internal/category"
	"github.com/rickgao/bazaarsetu/internal/i18n"
	"github.com/rickgao/bazaarsetu/internal/model"
)

// entry pairs a record with its precomputed display name.
type entry struct {
	record model.PriceRecord
	name   string
}

// Apply filters records by criteria and orders them by criteria.Sort.
// Names are resolved with r; a nil r displays default-language names.
// The result is never nil.
func Apply(records []model.PriceRecord, criteria model.FilterCriteria, r *i18n.Resolver) []model.PriceRecord {
	if r == nil {
		r = i18n.NewResolver(model.English)
	}
	criteria = criteria.Normalized()
	m := newMatcher(criteria, r)

	entries := make([]entry, 0, len(records))
	for _, rec := range records {
		if !m.match(rec) {
			continue
		}
		entries = append(entries, entry{record: rec, name: r.CommodityName(rec)})
	}

	slices.SortStableFunc(entries, comparator(criteria.Sort, collate.New(r.Tag())))

	out := make([]model.PriceRecord, len(entries))
	for i, e := range entries {
		out[i] = e.record
	}
	return out
}

type matcher struct {
	criteria model.FilterCriteria
	resolver *i18n.Resolver
	caser    cases.Caser
	search   string // folded, empty when the search filter is off
}

func newMatcher(criteria model.FilterCriteria, r *i18n.Resolver) *matcher {
	m := &matcher{
		criteria: criteria,
		resolver: r,
		caser:    cases.Fold(),
	}
	if s := strings.TrimSpace(criteria.Search); s != "" {
		m.search = m.caser.String(s)
	}
	return m
}

func (m *matcher) match(rec model.PriceRecord) bool {
	if m.criteria.StateID != nil && rec.StateID != *m.criteria.StateID {
		return false
	}
	if m.criteria.Category != model.CategoryAll && category.Of(rec) != m.criteria.Category {
		return false
	}
	if m.search == "" {
		return true
	}
	return m.contains(rec.CommodityName) ||
		m.contains(m.resolver.CommodityName(rec)) ||
		m.contains(rec.MarketName)
}

func (m *matcher) contains(s string) bool {
	return strings.Contains(m.caser.String(s), m.search)
}

// comparator orders entries by key. Names compare with col, the collation of
// the display language.
func comparator(key model.SortKey, col *collate.Collator) func(a, b entry) int {
	switch key {
	case model.SortNameDesc:
		return func(a, b entry) int { return col.CompareString(b.name, a.name) }
	case model.SortPriceAsc:
		return func(a, b entry) int { return cmp.Compare(a.record.ModalPrice, b.record.ModalPrice) }
	case model.SortPriceDesc:
		return func(a, b entry) int { return cmp.Compare(b.record.ModalPrice, a.record.ModalPrice) }
	case model.SortChangeAsc:
		return func(a, b entry) int { return cmp.Compare(changeOf(a.record), changeOf(b.record)) }
	default:
		return func(a, b entry) int { return col.CompareString(a.name, b.name) }
	}
}

// changeOf returns the record's price change, treating a missing value as 0.
func changeOf(p model.PriceRecord) float64 {
	if p.ChangePercent == nil {
		return 0
	}
	return *p.ChangePercent
}
