package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rickgao/bazaarsetu/internal/i18n"
	"github.com/rickgao/bazaarsetu/internal/model"
)

// languageFor picks the display language from the lang query parameter,
// then the Accept-Language header, then the default.
func languageFor(r *http.Request) model.Language {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return i18n.ParseLanguage(lang)
	}
	return i18n.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
}

// optionalID parses an optional positive ID. Empty and "all" mean nil.
func optionalID(name, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return nil, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return &id, nil
}

func pathID(r *http.Request, name string) (int, error) {
	id, err := optionalID(name, r.PathValue(name))
	if err != nil {
		return 0, err
	}
	if id == nil {
		return 0, fmt.Errorf("%s is required", name)
	}
	return *id, nil
}

// criteriaFor reads home filter criteria from state, category, sort and q.
func criteriaFor(r *http.Request) (model.FilterCriteria, error) {
	q := r.URL.Query()
	c := model.DefaultCriteria()

	stateID, err := optionalID("state", q.Get("state"))
	if err != nil {
		return c, err
	}
	c.StateID = stateID
	if v := q.Get("category"); v != "" {
		c.Category = model.Category(v)
	}
	if v := q.Get("sort"); v != "" {
		c.Sort = model.SortKey(v)
	}
	c.Search = q.Get("q")
	return c.Normalized(), nil
}

// trendQueryFor reads a trend query from the path and the days and market
// parameters. A missing days parameter uses defaultDays.
func trendQueryFor(r *http.Request, defaultDays int) (model.TrendQuery, error) {
	tq := model.TrendQuery{Days: defaultDays}

	id, err := pathID(r, "commodityId")
	if err != nil {
		return tq, err
	}
	tq.CommodityID = id

	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("days")); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return tq, fmt.Errorf("days must be an integer, got %q", v)
		}
		tq.Days = days
	}
	if tq.MarketID, err = optionalID("market", q.Get("market")); err != nil {
		return tq, err
	}
	return tq.Normalized(), nil
}
