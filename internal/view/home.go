package view

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/rickgao/bazaarsetu/internal/fetch"
	"github.com/rickgao/bazaarsetu/internal/model"
	"github.com/rickgao/bazaarsetu/internal/pricing"
)

// Option is one selectable filter value.
type Option struct {
	Value  string `json:"value"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// CriteriaView is the current filter state.
type CriteriaView struct {
	StateID  *int           `json:"state_id"`
	Category model.Category `json:"category"`
	Sort     model.SortKey  `json:"sort"`
	Search   string         `json:"search"`
}

// HomeView is the rendered home listing.
type HomeView struct {
	Language    model.Language `json:"language"`
	Title       string         `json:"title"`
	Criteria    CriteriaView   `json:"criteria"`
	States      []Option       `json:"states"`
	Categories  []Option       `json:"categories"`
	Sorts       []Option       `json:"sorts"`
	Cards       []PriceCard    `json:"cards"`
	Count       int            `json:"count"`
	Loading     bool           `json:"loading"`
	LoadingText string         `json:"loading_text,omitempty"`
	Notice      *Notice        `json:"notice,omitempty"`
	Version     uint64         `json:"version"`
}

// Home is the home listing screen: today's prices with state chips,
// category and sort menus, and a free-text search.
type Home struct {
	screen

	criteria      model.FilterCriteria
	states        []model.StateEntity
	prices        []model.PriceRecord
	pricesLoading bool
	pricesErr     error
}

// NewHome creates the home screen and starts fetching states and prices.
func NewHome(ctx context.Context, src Source, lang model.Language, criteria model.FilterCriteria, logger *slog.Logger) *Home {
	h := &Home{criteria: criteria.Normalized()}
	h.init(ctx, src, lang, logger)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.loadStatesLocked()
	h.loadPricesLocked(true)
	return h
}

// Criteria returns the current filter criteria.
func (h *Home) Criteria() model.FilterCriteria {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.criteria
}

// SetCriteria replaces the filter criteria. Prices are re-fetched only when a
// backend filter changed; search is applied locally.
func (h *Home) SetCriteria(c model.FilterCriteria) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	c = c.Normalized()
	refetch := h.criteria.NeedsRefetch(c)
	h.criteria = c
	if refetch {
		h.loadPricesLocked(true)
	}
	h.notifyLocked()
}

// SetLanguage switches the display language. Names re-sort locally.
func (h *Home) SetLanguage(lang model.Language) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || !h.setLanguageLocked(lang) {
		return
	}
	h.notifyLocked()
}

// Refresh re-fetches prices in the background and waits for the result.
func (h *Home) Refresh(ctx context.Context) error {
	return h.refresh(ctx, func() { h.loadPricesLocked(false) })
}

func (h *Home) loadStatesLocked() {
	load(&h.screen, fetch.States, h.src.GetStates, func(states []model.StateEntity, err error) {
		if err != nil {
			// The listing still works without chips.
			return
		}
		h.states = states
	})
}

func (h *Home) loadPricesLocked(showLoading bool) {
	if showLoading {
		h.pricesLoading = true
	}
	q := model.QueryFor(h.criteria)
	load(&h.screen, fetch.Prices, func(ctx context.Context) ([]model.PriceRecord, error) {
		return h.src.GetTodayPrices(ctx, q)
	}, func(records []model.PriceRecord, err error) {
		h.pricesLoading = false
		h.pricesErr = err
		if err == nil {
			h.prices = records
		}
	})
}

// View renders the screen.
func (h *Home) View() HomeView {
	h.mu.Lock()
	defer h.mu.Unlock()

	r := h.resolver
	v := HomeView{
		Language: r.Language(),
		Title:    r.Message("today_prices"),
		Criteria: CriteriaView{
			StateID:  h.criteria.StateID,
			Category: h.criteria.Category,
			Sort:     h.criteria.Sort,
			Search:   h.criteria.Search,
		},
		States:     h.stateChipsLocked(),
		Categories: categoryOptions(r.CategoryLabel, h.criteria.Category),
		Sorts:      sortOptions(r.SortLabel, h.criteria.Sort),
		Cards:      []PriceCard{},
		Loading:    h.pricesLoading,
		Version:    h.version,
	}

	switch {
	case h.pricesLoading:
		v.LoadingText = r.Message("loading")
	case h.pricesErr != nil:
		v.Notice = failureNotice(r, h.pricesErr, "failed_to_load")
	default:
		for _, p := range pricing.Apply(h.prices, h.criteria, r) {
			v.Cards = append(v.Cards, NewCard(p, r))
		}
		if len(v.Cards) == 0 {
			v.Notice = noDataNotice(r, "no_data")
		}
	}
	v.Count = len(v.Cards)
	return v
}

func (h *Home) stateChipsLocked() []Option {
	chips := make([]Option, 0, len(h.states)+1)
	chips = append(chips, Option{
		Value:  "",
		Label:  h.resolver.Message("all_states"),
		Active: h.criteria.StateID == nil,
	})
	for _, st := range h.states {
		chips = append(chips, Option{
			Value:  strconv.Itoa(st.ID),
			Label:  h.resolver.StateName(st),
			Active: h.criteria.StateID != nil && *h.criteria.StateID == st.ID,
		})
	}
	return chips
}

func categoryOptions(label func(model.Category) string, selected model.Category) []Option {
	values := append([]model.Category{model.CategoryAll}, model.Categories...)
	opts := make([]Option, 0, len(values))
	for _, c := range values {
		opts = append(opts, Option{Value: string(c), Label: label(c), Active: c == selected})
	}
	return opts
}

func sortOptions(label func(model.SortKey) string, selected model.SortKey) []Option {
	opts := make([]Option, 0, len(model.SortKeys))
	for _, k := range model.SortKeys {
		opts = append(opts, Option{Value: string(k), Label: label(k), Active: k == selected})
	}
	return opts
}
