package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/rickgao/bazaarsetu/internal/view"
)

// settle waits for a freshly created screen to apply its initial fetches.
// A render that does not settle in time is returned in its loading state.
func (s *Server) settle(ctx context.Context, waiter interface{ Wait(context.Context) error }) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ViewTimeout)
	defer cancel()

	if err := waiter.Wait(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		s.logger.Debug("view wait interrupted", "error", err)
	} else if err != nil {
		s.logger.Warn("view did not settle in time", "timeout", s.cfg.ViewTimeout)
	}
}

func (s *Server) handleHomeView(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFor(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	home := view.NewHome(r.Context(), s.src, languageFor(r), criteria, s.logger)
	defer home.Close()

	s.settle(r.Context(), home)
	s.writeJSON(w, http.StatusOK, home.View())
}

func (s *Server) handleMarketView(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	market := view.NewMarketDetail(r.Context(), s.src, languageFor(r), id, s.logger)
	defer market.Close()

	s.settle(r.Context(), market)
	s.writeJSON(w, http.StatusOK, market.View())
}

func (s *Server) handleTrendView(w http.ResponseWriter, r *http.Request) {
	q, err := trendQueryFor(r, s.cfg.DefaultTrendDays)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	pt := view.NewPriceTrend(r.Context(), s.src, languageFor(r), q, s.logger)
	defer pt.Close()

	s.settle(r.Context(), pt)
	s.writeJSON(w, http.StatusOK, pt.View())
}
