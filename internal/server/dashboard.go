package server

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/sells-group/water-intel/internal/dashboard"
	"github.com/sells-group/water-intel/internal/graph"
	"github.com/sells-group/water-intel/internal/rank"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "store": "ok"}
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			zap.L().Warn("server: store ping failed", zap.Error(err))
			status["store"] = "unavailable"
		}
	}
	writeJSON(w, http.StatusOK, status)
}

// parseSelection reads the repeatable county, district and apl parameters and
// the min_budget threshold in millions.
func parseSelection(r *http.Request) (rank.Selection, bool) {
	q := r.URL.Query()
	sel := rank.Selection{
		Counties:    rank.ParseChoice(q["county"]),
		Districts:   rank.ParseChoice(q["district"]),
		APLStatuses: rank.ParseChoice(q["apl"]),
	}
	if raw := q.Get("min_budget"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < dashboard.SliderMin || n > dashboard.SliderMax {
			return rank.Selection{}, false
		}
		sel.MinBudgetMillions = n
	}
	return sel, true
}

// render runs one dashboard pass for the request, writing the error response
// itself when it fails.
func (s *Server) render(w http.ResponseWriter, r *http.Request) (*dashboard.View, bool) {
	sel, ok := parseSelection(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "min_budget must be an integer between 0 and 5000")
		return nil, false
	}
	v, err := s.renderer.Render(r.Context(), sessionFrom(r.Context()), sel)
	if err != nil {
		zap.L().Warn("server: render failed", zap.Error(err))
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return nil, false
	}
	return v, true
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	v, ok := s.render(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	v, ok := s.render(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"degraded":    v.Degraded,
		"rankings":    v.Rankings,
		"budget_bars": v.Charts.BudgetBars,
		"failures":    v.Failures,
	})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	v, ok := s.render(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"degraded":        v.Degraded,
		"summary":         v.Summary,
		"apl_pie":         v.Charts.APLPie,
		"budget_vs_score": v.Charts.Scatter,
	})
}

func (s *Server) handleRelationships(w http.ResponseWriter, r *http.Request) {
	layout, err := graph.ParseLayout(r.URL.Query().Get("layout"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "layout must be flat or hierarchical")
		return
	}
	v, ok := s.render(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, v.Relationships(layout))
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	sel, ok := parseSelection(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "min_budget must be an integer between 0 and 5000")
		return
	}
	writeJSON(w, http.StatusOK, s.renderer.Filters(r.Context(), sel))
}
