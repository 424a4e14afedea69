package dashboard

import (
	"context"
	"errors"
	"sort"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/sells-group/water-intel/internal/auth"
	"github.com/sells-group/water-intel/internal/graph"
	"github.com/sells-group/water-intel/internal/model"
	"github.com/sells-group/water-intel/internal/observability"
	"github.com/sells-group/water-intel/internal/rank"
	"github.com/sells-group/water-intel/internal/scorer"
	"github.com/sells-group/water-intel/internal/store"
	"github.com/sells-group/water-intel/internal/tier"
)

// ErrUnauthenticated is returned when Render gets no signed-in session.
var ErrUnauthenticated = errors.New("dashboard: session is not authenticated")

// DistrictScorer scores every district of a render.
type DistrictScorer interface {
	ScoreAll(ctx context.Context, districts []model.WaterDistrict) *scorer.Batch
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMetrics records render counts and durations.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Renderer) { r.metrics = m }
}

// WithClock overrides the clock used for timestamps and durations.
func WithClock(c clockwork.Clock) Option {
	return func(r *Renderer) { r.clock = c }
}

// Renderer builds dashboard views.
type Renderer struct {
	store   store.Store
	scorer  DistrictScorer
	metrics *observability.Metrics
	clock   clockwork.Clock
}

// NewRenderer creates a Renderer.
func NewRenderer(s store.Store, sc DistrictScorer, opts ...Option) *Renderer {
	r := &Renderer{store: s, scorer: sc, clock: clockwork.NewRealClock()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Render runs one load → score → filter/merge → view pass. Store failures
// yield a degraded view and scoring failures are listed in View.Failures;
// neither is returned as an error.
func (r *Renderer) Render(ctx context.Context, sess *auth.Session, sel rank.Selection) (*View, error) {
	if sess == nil || !sess.Authenticated {
		return nil, ErrUnauthenticated
	}
	start := r.clock.Now()

	loaded := Load(ctx, r.store)
	tables := loaded.Tables

	batch := &scorer.Batch{Results: map[string]model.ScoreResult{}}
	if len(tables.Districts) > 0 {
		batch = r.scorer.ScoreAll(ctx, tables.Districts)
	}

	filtered := rank.ApplyFilters(tables.Cities, sel)
	rows := rank.Merge(filtered, batch.Results)
	rank.SortByScore(rows)
	display := rank.Display(rows)

	v := &View{
		User:        sess.Email,
		Page:        sess.Page,
		GeneratedAt: start,
		Degraded:    loaded.Degraded,
		Notice:      loaded.Notice,
		Selection:   selectionView(sel),
		Filters:     filterOptions(tables.Cities, sel),
		Summary:     summarize(filtered, tables.Districts),
		Rows:        display,
		Rankings:    districtRankings(tables, batch.Results),
		Charts: Charts{
			BudgetBars: budgetBars(tables.Districts),
			APLPie:     aplPie(filtered),
			Scatter:    scatter(display),
		},
		Failures: failureViews(batch.Failures),
		graphInput: graph.Input{
			Counties:  tables.Counties,
			Districts: tables.Districts,
			Cities:    filtered,
		},
	}

	elapsed := r.clock.Since(start)
	if r.metrics != nil {
		r.metrics.Renders.Inc()
		r.metrics.RenderDuration.Observe(elapsed.Seconds())
		if v.Degraded {
			r.metrics.DegradedRenders.Inc()
		}
	}
	zap.L().Info("dashboard: rendered",
		zap.String("user", sess.Email),
		zap.Int("cities", len(display)),
		zap.Int("districts", len(tables.Districts)),
		zap.Int("failures", len(v.Failures)),
		zap.Bool("degraded", v.Degraded),
		zap.Duration("elapsed", elapsed),
	)
	return v, nil
}

// summarize computes the headline metrics. City counts use the filtered
// rows; budget and project totals use every district.
func summarize(filtered []model.CityRecord, districts []model.WaterDistrict) Summary {
	s := Summary{TotalCities: len(filtered)}
	for _, c := range filtered {
		if c.APLStatus == model.APLStatusApproved {
			s.APLApproved++
		}
	}

	var total int64
	for _, d := range districts {
		total += d.Budget
		s.ActiveProjects += d.ProjectActivity
	}
	if len(districts) > 0 {
		s.AvgBudgetValue = float64(total) / float64(len(districts))
	}
	s.AvgBudget = rank.FormatMillions(int64(s.AvgBudgetValue))
	return s
}

func districtRankings(tables model.Tables, scores map[string]model.ScoreResult) []DistrictRanking {
	countyNames := make(map[int64]string, len(tables.Counties))
	for _, c := range tables.Counties {
		countyNames[c.ID] = c.Name
	}

	out := make([]DistrictRanking, 0, len(tables.Districts))
	for _, d := range tables.Districts {
		dr := DistrictRanking{
			Name:            d.Name,
			County:          countyNames[d.CountyID],
			Budget:          rank.FormatMillions(d.Budget),
			BudgetValue:     d.Budget,
			CitiesServed:    d.CitiesServed,
			APLAlignment:    string(d.APLAlignment),
			ProjectActivity: d.ProjectActivity,
			InternalSupport: d.InternalSupport,
			TierColor:       tier.Color(tier.Worst),
		}
		if res, ok := scores[d.Name]; ok {
			score, t := res.Score, res.Tier
			dr.Score = &score
			dr.Tier = &t
			dr.TierColor = tier.Color(t)
			dr.Breakdown = res.Breakdown
		}
		out = append(out, dr)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Score, out[j].Score
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func filterOptions(cities []model.CityRecord, sel rank.Selection) FilterOptions {
	var counties, districts, statuses []string
	seen := map[string]bool{}
	add := func(list *[]string, prefix, v string) {
		if v == "" || seen[prefix+v] {
			return
		}
		seen[prefix+v] = true
		*list = append(*list, v)
	}
	for _, c := range cities {
		add(&counties, "c:", c.CountyName)
		add(&districts, "d:", c.DistrictName())
		add(&statuses, "s:", string(c.APLStatus))
	}
	return FilterOptions{
		Counties:    append([]string{rank.All}, counties...),
		Districts:   append([]string{rank.All}, districts...),
		APLStatuses: append([]string{rank.All}, statuses...),
		MinBudget: BudgetSlider{
			Min:   SliderMin,
			Max:   SliderMax,
			Step:  SliderStep,
			Value: sel.MinBudgetMillions,
		},
	}
}

func selectionView(sel rank.Selection) SelectionView {
	choice := func(c rank.Choice) []string {
		if c.IsAll() {
			return []string{rank.All}
		}
		return c.Values()
	}
	return SelectionView{
		Counties:          choice(sel.Counties),
		Districts:         choice(sel.Districts),
		APLStatuses:       choice(sel.APLStatuses),
		MinBudgetMillions: sel.MinBudgetMillions,
	}
}

func failureViews(failures []*scorer.Failure) []FailureView {
	out := make([]FailureView, 0, len(failures))
	for _, f := range failures {
		out = append(out, FailureView{
			District:  f.District,
			Reason:    string(f.Reason),
			Transient: f.Transient(),
		})
	}
	return out
}

// Filters loads the tables and returns the filter choices alone, without
// scoring anything.
func (r *Renderer) Filters(ctx context.Context, sel rank.Selection) FilterOptions {
	loaded := Load(ctx, r.store)
	return filterOptions(loaded.Tables.Cities, sel)
}
