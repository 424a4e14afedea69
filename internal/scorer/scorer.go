// Package scorer turns water-district attributes into a 0-100 score, a tier
// and a per-criterion breakdown by asking an LLM to apply a fixed rubric.
package scorer

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/water-intel/internal/config"
	"github.com/sells-group/water-intel/internal/model"
	"github.com/sells-group/water-intel/internal/observability"
	"github.com/sells-group/water-intel/internal/tier"
)

// Config tunes the scorer's outbound behaviour.
type Config struct {
	Timeout           time.Duration
	Concurrency       int
	RequestsPerSecond float64
	CacheTTL          time.Duration
	CacheMaxEntries   int
}

// ConfigFrom converts the application scorer settings.
func ConfigFrom(c config.ScorerConfig) Config {
	return Config{
		Timeout:           time.Duration(c.TimeoutSecs) * time.Second,
		Concurrency:       c.Concurrency,
		RequestsPerSecond: c.RequestsPerSecond,
		CacheTTL:          time.Duration(c.CacheTTLMinutes) * time.Minute,
		CacheMaxEntries:   c.CacheMaxEntries,
	}
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithClock sets the clock used for cache expiry and latency.
func WithClock(c clockwork.Clock) Option {
	return func(s *Scorer) { s.clock = c }
}

// WithMetrics records scoring outcomes on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Scorer) { s.metrics = m }
}

// WithRubric replaces the embedded rubric.
func WithRubric(r *Rubric) Option {
	return func(s *Scorer) { s.rubric = r }
}

// Scorer scores districts through a Provider.
type Scorer struct {
	provider Provider
	rubric   *Rubric
	system   string
	cfg      Config
	limiter  *rate.Limiter
	cache    *scoreCache
	clock    clockwork.Clock
	metrics  *observability.Metrics
}

// New creates a Scorer. Zero config values fall back to a 30s timeout and a
// concurrency of 4.
func New(provider Provider, cfg Config, opts ...Option) (*Scorer, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}

	s := &Scorer{
		provider: provider,
		cfg:      cfg,
		clock:    clockwork.NewRealClock(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.rubric == nil {
		r, err := DefaultRubric()
		if err != nil {
			return nil, err
		}
		s.rubric = r
	}
	s.system = s.rubric.SystemPrompt()

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	s.limiter = rate.NewLimiter(limit, cfg.Concurrency)
	s.cache = newScoreCache(cfg.CacheMaxEntries, cfg.CacheTTL, s.clock)
	return s, nil
}

// ScoreDistrict scores one district. On failure it returns a *Failure and no
// result; a failure is never cached.
func (s *Scorer) ScoreDistrict(ctx context.Context, attrs model.DistrictAttributes) (*model.ScoreResult, error) {
	attrs = attrs.WithDefaults()
	log := zap.L().With(zap.String("district", attrs.Name), zap.String("provider", s.provider.Name()))

	key := cacheKey(s.provider.Model(), attrs)
	if res, ok := s.cache.get(key); ok {
		s.observeCache("hit")
		return &res, nil
	}
	s.observeCache("miss")
	s.cache.evictStale(attrs.Name, key)

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, s.fail(log, attrs.Name, ReasonRateLimited, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := s.clock.Now()
	text, err := s.provider.Complete(callCtx, s.system, buildPrompt(attrs), attrs.Name)
	if s.metrics != nil {
		s.metrics.ScoreDuration.WithLabelValues(s.provider.Name()).Observe(s.clock.Since(start).Seconds())
	}
	if err != nil {
		reason := classifyCallError(err)
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			reason = ReasonTimeout
		}
		return nil, s.fail(log, attrs.Name, reason, err)
	}

	parsed, reason, err := parseReply(text)
	if err != nil {
		return nil, s.fail(log, attrs.Name, reason, err)
	}

	t := tier.FromScore(parsed.Score)
	if parsed.ProviderTier != 0 && parsed.ProviderTier != t {
		log.Warn("scorer: provider tier disagrees with score, using canonical tier",
			zap.Float64("score", parsed.Score),
			zap.Int("provider_tier", parsed.ProviderTier),
			zap.Int("tier", t),
		)
	}

	res := model.ScoreResult{Score: parsed.Score, Tier: t, Breakdown: parsed.Breakdown}
	s.cache.put(key, attrs.Name, res)
	s.observeOutcome("success")
	log.Debug("scorer: district scored", zap.Float64("score", res.Score), zap.Int("tier", res.Tier))
	return &res, nil
}

// Invalidate drops any cached score for the named district.
func (s *Scorer) Invalidate(district string) {
	s.cache.invalidate(district)
}

// Batch is the outcome of scoring a set of districts. Results are keyed by
// district name; districts that failed appear only in Failures.
type Batch struct {
	Results  map[string]model.ScoreResult
	Failures []*Failure
}

// ScoreAll scores every district through a bounded worker pool. A failing
// district never stops the others. Districts sharing a name are scored once.
func (s *Scorer) ScoreAll(ctx context.Context, districts []model.WaterDistrict) *Batch {
	batch := &Batch{Results: make(map[string]model.ScoreResult, len(districts))}

	seen := make(map[string]bool, len(districts))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for _, d := range districts {
		if d.Name == "" || seen[d.Name] {
			continue
		}
		seen[d.Name] = true

		attrs := d.Attributes()
		g.Go(func() error {
			res, err := s.ScoreDistrict(gctx, attrs)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				f, ok := AsFailure(err)
				if !ok {
					f = &Failure{Reason: ReasonTransport, District: attrs.Name, Err: err}
				}
				batch.Failures = append(batch.Failures, f)
				return nil
			}
			batch.Results[attrs.Name] = *res
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(batch.Failures, func(i, j int) bool {
		return batch.Failures[i].District < batch.Failures[j].District
	})

	zap.L().Info("scorer: batch complete",
		zap.Int("districts", len(seen)),
		zap.Int("scored", len(batch.Results)),
		zap.Int("failed", len(batch.Failures)),
	)
	return batch
}

func (s *Scorer) fail(log *zap.Logger, district string, reason Reason, err error) *Failure {
	f := &Failure{Reason: reason, District: district, Err: err}
	s.observeOutcome(string(reason))
	log.Warn("scorer: district not scored",
		zap.String("reason", string(reason)),
		zap.Bool("transient", f.Transient()),
		zap.Error(err),
	)
	return f
}

func (s *Scorer) observeCache(result string) {
	if s.metrics != nil {
		s.metrics.ScoreCache.WithLabelValues(result).Inc()
	}
}

func (s *Scorer) observeOutcome(outcome string) {
	if s.metrics != nil {
		s.metrics.ScoreRequests.WithLabelValues(s.provider.Name(), outcome).Inc()
	}
}
