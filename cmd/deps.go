package main

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"

	"github.com/sells-group/water-intel/internal/config"
	"github.com/sells-group/water-intel/internal/observability"
	"github.com/sells-group/water-intel/internal/scorer"
	"github.com/sells-group/water-intel/internal/store"
	"github.com/sells-group/water-intel/pkg/anthropic"
	"github.com/sells-group/water-intel/pkg/gemini"
)

func initStore(ctx context.Context, c *config.Config) (store.Store, error) {
	switch c.Store.Driver {
	case "sqlite":
		dsn := c.Store.DatabaseURL
		if dsn == "" {
			dsn = "water.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, c.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: c.Store.MaxConns,
			MinConns: c.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", c.Store.Driver)
	}
}

func initProvider(ctx context.Context, c *config.Config) (scorer.Provider, error) {
	switch c.Scorer.Provider {
	case "anthropic":
		var opts []option.RequestOption
		if c.Anthropic.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(c.Anthropic.BaseURL))
		}
		client := anthropic.NewClient(c.Anthropic.Key, opts...)
		return scorer.NewAnthropicProvider(client, c.Anthropic.Model, c.Anthropic.MaxTokens, c.Scorer.Temperature), nil
	case "gemini":
		client, err := gemini.NewClient(ctx, c.Gemini.Key)
		if err != nil {
			return nil, err
		}
		return scorer.NewGeminiProvider(client, c.Gemini.Model, c.Scorer.Temperature), nil
	default:
		return nil, eris.Errorf("unsupported scorer provider: %s", c.Scorer.Provider)
	}
}

// initScorer builds the district scorer. m may be nil.
func initScorer(ctx context.Context, c *config.Config, m *observability.Metrics) (*scorer.Scorer, error) {
	provider, err := initProvider(ctx, c)
	if err != nil {
		return nil, eris.Wrap(err, "init scorer provider")
	}
	var opts []scorer.Option
	if m != nil {
		opts = append(opts, scorer.WithMetrics(m))
	}
	return scorer.New(provider, scorer.ConfigFrom(c.Scorer), opts...)
}
