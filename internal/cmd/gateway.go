package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/catwhisperingninja/cat-dexscreener/internal/config"
	"github.com/catwhisperingninja/cat-dexscreener/internal/core/engine"
	"github.com/catwhisperingninja/cat-dexscreener/internal/core/store"
)

// buildGateway assembles the limiter, dispatcher, and registry from loaded
// configuration. The returned store is non-nil only when journaling is on;
// the caller owns closing it.
func buildGateway(ctx context.Context) (*engine.Gateway, *store.Store, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	limiter, err := engine.NewRateLimiter(cfg.LimiterClasses())
	if err != nil {
		return nil, nil, fmt.Errorf("configure rate limiter: %w", err)
	}

	timeout := cfg.Gateway.Timeout
	if timeout <= 0 {
		timeout = engine.DefaultTimeout
	}

	dispatcher := &engine.Dispatcher{
		Limiter:     limiter,
		Client:      &http.Client{Timeout: timeout},
		BaseURL:     strings.TrimRight(cfg.Gateway.BaseURL, "/"),
		ToolVersion: versionInfo.Version,
	}

	var db *store.Store
	if cfg.Store.JournalEnabled {
		db, err = store.Open(ctx, cfg.Store)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		dispatcher.Journal = db
	}

	return engine.NewGateway(dispatcher), db, nil
}
