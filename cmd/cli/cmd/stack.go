package cmd

import (
	"strings"
	"time"

	"eurobase/adapters/bulk"
	"eurobase/adapters/cache"
	"eurobase/adapters/estat"
	"eurobase/core/engine"
	"eurobase/core/types"
	"eurobase/internal/config"
	"eurobase/internal/errors"
)

// buildProvider wires the bulk metadata provider, behind the page cache
// when enabled. The returned closer is nil when no cache is open.
func buildProvider(cfg *config.Config) (*bulk.Provider, func() error, error) {
	timeout := time.Duration(cfg.Service.TimeoutSeconds) * time.Second
	var fetcher bulk.Fetcher = bulk.NewHTTPFetcher(timeout)

	var closer func() error
	if cfg.Cache.Enabled {
		store, err := cache.Open(cfg.Cache.Path, time.Duration(cfg.Cache.ExpireSeconds)*time.Second)
		if err != nil {
			return nil, nil, err
		}
		fetcher = cache.NewCachingFetcher(store, fetcher)
		closer = store.Close
	}

	return bulk.NewProvider(cfg.Bulk, cfg.Service.Language, fetcher), closer, nil
}

// buildEngine wires the full fetch stack from configuration
func buildEngine(cfg *config.Config, allowPartial bool) (*engine.Engine, func() error, error) {
	provider, closer, err := buildProvider(cfg)
	if err != nil {
		return nil, nil, err
	}
	client := estat.NewClient(cfg.Service)
	eng := engine.New(client, provider, engine.Options{
		Quota:        cfg.Service.Quota,
		Concurrency:  cfg.Service.Concurrency,
		AllowPartial: allowPartial,
	})
	return eng, closer, nil
}

// parseSelection turns "dim=code1,code2" arguments into a selection
func parseSelection(args []string) (types.Selection, error) {
	sel := make(types.Selection, len(args))
	for _, arg := range args {
		name, codes, ok := strings.Cut(arg, "=")
		if !ok || name == "" || codes == "" {
			return nil, errors.Newf(errors.TypeConfig,
				"bad filter %q, want dimension=code1,code2", arg)
		}
		var list []string
		for _, code := range strings.Split(codes, ",") {
			code = strings.TrimSpace(code)
			if code != "" {
				list = append(list, code)
			}
		}
		if len(list) == 0 {
			return nil, errors.Newf(errors.TypeConfig, "filter %q selects no codes", arg)
		}
		sel[name] = list
	}
	return sel, nil
}
