package preflight

import (
	"context"
	"path/filepath"

	"nriassist/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if cfg.Store.Enabled {
		results = append(results, CheckDirectoryAccess("Store directory", filepath.Dir(cfg.Store.Path)))
	}
	results = append(results,
		CheckEndpoint(ctx, "Chat backend", cfg.Chat.URL),
		CheckEndpoint(ctx, "Upload backend", cfg.Upload.URL),
	)
	if cfg.Events.Enabled {
		results = append(results, CheckKafka(ctx, cfg.Events.Brokers))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
