package daemonctl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"nriassist/internal/api"
	"nriassist/internal/appstore"
	"nriassist/internal/catalog"
	"nriassist/internal/config"
	"nriassist/internal/ipc"
	"nriassist/internal/preflight"
	"nriassist/internal/workflow"
)

// StatusLine is one labelled line of the status report.
type StatusLine struct {
	Label    string `json:"label"`
	Severity string `json:"severity"`
	Detail   string `json:"detail"`
}

// StatusSnapshot combines live daemon status with offline fallbacks.
type StatusSnapshot struct {
	Daemon       api.DaemonStatus `json:"daemon"`
	SystemChecks []StatusLine     `json:"systemChecks"`
	Backends     []StatusLine     `json:"backends"`
	StatusCounts map[string]int   `json:"statusCounts"`
}

// BuildStatusSnapshot collects daemon status. When the daemon is not running
// the counts come from the application store (or the demo data) and the
// preflight checks run locally.
func BuildStatusSnapshot(ctx context.Context, socketPath string, cfg *config.Config) (*StatusSnapshot, error) {
	if cfg == nil {
		return nil, errors.New("configuration not available")
	}
	snapshot := &StatusSnapshot{}

	client, err := ipc.Dial(socketPath)
	if err == nil {
		defer client.Close()
		if resp, statusErr := client.Status(); statusErr == nil && resp != nil {
			snapshot.Daemon = *resp
		}
	}

	checks := snapshot.Daemon.Checks
	if !snapshot.Daemon.Running {
		queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		snapshot.StatusCounts = offlineCounts(queryCtx, cfg)
		checks = api.FromPreflight(preflight.RunAll(queryCtx, cfg))
	} else {
		snapshot.StatusCounts = snapshot.Daemon.StatusCounts
	}

	snapshot.SystemChecks = BuildSystemChecks(cfg, snapshot.Daemon)
	snapshot.Backends = BuildCheckLines(checks)
	return snapshot, nil
}

func offlineCounts(ctx context.Context, cfg *config.Config) map[string]int {
	apps := workflow.SeedApplications()
	if cfg.Store.Enabled {
		if _, err := os.Stat(cfg.Store.Path); err == nil {
			store, openErr := appstore.OpenPath(cfg.Store.Path)
			if openErr == nil {
				if listed, listErr := store.List(ctx); listErr == nil {
					apps = listed
				}
				_ = store.Close()
			}
		}
	}
	engine := workflow.NewEngine(catalog.Default(), apps)
	return api.FromCounts(engine.Counts())
}

// BuildSystemChecks resolves status lines that combine runtime state and config.
func BuildSystemChecks(cfg *config.Config, status api.DaemonStatus) []StatusLine {
	lines := make([]StatusLine, 0, 5)
	if status.Running {
		lines = append(lines, StatusLine{Label: "NRI Assist", Severity: "ok", Detail: fmt.Sprintf("Running (pid %d)", status.PID)})
		if status.APIBind != "" {
			lines = append(lines, StatusLine{Label: "HTTP API", Severity: "ok", Detail: status.APIBind})
		}
		lines = append(lines, StatusLine{Label: "Sessions", Severity: "info", Detail: strconv.Itoa(status.Sessions) + " active"})
	} else {
		lines = append(lines, StatusLine{Label: "NRI Assist", Severity: "warn", Detail: "Not running (run `nriassist start`)"})
	}

	if cfg.Store.Enabled {
		lines = append(lines, StatusLine{Label: "Store", Severity: "ok", Detail: cfg.Store.Path})
	} else {
		lines = append(lines, StatusLine{Label: "Store", Severity: "info", Detail: "Disabled (demo data in memory)"})
	}

	if cfg.Events.Enabled {
		lines = append(lines, StatusLine{Label: "Events", Severity: "ok", Detail: fmt.Sprintf("%s via %s", cfg.Events.Topic, strings.Join(cfg.Events.Brokers, ","))})
	} else {
		lines = append(lines, StatusLine{Label: "Events", Severity: "info", Detail: "Disabled"})
	}
	return lines
}

// BuildCheckLines converts preflight results to status lines.
func BuildCheckLines(checks []api.CheckResult) []StatusLine {
	lines := make([]StatusLine, 0, len(checks))
	for _, check := range checks {
		severity := "error"
		if check.Passed {
			severity = "ok"
		}
		lines = append(lines, StatusLine{Label: check.Name, Severity: severity, Detail: check.Detail})
	}
	return lines
}
