package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"nriassist/internal/api"
	"nriassist/internal/appstore"
	"nriassist/internal/assistant"
	"nriassist/internal/catalog"
	"nriassist/internal/config"
	"nriassist/internal/events"
	"nriassist/internal/logging"
	"nriassist/internal/preflight"
	"nriassist/internal/script"
	"nriassist/internal/search"
	"nriassist/internal/services"
	"nriassist/internal/workflow"
)

// Dependencies are the collaborators a daemon coordinates. Store and
// Publisher are optional.
type Dependencies struct {
	Engine    *workflow.Engine
	Store     *appstore.Store
	Publisher events.Publisher
	Sessions  *assistant.Manager
	Script    *script.Script
}

// Daemon coordinates the workflow engine, assistant sessions, and the HTTP
// API, and enforces single-instance execution.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	engine    *workflow.Engine
	store     *appstore.Store
	publisher events.Publisher
	sessions  *assistant.Manager
	script    *script.Script
	workflow  *api.WorkflowService
	api       *apiServer
	now       func() time.Time

	lockPath string
	lock     *flock.Flock

	advanceMu sync.Mutex

	checksMu sync.RWMutex
	checks   []preflight.Result

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, logger *slog.Logger, deps Dependencies) (*Daemon, error) {
	if cfg == nil || deps.Engine == nil || deps.Sessions == nil {
		return nil, errors.New("daemon requires config, workflow engine, and session manager")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NopPublisher{}
	}
	if deps.Script == nil {
		deps.Script = script.Default()
	}

	lockPath := cfg.LockPath()
	d := &Daemon{
		cfg:       cfg,
		logger:    logging.ForComponent(logger, "daemon", cfg.Logging.ComponentLevels),
		engine:    deps.Engine,
		store:     deps.Store,
		publisher: deps.Publisher,
		sessions:  deps.Sessions,
		script:    deps.Script,
		now:       time.Now,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}
	var history api.HistoryReader
	if deps.Store != nil {
		history = deps.Store
	}
	d.workflow = api.NewWorkflowService(deps.Engine, history)
	d.api = newAPIServer(cfg, d, logging.ForComponent(logger, "api-server", cfg.Logging.ComponentLevels))
	return d, nil
}

// Start acquires the daemon lock.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another nriassist daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	d.running.Store(true)
	d.logger.Info("nriassist daemon started",
		logging.String("lock", d.lockPath),
		logging.Int("applications", d.engine.Len()),
		logging.Bool("store", d.store != nil),
	)
	return nil
}

// Run starts the daemon and blocks serving the HTTP API and the session
// sweeper until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.Start(ctx); err != nil {
		return err
	}
	defer d.Stop()

	g, gctx := errgroup.WithContext(d.ctx)
	if d.api != nil {
		g.Go(func() error {
			return d.api.serve(gctx)
		})
	}
	g.Go(func() error {
		d.sweepLoop(gctx)
		return nil
	})
	return g.Wait()
}

// Stop releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("nriassist daemon stopped")
}

// Close stops the daemon and releases the publisher and store.
func (d *Daemon) Close() error {
	d.Stop()
	var errs []error
	if d.publisher != nil {
		if err := d.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Workflow returns the read-only workflow service.
func (d *Daemon) Workflow() *api.WorkflowService {
	return d.workflow
}

// Sessions returns the assistant session manager.
func (d *Daemon) Sessions() *assistant.Manager {
	return d.sessions
}

// SetChecks records the latest preflight results for Status.
func (d *Daemon) SetChecks(results []preflight.Result) {
	d.checksMu.Lock()
	d.checks = append([]preflight.Result(nil), results...)
	d.checksMu.Unlock()
}

// Advance moves an application forward on behalf of roleName. The change is
// planned, persisted when a store is configured, applied in memory, and
// published. Publishing failures are logged and never undo the transition.
func (d *Daemon) Advance(ctx context.Context, id, roleName string) (api.TransitionResponse, error) {
	role, err := api.ParseRole(roleName)
	if err != nil {
		return api.TransitionResponse{}, err
	}
	ctx = services.WithRole(services.WithApplicationID(ctx, id), string(role))
	logger := logging.WithContext(ctx, d.logger)

	change, updated, err := d.applyTransition(ctx, logger, id, role)
	if err != nil {
		return api.TransitionResponse{}, err
	}
	logger.Info("application advanced",
		logging.String("from", string(change.From)),
		logging.String("to", string(change.To)),
	)

	if err := d.publisher.Publish(ctx, change, d.now()); err != nil {
		logging.WarnWithContext(logger, "transition event not published", "transition_publish_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check kafka brokers and topic"),
			logging.String(logging.FieldImpact, "downstream consumers miss this transition"),
		)
	}

	return api.TransitionResponse{
		Application: api.FromApplication(d.engine.Catalog(), updated),
		From:        string(change.From),
		To:          string(change.To),
	}, nil
}

// applyTransition plans, persists and applies one transition under
// advanceMu. Publishing happens after the lock is released.
func (d *Daemon) applyTransition(ctx context.Context, logger *slog.Logger, id string, role catalog.Role) (workflow.Change, workflow.Application, error) {
	d.advanceMu.Lock()
	defer d.advanceMu.Unlock()

	change, err := d.engine.Plan(id, role)
	if err != nil {
		logger.Info("transition rejected", logging.String("reason", services.Kind(err)))
		return workflow.Change{}, workflow.Application{}, err
	}
	if d.store != nil {
		if err := d.store.UpdateStatus(ctx, change); err != nil {
			logging.ErrorWithContext(logger, "transition not persisted", "transition_persist_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the application store database"),
			)
			return workflow.Change{}, workflow.Application{}, err
		}
	}
	updated, err := d.engine.Transition(id, role)
	if err != nil {
		return workflow.Change{}, workflow.Application{}, err
	}
	return change, updated, nil
}

// Search ranks the guide script against query. Empty threshold or scorer
// values fall back to the configured defaults.
func (d *Daemon) Search(query string, threshold float64, scorerName string) (api.SearchResponse, error) {
	if threshold == 0 {
		threshold = d.cfg.Search.Threshold
	}
	if threshold <= 0 || threshold > 1 {
		return api.SearchResponse{}, services.Wrap(services.ErrValidation, "daemon", "search", fmt.Sprintf("threshold %v out of range (0, 1]", threshold), nil)
	}
	if scorerName == "" {
		scorerName = d.cfg.Search.Scorer
	}
	scorer, err := search.ParseScorer(scorerName)
	if err != nil {
		return api.SearchResponse{}, services.Wrap(services.ErrValidation, "daemon", "search", "", err)
	}
	index := search.Build(d.script.List(), nil, nil, search.WithThreshold(threshold), search.WithScorer(scorer))
	results := index.Search(query)
	if limit := d.cfg.Search.MaxResults; limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return api.SearchResponse{
		Query:     query,
		Threshold: threshold,
		Scorer:    scorer.Name(),
		Results:   api.FromSearchResults(results, 80),
	}, nil
}

// Status returns the current daemon status.
func (d *Daemon) Status() api.DaemonStatus {
	d.checksMu.RLock()
	checks := api.FromPreflight(d.checks)
	d.checksMu.RUnlock()

	status := api.DaemonStatus{
		Running:       d.running.Load(),
		PID:           os.Getpid(),
		LockFilePath:  d.lockPath,
		SocketPath:    d.cfg.Paths.SocketPath,
		APIBind:       d.cfg.API.Bind,
		StoreEnabled:  d.store != nil,
		EventsEnabled: d.cfg.Events.Enabled,
		Applications:  d.engine.Len(),
		StatusCounts:  d.workflow.StatusCounts(),
		Sessions:      d.sessions.Len(),
		Checks:        checks,
	}
	if d.store != nil {
		status.StorePath = d.store.Path()
	}
	return status
}

// SweepSessions expires sessions idle past the configured limit.
func (d *Daemon) SweepSessions() int {
	idle := time.Duration(d.cfg.Sessions.IdleMinutes) * time.Minute
	if idle <= 0 {
		return 0
	}
	removed := d.sessions.Sweep(idle)
	if removed > 0 {
		d.logger.Info("idle sessions expired", logging.Int("count", removed))
	}
	return removed
}

func (d *Daemon) sweepLoop(ctx context.Context) {
	interval := time.Duration(d.cfg.Sessions.SweepIntervalSeconds) * time.Second
	if interval <= 0 || d.cfg.Sessions.IdleMinutes <= 0 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.SweepSessions()
		}
	}
}
