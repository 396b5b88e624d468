package workflow

import (
	"fmt"
	"strings"
	"sync"

	"nriassist/internal/catalog"
	"nriassist/internal/services"
)

// Engine validates and applies status transitions over an ordered
// application collection.
type Engine struct {
	catalog *catalog.Catalog

	mu    sync.RWMutex
	apps  []Application
	index map[string]int
}

// NewEngine builds an engine over a copy of apps. A nil catalog selects
// catalog.Default. Duplicate ids keep their first occurrence.
func NewEngine(cat *catalog.Catalog, apps []Application) *Engine {
	if cat == nil {
		cat = catalog.Default()
	}
	e := &Engine{
		catalog: cat,
		apps:    make([]Application, 0, len(apps)),
		index:   make(map[string]int, len(apps)),
	}
	for _, app := range apps {
		id := strings.TrimSpace(app.ID)
		if id == "" {
			continue
		}
		if _, dup := e.index[id]; dup {
			continue
		}
		app.ID = id
		e.index[id] = len(e.apps)
		e.apps = append(e.apps, app)
	}
	return e
}

// Catalog returns the catalog the engine was built with.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Len reports the number of applications.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.apps)
}

// List returns every application in collection order.
func (e *Engine) List() []Application {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Application, len(e.apps))
	copy(out, e.apps)
	return out
}

// Get returns the application with id.
func (e *Engine) Get(id string) (Application, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	idx, ok := e.index[strings.TrimSpace(id)]
	if !ok {
		return Application{}, false
	}
	return e.apps[idx], true
}

// Plan validates a transition without applying it.
func (e *Engine) Plan(id string, role catalog.Role) (Change, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, change, err := e.planLocked(id, role)
	return change, err
}

// Transition moves the application to the role's next status. It fails with
// ErrNotFound for unknown ids and ErrInvalidTransition when the application
// is not in the role's filter status. Only Status changes.
func (e *Engine) Transition(id string, role catalog.Role) (Application, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx, change, err := e.planLocked(id, role)
	if err != nil {
		return Application{}, err
	}
	e.apps[idx].Status = change.To
	return e.apps[idx], nil
}

func (e *Engine) planLocked(id string, role catalog.Role) (int, Change, error) {
	id = strings.TrimSpace(id)
	idx, ok := e.index[id]
	if !ok {
		return -1, Change{}, services.Wrap(services.ErrNotFound, "workflow", "transition", fmt.Sprintf("application %q", id), nil)
	}
	app := e.apps[idx]
	cfg := e.catalog.Config(role)
	if !cfg.Actionable() || app.Status != cfg.FilterStatus {
		return -1, Change{}, services.Wrap(
			services.ErrInvalidTransition,
			"workflow",
			"transition",
			fmt.Sprintf("role %q cannot act on application %s in status %q", role, id, app.Status),
			nil,
		)
	}
	return idx, Change{
		Application: app,
		Role:        role,
		From:        app.Status,
		To:          cfg.NextStatus,
	}, nil
}

// Inbox returns the applications in the role's filter status, in collection
// order. Roles without a stage config have an empty inbox.
func (e *Engine) Inbox(role catalog.Role) []Application {
	cfg := e.catalog.Config(role)
	if !cfg.Actionable() {
		return nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []Application
	for _, app := range e.apps {
		if app.Status == cfg.FilterStatus {
			out = append(out, app)
		}
	}
	return out
}

// ProgressPosition returns the catalog ordinal of the application's status,
// falling back to 1 for statuses outside the catalog.
func (e *Engine) ProgressPosition(app Application) int {
	return e.catalog.Ordinal(app.Status)
}
