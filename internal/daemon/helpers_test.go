package daemon

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"nriassist/internal/logging"
	"nriassist/internal/testsupport"
	"nriassist/internal/workflow"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingPublisher struct {
	mu      sync.Mutex
	changes []workflow.Change
	err     error

	// holdID stalls Publish for one application until hold is closed;
	// held is closed once the stalled call has started.
	holdID string
	hold   chan struct{}
	held   chan struct{}
}

func (p *recordingPublisher) Publish(ctx context.Context, change workflow.Change, _ time.Time) error {
	if p.holdID != "" && change.Application.ID == p.holdID {
		close(p.held)
		select {
		case <-p.hold:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.changes = append(p.changes, change)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []workflow.Change {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]workflow.Change(nil), p.changes...)
}

var errPublish = errors.New("broker unavailable")

type testDaemon struct {
	*Daemon
	backends  *testsupport.Backends
	publisher *recordingPublisher
}

func newTestDaemon(t *testing.T, opts ...testsupport.ConfigOption) *testDaemon {
	t.Helper()
	backends := testsupport.StubBackends(t)
	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithBackends(backends)}, opts...)...)

	deps, err := OpenDependencies(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("OpenDependencies: %v", err)
	}
	publisher := &recordingPublisher{}
	deps.Publisher = publisher

	d, err := New(cfg, logging.NewNop(), deps)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		_ = d.Close()
	})
	return &testDaemon{Daemon: d, backends: backends, publisher: publisher}
}
