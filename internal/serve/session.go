package serve

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/inkpress/inkpress/internal/logging"
	"github.com/inkpress/inkpress/pkg/interfaces"
)

// Rebuilder regenerates the site after source changes. The dev session calls
// it once up front and again after each debounced change batch.
type Rebuilder interface {
	Rebuild(ctx context.Context) error
}

// RebuildFunc adapts a function to the Rebuilder interface.
type RebuildFunc func(ctx context.Context) error

func (f RebuildFunc) Rebuild(ctx context.Context) error { return f(ctx) }

// SessionConfig configures a watch-and-serve session.
type SessionConfig struct {
	Server  ServerConfig
	Watcher WatcherConfig
}

// Session runs the dev server and the filesystem watcher together, rebuilding
// and notifying connected browsers when sources change.
type Session struct {
	server    *Server
	watcher   *Watcher
	rebuilder Rebuilder
	logger    interfaces.Logger

	changes chan []string
}

// NewSession wires a server, a watcher, and a rebuilder into one session.
func NewSession(cfg SessionConfig, rebuilder Rebuilder, logger interfaces.Logger) (*Session, error) {
	if rebuilder == nil {
		return nil, errors.New("serve: rebuilder is required")
	}
	if logger == nil {
		logger = logging.NoOp()
	}

	server, err := NewServer(cfg.Server, logger)
	if err != nil {
		return nil, err
	}

	session := &Session{
		server:    server,
		rebuilder: rebuilder,
		logger:    logger,
		changes:   make(chan []string, 1),
	}

	watcher, err := NewWatcher(cfg.Watcher, logger, session.enqueue)
	if err != nil {
		return nil, err
	}
	session.watcher = watcher
	return session, nil
}

// Addr reports the server's bound address.
func (s *Session) Addr() string { return s.server.Addr() }

func (s *Session) enqueue(batch []string) {
	// A batch already waiting covers the same rebuild; drop the new one.
	select {
	case s.changes <- batch:
	default:
	}
}

// Run performs an initial build, then serves and watches until the context is
// cancelled.
func (s *Session) Run(ctx context.Context) error {
	if err := s.rebuilder.Rebuild(ctx); err != nil {
		return err
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error { return s.server.Run(ctx) })
	group.Go(func() error { return s.watcher.Run(ctx) })
	group.Go(func() error { return s.rebuildLoop(ctx) })

	err := group.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Session) rebuildLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case batch := <-s.changes:
			start := time.Now()
			if err := s.rebuilder.Rebuild(ctx); err != nil {
				// A broken edit should not kill the session; the next save
				// gets another chance.
				s.logger.Error("rebuild failed", "error", err)
				continue
			}
			s.logger.Info("rebuilt after change",
				"files", len(batch),
				"duration", time.Since(start).Round(time.Millisecond),
			)
			s.server.NotifyReload(ctx)
		}
	}
}
