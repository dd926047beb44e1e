package serve

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/inkpress/inkpress/internal/logging"
	"github.com/inkpress/inkpress/pkg/interfaces"
)

const (
	reloadPath    = "/__inkpress/reload"
	reloadMessage = "reload"
)

// reloadScript connects back to the dev server and reloads the page whenever
// a rebuild completes.
const reloadScript = `<script>
(function () {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "` + reloadPath + `");
  ws.onmessage = function (ev) {
    if (ev.data === "` + reloadMessage + `") location.reload();
  };
  ws.onclose = function () {
    setTimeout(function () { location.reload(); }, 1000);
  };
})();
</script>`

// ServerConfig configures the development server.
type ServerConfig struct {
	// Addr is the listen address, e.g. "127.0.0.1:8080".
	Addr string
	// OutputDir is the generated site root to serve.
	OutputDir string
	// LiveReload injects the reload script into served HTML pages.
	LiveReload bool
}

// Server serves a generated site over HTTP with optional live reload.
type Server struct {
	cfg    ServerConfig
	logger interfaces.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}

	listener net.Listener
	httpSrv  *http.Server
}

// NewServer builds a dev server over the generated output directory.
func NewServer(cfg ServerConfig, logger interfaces.Logger) (*Server, error) {
	if cfg.OutputDir == "" {
		return nil, errors.New("serve: output directory is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8080"
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Server{
		cfg:     cfg,
		logger:  logger,
		clients: map[*websocket.Conn]struct{}{},
	}, nil
}

// Addr reports the bound address once the server is listening.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Addr
}

// Run listens and serves until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("serve: listen %s: %w", s.cfg.Addr, err)
	}
	s.listener = listener

	mux := http.NewServeMux()
	if s.cfg.LiveReload {
		mux.HandleFunc(reloadPath, s.handleReload)
	}
	mux.HandleFunc("/", s.handleSite)

	s.httpSrv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.Serve(listener)
	}()
	s.logger.Info("serving site", "addr", s.Addr(), "dir", s.cfg.OutputDir)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.closeClients()
		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("serve: shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// NotifyReload tells all connected browsers to refresh.
func (s *Server) NotifyReload(ctx context.Context) {
	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		writeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := conn.Write(writeCtx, websocket.MessageText, []byte(reloadMessage)); err != nil {
			s.logger.Debug("reload write failed", "error", err)
			s.dropClient(conn)
		}
		cancel()
	}
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket accept failed", "error", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	// Hold the connection open until the client goes away.
	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			break
		}
	}
	s.dropClient(conn)
}

func (s *Server) dropClient(conn *websocket.Conn) {
	s.mu.Lock()
	if _, ok := s.clients[conn]; ok {
		delete(s.clients, conn)
		conn.Close(websocket.StatusNormalClosure, "")
	}
	s.mu.Unlock()
}

func (s *Server) closeClients() {
	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		conns = append(conns, conn)
	}
	s.clients = map[*websocket.Conn]struct{}{}
	s.mu.Unlock()

	for _, conn := range conns {
		conn.Close(websocket.StatusNormalClosure, "server shutting down")
	}
}

func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	target, err := s.resolveFile(r.URL.Path)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if s.cfg.LiveReload && strings.HasSuffix(target, ".html") {
		s.serveInjected(w, r, target)
		return
	}
	http.ServeFile(w, r, target)
}

// resolveFile maps a request path onto the output tree, applying the same
// directory index convention the generator writes.
func (s *Server) resolveFile(urlPath string) (string, error) {
	clean := path.Clean("/" + urlPath)
	target := filepath.Join(s.cfg.OutputDir, filepath.FromSlash(clean))

	info, err := os.Stat(target)
	if err == nil && info.IsDir() {
		target = filepath.Join(target, "index.html")
		info, err = os.Stat(target)
	}
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", errors.New("serve: directory without index")
	}
	return target, nil
}

func (s *Server) serveInjected(w http.ResponseWriter, r *http.Request, target string) {
	page, err := os.ReadFile(target)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(injectReloadScript(page))
}

// injectReloadScript places the live-reload script before </body>, falling
// back to appending when the page has no closing body tag.
func injectReloadScript(page []byte) []byte {
	marker := []byte("</body>")
	idx := bytes.LastIndex(page, marker)
	if idx < 0 {
		return append(page, []byte(reloadScript)...)
	}
	out := make([]byte, 0, len(page)+len(reloadScript))
	out = append(out, page[:idx]...)
	out = append(out, []byte(reloadScript)...)
	out = append(out, page[idx:]...)
	return out
}
