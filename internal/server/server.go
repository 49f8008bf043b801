// Package server provides a local preview server for a built site. It
// serves the output directory over HTTP and pushes live-reload messages
// to connected browsers when the site is regenerated.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/conneroisu/sitemapgen/internal/config"
	"github.com/conneroisu/sitemapgen/internal/logging"
)

// Client represents a connected live-reload browser.
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	server *PreviewServer
}

// PreviewServer serves the output directory with live reload capability.
type PreviewServer struct {
	config     *config.Config
	logger     logging.Logger
	httpServer *http.Server
	serverMu   sync.RWMutex

	clients      map[*websocket.Conn]*Client
	clientsMutex sync.RWMutex
	broadcast    chan []byte
	register     chan *Client
	unregister   chan *websocket.Conn

	shutdownOnce sync.Once
}

// ReloadMessage is pushed to connected browsers after a regeneration.
type ReloadMessage struct {
	Type      string    `json:"type"`
	Paths     []string  `json:"paths,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates a preview server over the configured output directory.
func New(cfg *config.Config, logger logging.Logger) *PreviewServer {
	return &PreviewServer{
		config:     cfg,
		logger:     logger.WithComponent("server"),
		clients:    make(map[*websocket.Conn]*Client),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
	}
}

// Start runs the HTTP server until ctx is canceled or the listener fails.
func (s *PreviewServer) Start(ctx context.Context) error {
	go s.runHub(ctx)

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.serverMu.Lock()
	s.httpServer = srv
	s.serverMu.Unlock()

	s.logger.Info(ctx, "preview server listening",
		"addr", addr,
		"dir", s.config.Output.Dir,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("preview server: %w", err)
	}
}

// Shutdown gracefully stops the HTTP server and closes all clients.
func (s *PreviewServer) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.serverMu.RLock()
		srv := s.httpServer
		s.serverMu.RUnlock()

		s.clientsMutex.Lock()
		for conn := range s.clients {
			conn.Close(websocket.StatusGoingAway, "server shutting down")
		}
		s.clients = make(map[*websocket.Conn]*Client)
		s.clientsMutex.Unlock()

		if srv != nil {
			err = srv.Shutdown(ctx)
		}
	})
	return err
}

// NotifyReload broadcasts a reload message for the given changed paths.
func (s *PreviewServer) NotifyReload(ctx context.Context, paths []string) {
	payload, err := json.Marshal(ReloadMessage{
		Type:      "reload",
		Paths:     paths,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn(ctx, err, "cannot marshal reload message")
		return
	}

	select {
	case s.broadcast <- payload:
	default:
		s.logger.Debug(ctx, "broadcast channel full, dropping reload message")
	}
}

func (s *PreviewServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/", s.handleSite)
	return mux
}

func (s *PreviewServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	s.clientsMutex.RLock()
	connected := len(s.clients)
	s.clientsMutex.RUnlock()

	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"clients": connected,
	})
}

// handleSite serves files out of the output directory. HTML responses get
// the live-reload script appended so the browser refreshes on rebuild.
func (s *PreviewServer) handleSite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path, ok := s.resolveFile(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if !isHTMLFile(path) {
		http.ServeFile(w, r, path)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn(r.Context(), err, "cannot read page", "path", path)
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(injectReloadScript(data))
}

// resolveFile maps a request path to a file inside the output directory,
// rejecting anything that escapes it. Directory requests fall back to
// their index.html.
func (s *PreviewServer) resolveFile(requestPath string) (string, bool) {
	cleaned := filepath.Clean("/" + requestPath)

	root, err := filepath.Abs(s.config.Output.Dir)
	if err != nil {
		return "", false
	}

	full := filepath.Join(root, filepath.FromSlash(cleaned))
	if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", false
	}

	info, err := os.Stat(full)
	if err == nil && info.IsDir() {
		full = filepath.Join(full, "index.html")
		info, err = os.Stat(full)
	}
	if err != nil || info.IsDir() {
		return "", false
	}

	return full, true
}

func isHTMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".html" || ext == ".htm"
}

const reloadScript = `<script>
(function() {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var sock = new WebSocket(proto + location.host + "/ws");
  sock.onmessage = function() { location.reload(); };
  sock.onclose = function() { setTimeout(function() { location.reload(); }, 2000); };
})();
</script>`

// injectReloadScript appends the live-reload client before </body>, or at
// the end of the document when no body close tag exists. The tag search is
// case-insensitive on the original bytes; lowering a copy would shift
// offsets on pages with characters whose fold changes byte length.
func injectReloadScript(page []byte) []byte {
	marker := []byte("</body>")
	idx := -1
	for i := len(page) - len(marker); i >= 0; i-- {
		if bytes.EqualFold(page[i:i+len(marker)], marker) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return append(page, []byte(reloadScript)...)
	}

	out := make([]byte, 0, len(page)+len(reloadScript))
	out = append(out, page[:idx]...)
	out = append(out, []byte(reloadScript)...)
	out = append(out, page[idx:]...)
	return out
}
