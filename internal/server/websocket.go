package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed between reads before the connection is considered dead.
	readWait = 60 * time.Second

	// Ping cadence. Must be less than readWait.
	pingPeriod = (readWait * 9) / 10

	// Browsers never need to send us anything substantial.
	maxMessageSize = 512
)

func (s *PreviewServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.checkOrigin(r) {
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: false,
	})
	if err != nil {
		s.logger.Warn(r.Context(), err, "websocket upgrade failed")
		return
	}

	client := &Client{
		conn:   conn,
		send:   make(chan []byte, 16),
		server: s,
	}

	go client.writePump()
	go client.readPump()

	s.register <- client
}

// checkOrigin allows same-host origins, localhost variants, and anything
// listed in server.allowed_origins.
func (s *PreviewServer) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if originURL.Scheme != "http" && originURL.Scheme != "https" {
		return false
	}

	allowed := []string{
		fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port),
		fmt.Sprintf("localhost:%d", s.config.Server.Port),
		fmt.Sprintf("127.0.0.1:%d", s.config.Server.Port),
	}
	allowed = append(allowed, s.config.Server.AllowedOrigins...)

	for _, host := range allowed {
		if originURL.Host == host {
			return true
		}
	}
	return false
}

// runHub owns the client set: registrations, departures, and broadcast
// fan-out all happen here.
func (s *PreviewServer) runHub(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-s.register:
			s.clientsMutex.Lock()
			s.clients[client.conn] = client
			total := len(s.clients)
			s.clientsMutex.Unlock()
			s.logger.Debug(ctx, "reload client connected", "total", total)

		case conn := <-s.unregister:
			s.clientsMutex.Lock()
			if client, ok := s.clients[conn]; ok {
				delete(s.clients, conn)
				close(client.send)
				conn.Close(websocket.StatusNormalClosure, "")
			}
			total := len(s.clients)
			s.clientsMutex.Unlock()
			s.logger.Debug(ctx, "reload client disconnected", "total", total)

		case message := <-s.broadcast:
			s.clientsMutex.RLock()
			var stalled []*websocket.Conn
			for conn, client := range s.clients {
				select {
				case client.send <- message:
				default:
					stalled = append(stalled, conn)
				}
			}
			s.clientsMutex.RUnlock()

			// Drop clients whose send buffer is full outside the read lock.
			if len(stalled) > 0 {
				s.clientsMutex.Lock()
				for _, conn := range stalled {
					if client, ok := s.clients[conn]; ok {
						delete(s.clients, conn)
						close(client.send)
						conn.Close(websocket.StatusNormalClosure, "")
					}
				}
				s.clientsMutex.Unlock()
			}
		}
	}
}

// readPump drains the connection so pings are answered, and unregisters
// the client when the browser goes away.
func (c *Client) readPump() {
	defer func() {
		c.server.unregister <- c.conn
	}()

	c.conn.SetReadLimit(maxMessageSize)

	for {
		ctx, cancel := context.WithTimeout(context.Background(), readWait)
		_, _, err := c.conn.Read(ctx)
		cancel()
		if err != nil {
			return
		}
	}
}

// writePump pushes broadcast messages and keepalive pings to the browser.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
