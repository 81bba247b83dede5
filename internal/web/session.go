package web

import (
	"bufio"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/tetris/internal/game"
	"github.com/tomz197/tetris/internal/input"
	"github.com/tomz197/tetris/internal/loop/client"
)

const (
	readLimit    = 1024
	pongWait     = 5 * time.Minute
	pingInterval = time.Minute
	writeWait    = 10 * time.Second
)

// serveGame upgrades the request and runs one game until the peer leaves.
func (h *Handler) serveGame(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Sessions != nil {
		if !h.cfg.Sessions.TryAcquire(1) {
			http.Error(w, "server full", http.StatusServiceUnavailable)
			return
		}
		defer h.cfg.Sessions.Release(1)
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("websocket upgrade", "err", err, "remote", r.RemoteAddr)
		return
	}
	defer conn.Close()

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "web"
	}

	// Key presses arrive as text messages and are fed through the same byte
	// parser the terminal frontends use.
	pr, pw := io.Pipe()
	go readPump(conn, pw)
	defer pr.Close()

	out := newFrameWriter(conn)
	done := make(chan struct{})
	defer close(done)
	go out.pingLoop(done)

	var id string
	opts := client.ClientOptions{Username: name}
	if h.cfg.OnEvent != nil {
		opts.OnEvent = func(e game.Event) { h.cfg.OnEvent(id, e) }
	}
	in := input.StartStream(bufio.NewReader(pr))
	defer in.Stop()
	c := client.NewClient(h.hub, in, out, opts)
	id = c.ID()

	log.Info("web session started", "id", id, "user", name, "remote", r.RemoteAddr)
	err = c.Run(r.Context())
	switch {
	case errors.Is(err, client.ErrSessionClosed):
		log.Info("web session closed by peer", "id", id)
		return
	case err != nil:
		log.Error("web session failed", "id", id, "err", err)
	default:
		log.Info("web session ended", "id", id)
	}
	out.close()
}

// readPump copies text messages into pw until the connection fails.
func readPump(conn *websocket.Conn, pw *io.PipeWriter) {
	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("websocket read", "err", err)
			}
			pw.CloseWithError(io.EOF)
			return
		}
		if _, err := pw.Write(msg); err != nil {
			return
		}
	}
}

// frameWriter sends each changed frame as one text message. It implements
// game.Renderer.
type frameWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
	last string
}

func newFrameWriter(conn *websocket.Conn) *frameWriter {
	return &frameWriter{conn: conn}
}

func (fw *frameWriter) Render(f game.Frame) error {
	text := f.String()

	fw.mu.Lock()
	defer fw.mu.Unlock()
	if text == fw.last {
		return nil
	}
	_ = fw.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := fw.conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		return err
	}
	fw.last = text
	return nil
}

// Invalidate forces the next frame out even if unchanged.
func (fw *frameWriter) Invalidate() {
	fw.mu.Lock()
	fw.last = ""
	fw.mu.Unlock()
}

func (fw *frameWriter) pingLoop(done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := fw.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// close sends a normal close frame.
func (fw *frameWriter) close() {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over")
	_ = fw.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
