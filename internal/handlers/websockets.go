package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"solar_eda/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 2 * time.Second
	maxInterval      = time.Minute
	maxIntervalMilli = 60_000

	wsTypeRun   = "run"
	wsTypeEmpty = "empty"
	wsTypeError = "error"
)

// wsEnvelope is the frame sent to stream subscribers.
type wsEnvelope struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	// TODO: restrict origins once the dashboard host is fixed in config.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConnect streams the newest stored run. The first frame is sent at once;
// afterwards a frame goes out only when a newer run appears.
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	ctx := c.Request.Context()
	lastID, err := h.sendLatest(ctx, conn, "", true)
	if err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if lastID, err = h.sendLatest(ctx, conn, lastID, false); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}
	return defaultInterval
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Debugw("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// sendLatest writes the newest run unless its id equals lastID. With force
// set, an empty log or a lookup failure is reported too. It returns the id
// now known to the client.
func (h *Handler) sendLatest(ctx context.Context, conn *websocket.Conn, lastID string, force bool) (string, error) {
	run, err := h.services.RunLog.Latest(ctx)
	var msg wsEnvelope
	switch {
	case errors.Is(err, service.ErrRunNotFound):
		if !force {
			return lastID, nil
		}
		msg = wsEnvelope{Type: wsTypeEmpty}
	case err != nil:
		if h.log != nil {
			h.log.Errorw("ws_latest_run_failed", "err", err)
		}
		if !force {
			return lastID, nil
		}
		msg = wsEnvelope{Type: wsTypeError, Error: "failed to load latest run"}
	case run.ID == lastID:
		return lastID, nil
	default:
		run.Report = run.Report.Compact()
		msg = wsEnvelope{Type: wsTypeRun, Data: run}
		lastID = run.ID
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return lastID, conn.WriteJSON(msg)
}
