package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"solar_eda"
	"solar_eda/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil, Options{})

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", defaultInterval},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=2m", defaultInterval},
		{"interval_ms_too_large", "/ws?interval_ms=90000", defaultInterval},
		{"interval_invalid_string", "/ws?interval=bogus", defaultInterval},
		{"both_present_interval_wins", "/ws?interval=5s&interval_ms=150", 5 * time.Second},
		{"invalid_interval_falls_back_to_ms", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, tc.u, nil)
			if got := h.parseInterval(c); got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

type wsFrame struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func dialRunStream(t *testing.T, runs *mockRunLog) *websocket.Conn {
	t.Helper()
	r := newTestRouter(&service.Service{RunLog: runs})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = url.Values{"interval_ms": {"20"}}.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn, wait time.Duration) (wsFrame, error) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(wait))
	var f wsFrame
	err := conn.ReadJSON(&f)
	return f, err
}

func TestWebSocket_StreamsNewRunsOnly(t *testing.T) {
	now := time.Now().UTC()
	first := sampleRun("r1", now)
	second := sampleRun("r2", now.Add(time.Second))
	runs := &mockRunLog{latest: []solar_eda.Run{first, first, first, second}}

	conn := dialRunStream(t, runs)

	f, err := readFrame(t, conn, time.Second)
	if err != nil {
		t.Fatalf("read initial: %v", err)
	}
	var got solar_eda.Run
	if f.Type != wsTypeRun || json.Unmarshal(f.Data, &got) != nil || got.ID != "r1" {
		t.Fatalf("bad initial frame: %+v", f)
	}
	if got.Report.Rows != 5 || len(got.Report.Columns) != 1 {
		t.Fatalf("stream frame should keep per-column counts: %+v", got.Report)
	}

	// Repeated r1 polls are skipped; the next frame is r2.
	f, err = readFrame(t, conn, time.Second)
	if err != nil {
		t.Fatalf("read second: %v", err)
	}
	if f.Type != wsTypeRun || json.Unmarshal(f.Data, &got) != nil || got.ID != "r2" {
		t.Fatalf("expected r2, got %+v", f)
	}

	// Nothing new after that.
	if f, err := readFrame(t, conn, 150*time.Millisecond); err == nil {
		t.Fatalf("unexpected frame: %+v", f)
	}
}

func TestWebSocket_EmptyLogAndErrors(t *testing.T) {
	conn := dialRunStream(t, &mockRunLog{})
	f, err := readFrame(t, conn, time.Second)
	if err != nil || f.Type != wsTypeEmpty {
		t.Fatalf("want empty frame, got %+v err=%v", f, err)
	}

	conn = dialRunStream(t, &mockRunLog{lastErr: errors.New("db down")})
	f, err = readFrame(t, conn, time.Second)
	if err != nil || f.Type != wsTypeError || f.Error == "" {
		t.Fatalf("want error frame, got %+v err=%v", f, err)
	}
}
