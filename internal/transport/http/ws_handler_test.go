package http

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/snakechat-server/internal/config"
	"github.com/vovakirdan/snakechat-server/internal/core"
	"github.com/vovakirdan/snakechat-server/internal/proto"
)

func startTestServer(t *testing.T) (*httptest.Server, context.CancelFunc) {
	t.Helper()

	hub := core.NewHub(
		core.NewRegistry(),
		core.NewMembership(),
		core.NewHistory(100, time.Hour),
		core.NewGate(core.Credentials{"REKT": "s3cret"}),
		nil,
		nil,
	)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	nop := nopLogger()
	server := NewServer(hub, config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
	}, nop)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, cancel
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func readFrame(t *testing.T, ctx context.Context, conn *websocket.Conn) map[string]any {
	t.Helper()

	var frame map[string]any
	if err := wsjson.Read(ctx, conn, &frame); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return frame
}

// readUntil skips frames until one of the given type arrives.
func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, frameType string) map[string]any {
	t.Helper()

	for i := 0; i < 20; i++ {
		frame := readFrame(t, ctx, conn)
		if frame["type"] == frameType {
			return frame
		}
	}
	t.Fatalf("no %q frame received", frameType)
	return nil
}

func TestHealthEndpoint(t *testing.T) {
	ts, cancel := startTestServer(t)
	defer cancel()

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestWebSocketJoinAndChat(t *testing.T) {
	ts, cancel := startTestServer(t)
	defer cancel()

	ctx, closeCtx := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCtx()

	connA := dialWS(t, ctx, ts)
	connB := dialWS(t, ctx, ts)

	_ = wsjson.Write(ctx, connA, map[string]any{"type": proto.InboundTypeUserJoin, "username": "alice"})
	readUntil(t, ctx, connA, proto.OutboundTypeSystem) // own join notice

	_ = wsjson.Write(ctx, connB, map[string]any{"type": proto.InboundTypeUserJoin, "username": "bob"})
	readUntil(t, ctx, connB, proto.OutboundTypeSystem)

	_ = wsjson.Write(ctx, connA, map[string]any{
		"type":    proto.InboundTypeChat,
		"text":    "hi there",
		"channel": core.GlobalChannel,
	})

	frame := readUntil(t, ctx, connB, proto.OutboundTypeChat)
	if frame["username"] != "alice" || frame["text"] != "hi there" || frame["channel"] != core.GlobalChannel {
		t.Fatalf("unexpected chat frame: %+v", frame)
	}
	if _, ok := frame["timestamp"].(string); !ok {
		t.Fatalf("chat frame missing timestamp: %+v", frame)
	}
}

func TestWebSocketMalformedFrameKeepsConnectionOpen(t *testing.T) {
	ts, cancel := startTestServer(t)
	defer cancel()

	ctx, closeCtx := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCtx()

	conn := dialWS(t, ctx, ts)

	if err := conn.Write(ctx, websocket.MessageText, []byte("{not json")); err != nil {
		t.Fatalf("write malformed frame: %v", err)
	}
	frame := readFrame(t, ctx, conn)
	if frame["type"] != proto.OutboundTypeSystem {
		t.Fatalf("expected generic system error, got %+v", frame)
	}

	if err := conn.Write(ctx, websocket.MessageText, []byte(`{"type":"launch-missiles"}`)); err != nil {
		t.Fatalf("write unknown type: %v", err)
	}
	frame = readFrame(t, ctx, conn)
	if frame["type"] != proto.OutboundTypeSystem {
		t.Fatalf("expected generic system error, got %+v", frame)
	}

	// The connection still works.
	_ = wsjson.Write(ctx, conn, map[string]any{"type": proto.InboundTypeUserJoin, "username": "alice"})
	readUntil(t, ctx, conn, proto.OutboundTypeSystem)
}

func TestWebSocketTeamAuthFlow(t *testing.T) {
	ts, cancel := startTestServer(t)
	defer cancel()

	ctx, closeCtx := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCtx()

	conn := dialWS(t, ctx, ts)

	_ = wsjson.Write(ctx, conn, map[string]any{"type": proto.InboundTypeUserJoin, "username": "bob"})
	readUntil(t, ctx, conn, proto.OutboundTypeSystem)

	_ = wsjson.Write(ctx, conn, map[string]any{
		"type":      proto.InboundTypeJoinTeam,
		"teamCode":  "REKT",
		"authorKey": "wrong",
	})
	frame := readUntil(t, ctx, conn, proto.OutboundTypeAuthResponse)
	if frame["success"] != false {
		t.Fatalf("expected auth failure, got %+v", frame)
	}

	_ = wsjson.Write(ctx, conn, map[string]any{
		"type":      proto.InboundTypeJoinTeam,
		"teamCode":  "REKT",
		"authorKey": "s3cret",
	})
	frame = readUntil(t, ctx, conn, proto.OutboundTypeAuthResponse)
	if frame["success"] != true {
		t.Fatalf("expected auth success, got %+v", frame)
	}
	readUntil(t, ctx, conn, proto.OutboundTypeHistory)
}
