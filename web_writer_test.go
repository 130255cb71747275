package plots

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	logrustest "github.com/sirupsen/logrus/hooks/test"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// Uses prepare() directly so the test controls the server lifecycle, the
// same handlers back the real Serve loop.
func startTestWebWriter(t *testing.T, data Plot) (string, func()) {
	t.Helper()
	logger, _ := logrustest.NewNullLogger()
	w := NewWebPlotWriter()
	w.logger = logger
	if err := w.Initialize(NewSession()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	mux, err := w.prepare(data)
	if err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	server := httptest.NewServer(mux)
	return server.URL, server.Close
}

func TestWebPlotWriter(t *testing.T) {
	t.Run("metadata endpoint", func(t *testing.T) {
		plot := xyTestPlot()
		plot.Meta = map[string]any{"source": "/data/a.csv"}
		baseURL, cleanup := startTestWebWriter(t, plot)
		defer cleanup()

		resp, err := http.Get(baseURL + "/metadata")
		if err != nil {
			t.Fatalf("GET /metadata failed: %v", err)
		}
		defer resp.Body.Close()

		var got webMetadata
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode metadata: %v", err)
		}
		want := webMetadata{
			Title:   "a.csv",
			Variant: "xy",
			XLabel:  "time",
			YLabel:  "value",
			Points:  3,
			Source:  "/data/a.csv",
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("unexpected metadata: got %+v want %+v", got, want)
		}
	})

	t.Run("plot png endpoint", func(t *testing.T) {
		baseURL, cleanup := startTestWebWriter(t, xyTestPlot())
		defer cleanup()

		resp, err := http.Get(baseURL + "/plot.png")
		if err != nil {
			t.Fatalf("GET /plot.png failed: %v", err)
		}
		defer resp.Body.Close()

		if got := resp.Header.Get("Content-Type"); got != "image/png" {
			t.Fatalf("unexpected content type: %q", got)
		}
		magic := make([]byte, 8)
		if _, err := io.ReadFull(resp.Body, magic); err != nil {
			t.Fatalf("failed to read body: %v", err)
		}
		if string(magic[1:4]) != "PNG" {
			t.Fatalf("body is not a PNG: %q", magic)
		}
	})

	t.Run("websocket streams points then stream end", func(t *testing.T) {
		baseURL, cleanup := startTestWebWriter(t, xyTestPlot())
		defer cleanup()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		wsURL := strings.Replace(baseURL, "http://", "ws://", 1) + "/ws"
		conn, _, err := websocket.Dial(ctx, wsURL, nil)
		if err != nil {
			t.Fatalf("websocket dial failed: %v", err)
		}
		defer conn.Close(websocket.StatusNormalClosure, "")

		var rows []webDataRow
		for {
			var raw map[string]any
			if err := wsjson.Read(ctx, conn, &raw); err != nil {
				t.Fatalf("websocket read failed: %v", err)
			}
			if ended, ok := raw["StreamEnded"]; ok && ended == true {
				break
			}
			rows = append(rows, webDataRow{X: raw["X"].(float64), Y: raw["Y"].(float64)})
		}

		want := []webDataRow{{1, 10}, {2, 20}, {3, 30}}
		if !reflect.DeepEqual(rows, want) {
			t.Fatalf("unexpected rows: got %v want %v", rows, want)
		}
	})

	t.Run("sequence plot metadata", func(t *testing.T) {
		baseURL, cleanup := startTestWebWriter(t, &SequencePlot{Data: []string{"5", "6"}})
		defer cleanup()

		resp, err := http.Get(baseURL + "/metadata")
		if err != nil {
			t.Fatalf("GET /metadata failed: %v", err)
		}
		defer resp.Body.Close()

		var got webMetadata
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode metadata: %v", err)
		}
		if got.Variant != "sequence" || got.YLabel != "value" || got.Title != "Plot" || got.Points != 2 {
			t.Fatalf("unexpected metadata: %+v", got)
		}
	})
}
