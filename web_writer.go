package plots

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

type WebPlotWriterOptions struct {
	Addr     string `short:"a" long:"address" default:"127.0.0.1:0" description:"The address to serve the plot on"`
	PlotType string `short:"t" long:"plot_type" choice:"line" choice:"scatter" default:"line" description:"The type of plot to generate"`
	Open     bool   `short:"b" long:"browser" description:"Whether to open the plot in the default browser"`
}

// What /metadata serves, describing the hosted plot.
type webMetadata struct {
	Title   string
	Variant string
	XLabel  string
	YLabel  string
	Points  int
	Source  string `json:",omitempty"`
}

type webDataRow struct {
	X float64
	Y float64
}

type webStreamEnd struct {
	StreamEnded bool
}

// WebPlotWriter serves the plot over HTTP for inspection in a browser:
// /metadata describes the plot as JSON, /plot.png is the rendered image and
// /ws is a websocket that pushes every data point as a JSON row followed by
// a stream-end message. Serving blocks until the process is interrupted.
type WebPlotWriter struct {
	opts    WebPlotWriterOptions
	session *Session
	logger  logrus.FieldLogger
}

func NewWebPlotWriter() *WebPlotWriter {
	return &WebPlotWriter{
		logger: logrus.WithField("tag", "WebPlotWriter"),
	}
}

func (w *WebPlotWriter) Name() string {
	return "to-web-plot"
}

func (w *WebPlotWriter) Description() string {
	return "Serves the plot over HTTP, with the data additionally streamed via websocket."
}

func (w *WebPlotWriter) OptionsRef() any {
	return &w.opts
}

func (w *WebPlotWriter) Initialize(session *Session) error {
	w.session = session
	if w.opts.Addr == "" {
		w.opts.Addr = "127.0.0.1:0"
	}
	if w.opts.PlotType == "" {
		w.opts.PlotType = PlotLine
	}
	return nil
}

func (w *WebPlotWriter) WriteBatch(batch []Plot) error {
	data, ok := firstOfBatch(batch, w.logger)
	if !ok {
		return nil
	}

	mux, err := w.prepare(data)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", w.opts.Addr)
	if err != nil {
		return err
	}

	url := "http://" + listener.Addr().String()
	w.logger.Infof("serving plot at %s (ctrl-c to stop)", url)
	if w.opts.Open {
		openExternal(url, false, w.logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	server := &http.Server{Handler: mux}
	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (w *WebPlotWriter) Finalize() error {
	return nil
}

// prepare renders the plot once and assembles the mux serving it. The
// dataset is complete before serving starts, so every handler works off
// immutable state.
func (w *WebPlotWriter) prepare(data Plot) (*http.ServeMux, error) {
	points, err := numericPoints(data, w.logger)
	if err != nil {
		return nil, err
	}

	rc := newRenderContext(w.logger)
	if err := rc.render(data, w.opts.PlotType); err != nil {
		return nil, err
	}
	var pngBuffer bytes.Buffer
	if err := rc.writePNG(&pngBuffer); err != nil {
		return nil, err
	}

	metadata := webMetadata{
		Title:  orDefault(data.PlotTitle(), "Plot"),
		Points: len(points),
	}
	metadata.XLabel, metadata.YLabel = axisLabels(data)
	switch data.(type) {
	case *XYPlot:
		metadata.Variant = "xy"
	case *SequencePlot:
		metadata.Variant = "sequence"
	}
	if source, ok := data.PlotMeta()["source"].(string); ok {
		metadata.Source = source
	}

	pngData := pngBuffer.Bytes()

	mux := http.NewServeMux()
	mux.HandleFunc("/metadata", func(rw http.ResponseWriter, req *http.Request) {
		rw.Header().Add("Content-Type", "application/json")
		if err := json.NewEncoder(rw).Encode(metadata); err != nil {
			rw.WriteHeader(http.StatusInternalServerError)
			rw.Write([]byte(err.Error()))
		}
	})
	mux.HandleFunc("/plot.png", func(rw http.ResponseWriter, req *http.Request) {
		rw.Header().Add("Content-Type", "image/png")
		rw.Write(pngData)
	})
	mux.HandleFunc("/ws", w.handleWebSocket(points))
	return mux, nil
}

func (w *WebPlotWriter) handleWebSocket(points []point) http.HandlerFunc {
	return func(rw http.ResponseWriter, req *http.Request) {
		c, err := websocket.Accept(rw, req, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			w.logger.WithError(err).Warn("failed to accept new websocket connection")
			return
		}

		// we only ever write to the websocket
		ctx := c.CloseRead(req.Context())

		for _, p := range points {
			if err := wsjson.Write(ctx, c, webDataRow{X: p.X, Y: p.Y}); err != nil {
				// the websocket closed underneath us, nothing left to send
				w.logger.Warn("websocket write failed and closed")
				return
			}
		}
		if err := wsjson.Write(ctx, c, webStreamEnd{StreamEnded: true}); err != nil {
			w.logger.Warn("websocket write failed and closed")
			return
		}
		c.Close(websocket.StatusNormalClosure, "stream ended")
	}
}
