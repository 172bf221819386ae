package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/matsen/ldx/internal/explorer"
	"github.com/matsen/ldx/internal/logger"
	"github.com/matsen/ldx/internal/sparql"
	"github.com/matsen/ldx/internal/viz"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 64 * 1024
)

// outMessage is sent to the page.
type outMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// inMessage is received from the page. Which fields are set depends on Type.
type inMessage struct {
	Type      string                  `json:"type"`
	Text      string                  `json:"text,omitempty"`
	URI       string                  `json:"uri,omitempty"`
	Label     string                  `json:"label,omitempty"`
	ID        string                  `json:"id,omitempty"`
	X         float64                 `json:"x,omitempty"`
	Y         float64                 `json:"y,omitempty"`
	Active    bool                    `json:"active,omitempty"`
	Width     float64                 `json:"w,omitempty"`
	Height    float64                 `json:"h,omitempty"`
	Positions []explorer.NodePosition `json:"positions,omitempty"`
}

var errUnknownMessage = errors.New("unknown message type")

// event converts a page message into a controller event.
func (m inMessage) event() (explorer.Event, error) {
	switch m.Type {
	case "input":
		return explorer.InputChanged{Text: m.Text}, nil
	case "choose":
		return explorer.ResultChosen{URI: m.URI, Label: m.Label}, nil
	case "select":
		return explorer.EntitySelected{URI: m.URI}, nil
	case "click":
		return explorer.NodeClicked{ID: m.ID}, nil
	case "tick":
		return explorer.SimulationTick{Positions: m.Positions}, nil
	case "dragstart":
		return explorer.DragStarted{ID: m.ID, X: m.X, Y: m.Y, Active: m.Active}, nil
	case "drag":
		return explorer.Dragged{ID: m.ID, X: m.X, Y: m.Y}, nil
	case "dragend":
		return explorer.DragEnded{ID: m.ID, Active: m.Active}, nil
	case "resize":
		return explorer.Resized{Width: m.Width, Height: m.Height}, nil
	default:
		return nil, errUnknownMessage
	}
}

// session is one open page. It is the controller's View and Layout; all
// rendering becomes messages on the socket.
type session struct {
	id      string
	conn    *websocket.Conn
	metrics *Metrics
	cancel  context.CancelFunc

	writeMu sync.Mutex
}

func (s *Server) handleWebSocket(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "err", err, "remote", c.RealIP())
		return nil
	}

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	sess := &session{
		id:      uuid.New().String(),
		conn:    conn,
		metrics: s.metrics,
		cancel:  cancel,
	}
	defer conn.Close()

	opts := []explorer.Option{
		explorer.WithDebounce(s.opts.Debounce),
		explorer.WithForceSettings(s.opts.Forces),
	}
	if s.history != nil {
		opts = append(opts, explorer.WithRecorder(s.history))
	}
	ctrl := explorer.New(sess, sess, s.querier, opts...)

	s.metrics.sessionOpened()
	defer s.metrics.sessionClosed()
	logger.Info("session opened", "session", sess.id, "remote", c.RealIP())
	defer logger.Info("session closed", "session", sess.id)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := ctrl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("controller stopped", "session", sess.id, "err", err)
		}
	}()
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	sess.send("session", map[string]any{"id": sess.id})
	sess.readLoop(ctx, ctrl)

	cancel()
	<-done
	return nil
}

// readLoop posts page messages to the controller until the socket closes.
func (sess *session) readLoop(ctx context.Context, ctrl *explorer.Controller) {
	sess.conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("websocket read error", "session", sess.id, "err", err)
			}
			return
		}

		var msg inMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warn("malformed message", "session", sess.id, "err", err)
			continue
		}
		sess.metrics.message("in", msg.Type)

		ev, err := msg.event()
		if err != nil {
			logger.Debug("ignoring message", "session", sess.id, "type", msg.Type)
			continue
		}
		if err := ctrl.Post(ctx, ev); err != nil {
			return
		}
	}
}

// send writes one message. A failed write ends the session.
func (sess *session) send(typ string, data any) {
	payload, err := json.Marshal(outMessage{Type: typ, Data: data})
	if err != nil {
		logger.Error("encoding message", "type", typ, "err", err)
		return
	}

	sess.writeMu.Lock()
	defer sess.writeMu.Unlock()

	_ = sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := sess.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		logger.Debug("websocket write failed", "session", sess.id, "err", err)
		sess.cancel()
		return
	}
	sess.metrics.message("out", typ)
}

func (sess *session) ShowResults(hits []sparql.EntitySummary) {
	if hits == nil {
		hits = []sparql.EntitySummary{}
	}
	sess.send("results", hits)
}

func (sess *session) ClearResults() {
	sess.send("clearResults", nil)
}

func (sess *session) SetSearchText(text string) {
	sess.send("searchText", map[string]string{"text": text})
}

func (sess *session) ShowLoading(uri string) {
	sess.send("loading", map[string]string{"uri": uri, "label": explorer.LoadingText})
}

func (sess *session) ShowDetails(p explorer.Panel) {
	sess.send("details", p)
}

func (sess *session) ShowLoadError(message string) {
	sess.send("loadError", map[string]string{"message": message})
}

func (sess *session) RenderGraph(g *viz.GraphData, settings viz.ForceSettings) {
	sess.send("graph", viz.NewForceDocument(g, settings))
}

// MoveNodes is a no-op: the page positions nodes itself on every tick and
// only reports them back.
func (sess *session) MoveNodes([]explorer.NodePosition) {}

// Start implements explorer.Layout. The page starts its simulation when it
// receives the graph message, so only steering is sent from here.
func (sess *session) Start(*viz.GraphData, viz.ForceSettings) explorer.Simulation {
	return &remoteSimulation{sess: sess}
}

// remoteSimulation steers the simulation running in the page.
type remoteSimulation struct {
	sess *session
}

func (r *remoteSimulation) SetAlphaTarget(alpha float64) {
	r.sess.send("alpha", map[string]float64{"target": alpha})
}

func (r *remoteSimulation) Restart() {
	r.sess.send("restart", nil)
}

func (r *remoteSimulation) Pin(id string, x, y float64) {
	r.sess.send("pin", explorer.NodePosition{ID: id, X: x, Y: y})
}

func (r *remoteSimulation) Release(id string) {
	r.sess.send("release", map[string]string{"id": id})
}

func (r *remoteSimulation) Stop() {
	r.sess.send("stop", nil)
}
