package explorer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/matsen/ldx/internal/logger"
	"github.com/matsen/ldx/internal/sparql"
	"github.com/matsen/ldx/internal/viz"
)

// DefaultDebounce is the quiet period after the last keystroke before searching.
const DefaultDebounce = 250 * time.Millisecond

// ErrStopped is returned by Post once Run has returned.
var ErrStopped = errors.New("controller stopped")

// State is the selection state.
type State int

const (
	Idle State = iota
	Loading
	Loaded
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return "idle"
	}
}

// Controller owns the browser state. Update must only be called from one
// goroutine; Run is that goroutine when the controller is driven by Post.
type Controller struct {
	view     View
	layout   Layout
	querier  Querier
	recorder Recorder
	after    func(time.Duration) <-chan time.Time
	debounce time.Duration
	settings viz.ForceSettings

	// parent of every request context; replaced by Run's context
	ctx context.Context

	inputSeq      uint64
	cancelPending context.CancelFunc

	searchSeq    uint64
	cancelSearch context.CancelFunc

	selectSeq    uint64
	cancelSelect context.CancelFunc
	state        State
	selection    string

	graph     *viz.GraphData
	sim       Simulation
	positions map[string]NodePosition
	pins      map[string]NodePosition

	events  chan Event
	done    chan struct{}
	running sync.WaitGroup
}

// Option configures a Controller.
type Option func(*Controller)

// WithDebounce sets the search debounce period.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithClock replaces time.After, for tests.
func WithClock(after func(time.Duration) <-chan time.Time) Option {
	return func(c *Controller) {
		c.after = after
	}
}

// WithForceSettings overrides the layout parameters.
func WithForceSettings(s viz.ForceSettings) Option {
	return func(c *Controller) {
		c.settings = s
	}
}

// WithRecorder records every loaded entity.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		c.recorder = r
	}
}

// New creates a controller in the Idle state.
func New(view View, layout Layout, querier Querier, opts ...Option) *Controller {
	c := &Controller{
		view:      view,
		layout:    layout,
		querier:   querier,
		after:     time.After,
		debounce:  DefaultDebounce,
		settings:  viz.DefaultForceSettings(),
		ctx:       context.Background(),
		positions: make(map[string]NodePosition),
		pins:      make(map[string]NodePosition),
		events:    make(chan Event, 64),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// The accessors below read state owned by the update goroutine.

// State returns the selection state.
func (c *Controller) State() State { return c.state }

// Selection returns the selected URI, or "" when idle.
func (c *Controller) Selection() string { return c.selection }

// Graph returns the graph currently on screen, or nil.
func (c *Controller) Graph() *viz.GraphData { return c.graph }

// Positions returns the last known node positions in graph node order.
func (c *Controller) Positions() []NodePosition {
	if c.graph == nil {
		return nil
	}
	out := make([]NodePosition, 0, len(c.graph.Nodes))
	for _, n := range c.graph.Nodes {
		if p, ok := c.positions[n.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Run processes posted events until ctx is done. Commands run on their own
// goroutines and feed their follow-up events back into the loop.
func (c *Controller) Run(ctx context.Context) error {
	c.ctx = ctx
	defer func() {
		close(c.done)
		c.stopSimulation()
		c.running.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-c.events:
			c.dispatch(c.Update(ev))
		}
	}
}

// Post queues an event for Run. It blocks while the queue is full.
func (c *Controller) Post(ctx context.Context, ev Event) error {
	select {
	case <-c.done:
		return ErrStopped
	default:
	}
	select {
	case c.events <- ev:
		return nil
	case <-c.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) dispatch(cmd Cmd) {
	if cmd == nil {
		return
	}
	c.running.Add(1)
	go func() {
		defer c.running.Done()
		if ev := cmd(); ev != nil {
			select {
			case c.events <- ev:
			case <-c.done:
			}
		}
	}()
}

// Update applies one event and returns the work it requires.
func (c *Controller) Update(ev Event) Cmd {
	switch ev := ev.(type) {
	case InputChanged:
		return c.onInput(ev)
	case SearchDue:
		return c.onSearchDue(ev)
	case SearchCompleted:
		c.onSearchCompleted(ev)
	case ResultChosen:
		c.cancelDebounce()
		c.supersedeSearch()
		c.view.ClearResults()
		c.view.SetSearchText(ev.Label)
		return c.selectEntity(ev.URI)
	case EntitySelected:
		return c.selectEntity(ev.URI)
	case DetailsLoaded:
		return c.onDetailsLoaded(ev)
	case SimulationTick:
		c.onTick(ev)
	case DragStarted:
		c.onDragStarted(ev)
	case Dragged:
		c.onDragged(ev)
	case DragEnded:
		c.onDragEnded(ev)
	case NodeClicked:
		return c.onNodeClicked(ev)
	case Resized:
		c.onResized(ev)
	}
	return nil
}

func (c *Controller) onInput(ev InputChanged) Cmd {
	c.cancelDebounce()
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancelPending = cancel

	seq, text, wait := c.inputSeq, ev.Text, c.after(c.debounce)
	return func() Event {
		select {
		case <-wait:
			return SearchDue{Seq: seq, Text: text}
		case <-ctx.Done():
			return nil
		}
	}
}

func (c *Controller) onSearchDue(ev SearchDue) Cmd {
	if ev.Seq != c.inputSeq {
		return nil
	}

	c.supersedeSearch()
	term := strings.TrimSpace(ev.Text)
	if term == "" {
		c.view.ClearResults()
		return nil
	}

	ctx, cancel := context.WithCancel(c.ctx)
	c.cancelSearch = cancel

	seq, q := c.searchSeq, c.querier
	logger.Debug("searching", "term", term, "seq", seq)
	return func() Event {
		hits, err := q.SearchEntities(ctx, term)
		return SearchCompleted{Seq: seq, Term: term, Hits: hits, Err: err}
	}
}

// cancelDebounce drops the pending keystroke timer.
func (c *Controller) cancelDebounce() {
	c.inputSeq++
	if c.cancelPending != nil {
		c.cancelPending()
		c.cancelPending = nil
	}
}

// supersedeSearch invalidates the in-flight search.
func (c *Controller) supersedeSearch() {
	c.searchSeq++
	if c.cancelSearch != nil {
		c.cancelSearch()
		c.cancelSearch = nil
	}
}

func (c *Controller) onSearchCompleted(ev SearchCompleted) {
	if ev.Seq != c.searchSeq {
		logger.Debug("dropping stale search", "term", ev.Term, "seq", ev.Seq)
		return
	}
	if c.cancelSearch != nil {
		c.cancelSearch()
		c.cancelSearch = nil
	}

	if ev.Err != nil {
		if sparql.IsCanceled(ev.Err) {
			return
		}
		logger.Error("search failed", "term", ev.Term, "err", ev.Err)
		c.view.ClearResults()
		return
	}
	c.view.ShowResults(ev.Hits)
}

func (c *Controller) selectEntity(uri string) Cmd {
	c.selectSeq++
	if c.cancelSelect != nil {
		c.cancelSelect()
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancelSelect = cancel

	c.selection = uri
	c.state = Loading
	c.view.ShowLoading(uri)

	seq, q := c.selectSeq, c.querier
	logger.Debug("loading entity", "uri", uri, "seq", seq)
	return func() Event {
		details, err := q.GetEntityDetails(ctx, uri)
		return DetailsLoaded{Seq: seq, URI: uri, Details: details, Err: err}
	}
}

func (c *Controller) onDetailsLoaded(ev DetailsLoaded) Cmd {
	if ev.Seq != c.selectSeq {
		logger.Debug("dropping stale details", "uri", ev.URI, "seq", ev.Seq)
		return nil
	}
	if c.cancelSelect != nil {
		c.cancelSelect()
		c.cancelSelect = nil
	}

	if ev.Err != nil {
		if sparql.IsCanceled(ev.Err) {
			return nil
		}
		logger.Error("loading entity failed", "uri", ev.URI, "err", ev.Err)
		c.selection = ""
		c.state = Idle
		c.view.ShowLoadError(LoadFailedText)
		c.clearGraph()
		return nil
	}

	c.state = Loaded
	panel := NewPanel(ev.URI, ev.Details)
	c.view.ShowDetails(panel)
	c.showGraph(viz.BuildEntityGraph(ev.URI, ev.Details))

	return c.record(ev.URI, panel.Label)
}

func (c *Controller) record(uri, label string) Cmd {
	if c.recorder == nil {
		return nil
	}
	r, ctx := c.recorder, c.ctx
	return func() Event {
		if err := r.Record(ctx, uri, label); err != nil {
			logger.Warn("recording visit failed", "uri", uri, "err", err)
		}
		return nil
	}
}

// showGraph replaces the displayed graph and starts a fresh simulation.
func (c *Controller) showGraph(g *viz.GraphData) {
	c.stopSimulation()
	c.graph = g
	c.positions = make(map[string]NodePosition)
	c.pins = make(map[string]NodePosition)
	c.view.RenderGraph(g, c.settings)
	c.sim = c.layout.Start(g, c.settings)
}

func (c *Controller) clearGraph() {
	c.stopSimulation()
	c.graph = nil
	c.positions = make(map[string]NodePosition)
	c.pins = make(map[string]NodePosition)
	c.view.RenderGraph(&viz.GraphData{}, c.settings)
}

func (c *Controller) stopSimulation() {
	if c.sim != nil {
		c.sim.Stop()
		c.sim = nil
	}
}

func (c *Controller) onTick(ev SimulationTick) {
	if c.graph == nil {
		return
	}
	for _, p := range ev.Positions {
		if _, ok := c.graph.Node(p.ID); !ok {
			continue
		}
		if pin, pinned := c.pins[p.ID]; pinned {
			p = pin
		}
		c.positions[p.ID] = p
	}
	c.view.MoveNodes(c.Positions())
}

func (c *Controller) onDragStarted(ev DragStarted) {
	if c.sim == nil {
		return
	}
	if !ev.Active {
		c.sim.SetAlphaTarget(c.settings.DragAlphaTarget)
		c.sim.Restart()
	}
	c.pin(ev.ID, ev.X, ev.Y)
}

func (c *Controller) onDragged(ev Dragged) {
	if c.sim == nil {
		return
	}
	c.pin(ev.ID, ev.X, ev.Y)
}

func (c *Controller) onDragEnded(ev DragEnded) {
	if c.sim == nil {
		return
	}
	if !ev.Active {
		c.sim.SetAlphaTarget(0)
	}
	delete(c.pins, ev.ID)
	c.sim.Release(ev.ID)
}

func (c *Controller) pin(id string, x, y float64) {
	p := NodePosition{ID: id, X: x, Y: y}
	c.pins[id] = p
	c.positions[id] = p
	c.sim.Pin(id, x, y)
}

func (c *Controller) onNodeClicked(ev NodeClicked) Cmd {
	if c.graph == nil {
		return nil
	}
	n, ok := c.graph.Node(ev.ID)
	if !ok || n.Central {
		return nil
	}
	return c.selectEntity(n.ID)
}

func (c *Controller) onResized(ev Resized) {
	if ev.Width <= 0 || ev.Height <= 0 {
		return
	}
	c.settings.Width = ev.Width
	c.settings.Height = ev.Height
	if c.graph != nil {
		c.showGraph(c.graph)
	}
}
