package explorer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/matsen/ldx/internal/sparql"
	"github.com/matsen/ldx/internal/viz"
)

type fakeView struct {
	mu         sync.Mutex
	results    []sparql.EntitySummary
	clears     int
	searchText string
	loading    []string
	panels     []Panel
	loadErrors []string
	graphs     []*viz.GraphData
	settings   viz.ForceSettings
	moves      [][]NodePosition
}

func (v *fakeView) ShowResults(hits []sparql.EntitySummary) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.results = hits
}

func (v *fakeView) ClearResults() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.results = nil
	v.clears++
}

func (v *fakeView) SetSearchText(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.searchText = text
}

func (v *fakeView) ShowLoading(uri string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = append(v.loading, uri)
}

func (v *fakeView) ShowDetails(p Panel) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.panels = append(v.panels, p)
}

func (v *fakeView) ShowLoadError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loadErrors = append(v.loadErrors, message)
}

func (v *fakeView) RenderGraph(g *viz.GraphData, s viz.ForceSettings) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.graphs = append(v.graphs, g)
	v.settings = s
}

func (v *fakeView) MoveNodes(p []NodePosition) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.moves = append(v.moves, p)
}

func (v *fakeView) lastPanel() (Panel, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.panels) == 0 {
		return Panel{}, false
	}
	return v.panels[len(v.panels)-1], true
}

func (v *fakeView) resultCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.results)
}

type fakeSim struct {
	calls []string
}

func (s *fakeSim) SetAlphaTarget(a float64) { s.calls = append(s.calls, fmt.Sprintf("alpha %g", a)) }
func (s *fakeSim) Restart()                 { s.calls = append(s.calls, "restart") }
func (s *fakeSim) Pin(id string, x, y float64) {
	s.calls = append(s.calls, fmt.Sprintf("pin %s %g %g", id, x, y))
}
func (s *fakeSim) Release(id string) { s.calls = append(s.calls, "release "+id) }
func (s *fakeSim) Stop()             { s.calls = append(s.calls, "stop") }

type fakeLayout struct {
	mu   sync.Mutex
	sims []*fakeSim
}

func (l *fakeLayout) Start(*viz.GraphData, viz.ForceSettings) Simulation {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := &fakeSim{}
	l.sims = append(l.sims, s)
	return s
}

func (l *fakeLayout) last() *fakeSim {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sims[len(l.sims)-1]
}

type fakeQuerier struct {
	mu         sync.Mutex
	searches   []string
	searchCtxs []context.Context
	loads      []string
	loadCtxs   []context.Context
	hits       map[string][]sparql.EntitySummary
	details    map[string]*sparql.EntityDetails
	searchErr  error
	detailsErr error
}

func (q *fakeQuerier) SearchEntities(ctx context.Context, term string) ([]sparql.EntitySummary, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.searches = append(q.searches, term)
	q.searchCtxs = append(q.searchCtxs, ctx)
	if q.searchErr != nil {
		return nil, q.searchErr
	}
	return q.hits[term], nil
}

func (q *fakeQuerier) GetEntityDetails(ctx context.Context, uri string) (*sparql.EntityDetails, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.loads = append(q.loads, uri)
	q.loadCtxs = append(q.loadCtxs, ctx)
	if q.detailsErr != nil {
		return nil, q.detailsErr
	}
	if d, ok := q.details[uri]; ok {
		return d, nil
	}
	return &sparql.EntityDetails{}, nil
}

func (q *fakeQuerier) searchCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.searches)
}

type fakeRecorder struct {
	mu     sync.Mutex
	visits []string
	err    error
}

func (r *fakeRecorder) Record(_ context.Context, uri, label string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visits = append(r.visits, uri+" "+label)
	return r.err
}

// immediate is a clock whose timers have already fired.
func immediate(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

// manualClock hands out timers the test fires explicitly.
type manualClock struct {
	timers []chan time.Time
}

func (m *manualClock) after(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	m.timers = append(m.timers, ch)
	return ch
}

func (m *manualClock) fireAll() {
	for _, ch := range m.timers {
		ch <- time.Now()
	}
}

// drive applies ev and synchronously runs every command it produces.
func drive(c *Controller, ev Event) {
	for ev != nil {
		cmd := c.Update(ev)
		if cmd == nil {
			return
		}
		ev = cmd()
	}
}
