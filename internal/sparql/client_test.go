package sparql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/ldx/internal/logger"
)

// uri and lit build binding terms.
func uri(v string) Term { return Term{Type: "uri", Value: v} }
func lit(v string) Term { return Term{Type: "literal", Value: v, Lang: "en"} }

// fakeEndpoint answers each query with the rows registered for the first
// matching marker, and records what it received.
type fakeEndpoint struct {
	t       *testing.T
	mu      sync.Mutex
	queries []string
	calls   atomic.Int32
	routes  []route
	status  int
}

type route struct {
	marker string
	rows   []Binding
}

func newFakeEndpoint(t *testing.T) (*fakeEndpoint, *httptest.Server) {
	f := &fakeEndpoint{t: t, status: http.StatusOK}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeEndpoint) on(marker string, rows ...Binding) {
	f.routes = append(f.routes, route{marker: marker, rows: rows})
}

func (f *fakeEndpoint) serve(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	assert.Equal(f.t, http.MethodPost, r.Method)
	assert.Equal(f.t, contentTypeQuery, r.Header.Get("Content-Type"))
	assert.Equal(f.t, contentTypeResults, r.Header.Get("Accept"))

	body, _ := io.ReadAll(r.Body)
	query := string(body)
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()

	if f.status != http.StatusOK {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte("endpoint unhappy"))
		return
	}

	rows := []Binding{}
	for _, rt := range f.routes {
		if strings.Contains(query, rt.marker) {
			rows = rt.rows
			break
		}
	}

	w.Header().Set("Content-Type", contentTypeResults)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"head":    map[string]any{"vars": []string{}},
		"results": map[string]any{"bindings": rows},
	})
}

func TestSearchEntities_BlankTermMakesNoRequest(t *testing.T) {
	f, srv := newFakeEndpoint(t)
	client := NewClient(srv.URL)

	for _, term := range []string{"", " ", "\t\n", "   "} {
		hits, err := client.SearchEntities(context.Background(), term)
		require.NoError(t, err)
		assert.Empty(t, hits)
		assert.NotNil(t, hits)
	}
	assert.Equal(t, int32(0), f.calls.Load())
}

func TestSearchEntities_MapsHits(t *testing.T) {
	f, srv := newFakeEndpoint(t)
	f.on("SELECT ?uri ?label",
		Binding{"uri": uri("ex:Messi"), "label": lit("Lionel Messi")},
		Binding{"uri": uri("ex:NoLabel")},
	)
	client := NewClient(srv.URL)

	hits, err := client.SearchEntities(context.Background(), "  Messi ")
	require.NoError(t, err)

	assert.Equal(t, []EntitySummary{
		{URI: "ex:Messi", Label: "Lionel Messi"},
		{URI: "ex:NoLabel", Label: "ex:NoLabel"},
	}, hits)
	require.Len(t, f.queries, 1)
	assert.Contains(t, f.queries[0], `LCASE("Messi")`, "term is trimmed before embedding")
	assert.Contains(t, f.queries[0], "LIMIT 20")
}

func TestSearchEntities_HTTPError(t *testing.T) {
	f, srv := newFakeEndpoint(t)
	f.status = http.StatusBadRequest
	client := NewClient(srv.URL)

	_, err := client.SearchEntities(context.Background(), "Messi")
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Equal(t, "endpoint unhappy", httpErr.Body)
	assert.Contains(t, err.Error(), "SPARQL error 400")
	assert.True(t, IsHTTPStatus(err, http.StatusBadRequest))
	assert.False(t, IsRateLimited(err))
}

func TestSearchEntities_HTTPErrorBodyLogged(t *testing.T) {
	var buf bytes.Buffer
	logger.Init(logger.Options{Debug: true, Writer: &buf})
	t.Cleanup(func() { logger.Init(logger.Options{Writer: io.Discard}) })

	f, srv := newFakeEndpoint(t)
	f.status = http.StatusBadRequest
	client := NewClient(srv.URL)

	_, err := client.SearchEntities(context.Background(), "Messi")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "endpoint unhappy")
	assert.Contains(t, buf.String(), "400")
}

func TestSearchEntities_NetworkError(t *testing.T) {
	_, srv := newFakeEndpoint(t)
	url := srv.URL
	srv.Close()

	client := NewClient(url)
	_, err := client.SearchEntities(context.Background(), "Messi")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetworkError)
}

func TestRun_InvalidResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>oops</html>"},
		{"no results member", `{"head":{"vars":[]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL).SearchEntities(context.Background(), "x")
			assert.ErrorIs(t, err, ErrInvalidResponse)
		})
	}
}

func TestGetEntityDetails_Messi(t *testing.T) {
	f, srv := newFakeEndpoint(t)
	f.on("SELECT ?label ?comment ?type ?typeLabel",
		Binding{"label": lit("Lionel Messi"), "comment": lit("Argentine footballer"), "type": uri("ex:Player"), "typeLabel": lit("Player")},
		Binding{"label": lit("Leo Messi"), "type": uri("ex:Player"), "typeLabel": lit("Player")},
		Binding{"type": uri("ex:Person")},
		Binding{"label": lit("ignored")},
	)
	f.on("SELECT ?p ?pLabel ?o ?oLabel",
		Binding{"p": uri("ex:plays"), "o": uri("ex:Barcelona"), "oLabel": lit("FC Barcelona")},
	)

	client := NewClient(srv.URL)
	details, err := client.GetEntityDetails(context.Background(), "ex:Messi")
	require.NoError(t, err)

	assert.Equal(t, "Lionel Messi", details.Label)
	assert.Equal(t, "Argentine footballer", details.Comment)
	assert.Equal(t, []TypeRef{
		{URI: "ex:Player", Label: "Player"},
		{URI: "ex:Person", Label: "ex:Person"},
	}, details.Types)
	assert.Equal(t, []OutgoingRelation{
		{Predicate: "ex:plays", PredicateLabel: "ex:plays", Object: "ex:Barcelona", ObjectLabel: "FC Barcelona"},
	}, details.OutgoingRels)
	assert.Empty(t, details.IncomingRels)
	assert.Equal(t, int32(3), f.calls.Load())
}

func TestGetEntityDetails_NoRows(t *testing.T) {
	_, srv := newFakeEndpoint(t)
	client := NewClient(srv.URL)

	details, err := client.GetEntityDetails(context.Background(), "http://example.org/Nothing")
	require.NoError(t, err)

	assert.Equal(t, "http://example.org/Nothing", details.Label)
	assert.Equal(t, "", details.Comment)
	assert.Empty(t, details.Types)
	assert.Empty(t, details.OutgoingRels)
	assert.Empty(t, details.IncomingRels)
}

func TestGetEntityDetails_LabelFallbacks(t *testing.T) {
	f, srv := newFakeEndpoint(t)
	f.on("SELECT ?s ?sLabel ?p ?pLabel",
		Binding{"s": uri("ex:Argentina"), "p": uri("ex:captain")},
		Binding{"s": uri("ex:Inter"), "sLabel": lit("Inter Miami"), "p": uri("ex:signed"), "pLabel": lit("signed")},
	)
	client := NewClient(srv.URL)

	details, err := client.GetEntityDetails(context.Background(), "ex:Messi")
	require.NoError(t, err)

	require.Len(t, details.IncomingRels, 2)
	for _, rel := range details.IncomingRels {
		assert.NotEmpty(t, rel.SubjectLabel)
		assert.NotEmpty(t, rel.PredicateLabel)
	}
	assert.Equal(t, "ex:Argentina", details.IncomingRels[0].SubjectLabel)
	assert.Equal(t, "ex:captain", details.IncomingRels[0].PredicateLabel)
	assert.Equal(t, "Inter Miami", details.IncomingRels[1].SubjectLabel)
}

func TestGetEntityDetails_OneFailureFailsAll(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		body, _ := io.ReadAll(r.Body)
		if strings.Contains(string(body), "?s ?p") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"head":{"vars":[]},"results":{"bindings":[]}}`))
	}))
	defer srv.Close()

	details, err := NewClient(srv.URL).GetEntityDetails(context.Background(), "ex:Messi")
	require.Error(t, err)
	assert.Nil(t, details)
	assert.True(t, IsHTTPStatus(err, http.StatusInternalServerError))
	assert.Contains(t, err.Error(), "incoming query")
}

func TestGetEntityDetails_InvalidIRI(t *testing.T) {
	f, srv := newFakeEndpoint(t)
	client := NewClient(srv.URL)

	_, err := client.GetEntityDetails(context.Background(), "ex:a> } DROP ALL")
	assert.ErrorIs(t, err, ErrInvalidIRI)
	assert.Equal(t, int32(0), f.calls.Load())
}

func TestClientOptions(t *testing.T) {
	f, srv := newFakeEndpoint(t)
	client := NewClient(srv.URL,
		WithLanguage("de"),
		WithSearchLimit(5),
		WithRelationLimit(9),
		WithRateLimit(0),
	)
	assert.Equal(t, "de", client.Language())
	assert.Equal(t, srv.URL, client.Endpoint())

	_, err := client.SearchEntities(context.Background(), "Messi")
	require.NoError(t, err)
	_, err = client.GetEntityDetails(context.Background(), "ex:Messi")
	require.NoError(t, err)

	require.Len(t, f.queries, 4)
	assert.Contains(t, f.queries[0], `"de"`)
	assert.Contains(t, f.queries[0], "LIMIT 5")
	for _, q := range f.queries[1:] {
		assert.Contains(t, q, "LIMIT 9")
	}
}

func TestSelect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"head": {"vars": ["player", "rating"]},
			"results": {"bindings": [
				{"player": {"type": "uri", "value": "ex:Messi"}, "rating": {"type": "literal", "value": "93"}},
				{"player": {"type": "uri", "value": "ex:Nobody"}}
			]}
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	table, err := client.Select(context.Background(), "SELECT ?player ?rating WHERE { ?player ?x ?rating }")
	require.NoError(t, err)

	assert.Equal(t, []string{"player", "rating"}, table.Vars)
	assert.Equal(t, [][]string{{"ex:Messi", "93"}, {"ex:Nobody", ""}}, table.Rows)

	_, err = client.Select(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestMetrics(t *testing.T) {
	f, srv := newFakeEndpoint(t)
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	client := NewClient(srv.URL, WithMetrics(metrics))

	_, err := client.SearchEntities(context.Background(), "Messi")
	require.NoError(t, err)

	f.status = http.StatusTooManyRequests
	_, err = client.SearchEntities(context.Background(), "Messi")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.queries.WithLabelValues(KindSearch, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.queries.WithLabelValues(KindSearch, "rate_limited")))

	assert.Nil(t, NewMetrics(nil))
	f.status = http.StatusOK
	_, err = NewClient(srv.URL, WithMetrics(NewMetrics(nil))).SearchEntities(context.Background(), "Messi")
	assert.NoError(t, err)
}

func TestCanceledContext(t *testing.T) {
	_, srv := newFakeEndpoint(t)
	client := NewClient(srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.SearchEntities(ctx, "Messi")
	require.Error(t, err)
	assert.True(t, IsCanceled(err))
}
