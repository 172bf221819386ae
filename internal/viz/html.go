package viz

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
)

// forceGraphJS draws a ForceDocument with d3-force; shared with the served UI.
//
//go:embed forcegraph.js
var forceGraphJS string

// D3ScriptURL is where the layout library is loaded from.
const D3ScriptURL = "https://cdn.jsdelivr.net/npm/d3@7/dist/d3.min.js"

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Parse(htmlTemplate))
}

// ForceGraphScript returns the shared drawing script for embedding in pages.
func ForceGraphScript() template.JS {
	return template.JS(forceGraphJS)
}

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Title  string
	Forces ForceSettings
}

// DefaultOptions returns default HTML generation options.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{
		Title:  "Entity Graph",
		Forces: DefaultForceSettings(),
	}
}

// GenerateHTML generates a self-contained HTML file for the graph visualization.
// Clicking a node opens its URI, since a static page cannot fetch neighbours.
func GenerateHTML(graph *GraphData, opts HTMLOptions) (string, error) {
	if graph == nil {
		return "", fmt.Errorf("graph cannot be nil")
	}

	if err := validateForces(opts.Forces); err != nil {
		return "", err
	}

	if graph.IsEmpty() {
		return generateEmptyHTML(), nil
	}

	graphJSON, err := graph.ToForceJSON(opts.Forces)
	if err != nil {
		return "", err
	}

	title := opts.Title
	if title == "" {
		title = DefaultOptions().Title
	}

	data := templateData{
		Title:      title,
		D3URL:      D3ScriptURL,
		DrawScript: ForceGraphScript(),
		GraphJSON:  template.JS(graphJSON),
		Width:      opts.Forces.Width,
		Height:     opts.Forces.Height,
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// validateForces rejects settings the layout cannot draw.
func validateForces(s ForceSettings) error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("invalid canvas %gx%g: width and height must be positive", s.Width, s.Height)
	}
	if s.LinkDistance <= 0 {
		return fmt.Errorf("invalid link distance %g: must be positive", s.LinkDistance)
	}
	return nil
}

// templateData holds data for the HTML template.
type templateData struct {
	Title      string
	D3URL      string
	DrawScript template.JS
	GraphJSON  template.JS
	Width      float64
	Height     float64
}

// generateEmptyHTML returns HTML for an empty graph state.
func generateEmptyHTML() string {
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Entity Graph - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f7fa;
    }
    .empty-state {
      text-align: center;
      color: #52606d;
    }
    .empty-state code {
      background: #e4e7eb;
      padding: 2px 6px;
      border-radius: 3px;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No graph data</h2>
    <p>Pick an entity with <code>ldx search</code>, then run <code>ldx graph &lt;uri&gt;</code>.</p>
  </div>
</body>
</html>`
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <script src="{{.D3URL}}"></script>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      background: #f5f7fa;
    }
    svg {
      display: block;
      margin: 0 auto;
      background: white;
      width: 100vw;
      height: 100vh;
    }
  </style>
</head>
<body>
  <svg id="graph" width="{{.Width}}" height="{{.Height}}"></svg>
  <script>{{.DrawScript}}</script>
  <script>
    (function() {
      const doc = {{.GraphJSON}};
      drawForceGraph(document.getElementById("graph"), doc, {
        onNodeClick: d => window.open(d.id, "_blank")
      });
    })();
  </script>
</body>
</html>`
