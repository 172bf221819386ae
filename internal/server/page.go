package server

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/matsen/ldx/internal/viz"
)

//go:embed static/index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

type indexData struct {
	D3URL      string
	DrawScript template.JS
	Width      float64
	Height     float64
}

func (s *Server) handleIndex(c echo.Context) error {
	var buf bytes.Buffer
	err := indexTemplate.Execute(&buf, indexData{
		D3URL:      viz.D3ScriptURL,
		DrawScript: viz.ForceGraphScript(),
		Width:      s.opts.Forces.Width,
		Height:     s.opts.Forces.Height,
	})
	if err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}
