package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func reset() {
	mu.Lock()
	singleton = nil
	mu.Unlock()
}

func TestBeforeInitIsNoop(t *testing.T) {
	reset()
	Info("dropped", "k", "v")
	assert.Nil(t, With("x"), "With() before Init")
}

func TestLevels(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	Init(Options{Writer: &buf})

	Debug("hidden")
	Info("search done", "hits", 3)
	Error("load failed", "uri", "http://example.org/x")

	out := buf.String()
	assert.NotContains(t, out, "hidden", "debug message written at info level")
	for _, want := range []string{"search done", "hits=3", "load failed"} {
		assert.Contains(t, out, want)
	}
}

func TestWithPrefix(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	Init(Options{Writer: &buf})

	With("http").Info("request", "status", 200)
	assert.Contains(t, buf.String(), "http")
	assert.Contains(t, buf.String(), "status=200")
}

func TestDebugAndJSON(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	Init(Options{Writer: &buf, Debug: true, JSON: true})

	Debug("tick", "nodes", 4)
	out := buf.String()
	assert.Contains(t, out, `"msg":"tick"`)
	assert.Contains(t, out, `"nodes":4`)
}
