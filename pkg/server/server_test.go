package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/agendagraph/pkg/errors"
	"github.com/matzehuels/agendagraph/pkg/metrics"
	"github.com/matzehuels/agendagraph/pkg/observability"
	"github.com/matzehuels/agendagraph/pkg/pipeline"
	"github.com/matzehuels/agendagraph/pkg/render"
)

const agendaText = `[theme]Platform[/theme]
[component time=past]Auth[/component]
[component]Billing[/component]
[relation:calls]Billing -> Auth[/relation:calls]`

type stubRenderer struct {
	engine render.Engine
	format render.Format
	err    error
}

func (s *stubRenderer) Render(_ context.Context, engine render.Engine, format render.Format, _ string) ([]byte, error) {
	s.engine, s.format = engine, format
	if s.err != nil {
		return nil, s.err
	}
	return []byte("<svg/>"), nil
}

func newTestServer(t *testing.T, r pipeline.ImageRenderer, opts ...Option) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(nil, r, logger)
	opts = append([]Option{WithLogger(logger)}, opts...)
	ts := httptest.NewServer(New(runner, opts...).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "text/plain", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, &stubRenderer{})
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", readAll(t, resp))
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}

func TestRequestIDPropagated(t *testing.T) {
	ts := newTestServer(t, &stubRenderer{})
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}

func TestParse(t *testing.T) {
	ts := newTestServer(t, &stubRenderer{})
	resp := post(t, ts, "/v1/parse", agendaText)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "tags", resp.Header.Get("X-Agenda-Source"))

	var m struct {
		Theme      string `json:"theme"`
		Components []struct {
			Name string `json:"name"`
			Time string `json:"time"`
		} `json:"components"`
		Relations []struct {
			From, To, Type string
		} `json:"relations"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	assert.Equal(t, "Platform", m.Theme)
	require.Len(t, m.Components, 2)
	assert.Equal(t, "past", m.Components[0].Time)
	require.Len(t, m.Relations, 1)
	assert.Equal(t, "calls", m.Relations[0].Type)
}

func TestDiagram(t *testing.T) {
	ts := newTestServer(t, &stubRenderer{})

	resp := post(t, ts, "/v1/diagram", agendaText)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readAll(t, resp)
	assert.True(t, strings.HasPrefix(body, "graph TD\n"), body)
	assert.Contains(t, body, "NBilling -->|calls| NAuth")

	resp = post(t, ts, "/v1/diagram?format=dot&orientation=horizontal", agendaText)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = readAll(t, resp)
	assert.True(t, strings.HasPrefix(body, "digraph G {\n"), body)
	assert.Contains(t, body, "rankdir=LR;")
}

func TestDiagramDefaults(t *testing.T) {
	ts := newTestServer(t, &stubRenderer{}, WithDefaults(pipeline.Options{Format: "dot"}))
	resp := post(t, ts, "/v1/diagram", agendaText)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(readAll(t, resp), "digraph G {"))
}

func TestDiagramErrors(t *testing.T) {
	ts := newTestServer(t, &stubRenderer{})
	tests := []struct {
		path string
		code errors.Code
	}{
		{"/v1/diagram?format=gif", errors.ErrCodeInvalidFormat},
		{"/v1/diagram?format=png", errors.ErrCodeInvalidFormat},
		{"/v1/diagram?orientation=diagonal", errors.ErrCodeInvalidOrientation},
		{"/v1/diagram?phrases=sometimes", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := post(t, ts, tt.path, agendaText)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var body errorBody
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, string(tt.code), body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestImage(t *testing.T) {
	stub := &stubRenderer{}
	ts := newTestServer(t, stub)

	resp := post(t, ts, "/v1/image", agendaText)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))
	assert.Equal(t, "<svg/>", readAll(t, resp))
	assert.Equal(t, render.EngineEmbedded, stub.engine)

	resp = post(t, ts, "/v1/image?format=png&engine=embedded", agendaText)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, render.EngineEmbedded, stub.engine)
	assert.Equal(t, render.PNG, stub.format)
}

func TestImageRejectsExternalEngines(t *testing.T) {
	for _, engine := range []string{"mermaid", "graphviz", "dot"} {
		t.Run(engine, func(t *testing.T) {
			stub := &stubRenderer{}
			ts := newTestServer(t, stub)

			resp := post(t, ts, "/v1/image?engine="+engine, agendaText)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var body errorBody
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, string(errors.ErrCodeInvalidEngine), body.Code)
			assert.Empty(t, stub.engine, "renderer ran for a rejected engine")
		})
	}
}

func TestImageIgnoresConfiguredEngine(t *testing.T) {
	stub := &stubRenderer{}
	ts := newTestServer(t, stub, WithDefaults(pipeline.Options{Engine: "mermaid"}))

	resp := post(t, ts, "/v1/image", agendaText)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, render.EngineEmbedded, stub.engine)
}

func TestImageRendererErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{errors.New(errors.ErrCodeRendererNotFound, "dot not found"), http.StatusServiceUnavailable},
		{&errors.ExitError{Program: "dot", ExitCode: 1}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		ts := newTestServer(t, &stubRenderer{err: tt.err})
		resp := post(t, ts, "/v1/image", agendaText)
		assert.Equal(t, tt.status, resp.StatusCode, tt.err.Error())
	}
}

func TestBodyTooLarge(t *testing.T) {
	ts := newTestServer(t, &stubRenderer{})
	resp := post(t, ts, "/v1/parse", strings.Repeat("a", MaxBodyBytes+1))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestNullByteRejected(t *testing.T) {
	ts := newTestServer(t, &stubRenderer{})
	resp := post(t, ts, "/v1/parse", "a\x00b")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	reg := metrics.NewRegistry()
	observability.SetPipelineHooks(reg)
	observability.SetHTTPHooks(reg)

	ts := newTestServer(t, &stubRenderer{}, WithMetrics(reg.Handler()))
	post(t, ts, "/v1/diagram", agendaText)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body := readAll(t, resp)
	assert.Contains(t, body, `agendagraph_parses_total{source="tags"} 1`)
	assert.Contains(t, body, `route="/v1/diagram"`)
}

func TestNoMetricsByDefault(t *testing.T) {
	ts := newTestServer(t, &stubRenderer{})
	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListenAndServeShutdown(t *testing.T) {
	runner := pipeline.NewRunner(nil, &stubRenderer{}, log.New(io.Discard))
	s := New(runner, WithLogger(log.New(io.Discard)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
