package ipc

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/liquid-glass/command"
	"github.com/lixenwraith/liquid-glass/engine"
	"github.com/lixenwraith/liquid-glass/glass"
	"github.com/lixenwraith/liquid-glass/scene"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*engine.Engine, *Server) {
	t.Helper()
	eng := engine.New(engine.Options{
		Initial:  glass.Defaults(),
		Interval: time.Hour,
		Logger:   zerolog.Nop(),
	})
	eng.Start()
	t.Cleanup(eng.Stop)
	return eng, NewServer(eng, zerolog.Nop())
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestCommandCommitsAndConfigReflectsIt(t *testing.T) {
	_, srv := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/v1/command", CommandRequest{Command: "liquid_glass_bezel_width 500"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/v1/config", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cfg := decode[ConfigReply](t, rec)
	assert.Equal(t, float32(500), cfg.Params.BezelWidth)
	assert.Equal(t, uint64(1), cfg.Generation)
}

func TestCommandRejections(t *testing.T) {
	tests := []struct {
		name       string
		req        CommandRequest
		code       int
		parseError bool
		contains   string
	}{
		{"out of range", CommandRequest{Command: "liquid_glass_bezel_width 500.1"}, http.StatusUnprocessableEntity, true, "must be between 0 and 500"},
		{"bad enum", CommandRequest{Command: "liquid_glass_surface diamond"}, http.StatusUnprocessableEntity, true, "convex_circle, convex_squircle, concave, lip"},
		{"unknown directive", CommandRequest{Command: "opacity 1"}, http.StatusBadRequest, true, "opacity"},
		{"missing node", CommandRequest{Command: "liquid_glass on", Node: 42}, http.StatusNotFound, false, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, srv := newTestServer(t)
			rec := do(t, srv.Handler(), http.MethodPost, "/v1/command", tt.req)
			assert.Equal(t, tt.code, rec.Code)

			res := decode[command.Result](t, rec)
			assert.False(t, res.Success)
			assert.Equal(t, tt.parseError, res.ParseError)
			assert.Contains(t, res.Error, tt.contains)
			assert.Equal(t, glass.Defaults(), eng.Config().Load())
		})
	}
}

func TestCommandBadBody(t *testing.T) {
	_, srv := newTestServer(t)
	rec := do(t, srv.Handler(), http.MethodPost, "/v1/command", "{")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv.Handler(), http.MethodPost, "/v1/command", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNodeLifecycle(t *testing.T) {
	_, srv := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/v1/nodes", CreateNodeRequest{Parent: scene.Root, Name: "term"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[map[string]glass.NodeID](t, rec)
	id := created["id"]
	require.NotZero(t, id)

	rec = do(t, h, http.MethodPost, "/v1/nodes", CreateNodeRequest{Parent: 999, Name: "orphan"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/command", CommandRequest{Command: "liquid_glass enable", Node: id})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/nodes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	views := decode[[]NodeView](t, rec)
	require.Len(t, views, 1)
	assert.Equal(t, id, views[0].ID)
	assert.True(t, views[0].Effective)
	assert.Equal(t, glass.Force(true), views[0].Override)

	rec = do(t, h, http.MethodDelete, "/v1/nodes/"+jsonNum(id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"removed":1}`, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/v1/nodes/"+jsonNum(id), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/v1/nodes/root", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScriptStopsAtFailingLine(t *testing.T) {
	eng, srv := newTestServer(t)
	script := "# startup\nliquid_glass_thickness 12\n\nliquid_glass_noise_intensity 2\nliquid_glass_specular off\n"

	rec := do(t, srv.Handler(), http.MethodPost, "/v1/script", script)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	reply := decode[ScriptReply](t, rec)
	assert.Equal(t, 1, reply.Applied)
	assert.False(t, reply.Result.Success)
	assert.Contains(t, reply.Result.Error, "line 4")

	p := eng.Config().Load()
	assert.Equal(t, float32(12), p.Thickness)
	assert.True(t, p.SpecularEnabled)
}

func TestDirectivesAndStatus(t *testing.T) {
	_, srv := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/v1/directives", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	infos := decode[[]DirectiveInfo](t, rec)
	assert.Len(t, infos, len(command.Directives()))

	do(t, h, http.MethodPost, "/v1/command", CommandRequest{Command: "liquid_glass_thickness 3"})
	rec = do(t, h, http.MethodGet, "/v1/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "liquid_glass_thickness 3")
}

func TestMetricsEndpoint(t *testing.T) {
	_, srv := newTestServer(t)
	h := srv.Handler()
	do(t, h, http.MethodPost, "/v1/command", CommandRequest{Command: "liquid_glass_thickness 3"})

	rec := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "liquidglass_directives_total")
	assert.Contains(t, body, "liquidglass_ipc_requests_total")
}

func TestStoppedEngineUnavailable(t *testing.T) {
	eng, srv := newTestServer(t)
	eng.Stop()

	rec := do(t, srv.Handler(), http.MethodPost, "/v1/command", CommandRequest{Command: "liquid_glass on"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestWebsocketCommandAndConfigEvent(t *testing.T) {
	_, srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cl, err := Dial(ctx, ts.URL)
	require.NoError(t, err)
	defer cl.Close()

	res, err := cl.Command(ctx, 0, "liquid_glass_surface lip")
	require.NoError(t, err)
	assert.True(t, res.Success)

	res, err = cl.Command(ctx, 0, "liquid_glass_surface diamond")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.True(t, res.ParseError)

	// The lip commit produced a config event that Command skipped; a new commit yields another
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	var got ConfigReply
	req := mustRequest(t, ts.URL, "liquid_glass_specular_angle 90")
	go func() {
		if resp, err := http.DefaultClient.Do(req); err == nil {
			resp.Body.Close()
		}
	}()
	err = cl.Watch(watchCtx, func(ev ConfigReply) {
		if ev.Params.SpecularAngle == 90 {
			got = ev
			stopWatch()
		}
	})
	require.NoError(t, err)
	assert.Equal(t, glass.SurfaceLip, got.Params.Surface)
	assert.Equal(t, uint64(2), got.Generation)
}

func TestPostScriptClient(t *testing.T) {
	eng, srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	reply, err := PostScript(context.Background(), strings.TrimPrefix(ts.URL, "http://"), 0,
		[]byte("liquid_glass on\nliquid_glass_refraction_index 2.5\n"))
	require.NoError(t, err)
	assert.True(t, reply.Result.Success)
	assert.Equal(t, 2, reply.Applied)
	assert.Equal(t, float32(2.5), eng.Config().Load().RefractionIndex)
}

func mustRequest(t *testing.T, base, line string) *http.Request {
	t.Helper()
	body, err := json.Marshal(CommandRequest{Command: line})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, base+"/v1/command", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func jsonNum(id glass.NodeID) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestServeListenerShutsDownOnCancel(t *testing.T) {
	_, srv := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ServeListener(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/v1/directives")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServeReportsListenError(t *testing.T) {
	_, srv := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	err = srv.Serve(context.Background(), ln.Addr().String())
	assert.ErrorContains(t, err, "listen")
}
