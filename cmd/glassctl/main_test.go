package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/liquid-glass/command"
	"github.com/lixenwraith/liquid-glass/config"
	"github.com/lixenwraith/liquid-glass/engine"
	"github.com/lixenwraith/liquid-glass/glass"
	"github.com/lixenwraith/liquid-glass/ipc"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	chdir(t, t.TempDir())
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func startServer(t *testing.T) (*engine.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	eng := engine.New(engine.Options{Initial: glass.Defaults(), Interval: time.Hour, Logger: zerolog.Nop()})
	eng.Start()
	t.Cleanup(eng.Stop)

	ts := httptest.NewServer(ipc.NewServer(eng, zerolog.Nop()).Handler())
	t.Cleanup(ts.Close)
	return eng, strings.TrimPrefix(ts.URL, "http://")
}

func TestDirectivesListsTable(t *testing.T) {
	out, err := run(t, "directives")
	require.NoError(t, err)
	for _, d := range command.Directives() {
		assert.Contains(t, out, d.Name)
	}
	assert.Contains(t, out, "<0-500>")

	out, err = run(t, "directives", "--json")
	require.NoError(t, err)
	var infos []ipc.DirectiveInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	assert.Len(t, infos, len(command.Directives()))
}

func TestSendAgainstServer(t *testing.T) {
	eng, addr := startServer(t)

	out, err := run(t, "send", "--addr", addr, "liquid_glass_bezel_width", "250")
	require.NoError(t, err)
	assert.Contains(t, out, `"success": true`)
	assert.Equal(t, float32(250), eng.Config().Load().BezelWidth)

	out, err = run(t, "send", "--addr", addr, "liquid_glass_bezel_width", "500.1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be between 0 and 500")
	assert.Contains(t, out, `"parse_error": true`)
	assert.Equal(t, float32(250), eng.Config().Load().BezelWidth)
}

func TestApplyAgainstServer(t *testing.T) {
	eng, addr := startServer(t)
	script := filepath.Join(t.TempDir(), "glass.conf")
	require.NoError(t, os.WriteFile(script, []byte("liquid_glass on\nliquid_glass_surface concave\n"), 0o644))

	out, err := run(t, "apply", "--addr", addr, script)
	require.NoError(t, err)
	assert.Contains(t, out, `"applied": 2`)

	p := eng.Config().Load()
	assert.True(t, p.Enabled)
	assert.Equal(t, glass.SurfaceConcave, p.Surface)
}

func TestApplyDryRun(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.conf")
	bad := filepath.Join(dir, "bad.conf")
	require.NoError(t, os.WriteFile(good, []byte("liquid_glass_thickness 20\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("liquid_glass_thickness 20\nliquid_glass_thickness 21\n"), 0o644))

	out, err := run(t, "apply", "--dry-run", good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")

	_, err = run(t, "apply", "--dry-run", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestStartupRejectsInvalidConfigValue(t *testing.T) {
	t.Setenv("LIQUIDGLASS_GLASS_NOISE_INTENSITY", "3")
	script := filepath.Join(t.TempDir(), "s.conf")
	require.NoError(t, os.WriteFile(script, nil, 0o644))

	_, err := run(t, "apply", "--dry-run", script)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config [glass]")
	assert.Contains(t, err.Error(), "noise intensity")
}

// loadedApp returns an app with configuration loaded from a clean directory
func loadedApp(t *testing.T) *app {
	t.Helper()
	chdir(t, t.TempDir())
	a := &app{v: config.NewViper()}
	require.NoError(t, a.load(io.Discard))
	return a
}

func TestRuntimeStartsAndStopsServices(t *testing.T) {
	a := loadedApp(t)
	a.settings.IPC.Listen = "127.0.0.1:0"

	rt, err := a.newRuntime(true, true)
	require.NoError(t, err)
	require.NoError(t, rt.hub.StartAll(context.Background()))

	require.NotNil(t, rt.engine.eng)
	assert.NoError(t, rt.engine.eng.Execute(context.Background(), command.Global, "liquid_glass on"))
	assert.False(t, rt.audio.player.Enabled())
	select {
	case <-rt.ipc.Done():
		t.Fatal("control server exited early")
	default:
	}

	require.NoError(t, rt.hub.StopAll())
	assert.ErrorIs(t, rt.engine.eng.Execute(context.Background(), command.Global, "liquid_glass off"), engine.ErrStopped)
}

func TestRuntimeListenFailureRollsBack(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	a := loadedApp(t)
	a.settings.IPC.Listen = ln.Addr().String()

	rt, err := a.newRuntime(true, false)
	require.NoError(t, err)
	err = rt.hub.StartAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen")
	assert.ErrorIs(t, rt.engine.eng.Execute(context.Background(), command.Global, "liquid_glass on"), engine.ErrStopped)
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (testing.T.Chdir requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(old)) })
}
