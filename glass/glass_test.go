package glass

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurfaceLabels(t *testing.T) {
	assert.Equal(t, []string{"convex_circle", "convex_squircle", "concave", "lip"}, SurfaceLabels())
	assert.Equal(t, "convex_circle, convex_squircle, concave, lip", SurfaceLabelList())

	for i, label := range SurfaceLabels() {
		s, ok := ParseSurface(label)
		require.True(t, ok, label)
		assert.Equal(t, SurfaceType(i), s)
		assert.Equal(t, label, s.String())
	}

	for _, bad := range []string{"", "Lip", "LIP", "diamond", " lip", "convex"} {
		_, ok := ParseSurface(bad)
		assert.False(t, ok, "label %q should not match", bad)
	}
}

func TestSurfaceJSON(t *testing.T) {
	data, err := json.Marshal(SurfaceConcave)
	require.NoError(t, err)
	assert.Equal(t, `"concave"`, string(data))

	var s SurfaceType
	require.NoError(t, json.Unmarshal([]byte(`"lip"`), &s))
	assert.Equal(t, SurfaceLip, s)
	assert.Error(t, json.Unmarshal([]byte(`"diamond"`), &s))
}

func TestResolve(t *testing.T) {
	global := Defaults()
	global.Enabled = true
	global.BezelWidth = 42

	inherited := Resolve(global, Inherit)
	assert.Equal(t, global, inherited)

	disabled := Resolve(global, Force(false))
	assert.False(t, disabled.Enabled)
	assert.Equal(t, float32(42), disabled.BezelWidth, "non-toggle parameters always come from global")

	global.Enabled = false
	assert.True(t, Resolve(global, Force(true)).Enabled)
}

func TestConfigUpdatePublishesCopy(t *testing.T) {
	cfg := NewConfig(Defaults())
	before := cfg.Load()
	assert.Equal(t, uint64(0), cfg.Generation())

	after := cfg.Update(func(p *Params) { p.Thickness = 12 })

	assert.Equal(t, float32(12), after.Thickness)
	assert.Equal(t, float32(12), cfg.Load().Thickness)
	assert.Equal(t, Defaults().Thickness, before.Thickness, "earlier snapshot must not change")
	assert.Equal(t, uint64(1), cfg.Generation())
}

func TestConfigConcurrentReaders(t *testing.T) {
	cfg := NewConfig(Defaults())

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				p := cfg.Load()
				// Both fields are written in the same commit
				if p.BrightnessBoost != p.SaturationBoost {
					t.Errorf("torn read: %v != %v", p.BrightnessBoost, p.SaturationBoost)
					return
				}
			}
		}()
	}

	for i := 0; i < 1000; i++ {
		v := float32(i % 10)
		cfg.Update(func(p *Params) {
			p.BrightnessBoost = v
			p.SaturationBoost = v
		})
	}
	close(stop)
	wg.Wait()
}
