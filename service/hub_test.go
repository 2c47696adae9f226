package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	name     string
	deps     []string
	startErr error
	stopErr  error
	log      *[]string
}

func (f *fakeService) Name() string           { return f.name }
func (f *fakeService) Dependencies() []string { return f.deps }

func (f *fakeService) Start(context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	*f.log = append(*f.log, "start "+f.name)
	return nil
}

func (f *fakeService) Stop() error {
	*f.log = append(*f.log, "stop "+f.name)
	return f.stopErr
}

func TestStartAllFollowsDependencies(t *testing.T) {
	var log []string
	h := NewHub()
	require.NoError(t, h.Register(&fakeService{name: "ipc", deps: []string{"engine"}, log: &log}))
	require.NoError(t, h.Register(&fakeService{name: "audio", log: &log}))
	require.NoError(t, h.Register(&fakeService{name: "engine", log: &log}))

	require.NoError(t, h.StartAll(context.Background()))
	assert.Equal(t, []string{"start audio", "start engine", "start ipc"}, log)

	log = nil
	require.NoError(t, h.StopAll())
	assert.Equal(t, []string{"stop ipc", "stop engine", "stop audio"}, log)

	log = nil
	require.NoError(t, h.StopAll())
	assert.Empty(t, log)
}

func TestStartFailureRollsBack(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	h := NewHub()
	require.NoError(t, h.Register(&fakeService{name: "engine", log: &log}))
	require.NoError(t, h.Register(&fakeService{name: "ipc", deps: []string{"engine"}, startErr: boom, log: &log}))

	err := h.StartAll(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"start engine", "stop engine"}, log)
}

func TestStopAllJoinsErrors(t *testing.T) {
	var log []string
	h := NewHub()
	require.NoError(t, h.Register(&fakeService{name: "a", stopErr: errors.New("a failed"), log: &log}))
	require.NoError(t, h.Register(&fakeService{name: "b", deps: []string{"a"}, stopErr: errors.New("b failed"), log: &log}))
	require.NoError(t, h.StartAll(context.Background()))

	err := h.StopAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a failed")
	assert.Contains(t, err.Error(), "b failed")
	assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, log)
}

func TestRegistrationErrors(t *testing.T) {
	var log []string
	h := NewHub()
	require.NoError(t, h.Register(&fakeService{name: "a", log: &log}))
	assert.Error(t, h.Register(&fakeService{name: "a", log: &log}))

	require.NoError(t, h.Register(&fakeService{name: "b", deps: []string{"missing"}, log: &log}))
	assert.ErrorContains(t, h.StartAll(context.Background()), "unregistered service: missing")

	cyc := NewHub()
	require.NoError(t, cyc.Register(&fakeService{name: "x", deps: []string{"y"}, log: &log}))
	require.NoError(t, cyc.Register(&fakeService{name: "y", deps: []string{"x"}, log: &log}))
	assert.ErrorContains(t, cyc.StartAll(context.Background()), "circular dependency")
}

func TestGetTyped(t *testing.T) {
	var log []string
	h := NewHub()
	svc := &fakeService{name: "engine", log: &log}
	require.NoError(t, h.Register(svc))

	got, ok := Get[*fakeService](h, "engine")
	require.True(t, ok)
	assert.Same(t, svc, got)

	_, ok = Get[*fakeService](h, "nope")
	assert.False(t, ok)
}
