package main

import (
	"context"
	"fmt"
	"net"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/liquid-glass/audio"
	"github.com/lixenwraith/liquid-glass/engine"
	"github.com/lixenwraith/liquid-glass/ipc"
	"github.com/lixenwraith/liquid-glass/parameter"
	"github.com/lixenwraith/liquid-glass/service"
)

// Service names
const (
	serviceEngine = "engine"
	serviceIPC    = "ipc"
	serviceAudio  = "audio"
)

// engineService runs the engine with the startup configuration applied
type engineService struct {
	app *app
	eng *engine.Engine
}

func (s *engineService) Name() string           { return serviceEngine }
func (s *engineService) Dependencies() []string { return nil }

func (s *engineService) Start(ctx context.Context) error {
	eng, err := s.app.startEngine(ctx)
	if err != nil {
		return err
	}
	s.eng = eng
	return nil
}

func (s *engineService) Stop() error {
	if s.eng != nil {
		s.eng.Stop()
	}
	return nil
}

// ipcService serves the control API for the engine service
type ipcService struct {
	engine *engineService
	addr   string
	logger zerolog.Logger

	cancel context.CancelFunc
	done   chan struct{}
	err    error // Server exit error, valid once done is closed
}

func (s *ipcService) Name() string           { return serviceIPC }
func (s *ipcService) Dependencies() []string { return []string{serviceEngine} }

// Start binds synchronously so an unusable address fails startup
func (s *ipcService) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}

	gin.SetMode(gin.ReleaseMode)
	srv := ipc.NewServer(s.engine.eng, s.logger)

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go func() {
		s.err = srv.ServeListener(ctx, ln)
		close(s.done)
	}()
	return nil
}

// Done is closed when the server exits
func (s *ipcService) Done() <-chan struct{} { return s.done }

func (s *ipcService) Stop() error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	<-s.done
	return s.err
}

// audioService owns the speaker for console cues
type audioService struct {
	player  *audio.Player
	enabled bool
	logger  zerolog.Logger
}

func newAudioService(enabled bool, logger zerolog.Logger) *audioService {
	return &audioService{player: audio.NewPlayer(parameter.CueVolume), enabled: enabled, logger: logger}
}

func (s *audioService) Name() string           { return serviceAudio }
func (s *audioService) Dependencies() []string { return nil }

// Start never fails; without a speaker the console stays silent
func (s *audioService) Start(context.Context) error {
	if !s.enabled {
		return nil
	}
	if err := s.player.Init(); err != nil {
		s.logger.Warn().Err(err).Msg("audio unavailable, cues disabled")
	}
	return nil
}

func (s *audioService) Stop() error {
	s.player.Close()
	return nil
}

// runtime is the set of services a subcommand runs
type runtime struct {
	hub    *service.Hub
	engine *engineService
	ipc    *ipcService   // nil unless requested
	audio  *audioService // nil unless requested
}

// newRuntime registers the engine and, when wanted, the control server and audio
func (a *app) newRuntime(withIPC, withAudio bool) (*runtime, error) {
	rt := &runtime{hub: service.NewHub(), engine: &engineService{app: a}}
	svcs := []service.Service{rt.engine}

	if withIPC {
		rt.ipc = &ipcService{engine: rt.engine, addr: a.settings.IPC.Listen, logger: a.logger}
		svcs = append(svcs, rt.ipc)
	}
	if withAudio {
		rt.audio = newAudioService(a.settings.Console.Audible, a.logger)
		svcs = append(svcs, rt.audio)
	}

	for _, svc := range svcs {
		if err := rt.hub.Register(svc); err != nil {
			return nil, err
		}
	}
	return rt, nil
}
