package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Cue durations
const (
	acceptDuration = 60 * time.Millisecond
	rejectDuration = 140 * time.Millisecond
	cueAttack      = 5 * time.Millisecond
	cueRelease     = 30 * time.Millisecond
)

// Cue identifies a feedback sound
type Cue int

const (
	CueAccept Cue = iota
	CueReject
)

// NewCueStream returns the streamer for cue at the given linear volume
func NewCueStream(cue Cue, volume float64) beep.Streamer {
	switch cue {
	case CueAccept:
		// Rising two-note chirp (A5 then E6)
		n1 := NewEnvelope(NewOscillator(880.0, acceptDuration/2, WaveSine, sampleRate), acceptDuration/2, cueAttack, cueRelease/2, sampleRate)
		n2 := NewEnvelope(NewOscillator(1318.51, acceptDuration/2, WaveSine, sampleRate), acceptDuration/2, cueAttack, cueRelease/2, sampleRate)
		return newVolume(beep.Seq(n1, n2), volume)
	default:
		// Low saw buzz
		buzz := NewEnvelope(NewOscillator(110.0, rejectDuration, WaveSaw, sampleRate), rejectDuration, cueAttack, cueRelease, sampleRate)
		return newVolume(buzz, volume*0.6)
	}
}

// Player plays cues on the system speaker
// A Player that failed to initialize stays silent
type Player struct {
	mu      sync.Mutex
	enabled bool
	ready   bool
	volume  float64
	sink    func(beep.Streamer) // speaker.Play outside tests
}

// NewPlayer creates a silent player; call Init to open the speaker
func NewPlayer(volume float64) *Player {
	return &Player{volume: volume, sink: func(s beep.Streamer) { speaker.Play(s) }}
}

// Init opens the speaker; on error the player remains usable and silent
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ready {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	p.ready = true
	p.enabled = true
	return nil
}

// SetEnabled mutes or unmutes cues without closing the speaker
func (p *Player) SetEnabled(on bool) {
	p.mu.Lock()
	p.enabled = on && p.ready
	p.mu.Unlock()
}

// Enabled reports whether cues are audible
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Play queues cue without blocking
func (p *Player) Play(cue Cue) {
	if !p.Enabled() {
		return
	}
	p.sink(NewCueStream(cue, p.volume))
}

// Close releases the speaker
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ready {
		speaker.Clear()
		speaker.Close()
		p.ready = false
		p.enabled = false
	}
}
