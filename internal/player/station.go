package player

import (
	"log"
	"sync"
	"time"
)

// SongSource supplies the next batch of songs for a station. Implementations
// may block on network I/O; StationPlayer calls it outside its state lock.
type SongSource interface {
	NextSongs() ([]Song, error)
}

// SongSourceFunc adapts a function to the SongSource interface.
type SongSourceFunc func() ([]Song, error)

func (f SongSourceFunc) NextSongs() ([]Song, error) { return f() }

// StationPlayer is a Host backed by a station-style song queue. It simulates
// engine timing (position advances with the wall clock while playing) and
// performs no audio I/O; the real decode pipeline lives in the host
// application, outside this module.
type StationPlayer struct {
	hub    *Hub
	source SongSource
	logger *log.Logger

	mu       sync.Mutex
	queue    []Song
	current  *Song
	playing  bool
	waiting  bool
	volume   float64
	startLag time.Duration // accumulated played time while paused
	startAt  time.Time     // when the current play segment began

	onQuit func()

	// now is replaceable for tests.
	now func() time.Time
}

// NewStationPlayer creates a stopped player at full volume.
func NewStationPlayer(hub *Hub, source SongSource, logger *log.Logger) *StationPlayer {
	if logger == nil {
		logger = log.Default()
	}
	return &StationPlayer{
		hub:    hub,
		source: source,
		logger: logger,
		volume: 1.0,
		now:    time.Now,
	}
}

// Events returns the hub this player emits on.
func (p *StationPlayer) Events() *Hub { return p.hub }

// SetQuitFunc installs the callback invoked when a desktop integration asks
// the player to terminate.
func (p *StationPlayer) SetQuitFunc(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onQuit = fn
}

// CurrentSong implements Host.
func (p *StationPlayer) CurrentSong() *Song {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Playing implements Host.
func (p *StationPlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// WaitingForPlaylist implements Host.
func (p *StationPlayer) WaitingForPlaylist() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waiting
}

// QueryPosition implements Host. Position is simulated from wall-clock time
// spent in the playing state.
func (p *StationPlayer) QueryPosition() (int64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return 0, false
	}
	return p.elapsedLocked().Nanoseconds(), true
}

// QueryDuration implements Host. The simulated engine knows the duration as
// soon as a track is loaded.
func (p *StationPlayer) QueryDuration() (int64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return 0, false
	}
	return (time.Duration(p.current.TrackLengthSec) * time.Second).Nanoseconds(), true
}

// NextSong implements Host. It marks the player as waiting, fetches from the
// song source, and emits SongChanged plus BufferingFinished for the new
// track. A skip that arrives while a fetch is pending is dropped.
func (p *StationPlayer) NextSong() {
	p.mu.Lock()
	if p.waiting {
		p.mu.Unlock()
		return
	}
	p.waiting = true
	needFetch := len(p.queue) == 0
	p.mu.Unlock()

	if needFetch {
		songs, err := p.source.NextSongs()
		if err != nil {
			p.logger.Printf("PLAYER: playlist fetch failed: %v", err)
			p.mu.Lock()
			p.waiting = false
			p.mu.Unlock()
			return
		}
		p.mu.Lock()
		p.queue = append(p.queue, songs...)
		p.mu.Unlock()
	}

	p.mu.Lock()
	var next *Song
	if len(p.queue) > 0 {
		song := p.queue[0]
		p.queue = p.queue[1:]
		next = &song
	}
	p.current = next
	p.waiting = false
	p.startAt = p.now()
	p.startLag = 0
	startedPlaying := next != nil
	if startedPlaying {
		p.playing = true
	} else {
		p.playing = false
	}
	p.mu.Unlock()

	p.hub.EmitSongChanged(next)
	if startedPlaying {
		p.hub.EmitPlayStateChanged(true)
		p.hub.EmitBufferingFinished(0)
	}
}

// PlayPause implements Host.
func (p *StationPlayer) PlayPause() {
	p.mu.Lock()
	if p.current == nil {
		p.mu.Unlock()
		return
	}
	p.setPlayingLocked(!p.playing)
	playing := p.playing
	p.mu.Unlock()
	p.hub.EmitPlayStateChanged(playing)
}

// Play implements Host.
func (p *StationPlayer) Play() {
	p.mu.Lock()
	if p.current == nil || p.playing {
		p.mu.Unlock()
		return
	}
	p.setPlayingLocked(true)
	p.mu.Unlock()
	p.hub.EmitPlayStateChanged(true)
}

// Pause implements Host.
func (p *StationPlayer) Pause() {
	p.mu.Lock()
	if p.current == nil || !p.playing {
		p.mu.Unlock()
		return
	}
	p.setPlayingLocked(false)
	p.mu.Unlock()
	p.hub.EmitPlayStateChanged(false)
}

// BringToTop implements Host. The daemon has no window; the request is
// logged so a wrapping application can decide to handle it.
func (p *StationPlayer) BringToTop() {
	p.logger.Printf("PLAYER: raise requested")
}

// Quit implements Host.
func (p *StationPlayer) Quit() {
	p.mu.Lock()
	fn := p.onQuit
	p.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Volume implements Host.
func (p *StationPlayer) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume implements Host.
func (p *StationPlayer) SetVolume(v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	p.mu.Lock()
	changed := p.volume != v
	p.volume = v
	p.mu.Unlock()
	if changed {
		p.hub.EmitVolumeChanged(v)
	}
}

func (p *StationPlayer) setPlayingLocked(playing bool) {
	if playing == p.playing {
		return
	}
	if playing {
		p.startAt = p.now()
	} else {
		p.startLag += p.now().Sub(p.startAt)
	}
	p.playing = playing
}

func (p *StationPlayer) elapsedLocked() time.Duration {
	if p.playing {
		return p.startLag + p.now().Sub(p.startAt)
	}
	return p.startLag
}
