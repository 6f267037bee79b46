package player

import "sync"

// Hub fans host playback events out to registered listeners. Dispatch is
// serialized: a listener set runs to completion for one event before the next
// event is delivered, so listeners need no ordering assumptions beyond that.
// Delivery is not re-entrant; listeners must not call host operations that
// emit further events on the same hub.
type Hub struct {
	mu sync.Mutex

	nextID     int
	songs      map[int]func(*Song)
	playStates map[int]func(bool)
	volumes    map[int]func(float64)
	buffered   map[int]func(int64)
}

// NewHub creates an empty event hub.
func NewHub() *Hub {
	return &Hub{
		songs:      make(map[int]func(*Song)),
		playStates: make(map[int]func(bool)),
		volumes:    make(map[int]func(float64)),
		buffered:   make(map[int]func(int64)),
	}
}

// OnSongChanged registers a callback for current-track changes. The song may
// be nil when playback drains with nothing queued. The returned function
// removes the registration.
func (h *Hub) OnSongChanged(fn func(*Song)) (remove func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.songs[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.songs, id)
	}
}

// OnPlayStateChanged registers a callback for play/pause transitions.
func (h *Hub) OnPlayStateChanged(fn func(playing bool)) (remove func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.playStates[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.playStates, id)
	}
}

// OnVolumeChanged registers a callback for engine volume changes. The value
// is the host's linear volume in [0, 1].
func (h *Hub) OnVolumeChanged(fn func(linear float64)) (remove func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.volumes[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.volumes, id)
	}
}

// OnBufferingFinished registers a callback fired when the engine finishes
// buffering and playback timing becomes trustworthy. The position is in
// nanoseconds.
func (h *Hub) OnBufferingFinished(fn func(posNanos int64)) (remove func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.buffered[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.buffered, id)
	}
}

// EmitSongChanged delivers a current-track change to all listeners.
func (h *Hub) EmitSongChanged(song *Song) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, fn := range h.songs {
		fn(song)
	}
}

// EmitPlayStateChanged delivers a play/pause transition to all listeners.
func (h *Hub) EmitPlayStateChanged(playing bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, fn := range h.playStates {
		fn(playing)
	}
}

// EmitVolumeChanged delivers an engine volume change to all listeners.
func (h *Hub) EmitVolumeChanged(linear float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, fn := range h.volumes {
		fn(linear)
	}
}

// EmitBufferingFinished delivers a buffering-complete notification.
func (h *Hub) EmitBufferingFinished(posNanos int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, fn := range h.buffered {
		fn(posNanos)
	}
}
