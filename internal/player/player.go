package player

// Host is the surface of the running player application that the desktop
// integrations are allowed to touch. Implementations must be safe for calls
// from the bus transport's delivery goroutine and from HTTP handlers.
type Host interface {
	// CurrentSong returns the song being played, or nil when no track is
	// loaded.
	CurrentSong() *Song

	// Playing reports whether the engine is actively playing (as opposed to
	// paused or stopped).
	Playing() bool

	// WaitingForPlaylist reports whether the host is mid-fetch of the next
	// playlist chunk. Skip requests must not be forwarded while this is set,
	// or a pending fetch would race a duplicate skip.
	WaitingForPlaylist() bool

	// QueryPosition returns the engine's playback position in nanoseconds.
	// ok is false when the engine has no position yet.
	QueryPosition() (pos int64, ok bool)

	// QueryDuration returns the engine's measured track duration in
	// nanoseconds. ok is false before the engine has figured it out.
	QueryDuration() (dur int64, ok bool)

	// NextSong asks the host to skip to the next track.
	NextSong()

	PlayPause()
	Play()
	Pause()

	// BringToTop asks the host to present its main window.
	BringToTop()

	// Quit asks the host to terminate.
	Quit()

	// Volume returns the engine's linear volume in [0, 1].
	Volume() float64

	// SetVolume sets the engine's linear volume, clamped to [0, 1].
	SetVolume(v float64)
}
