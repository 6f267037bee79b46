package mpris

import (
	"fmt"
	"log"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/testeddoughnut/pithos/internal/player"
)

const (
	rootInterface       = "org.mpris.MediaPlayer2"
	playerInterface     = "org.mpris.MediaPlayer2.Player"
	propertiesInterface = "org.freedesktop.DBus.Properties"
	introspectableIface = "org.freedesktop.DBus.Introspectable"
	objectPath          = dbus.ObjectPath("/org/mpris/MediaPlayer2")
	defaultBusName      = "org.mpris.MediaPlayer2.pithos"
	defaultIdentity     = "Pithos"
	defaultDesktopEntry = "pithos"
)

// Config controls how the adapter presents itself on the bus. Zero fields
// fall back to the pithos defaults.
type Config struct {
	BusName      string
	Identity     string
	DesktopEntry string

	// FallbackArt resolves a themed generic-audio icon URI used when a song
	// carries no cover art. Optional.
	FallbackArt func() string

	Logger *log.Logger
}

// Adapter projects host playback state onto the MPRIS2 contract. One adapter
// is constructed per process with an injected host and bus handle; Close
// tears both registrations down explicitly.
//
// The bus transport delivers method calls on its own goroutines, so the
// adapter serializes all state access through mu. Host mutation calls are
// made outside the lock: the host emits events synchronously and those
// events re-enter the adapter.
type Adapter struct {
	cfg      Config
	bus      Bus
	host     player.Host
	builder  *Builder
	logger   *log.Logger

	mu       sync.Mutex
	notifier *Notifier
	metadata Value // last built metadata dictionary; zero until a song is seen

	removeListeners []func()
}

// Attach registers the adapter on the bus, exports the MPRIS interfaces and
// subscribes to host events. If a song is already current the full state is
// published immediately so enabling the bridge mid-song works.
func Attach(bus Bus, host player.Host, hub *player.Hub, cfg Config) (*Adapter, error) {
	if cfg.BusName == "" {
		cfg.BusName = defaultBusName
	}
	if cfg.Identity == "" {
		cfg.Identity = defaultIdentity
	}
	if cfg.DesktopEntry == "" {
		cfg.DesktopEntry = defaultDesktopEntry
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	a := &Adapter{
		cfg:      cfg,
		bus:      bus,
		host:     host,
		builder:  NewBuilder(host, cfg.Identity, cfg.DesktopEntry, cfg.FallbackArt),
		notifier: NewNotifier(bus, objectPath),
		logger:   cfg.Logger,
	}

	reply, err := bus.RequestName(cfg.BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return nil, fmt.Errorf("request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return nil, fmt.Errorf("bus name %s already taken", cfg.BusName)
	}

	for _, iface := range []string{rootInterface, playerInterface, propertiesInterface, introspectableIface} {
		if err := bus.Export(a, objectPath, iface); err != nil {
			bus.ReleaseName(cfg.BusName)
			return nil, fmt.Errorf("export %s: %w", iface, err)
		}
	}

	a.removeListeners = []func(){
		hub.OnSongChanged(a.handleSongChanged),
		hub.OnPlayStateChanged(a.handlePlayStateChanged),
		hub.OnVolumeChanged(a.handleVolumeChanged),
		hub.OnBufferingFinished(a.handleBufferingFinished),
	}

	if song := host.CurrentSong(); song != nil {
		a.handleSongChanged(song)
		a.handlePlayStateChanged(host.Playing())
	}

	a.logger.Printf("MPRIS: registered %s", cfg.BusName)
	return a, nil
}

// Close detaches from host events and releases the well-known name. The bus
// connection itself belongs to the caller.
func (a *Adapter) Close() error {
	for _, remove := range a.removeListeners {
		remove()
	}
	a.removeListeners = nil
	if _, err := a.bus.ReleaseName(a.cfg.BusName); err != nil {
		return fmt.Errorf("release bus name: %w", err)
	}
	a.logger.Printf("MPRIS: released %s", a.cfg.BusName)
	return nil
}

// currentMetadataLocked returns the cached metadata dictionary, or the
// no-track fallback before any song has been seen.
func (a *Adapter) currentMetadataLocked() Value {
	if a.metadata.IsZero() {
		return a.builder.Metadata(nil)
	}
	return a.metadata
}

func (a *Adapter) handleSongChanged(song *player.Song) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.metadata = a.builder.Metadata(song)
	if err := a.notifier.Publish(playerInterface, map[string]Value{
		"Metadata": a.metadata,
	}); err != nil {
		a.logger.Printf("MPRIS: metadata signal failed: %v", err)
	}
}

func (a *Adapter) handlePlayStateChanged(playing bool) {
	status := "Paused"
	if playing {
		status = "Playing"
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.notifier.Publish(playerInterface, map[string]Value{
		"PlaybackStatus": String(status),
	}); err != nil {
		a.logger.Printf("MPRIS: playback status signal failed: %v", err)
	}
}

func (a *Adapter) handleVolumeChanged(linear float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.notifier.Publish(playerInterface, map[string]Value{
		"Volume": Double(ProtocolVolume(linear)),
	}); err != nil {
		a.logger.Printf("MPRIS: volume signal failed: %v", err)
	}
}

// handleBufferingFinished reports the corrected position once buffering
// completes. This is not a seek; it goes out on the dedicated position
// channel.
func (a *Adapter) handleBufferingFinished(posNanos int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.notifier.Seeked(posNanos / 1000); err != nil {
		a.logger.Printf("MPRIS: seeked signal failed: %v", err)
	}
}
