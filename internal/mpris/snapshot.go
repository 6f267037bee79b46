package mpris

import (
	"encoding/hex"
	"math"

	"github.com/godbus/dbus/v5"

	"github.com/testeddoughnut/pithos/internal/player"
)

const (
	// trackIDPrefix is the object-path namespace for synthesized track IDs.
	// The host token is hex encoded underneath it so the resulting path is
	// valid no matter what bytes the token contains.
	trackIDPrefix = "/io/github/Pithos/TrackId/"

	// noTrackID is the MPRIS2 sentinel for "no current track".
	noTrackID = dbus.ObjectPath("/org/mpris/MediaPlayer2/TrackList/NoTrack")
)

// Placeholder strings for absent tag data. Consumers expect strings here,
// never null.
const (
	unknownTitle  = "Title Unknown"
	unknownArtist = "Artist Unknown"
	unknownAlbum  = "Album Unknown"
)

// ProtocolVolume converts the host's linear volume to the protocol's
// cube-root perceptual scale.
func ProtocolVolume(linear float64) float64 {
	return math.Cbrt(linear)
}

// HostVolume is the inverse of ProtocolVolume.
func HostVolume(protocol float64) float64 {
	return protocol * protocol * protocol
}

// Builder projects host state into wire-typed property tables. It owns no
// state of its own; every method recomputes from the host on demand.
type Builder struct {
	host         player.Host
	identity     string
	desktopEntry string

	// fallbackArt resolves a themed generic-audio icon URI for songs that
	// ship without cover art.
	fallbackArt func() string
}

// NewBuilder creates a snapshot builder for the given host.
func NewBuilder(host player.Host, identity, desktopEntry string, fallbackArt func() string) *Builder {
	return &Builder{
		host:         host,
		identity:     identity,
		desktopEntry: desktopEntry,
		fallbackArt:  fallbackArt,
	}
}

// Metadata builds the metadata dictionary for a song. A nil song produces
// the designated no-track fallback table: exactly the no-track ID and an
// empty URL, nothing else.
func (b *Builder) Metadata(song *player.Song) Value {
	if song == nil {
		return Dict(map[string]Value{
			"mpris:trackid": Path(noTrackID),
			"xesam:url":     String(""),
		})
	}

	title := song.Title
	if title == "" {
		title = unknownTitle
	}
	artist := song.Artist
	if artist == "" {
		artist = unknownArtist
	}
	album := song.Album
	if album == "" {
		album = unknownAlbum
	}

	var userRating int64
	if song.Rating == player.RatingLoved {
		userRating = 5
	}

	artURL := song.ArtURL
	if artURL == "" && b.fallbackArt != nil {
		artURL = b.fallbackArt()
	}

	trackID := dbus.ObjectPath(trackIDPrefix + hex.EncodeToString([]byte(song.TrackToken)))

	return Dict(map[string]Value{
		"mpris:trackid":    Path(trackID),
		"xesam:title":      String(title),
		"xesam:artist":     StringList(artist),
		"xesam:album":      String(album),
		"xesam:userRating": Int64(userRating),
		"mpris:artUrl":     String(artURL),
		"xesam:url":        String(song.AudioURL),
		"mpris:length":     Int64(b.durationMicros(song)),
		"pithos:rating":    String(song.Rating),
	})
}

// PlaybackStatus derives the wire status string from host state.
func (b *Builder) PlaybackStatus() string {
	if b.host.CurrentSong() == nil {
		return "Stopped"
	}
	if b.host.Playing() {
		return "Playing"
	}
	return "Paused"
}

// Volume returns the protocol-scale volume.
func (b *Builder) Volume() float64 {
	return ProtocolVolume(b.host.Volume())
}

// PositionMicros returns the playback position in microseconds, zero when
// the engine has none.
func (b *Builder) PositionMicros() int64 {
	pos, ok := b.host.QueryPosition()
	if !ok {
		return 0
	}
	return pos / 1000
}

// durationMicros prefers the engine's measured duration and falls back to
// the catalog-declared track length before real timing is available.
func (b *Builder) durationMicros(song *player.Song) int64 {
	if dur, ok := b.host.QueryDuration(); ok {
		return dur / 1000
	}
	return int64(song.TrackLengthSec) * 1e6
}

// RootProperties builds the property table for the application interface.
func (b *Builder) RootProperties() map[string]Value {
	return map[string]Value{
		"CanQuit":             Bool(true),
		"CanRaise":            Bool(true),
		"HasTrackList":        Bool(false),
		"Identity":            String(b.identity),
		"DesktopEntry":        String(b.desktopEntry),
		"SupportedUriSchemes": StringList(""),
		"SupportedMimeTypes":  StringList(""),
	}
}

// PlayerProperties builds the property table for the player interface.
// metadata is the cached last-built dictionary; callers pass the no-track
// fallback when none has been built yet.
//
// CanGoNext, CanPlay, CanPause and CanSeek report true regardless of actual
// availability: some applets read these once and end up stuck otherwise.
// Whether an operation really happens is decided in the method handlers.
func (b *Builder) PlayerProperties(metadata Value) map[string]Value {
	return map[string]Value{
		"PlaybackStatus": String(b.PlaybackStatus()),
		"LoopStatus":     String("None"),
		"Rate":           Double(1.0),
		"Shuffle":        Bool(false),
		"Metadata":       metadata,
		"Volume":         Double(b.Volume()),
		"Position":       Int64(b.PositionMicros()),
		"MinimumRate":    Double(1.0),
		"MaximumRate":    Double(1.0),
		"CanGoNext":      Bool(true),
		"CanGoPrevious":  Bool(false),
		"CanPlay":        Bool(true),
		"CanPause":       Bool(true),
		"CanSeek":        Bool(true),
		"CanControl":     Bool(true),
	}
}
