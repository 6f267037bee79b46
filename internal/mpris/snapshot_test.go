package mpris

import (
	"math"
	"strings"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/require"

	"github.com/testeddoughnut/pithos/internal/player"
)

func testBuilder(host *fakeHost) *Builder {
	return NewBuilder(host, "Pithos", "pithos", nil)
}

func TestVolumeMappingRoundTrips(t *testing.T) {
	for _, v := range []float64{0, 0.1, 0.125, 0.25, 0.5, 0.7, 0.99, 1} {
		require.InDelta(t, v, ProtocolVolume(HostVolume(v)), 1e-9)
		require.InDelta(t, v, HostVolume(ProtocolVolume(v)), 1e-9)
	}
}

func TestMetadataScenario(t *testing.T) {
	host := &fakeHost{playing: true, volume: 0.125}
	b := testBuilder(host)

	song := &player.Song{
		TrackToken:     "abc123",
		Title:          "X",
		Artist:         "Y",
		Album:          "Z",
		Rating:         "love",
		AudioURL:       "https://audio.example/stream",
		ArtURL:         "https://art.example/cover.jpg",
		TrackLengthSec: 240,
	}
	host.song = song

	md := b.Metadata(song).v.(map[string]Value)

	require.Equal(t, Int64(5), md["xesam:userRating"])
	require.Equal(t, String("X"), md["xesam:title"])
	require.Equal(t, StringList("Y"), md["xesam:artist"])
	require.Equal(t, String("Z"), md["xesam:album"])
	require.Equal(t, String("love"), md["pithos:rating"])

	trackID := md["mpris:trackid"].v.(dbus.ObjectPath)
	require.True(t, strings.HasPrefix(string(trackID), "/io/github/Pithos/TrackId/"))
	// hex("abc123")
	require.True(t, strings.HasSuffix(string(trackID), "616263313233"))
	require.True(t, trackID.IsValid())

	require.InDelta(t, 0.5, b.Volume(), 1e-9)
	require.Equal(t, "Playing", b.PlaybackStatus())
}

func TestMetadataTrackIDValidForArbitraryTokenBytes(t *testing.T) {
	b := testBuilder(&fakeHost{})
	song := &player.Song{TrackToken: "we ird/token\x00!"}

	trackID := b.Metadata(song).v.(map[string]Value)["mpris:trackid"].v.(dbus.ObjectPath)
	require.True(t, trackID.IsValid())
}

func TestMetadataPlaceholders(t *testing.T) {
	b := testBuilder(&fakeHost{})
	md := b.Metadata(&player.Song{TrackToken: "t"}).v.(map[string]Value)

	require.Equal(t, String("Title Unknown"), md["xesam:title"])
	require.Equal(t, StringList("Artist Unknown"), md["xesam:artist"])
	require.Equal(t, String("Album Unknown"), md["xesam:album"])
	require.Equal(t, Int64(0), md["xesam:userRating"])
}

func TestMetadataNilSongFallbackIsExact(t *testing.T) {
	b := testBuilder(&fakeHost{})
	md := b.Metadata(nil).v.(map[string]Value)

	require.Len(t, md, 2)
	require.Equal(t, Path(dbus.ObjectPath("/org/mpris/MediaPlayer2/TrackList/NoTrack")), md["mpris:trackid"])
	require.Equal(t, String(""), md["xesam:url"])
}

func TestMetadataDurationPrefersEngine(t *testing.T) {
	host := &fakeHost{dur: int64(200 * 1e9), durOK: true}
	b := testBuilder(host)

	md := b.Metadata(&player.Song{TrackToken: "t", TrackLengthSec: 180}).v.(map[string]Value)
	require.Equal(t, Int64(200*1e6), md["mpris:length"])
}

func TestMetadataDurationFallsBackToTrackLength(t *testing.T) {
	b := testBuilder(&fakeHost{})
	md := b.Metadata(&player.Song{TrackToken: "t", TrackLengthSec: 180}).v.(map[string]Value)
	require.Equal(t, Int64(180*1e6), md["mpris:length"])
}

func TestMetadataArtFallback(t *testing.T) {
	host := &fakeHost{}
	b := NewBuilder(host, "Pithos", "pithos", func() string {
		return "file:///usr/share/icons/hicolor/scalable/mimetypes/audio-x-generic.svg"
	})

	md := b.Metadata(&player.Song{TrackToken: "t"}).v.(map[string]Value)
	require.Equal(t, String("file:///usr/share/icons/hicolor/scalable/mimetypes/audio-x-generic.svg"), md["mpris:artUrl"])

	md = b.Metadata(&player.Song{TrackToken: "t", ArtURL: "https://art.example/x.jpg"}).v.(map[string]Value)
	require.Equal(t, String("https://art.example/x.jpg"), md["mpris:artUrl"])
}

func TestPlaybackStatus(t *testing.T) {
	host := &fakeHost{}
	b := testBuilder(host)
	require.Equal(t, "Stopped", b.PlaybackStatus())

	host.song = &player.Song{TrackToken: "t"}
	require.Equal(t, "Paused", b.PlaybackStatus())

	host.playing = true
	require.Equal(t, "Playing", b.PlaybackStatus())
}

func TestPositionMicros(t *testing.T) {
	host := &fakeHost{}
	b := testBuilder(host)
	require.Zero(t, b.PositionMicros())

	host.pos = 90 * 1e9 // nanoseconds
	host.posOK = true
	require.Equal(t, int64(90*1e6), b.PositionMicros())
}

func TestPropertyTablesTypeStability(t *testing.T) {
	host := &fakeHost{volume: 0.5}
	b := testBuilder(host)

	root := b.RootProperties()
	require.Equal(t, "b", root["CanQuit"].Signature())
	require.Equal(t, "b", root["HasTrackList"].Signature())
	require.Equal(t, "s", root["Identity"].Signature())
	require.Equal(t, "as", root["SupportedUriSchemes"].Signature())

	playerTable := b.PlayerProperties(b.Metadata(nil))
	require.Equal(t, "s", playerTable["PlaybackStatus"].Signature())
	require.Equal(t, "d", playerTable["Volume"].Signature())
	require.Equal(t, "x", playerTable["Position"].Signature())
	require.Equal(t, "a{sv}", playerTable["Metadata"].Signature())
	require.Equal(t, "b", playerTable["CanSeek"].Signature())

	// The compatibility compromise: capabilities report true even when the
	// player could not honor them right now.
	require.Equal(t, Bool(true), playerTable["CanGoNext"])
	require.Equal(t, Bool(true), playerTable["CanPlay"])
	require.Equal(t, Bool(true), playerTable["CanPause"])
	require.Equal(t, Bool(true), playerTable["CanSeek"])
	require.Equal(t, Bool(false), playerTable["CanGoPrevious"])
}

func TestProtocolVolumeIsCubeRoot(t *testing.T) {
	require.InDelta(t, 0.5, ProtocolVolume(0.125), 1e-12)
	require.InDelta(t, 0.125, HostVolume(0.5), 1e-12)
	require.InDelta(t, 1.0, ProtocolVolume(1.0), 1e-12)
	require.True(t, math.Abs(ProtocolVolume(0)) < 1e-12)
}
