package mpris

import (
	"io"
	"log"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/require"

	"github.com/testeddoughnut/pithos/internal/player"
)

func TestAttachClaimsNameAndExportsInterfaces(t *testing.T) {
	bus := newFakeBus()
	hub := player.NewHub()

	a, err := Attach(bus, &fakeHost{}, hub, Config{Logger: log.New(io.Discard, "", 0)})
	require.NoError(t, err)

	require.Equal(t, []string{defaultBusName}, bus.owned)
	for _, iface := range []string{rootInterface, playerInterface, propertiesInterface, introspectableIface} {
		require.Equal(t, []string{string(objectPath)}, bus.exported[iface], iface)
	}
	require.NoError(t, a.Close())
	require.Equal(t, []string{defaultBusName}, bus.released)
}

func TestAttachFailsWhenNameIsTaken(t *testing.T) {
	bus := newFakeBus()
	bus.nameReply = dbus.RequestNameReplyExists

	_, err := Attach(bus, &fakeHost{}, player.NewHub(), Config{Logger: log.New(io.Discard, "", 0)})
	require.Error(t, err)
	require.Empty(t, bus.exported)
}

func TestAttachPublishesCurrentStateMidSong(t *testing.T) {
	bus := newFakeBus()
	host := &fakeHost{
		song:    &player.Song{TrackToken: "abc", Title: "Mid Song"},
		playing: true,
	}

	_, err := Attach(bus, host, player.NewHub(), Config{Logger: log.New(io.Discard, "", 0)})
	require.NoError(t, err)

	require.Len(t, bus.emitted, 2)
	md := changedProps(bus.emitted[0])["Metadata"].Value().(map[string]dbus.Variant)
	require.Equal(t, "Mid Song", md["xesam:title"].Value())
	require.Equal(t, "Playing", changedProps(bus.emitted[1])["PlaybackStatus"].Value())
}

func TestSongChangeEmitsMetadata(t *testing.T) {
	host := &fakeHost{}
	_, bus, hub := newTestAdapter(t, host)

	hub.EmitSongChanged(&player.Song{TrackToken: "abc123", Title: "After"})

	require.Len(t, bus.emitted, 1)
	changed := changedProps(bus.emitted[0])
	require.Len(t, changed, 1)
	md := changed["Metadata"].Value().(map[string]dbus.Variant)
	require.Equal(t, "After", md["xesam:title"].Value())
	require.Equal(t, dbus.ObjectPath(trackIDPrefix+"616263313233"), md["mpris:trackid"].Value())
}

func TestPlayStateChangeEmitsStatus(t *testing.T) {
	_, bus, hub := newTestAdapter(t, &fakeHost{})

	hub.EmitPlayStateChanged(true)
	hub.EmitPlayStateChanged(false)

	require.Len(t, bus.emitted, 2)
	require.Equal(t, "Playing", changedProps(bus.emitted[0])["PlaybackStatus"].Value())
	require.Equal(t, "Paused", changedProps(bus.emitted[1])["PlaybackStatus"].Value())
}

func TestRepeatedPlayStateIsSuppressed(t *testing.T) {
	_, bus, hub := newTestAdapter(t, &fakeHost{})

	hub.EmitPlayStateChanged(true)
	hub.EmitPlayStateChanged(true)

	require.Len(t, bus.emitted, 1)
}

func TestVolumeChangeEmitsProtocolScale(t *testing.T) {
	_, bus, hub := newTestAdapter(t, &fakeHost{})

	hub.EmitVolumeChanged(0.125)

	require.Len(t, bus.emitted, 1)
	require.InDelta(t, 0.5, changedProps(bus.emitted[0])["Volume"].Value().(float64), 1e-12)
}

func TestBufferingFinishedEmitsSeekedInMicros(t *testing.T) {
	_, bus, hub := newTestAdapter(t, &fakeHost{})

	hub.EmitBufferingFinished(45_000_000_000)

	require.Len(t, bus.emitted, 1)
	em := bus.emitted[0]
	require.Equal(t, playerInterface+".Seeked", em.name)
	require.Equal(t, []any{int64(45_000_000)}, em.values)
}

func TestCloseDetachesFromHubEvents(t *testing.T) {
	a, bus, hub := newTestAdapter(t, &fakeHost{})

	require.NoError(t, a.Close())
	hub.EmitPlayStateChanged(true)
	hub.EmitVolumeChanged(0.5)

	require.Empty(t, bus.emitted)
}

func TestMetadataCacheServesPropertyReads(t *testing.T) {
	a, _, hub := newTestAdapter(t, &fakeHost{})

	// Before any song: the no-track fallback.
	v, dErr := a.Get(playerInterface, "Metadata")
	require.Nil(t, dErr)
	md := v.Value().(map[string]dbus.Variant)
	require.Equal(t, dbus.ObjectPath(noTrackID), md["mpris:trackid"].Value())

	hub.EmitSongChanged(&player.Song{TrackToken: "abc", Title: "Cached"})

	v, dErr = a.Get(playerInterface, "Metadata")
	require.Nil(t, dErr)
	md = v.Value().(map[string]dbus.Variant)
	require.Equal(t, "Cached", md["xesam:title"].Value())
}
