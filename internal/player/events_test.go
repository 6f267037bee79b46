package player

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHubDeliversToAllListeners(t *testing.T) {
	hub := NewHub()

	var got []string
	hub.OnSongChanged(func(s *Song) { got = append(got, "a:"+s.Title) })
	hub.OnSongChanged(func(s *Song) { got = append(got, "b:"+s.Title) })

	hub.EmitSongChanged(&Song{Title: "X"})

	require.Len(t, got, 2)
	require.Contains(t, got, "a:X")
	require.Contains(t, got, "b:X")
}

func TestHubRemoveStopsDelivery(t *testing.T) {
	hub := NewHub()

	calls := 0
	remove := hub.OnPlayStateChanged(func(bool) { calls++ })

	hub.EmitPlayStateChanged(true)
	remove()
	hub.EmitPlayStateChanged(false)

	require.Equal(t, 1, calls)
}

func TestHubTypedChannelsAreIndependent(t *testing.T) {
	hub := NewHub()

	var volumes []float64
	var buffered []int64
	hub.OnVolumeChanged(func(v float64) { volumes = append(volumes, v) })
	hub.OnBufferingFinished(func(pos int64) { buffered = append(buffered, pos) })

	hub.EmitVolumeChanged(0.5)
	hub.EmitBufferingFinished(1500)
	hub.EmitVolumeChanged(0.25)

	require.Equal(t, []float64{0.5, 0.25}, volumes)
	require.Equal(t, []int64{1500}, buffered)
}
