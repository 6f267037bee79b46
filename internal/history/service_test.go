package history

import (
	"io"
	"log"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/testeddoughnut/pithos/internal/db"
	"github.com/testeddoughnut/pithos/internal/player"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	dbPair, err := db.Init(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { dbPair.Close() })

	return NewService(dbPair, 90, "0 4 * * *", log.New(io.Discard, "", 0))
}

func TestServiceRecordsSongTransitions(t *testing.T) {
	svc := setupTestService(t)
	hub := player.NewHub()

	require.NoError(t, svc.Start(hub))
	defer svc.Stop()

	hub.EmitSongChanged(&player.Song{
		TrackToken: "tok-1",
		Title:      "Recorded",
		Artist:     "Somebody",
		StationID:  "station-9",
	})

	plays, total, hasMore, err := svc.ListPlays(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.False(t, hasMore)
	require.Equal(t, "tok-1", plays[0].TrackToken)
	require.Equal(t, "station-9", plays[0].StationID)
}

func TestServiceIgnoresNilSong(t *testing.T) {
	svc := setupTestService(t)
	hub := player.NewHub()

	require.NoError(t, svc.Start(hub))
	defer svc.Stop()

	hub.EmitSongChanged(nil)

	_, total, _, err := svc.ListPlays(0, 0)
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestServiceStopDetaches(t *testing.T) {
	svc := setupTestService(t)
	hub := player.NewHub()

	require.NoError(t, svc.Start(hub))
	svc.Stop()

	hub.EmitSongChanged(&player.Song{TrackToken: "tok-after"})

	_, total, _, err := svc.ListPlays(0, 0)
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestServiceRejectsBadSchedule(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	dbPair, err := db.Init(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { dbPair.Close() })

	svc := NewService(dbPair, 90, "not a schedule", log.New(io.Discard, "", 0))
	require.Error(t, svc.Start(player.NewHub()))
}

func TestServiceClampsLimit(t *testing.T) {
	svc := setupTestService(t)

	for i := 0; i < 3; i++ {
		_, err := svc.RecordPlay(InsertPlayInput{TrackToken: "tok"})
		require.NoError(t, err)
	}

	plays, total, hasMore, err := svc.ListPlays(MaxQueryLimit+1, 0)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.False(t, hasMore)
	require.Len(t, plays, 3)
}
