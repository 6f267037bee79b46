package remote

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/testeddoughnut/pithos/internal/api"
	"github.com/testeddoughnut/pithos/internal/apperrors"
	"github.com/testeddoughnut/pithos/internal/player"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The remote binds to loopback and is token-authenticated.
		return true
	},
}

// PlayerSnapshot is the now-playing state returned by GET /v1/player.
type PlayerSnapshot struct {
	Object         string       `json:"object"` // always "player"
	Song           *player.Song `json:"song"`
	Playing        bool         `json:"playing"`
	Waiting        bool         `json:"waiting_for_playlist"`
	Volume         float64      `json:"volume"`
	PositionMicros int64        `json:"position_micros"`
	DurationMicros int64        `json:"duration_micros"`
}

// RegisterRoutes wires player control routes to the router.
func RegisterRoutes(router chi.Router, host player.Host, stream *StreamHub) {
	router.Method(http.MethodGet, "/v1/player", api.Handler(getPlayer(host)))
	router.Method(http.MethodPost, "/v1/player/play", api.Handler(playerAction(host, "play")))
	router.Method(http.MethodPost, "/v1/player/pause", api.Handler(playerAction(host, "pause")))
	router.Method(http.MethodPost, "/v1/player/playpause", api.Handler(playerAction(host, "playpause")))
	router.Method(http.MethodPost, "/v1/player/next", api.Handler(playerAction(host, "next")))
	router.Method(http.MethodPut, "/v1/player/volume", api.Handler(setVolume(host)))
	router.HandleFunc("/v1/events", eventsHandler(stream))
}

// getPlayer returns the now-playing snapshot.
// GET /v1/player
func getPlayer(host player.Host) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		return api.WriteResource(w, http.StatusOK, snapshot(host))
	}
}

// playerAction triggers a playback control.
// POST /v1/player/{play,pause,playpause,next}
func playerAction(host player.Host, action string) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		switch action {
		case "play":
			if host.CurrentSong() == nil {
				return apperrors.NewValidationError("No track is loaded.", nil)
			}
			host.Play()
		case "pause":
			if host.CurrentSong() == nil {
				return apperrors.NewValidationError("No track is loaded.", nil)
			}
			host.Pause()
		case "playpause":
			if host.CurrentSong() == nil {
				return apperrors.NewValidationError("No track is loaded.", nil)
			}
			host.PlayPause()
		case "next":
			if host.WaitingForPlaylist() {
				return apperrors.NewValidationError("Already fetching the next track.", nil)
			}
			host.NextSong()
		}
		return api.WriteResource(w, http.StatusOK, snapshot(host))
	}
}

// setVolume writes the host's linear volume.
// PUT /v1/player/volume
func setVolume(host player.Host) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		var body struct {
			Volume *float64 `json:"volume"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Volume == nil {
			return apperrors.NewValidationError("volume is required", nil)
		}
		if *body.Volume < 0 || *body.Volume > 1 {
			return apperrors.NewValidationError("volume must be between 0 and 1", map[string]any{
				"volume": *body.Volume,
			})
		}

		host.SetVolume(*body.Volume)
		return api.WriteResource(w, http.StatusOK, snapshot(host))
	}
}

// eventsHandler upgrades to a websocket pushing host events.
// GET /v1/events
func eventsHandler(stream *StreamHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade failed, error already written to the response.
			return
		}
		stream.Add(conn)
	}
}

func snapshot(host player.Host) PlayerSnapshot {
	pos, _ := host.QueryPosition()
	dur, _ := host.QueryDuration()
	return PlayerSnapshot{
		Object:         "player",
		Song:           host.CurrentSong(),
		Playing:        host.Playing(),
		Waiting:        host.WaitingForPlaylist(),
		Volume:         host.Volume(),
		PositionMicros: pos / 1000,
		DurationMicros: dur / 1000,
	}
}
