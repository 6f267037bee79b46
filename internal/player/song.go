package player

// RatingLoved is the host's "thumbs up" sentinel. It is the only rating tier
// the desktop integrations recognize; everything else maps to unrated.
const RatingLoved = "love"

// Song is the host player's view of a single track. A Song is immutable once
// published; a track change replaces the whole value.
type Song struct {
	// TrackToken is the host's opaque track identifier. It may contain
	// arbitrary bytes and is never exposed on the bus directly.
	TrackToken string `json:"track_token"`

	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`

	// Rating is the host-side rating string ("love" or empty).
	Rating string `json:"rating,omitempty"`

	// ArtURL is the cover art URI supplied by the host catalog, if any.
	ArtURL string `json:"art_url,omitempty"`

	// AudioURL is the source stream URI for the current playback.
	AudioURL string `json:"audio_url,omitempty"`

	// TrackLengthSec is the catalog-declared track length in seconds. It is
	// a best-effort estimate used before the playback engine has measured
	// the real duration.
	TrackLengthSec int `json:"track_length_sec"`

	// StationID names the station the song was fetched from, when known.
	StationID string `json:"station_id,omitempty"`
}
