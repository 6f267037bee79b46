package history

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Play is one recorded song transition.
type Play struct {
	PlayID      string    `json:"play_id"`
	TrackToken  string    `json:"track_token"`
	Title       string    `json:"title"`
	Artist      string    `json:"artist"`
	Album       string    `json:"album"`
	Rating      string    `json:"rating,omitempty"`
	StationID   string    `json:"station_id,omitempty"`
	ArtURL      string    `json:"art_url,omitempty"`
	DurationSec int       `json:"duration_sec"`
	StartedAt   time.Time `json:"started_at"`
}

// InsertPlayInput contains the fields for recording a play.
type InsertPlayInput struct {
	TrackToken  string
	Title       string
	Artist      string
	Album       string
	Rating      string
	StationID   string
	ArtURL      string
	DurationSec int
}

// DBPair interface for dependency injection (matches db.DBPair).
type DBPair interface {
	Reader() *sql.DB
	Writer() *sql.DB
}

// Repository handles database operations for listening history.
// Uses separate reader/writer connections for optimal SQLite concurrency.
type Repository struct {
	reader *sql.DB
	writer *sql.DB
}

// NewRepository creates a new history Repository.
func NewRepository(dbPair DBPair) *Repository {
	return &Repository{reader: dbPair.Reader(), writer: dbPair.Writer()}
}

// InsertPlay records a play. Generates the play ID and timestamp.
func (r *Repository) InsertPlay(input InsertPlayInput) (*Play, error) {
	playID := uuid.New().String()
	startedAt := time.Now().UTC()

	_, err := r.writer.Exec(`
		INSERT INTO plays (play_id, track_token, title, artist, album, rating, station_id, art_url, duration_sec, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, playID, input.TrackToken, input.Title, input.Artist, input.Album, input.Rating,
		input.StationID, input.ArtURL, input.DurationSec, startedAt.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}

	return r.GetPlay(playID)
}

// GetPlay retrieves a single play by ID. Returns nil, nil if not found.
func (r *Repository) GetPlay(playID string) (*Play, error) {
	row := r.reader.QueryRow(`
		SELECT play_id, track_token, title, artist, album, rating, station_id, art_url, duration_sec, started_at
		FROM plays
		WHERE play_id = ?
	`, playID)

	play, err := scanPlay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return play, err
}

// ListPlays retrieves plays newest first with pagination.
// Returns plays, total count, and error.
func (r *Repository) ListPlays(limit, offset int) ([]Play, int, error) {
	var total int
	if err := r.reader.QueryRow("SELECT COUNT(*) FROM plays").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.reader.Query(`
		SELECT play_id, track_token, title, artist, album, rating, station_id, art_url, duration_sec, started_at
		FROM plays
		ORDER BY started_at DESC, play_id
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	plays := []Play{}
	for rows.Next() {
		play, err := scanPlay(rows)
		if err != nil {
			return nil, 0, err
		}
		plays = append(plays, *play)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return plays, total, nil
}

// PruneOlderThan deletes plays that started before the retention window.
// Returns number of rows deleted.
func (r *Repository) PruneOlderThan(retentionDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Format(time.RFC3339)

	result, err := r.writer.Exec("DELETE FROM plays WHERE started_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlay(row rowScanner) (*Play, error) {
	var play Play
	var startedAt string
	if err := row.Scan(&play.PlayID, &play.TrackToken, &play.Title, &play.Artist, &play.Album,
		&play.Rating, &play.StationID, &play.ArtURL, &play.DurationSec, &startedAt); err != nil {
		return nil, err
	}
	parsed, err := time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return nil, err
	}
	play.StartedAt = parsed
	return &play, nil
}
