package history

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/testeddoughnut/pithos/internal/player"
)

// Query limits for the history listing endpoint.
const (
	DefaultQueryLimit = 100
	MaxQueryLimit     = 1000
)

// Service records song transitions and enforces the retention window.
type Service struct {
	logger        *log.Logger
	repo          *Repository
	retentionDays int
	schedule      string

	cron         *cron.Cron
	removeListen func()
}

// NewService creates a history service. schedule is a cron expression for
// the retention sweep.
func NewService(dbPair DBPair, retentionDays int, schedule string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		logger:        logger,
		repo:          NewRepository(dbPair),
		retentionDays: retentionDays,
		schedule:      schedule,
	}
}

// Start subscribes to song transitions and schedules the prune job. An
// initial prune runs immediately so a long-stopped daemon catches up.
func (s *Service) Start(hub *player.Hub) error {
	c := cron.New()
	if _, err := c.AddFunc(s.schedule, s.prune); err != nil {
		return fmt.Errorf("schedule history prune: %w", err)
	}
	s.cron = c
	c.Start()

	s.removeListen = hub.OnSongChanged(s.recordSong)
	s.logger.Printf("HISTORY: recording plays (retention %d days, prune %q)", s.retentionDays, s.schedule)

	go s.prune()
	return nil
}

// Stop detaches from song transitions and stops the prune schedule, waiting
// for an in-flight sweep to finish.
func (s *Service) Stop() {
	if s.removeListen != nil {
		s.removeListen()
		s.removeListen = nil
	}
	if s.cron != nil {
		<-s.cron.Stop().Done()
		s.cron = nil
	}
	s.logger.Printf("HISTORY: stopped")
}

// RecordPlay writes one play row.
func (s *Service) RecordPlay(input InsertPlayInput) (*Play, error) {
	play, err := s.repo.InsertPlay(input)
	if err != nil {
		return nil, fmt.Errorf("record play: %w", err)
	}
	return play, nil
}

// ListPlays retrieves plays newest first. The limit is defaulted and
// clamped. Returns plays, total count, hasMore flag, error.
func (s *Service) ListPlays(limit, offset int) ([]Play, int, bool, error) {
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	if limit > MaxQueryLimit {
		limit = MaxQueryLimit
	}

	plays, total, err := s.repo.ListPlays(limit, offset)
	if err != nil {
		return nil, 0, false, fmt.Errorf("list plays: %w", err)
	}
	hasMore := offset+len(plays) < total
	return plays, total, hasMore, nil
}

// recordSong is the hub callback for song transitions.
func (s *Service) recordSong(song *player.Song) {
	if song == nil {
		return
	}
	if _, err := s.RecordPlay(InsertPlayInput{
		TrackToken:  song.TrackToken,
		Title:       song.Title,
		Artist:      song.Artist,
		Album:       song.Album,
		Rating:      song.Rating,
		StationID:   song.StationID,
		ArtURL:      song.ArtURL,
		DurationSec: song.TrackLengthSec,
	}); err != nil {
		s.logger.Printf("HISTORY: %v", err)
	}
}

func (s *Service) prune() {
	count, err := s.repo.PruneOlderThan(s.retentionDays)
	if err != nil {
		s.logger.Printf("HISTORY: prune failed: %v", err)
		return
	}
	if count > 0 {
		s.logger.Printf("HISTORY: pruned %d plays", count)
	}
}
