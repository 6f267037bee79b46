package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/godbus/dbus/v5"
	_ "github.com/mattn/go-sqlite3"

	"github.com/testeddoughnut/pithos/internal/config"
	"github.com/testeddoughnut/pithos/internal/icons"
	"github.com/testeddoughnut/pithos/internal/mpris"
	"github.com/testeddoughnut/pithos/internal/player"
	"github.com/testeddoughnut/pithos/internal/server"
)

// demoStation stands in for a real catalog backend so the daemon runs end to
// end out of the box. Replace it by wiring a real SongSource.
type demoStation struct{}

func (demoStation) NextSongs() ([]player.Song, error) {
	return []player.Song{
		{
			TrackToken:     "demo-dawn-chorus",
			Title:          "Dawn Chorus",
			Artist:         "The Simulated Band",
			Album:          "Placeholder Sessions",
			TrackLengthSec: 214,
			StationID:      "demo",
		},
		{
			TrackToken:     "demo-night-drive",
			Title:          "Night Drive",
			Artist:         "The Simulated Band",
			Album:          "Placeholder Sessions",
			Rating:         player.RatingLoved,
			TrackLengthSec: 187,
			StationID:      "demo",
		},
	}, nil
}

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	hub := player.NewHub()
	host := player.NewStationPlayer(hub, demoStation{}, nil)

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		log.Fatalf("session bus error: %v", err)
	}
	defer conn.Close()

	resolver := icons.NewResolver(cfg.IconTheme, nil)
	adapter, err := mpris.Attach(conn, host, hub, mpris.Config{
		BusName:      cfg.Bus.Name,
		Identity:     cfg.Bus.Identity,
		DesktopEntry: cfg.Bus.DesktopEntry,
		FallbackArt:  resolver.GenericAudioArt,
	})
	if err != nil {
		log.Fatalf("bus adapter error: %v", err)
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)
	host.SetQuitFunc(func() { shutdownCh <- syscall.SIGTERM })

	var srv *http.Server
	var shutdownHandler func(context.Context) error
	if cfg.Remote.Enabled {
		handler, shutdown, err := server.NewHandler(cfg, host, hub)
		if err != nil {
			log.Fatalf("server init error: %v", err)
		}
		shutdownHandler = shutdown

		addr := cfg.Remote.Host + ":" + cfg.Remote.Port
		srv = &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Printf("pithosd remote listening on %s", addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("server error: %v", err)
			}
		}()
	}

	// Load the first track so controllers see state immediately.
	host.NextSong()

	<-shutdownCh
	log.Printf("pithosd shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := adapter.Close(); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
	if shutdownHandler != nil {
		if err := shutdownHandler(ctx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}
