package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/musikbox/musikbox/internal/app/player"
	"github.com/musikbox/musikbox/internal/domain/library"
	"github.com/musikbox/musikbox/internal/infra/audio"
	"github.com/musikbox/musikbox/internal/infra/config"
	"github.com/musikbox/musikbox/internal/infra/rfid"
)

type runMode int

const (
	modeInteractive runMode = iota
	modeDaemon
)

// run wires the library, audio engine, tag reader and state machine together
// and drives them from a single event loop. Stdin lines, end-of-track signals
// and tag detections all funnel into that one loop, so the state machine only
// ever sees serialized calls.
func run(cfg *config.Config, mode runMode) error {
	lib := library.New(cfg.MusicDir)
	if len(lib.ListAlbums()) == 0 {
		return errors.Newf("no albums found in %s", cfg.MusicDir)
	}

	engine := audio.New(time.Duration(cfg.Audio.BufferMs) * time.Millisecond)
	defer func() { _ = engine.Stop() }()

	machine := player.New(lib, engine, player.ActionUIDs{
		Pause: cfg.ActionTags.PauseUID,
		Next:  cfg.ActionTags.NextUID,
		Prev:  cfg.ActionTags.PrevUID,
	})

	// A nil channel blocks forever in select, which disables the source.
	var tagCh <-chan string
	if mode == modeDaemon || cfg.RFID.Enabled {
		reader, err := openReader(cfg)
		if err != nil {
			return err
		}
		reader.Start()
		defer reader.Stop()
		tagCh = reader.Tags()
		zlog.Info().Msg("RFID reader enabled")
	}

	executeHooks(cfg.Hooks.OnStarted, "on_started")
	defer executeHooks(cfg.Hooks.OnStopped, "on_stopped")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var lineCh chan string
	if mode == modeInteractive {
		lineCh = make(chan string)
		go readLines(lineCh)
		fmt.Println("musikbox – interactive mode")
		fmt.Println("Commands: albums, titles [album], play [album], pause, next, prev, status, quit")
		fmt.Print("musikbox> ")
	} else {
		zlog.Info().Str("music_dir", cfg.MusicDir).Msg("musikbox running in RFID mode")
	}

	for {
		select {
		case <-sigCh:
			fmt.Println()
			zlog.Info().Msg("Received shutdown signal...")
			return nil

		case <-engine.Done():
			machine.OnTitleEnd()

		case uid := <-tagCh:
			if err := machine.OnRFIDScan(uid); err != nil {
				zlog.Warn().Str("uid", uid).Msgf("scan rejected: %v", err)
			}

		case ev := <-machine.Events():
			zlog.Info().
				Str("album", ev.Album).
				Str("title", ev.Title).
				Str("mode", ev.Mode.String()).
				Msgf("player: %s", ev.Type)

		case line, ok := <-lineCh:
			if !ok {
				fmt.Println()
				return nil // stdin closed
			}
			if quit := handleCommand(machine, lib, line); quit {
				return nil
			}
			fmt.Print("musikbox> ")
		}
	}
}

// readLines forwards stdin lines and closes the channel on EOF.
func readLines(out chan<- string) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		out <- scanner.Text()
	}
	close(out)
}

func openReader(cfg *config.Config) (*rfid.Reader, error) {
	settings, err := rfid.ParseSettings(cfg.RFID.Reader)
	if err != nil {
		return nil, err
	}
	return rfid.Open(settings)
}

// executeHooks runs the configured lifecycle commands through the shell.
func executeHooks(hooks []string, stage string) {
	if len(hooks) == 0 {
		return
	}

	for _, hook := range hooks {
		zlog.Info().Msgf("Executing %s hook: %s", stage, hook)
		// Use sh -c to allow shell features like redirection or pipes
		cmd := exec.Command("sh", "-c", hook)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			zlog.Error().Err(err).Msgf("Failed to execute %s hook: %s", stage, hook)
		}
	}
}
