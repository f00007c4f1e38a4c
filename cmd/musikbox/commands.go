package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"

	"github.com/musikbox/musikbox/internal/app/player"
	"github.com/musikbox/musikbox/internal/domain/library"
	"github.com/musikbox/musikbox/internal/infra/config"
)

// handleCommand dispatches one interactive command line. It returns true when
// the user asked to quit.
func handleCommand(machine *player.StateMachine, lib *library.Library, raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}

	parts := strings.SplitN(raw, " ", 2)
	cmd := strings.ToLower(parts[0])
	arg := ""
	if len(parts) > 1 {
		arg = strings.TrimSpace(parts[1])
	}

	var err error
	switch cmd {
	case "quit", "exit":
		return true

	case "albums":
		for _, album := range lib.ListAlbums() {
			fmt.Printf("  %s\n", album)
		}
		return false

	case "titles":
		printTitles(machine, lib, arg)
		return false

	case "play":
		err = machine.Play(arg)
	case "pause":
		err = machine.Pause()
	case "next":
		err = machine.NextTitle()
	case "prev":
		err = machine.PreviousTitle()
	case "status":
		// Status printing below is the whole command.
	default:
		fmt.Printf("  Unknown command: %s\n", cmd)
		return false
	}

	if err != nil {
		fmt.Printf("  Error: %v\n", err)
		return false
	}

	printStatus(machine)
	return false
}

func printTitles(machine *player.StateMachine, lib *library.Library, album string) {
	if album == "" {
		album = machine.CurrentAlbum()
	}
	if album == "" {
		fmt.Println("  No album loaded; usage: titles <album>")
		return
	}

	titles := lib.GetTitles(album)
	if len(titles) == 0 {
		fmt.Printf("  No playable titles in %s\n", album)
		return
	}
	for _, title := range titles {
		info := lib.ReadTitleInfo(album, title)
		if info.Artist != "" {
			fmt.Printf("  %s – %s\n", info.Artist, info.Title)
		} else {
			fmt.Printf("  %s\n", info.Title)
		}
	}
}

func printStatus(machine *player.StateMachine) {
	st := machine.Status()
	album, title := st.Album, st.Title
	if album == "" {
		album = "–"
	}
	if title == "" {
		title = "–"
	}
	fmt.Printf("  [%s]  album: %s  title: %s\n", strings.ToUpper(st.Mode.String()), album, title)
}

// listAlbums implements the albums command.
func listAlbums(cfg *config.Config) error {
	lib := library.New(cfg.MusicDir)
	albums := lib.ListAlbums()
	if len(albums) == 0 {
		return errors.Newf("no albums found in %s", cfg.MusicDir)
	}
	for _, album := range albums {
		fmt.Println(album)
	}
	return nil
}

// runScan implements the scan command: print tag UIDs until interrupted.
// Useful when labelling new tags.
func runScan(cfg *config.Config) error {
	reader, err := openReader(cfg)
	if err != nil {
		return err
	}

	fmt.Println("Hold an RFID tag to the reader...")
	fmt.Println("Press Ctrl+C to stop.")
	fmt.Println()

	reader.Start()
	defer reader.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			fmt.Println()
			return nil
		case uid := <-reader.Tags():
			fmt.Printf("  UID: %s\n", uid)
		}
	}
}
