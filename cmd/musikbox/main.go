// Package main provides the musikbox entry point.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/musikbox/musikbox/internal/infra/config"
	"github.com/musikbox/musikbox/internal/infra/logger"
)

var (
	app        = kingpin.New("musikbox", "Folder-based music box controller")
	configPath = app.Flag("config", "Path to config file").Default(config.DefaultPath).String()
	musicDir   = app.Flag("music-dir", "Base path to the music library").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()
	pauseUID   = app.Flag("pause-uid", "RFID UID for the pause/resume action tag").String()
	nextUID    = app.Flag("next-uid", "RFID UID for the next-title action tag").String()
	prevUID    = app.Flag("prev-uid", "RFID UID for the previous-title action tag").String()

	runCmd  = app.Command("run", "Run the interactive player (default)").Default()
	runRFID = runCmd.Flag("rfid", "Enable the RFID tag reader").Bool()

	daemonCmd = app.Command("daemon", "Run headless with the RFID reader")
	scanCmd   = app.Command("scan", "Print detected tag UIDs until interrupted")
	albumsCmd = app.Command("albums", "List albums and exit")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger: config file first, command-line flags win
	loggerConfig := logger.Config{Output: cfg.Logging.Output, Level: cfg.Logging.Level}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	switch command {
	case albumsCmd.FullCommand():
		err = listAlbums(cfg)
	case scanCmd.FullCommand():
		err = runScan(cfg)
	case daemonCmd.FullCommand():
		err = run(cfg, modeDaemon)
	default:
		if *runRFID {
			cfg.RFID.Enabled = true
		}
		err = run(cfg, modeInteractive)
	}
	if err != nil {
		zlog.Error().Msgf("musikbox error: %v", err)
		os.Exit(1)
	}
}

// loadConfig loads the config file and applies flag overrides. Flags only
// override values that were explicitly provided.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	if *musicDir != "" {
		cfg.MusicDir = *musicDir
	}
	if *pauseUID != "" {
		cfg.ActionTags.PauseUID = *pauseUID
	}
	if *nextUID != "" {
		cfg.ActionTags.NextUID = *nextUID
	}
	if *prevUID != "" {
		cfg.ActionTags.PrevUID = *prevUID
	}
	return cfg, nil
}
