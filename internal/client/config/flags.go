package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/voicevault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   local database file
//	-u string   owner id for saved recordings
//	-f string   PCM source replayed by the file device
//	-m string   metadata service base URL
//	-t string   device token
//	-i int      periodic sync re-scan interval in seconds (0 disables)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-u", "-f", "-m", "-t", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "local database file")
	fs.StringVar(&cfg.UserID, "u", cfg.UserID, "owner id for saved recordings")
	fs.StringVar(&cfg.AudioSourcePath, "f", cfg.AudioSourcePath, "PCM audio source file")
	fs.StringVar(&cfg.MetadataBaseURL, "m", cfg.MetadataBaseURL, "metadata service base URL")
	fs.StringVar(&cfg.DeviceToken, "t", cfg.DeviceToken, "device token")
	rescan := fs.Int("i", int(cfg.SyncRescanInterval.Seconds()), "sync re-scan interval (in seconds, 0 disables)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SyncRescanInterval = time.Duration(*rescan) * time.Second
}
