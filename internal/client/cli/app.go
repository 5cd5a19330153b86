// Package cli is the interactive capture agent: a small REPL over the
// capture pipeline, the local store and the sync worker.
package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/voicevault/internal/client/bus"
	"github.com/dmitrijs2005/voicevault/internal/client/capture"
	"github.com/dmitrijs2005/voicevault/internal/client/client"
	"github.com/dmitrijs2005/voicevault/internal/client/config"
	"github.com/dmitrijs2005/voicevault/internal/client/pipeline"
	"github.com/dmitrijs2005/voicevault/internal/client/services"
	"github.com/dmitrijs2005/voicevault/internal/common"
	"github.com/dmitrijs2005/voicevault/internal/filex"
	"github.com/dmitrijs2005/voicevault/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config      *config.Config
	coordinator *pipeline.Coordinator
	recordings  services.RecordingService
	syncer      services.SyncService
	events      *bus.Bus
	logger      logging.Logger
	userID      string
	reader      *bufio.Reader
}

// databasePath resolves a bare database filename into the agent's data
// directory, created on first run. Explicit paths and in-memory DSNs are
// used as-is.
func databasePath(dsn string) (string, error) {
	if strings.Contains(dsn, ":memory:") || filepath.Dir(dsn) != "." {
		return dsn, nil
	}
	dir, err := filex.EnsureSubdDir("data")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dsn), nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	logger := logging.NewSlogLogger(sl)

	dsn, err := databasePath(c.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	repos, err := client.InitDatabase(ctx, dsn)
	if err != nil {
		return nil, err
	}

	storage, err := client.NewS3Storage(ctx, c.S3)
	if err != nil {
		return nil, err
	}

	metadata := client.NewHTTPMetadataStore(c.MetadataBaseURL, c.DeviceToken, c.MetadataTimeout)

	events := bus.New(16)
	syncSvc := services.NewSyncService(storage, metadata, repos.Recordings, events, logger)
	recSvc := services.NewRecordingService(repos.Recordings, logger)

	device := capture.NewFileDevice(c.AudioSourcePath, 0, 0)
	coordinator := pipeline.NewCoordinator(device, nil, repos.Recordings, events, syncSvc, logger)

	userID := c.UserID
	if userID == "" {
		userID = common.LocalUserID
	}

	return &App{
		config:      c,
		coordinator: coordinator,
		recordings:  recSvc,
		syncer:      syncSvc,
		events:      events,
		logger:      logger,
		userID:      userID,
		reader:      bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.recordings.Close()
	defer a.events.Close()

	if a.config.SyncRescanInterval > 0 {
		go a.syncer.Run(ctx, a.userID, a.config.SyncRescanInterval)
	}

	go a.watchEvents(ctx)

	a.Root(ctx)
}

// watchEvents mirrors pipeline notifications onto the terminal the way a
// history view would consume them.
func (a *App) watchEvents(ctx context.Context) {
	events, cancel := a.events.Subscribe()
	defer cancel()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Kind {
			case bus.KindRecordingCreated:
				a.logger.Info(ctx, "recording created")
			case bus.KindRecordingUpdated:
				if ev.Fields.SyncError != "" {
					a.logger.Warn(ctx, "sync failed, recording kept locally",
						"id", ev.ID, "error", ev.Fields.SyncError)
				} else {
					a.logger.Info(ctx, "recording updated",
						"id", ev.ID, "status", ev.Fields.Status)
				}
			}
		case <-ctx.Done():
			return
		}
	}
}
