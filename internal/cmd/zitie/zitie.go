// Package zitie parses worksheet command flags and runs the worksheet service.
package zitie

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	entrypoint "github.com/louisbranch/zitie/internal/platform/cmd"
	"github.com/louisbranch/zitie/internal/platform/config"
	"github.com/louisbranch/zitie/internal/platform/timeouts"
	"github.com/louisbranch/zitie/internal/services/worksheet/app"
	"github.com/louisbranch/zitie/internal/services/worksheet/controller"
	storagebbolt "github.com/louisbranch/zitie/internal/services/worksheet/storage/bbolt"
	storagesqlite "github.com/louisbranch/zitie/internal/services/worksheet/storage/sqlite"
)

const (
	assetsFileName = "fonts.db"
	prefsFileName  = "prefs.db"
)

// Config holds worksheet command configuration.
type Config struct {
	HTTPAddr       string        `env:"ZITIE_HTTP_ADDR" envDefault:"localhost:8092"`
	DataDir        string        `env:"ZITIE_DATA_DIR" envDefault:"data"`
	AssetsDB       string        `env:"ZITIE_ASSETS_DB"`
	PrefsDB        string        `env:"ZITIE_PREFS_DB"`
	SaveDelay      time.Duration `env:"ZITIE_SAVE_DELAY" envDefault:"250ms"`
	MaxUploadBytes int64         `env:"ZITIE_MAX_UPLOAD_BYTES" envDefault:"33554432"`
	PreviewFont    string        `env:"ZITIE_PREVIEW_FONT"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "The worksheet HTTP listen address")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "The directory holding the font and preference databases")
	fs.StringVar(&cfg.AssetsDB, "assets-db", cfg.AssetsDB, "The font asset database path (default <data-dir>/fonts.db)")
	fs.StringVar(&cfg.PrefsDB, "prefs-db", cfg.PrefsDB, "The preference database path (default <data-dir>/prefs.db)")
	fs.DurationVar(&cfg.SaveDelay, "save-delay", cfg.SaveDelay, "How long edits coalesce before a preference save")
	fs.Int64Var(&cfg.MaxUploadBytes, "max-upload-bytes", cfg.MaxUploadBytes, "The largest accepted font upload")
	fs.StringVar(&cfg.PreviewFont, "preview-font", cfg.PreviewFont, "A font file drawn in the PNG preview for system fonts")

	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.AssetsDB = config.DataPath(cfg.DataDir, cfg.AssetsDB, assetsFileName)
	cfg.PrefsDB = config.DataPath(cfg.DataDir, cfg.PrefsDB, prefsFileName)
	if cfg.SaveDelay < 0 {
		return Config{}, fmt.Errorf("save delay must not be negative: %s", cfg.SaveDelay)
	}
	return cfg, nil
}

// Run starts the worksheet service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWorksheet, func(ctx context.Context) error {
		return run(ctx, cfg)
	})
}

func run(ctx context.Context, cfg Config) error {
	var previewFont []byte
	if path := strings.TrimSpace(cfg.PreviewFont); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read preview font: %w", err)
		}
		previewFont = data
	}

	for _, path := range []string{cfg.AssetsDB, cfg.PrefsDB} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}

	assets, err := storagesqlite.Open(cfg.AssetsDB)
	if err != nil {
		return fmt.Errorf("open font assets: %w", err)
	}
	defer func() {
		if err := assets.Close(); err != nil {
			log.Printf("close font assets: %v", err)
		}
	}()

	prefs, err := storagebbolt.Open(cfg.PrefsDB)
	if err != nil {
		return fmt.Errorf("open preferences: %w", err)
	}
	defer func() {
		if err := prefs.Close(); err != nil {
			log.Printf("close preferences: %v", err)
		}
	}()

	ctrl := controller.New(assets, prefs, controller.WithSaveDelay(cfg.SaveDelay))
	if err := ctrl.Start(ctx); err != nil {
		return fmt.Errorf("start worksheet: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), timeouts.FinalSave)
		defer cancel()
		if err := ctrl.Close(closeCtx); err != nil {
			log.Printf("final preference save: %v", err)
		}
	}()
	logStartup(ctrl.Snapshot())

	server, err := app.NewServer(app.Config{
		HTTPAddr:       cfg.HTTPAddr,
		MaxUploadBytes: cfg.MaxUploadBytes,
		PreviewFont:    previewFont,
	}, ctrl)
	if err != nil {
		return fmt.Errorf("init worksheet server: %w", err)
	}
	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve worksheet: %w", err)
	}
	return nil
}

func logStartup(snap controller.Snapshot) {
	var total uint64
	for _, f := range snap.Fonts {
		total += uint64(f.SizeBytes)
	}
	log.Printf("loaded %d cached fonts (%s), %d failed to register; active font %q",
		len(snap.Fonts)-len(snap.Failures), humanize.Bytes(total), len(snap.Failures), snap.Font.DisplayName)
}
