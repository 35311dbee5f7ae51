package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brickrun/platformer/internal/assets"
	"github.com/brickrun/platformer/internal/config"
	"github.com/brickrun/platformer/internal/data"
	"github.com/brickrun/platformer/internal/editor"
	"github.com/brickrun/platformer/internal/level"
	"github.com/brickrun/platformer/internal/logging"
	"github.com/brickrun/platformer/internal/persist"
	"github.com/brickrun/platformer/internal/scene"
	"github.com/brickrun/platformer/internal/scripting"
	"github.com/brickrun/platformer/internal/world"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	levelName := flag.String("level", "level1", "level to load")
	edit := flag.Bool("edit", false, "open the level editor instead of playing")
	flag.Parse()

	// 1. Load config
	cfgPath := "config/platformer.toml"
	if p := os.Getenv("PLATFORMER_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 3. Asset manifest and archetypes
	bundle, err := data.LoadAll(ctx, cfg.Paths.Assets, cfg.Paths.Archetypes)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}
	lib := assets.NewLibrary(bundle.Manifest, bundle.Archetypes, log)
	log.Info("assets loaded",
		zap.Int("textures", len(bundle.Manifest.Textures)),
		zap.Int("animations", len(bundle.Manifest.Animations)),
		zap.Int("archetypes", bundle.Archetypes.Count()))

	// 4. Combat scripts
	script, err := scripting.NewEngine(cfg.Paths.Scripts, log)
	if err != nil {
		return fmt.Errorf("load scripts: %w", err)
	}
	defer script.Close()

	// 5. Level storage
	runID := uuid.NewString()
	store, closeStore, err := openStore(ctx, cfg, runID, log)
	if err != nil {
		return err
	}
	defer closeStore()

	// 6. Scene
	ws := world.NewState(cfg, lib, script, log)
	ws.RunID = runID
	var sc scene.Scene
	if *edit {
		ed := editor.New(ws, store)
		if err := ed.Load(ctx, *levelName); err != nil {
			return err
		}
		sc = ed
	} else {
		play := scene.NewPlay(ws, store)
		if err := play.Load(ctx, *levelName); err != nil {
			return err
		}
		sc = play
	}

	g, err := newGame(cfg, lib, sc, log)
	if err != nil {
		return err
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetTPS(cfg.Window.FPS)
	log.Info("starting",
		zap.String("run_id", runID),
		zap.String("level", *levelName),
		zap.Bool("editor", *edit))
	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		return fmt.Errorf("run game: %w", err)
	}
	log.Info("shutdown complete")
	return nil
}

// openStore picks the level store named by storage.backend. The returned
// func releases its resources.
func openStore(ctx context.Context, cfg *config.Config, runID string, log *zap.Logger) (level.Store, func(), error) {
	if cfg.Storage.Backend != "postgres" {
		return level.NewFileStore(cfg.Paths.Levels, log), func() {}, nil
	}
	db, err := persist.Open(ctx, cfg.Database, log)
	if err != nil {
		return nil, nil, fmt.Errorf("database: %w", err)
	}
	return persist.NewLevelRepo(db, runID), db.Close, nil
}
