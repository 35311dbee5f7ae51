// Command simulate runs the play scene headless for a fixed number of
// frames and prints a summary. Useful for profiling the systems.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brickrun/platformer/internal/assets"
	"github.com/brickrun/platformer/internal/config"
	"github.com/brickrun/platformer/internal/core/event"
	"github.com/brickrun/platformer/internal/data"
	"github.com/brickrun/platformer/internal/input"
	"github.com/brickrun/platformer/internal/level"
	"github.com/brickrun/platformer/internal/logging"
	"github.com/brickrun/platformer/internal/scene"
	"github.com/brickrun/platformer/internal/scripting"
	"github.com/brickrun/platformer/internal/world"
	"github.com/pkg/profile"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "config/platformer.toml", "config file")
	levelName := flag.String("level", "level1", "level to simulate")
	frames := flag.Int("frames", 600, "frames to run")
	hold := flag.Bool("run", true, "hold RIGHT for the whole run")
	prof := flag.String("profile", "", "cpu or mem")
	flag.Parse()

	switch *prof {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "":
	default:
		return fmt.Errorf("unknown profile %q", *prof)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	bundle, err := data.LoadAll(ctx, cfg.Paths.Assets, cfg.Paths.Archetypes)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}
	script, err := scripting.NewEngine(cfg.Paths.Scripts, log)
	if err != nil {
		return fmt.Errorf("load scripts: %w", err)
	}
	defer script.Close()

	ws := world.NewState(cfg, assets.NewLibrary(bundle.Manifest, bundle.Archetypes, log), script, log)
	var deaths, hits, respawns, shots int
	event.Subscribe(ws.Bus, func(event.EntityDied) { deaths++ })
	event.Subscribe(ws.Bus, func(event.PlayerDamaged) { hits++ })
	event.Subscribe(ws.Bus, func(event.PlayerRespawned) { respawns++ })
	event.Subscribe(ws.Bus, func(event.BulletFired) { shots++ })

	play := scene.NewPlay(ws, level.NewFileStore(cfg.Paths.Levels, log))
	if err := play.Load(ctx, *levelName); err != nil {
		return err
	}
	if *hold {
		play.DoAction(input.NewAction(input.Right, input.Start))
	}

	start := time.Now()
	play.Simulate(*frames)
	elapsed := time.Since(start)

	fmt.Printf("level      %s\n", *levelName)
	fmt.Printf("frames     %d (%s, %.1f µs/frame)\n", ws.Frame, elapsed.Round(time.Millisecond),
		float64(elapsed.Microseconds())/float64(max(ws.Frame, 1)))
	fmt.Printf("entities   %d\n", ws.Pool.Count())
	if h, ok := ws.PlayerHealth(); ok {
		fmt.Printf("player hp  %.0f/%.0f\n", h.Current, h.Max)
	}
	fmt.Printf("deaths %d  hits %d  respawns %d  shots %d\n", deaths, hits, respawns, shots)
	return nil
}
