package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"springbone/internal/game"
	"springbone/internal/world"
)

func main() {
	scene := flag.String("scene", "", "scene file (default: built-in demo)")
	chains := flag.Int("chains", 0, "demo chains per character")
	characters := flag.Int("characters", 0, "demo characters")
	workers := flag.Int("workers", 0, "chain workers per rig")
	flag.Parse()

	if *scene != "" {
		if abs, err := filepath.Abs(*scene); err == nil {
			*scene = abs
		}
	}
	// Change working directory to executable location for deployed builds.
	// Skip this for "go run" which puts the binary in a temp directory.
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		if !strings.Contains(execDir, "go-build") {
			os.Chdir(execDir)
		}
	}

	opts := world.DefaultDemoOptions()
	if *chains > 0 {
		opts.Chains = *chains
	}
	if *characters > 0 {
		opts.Characters = *characters
	}
	if *workers > 0 {
		opts.Workers = *workers
	}

	w, err := world.Open(*scene, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	savePath := *scene
	if savePath == "" {
		savePath = "demo_scene.json"
	}
	g := game.New(w, savePath)
	g.Run()
}
