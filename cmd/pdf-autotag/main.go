package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/a3tai/pdf-autotag/internal/autotag"
	"github.com/a3tai/pdf-autotag/internal/config"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging configures logging based on the configured level.
func setupLogging(cfg *config.Config) {
	log.SetOutput(os.Stderr)
	if cfg.IsDebug() {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <input.pdf> <output.pdf>\n", os.Args[0])
		os.Exit(1)
	}

	setupLogging(cfg)

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}
	if cfg.IsDebug() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	// Cancellation is whole-run: an interrupt aborts the document.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Processing: %s\n", cfg.InputPath)

	service := autotag.NewService(cfg.MaxFileSize)
	summary, err := service.Run(ctx, cfg.InputPath, cfg.OutputPath, cfg.SidecarPath)
	if err != nil {
		log.Fatalf("Autotagging failed: %v", err)
	}

	fmt.Printf("Extracted %d items across %d pages, tagged %d pages (%d matched text runs)\n",
		summary.Items, summary.Pages, summary.TaggedPages, summary.MatchedRuns)
	fmt.Printf("Successfully saved tagged PDF to %s\n", cfg.OutputPath)
	fmt.Printf("Structure sidecar written to %s\n", cfg.SidecarPath)
}

// printVersion prints version information.
func printVersion() {
	fmt.Printf("PDF Autotagger\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
