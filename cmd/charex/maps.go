package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/fsnotify.v1"

	"github.com/pji/charex/pkg/normal"
)

// rebuildDelay coalesces the burst of events a single archive update
// produces.
const rebuildDelay = 2 * time.Second

func mapsCmd(loadConfig func() (*Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maps",
		Short: "Rebuild the reverse-normalization map archive",
		Long: `Rebuild the reverse-normalization maps for every form and write them
as ` + normal.ReverseMapArchive + ` in the data directory.

With --watch, stays running and rebuilds whenever the Unicode data
archives in the data directory change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			watch, _ := cmd.Flags().GetBool("watch")

			if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}
			if err := rebuildMaps(cfg.DataDir); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return watchMaps(cfg.DataDir)
		},
	}
	cmd.Flags().Bool("watch", false, "rebuild whenever the data directory changes")
	return cmd
}

func rebuildMaps(dataDir string) error {
	fmt.Printf("Rebuilding reverse maps in %s\n", dataDir)
	start := time.Now()
	if err := normal.WriteReverseMapArchive(dataDir); err != nil {
		return err
	}
	fmt.Printf("Wrote %s in %s\n", normal.ReverseMapArchive, time.Since(start).Round(time.Millisecond))
	return nil
}

// watchMaps rebuilds the reverse-map archive when a source archive in
// dataDir changes. Events for the reverse-map archive itself are
// ignored so the rebuild does not retrigger.
func watchMaps(dataDir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dataDir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dataDir, err)
	}
	fmt.Printf("Watching %s for changes\n", dataDir)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var pending *time.Timer
	var rebuild <-chan time.Time

	for {
		select {
		case <-sigChan:
			fmt.Println("Stopping")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".zip") {
				continue
			}
			if filepath.Base(event.Name) == normal.ReverseMapArchive {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.NewTimer(rebuildDelay)
			rebuild = pending.C

		case <-rebuild:
			pending = nil
			rebuild = nil
			if err := rebuildMaps(dataDir); err != nil {
				fmt.Fprintf(os.Stderr, "rebuild failed: %v\n", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}
