// Package cli implements the nodetrees command-line interface.
//
// The CLI reads a scene snapshot dumped by the authoring tool and writes one
// hashed JSON document per material, world, compositor and logic tree. It is
// built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - serialize: Write documents for every target of a snapshot
//   - visualize: Draw a written document as a node-link diagram
//   - verify: Check the embedded hash of written documents
//   - cache: Manage the change-detection index
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// is attached to the command context and retrieved with loggerFromContext.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodetrees/pkg/buildinfo"
	"github.com/matzehuels/nodetrees/pkg/cache"
	"github.com/matzehuels/nodetrees/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "nodetrees"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a timestamped logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "nodetrees serializes shader and logic node trees to JSON",
		Long:         `nodetrees reads a scene snapshot from the authoring tool and writes one hashed, canonical JSON document per material, world, compositor and logic node tree, for a live-reloading runtime to pick up.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.serializeCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.verifyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(cfg pipeline.CacheConfig, noCache bool) (*pipeline.Runner, error) {
	idx, err := newCache(cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(idx, c.Logger), nil
}

func newCache(cfg pipeline.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if (cfg.Backend == "" || cfg.Backend == pipeline.CacheFile) && cfg.Dir == "" {
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		cfg.Dir = dir
	}
	return cfg.OpenCache()
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/nodetrees/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	return pipeline.DefaultCacheDir()
}
