package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodetrees/pkg/buildinfo"
	"github.com/matzehuels/nodetrees/pkg/errors"
	"github.com/matzehuels/nodetrees/pkg/pipeline"
	"github.com/matzehuels/nodetrees/pkg/scene"
)

// serializeFlags are the serialize command's flags. Values left at their
// zero value fall back to nodetrees.toml.
type serializeFlags struct {
	root        string
	marker      string
	texturesDir string
	targets     []string
	cacheKind   string
	redisURL    string
	noCache     bool
	dryRun      bool
	force       bool
}

// serializeCommand creates the serialize command.
func (c *CLI) serializeCommand() *cobra.Command {
	var flags serializeFlags

	cmd := &cobra.Command{
		Use:   "serialize [snapshot.json|snapshot.yaml]",
		Short: "Write node-tree documents for a scene snapshot",
		Long: `Write node-tree documents for a scene snapshot.

Every material, world and compositor with nodes becomes shaders/<name>.json
and every object with a "+logic" geometry-nodes modifier becomes
logic-trees/<group>.json below the project root. Image textures are copied
into the textures directory.

Documents whose content hash has not changed since the last pass are not
rewritten. Settings are read from nodetrees.toml in the project root; flags
override them.`,
		Example: `  nodetrees serialize scene.json --root ./game
  nodetrees serialize scene.yaml --target Brick --target Sky --dry-run
  nodetrees serialize scene.json --cache redis --redis-url redis://build:6379/1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSerialize(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.root, "root", "r", "", "project root to write documents into (default \".\")")
	cmd.Flags().StringVar(&flags.marker, "marker", "", "node-group name token that marks logic trees (default \"+logic\")")
	cmd.Flags().StringVar(&flags.texturesDir, "textures-dir", "", "texture directory relative to the root (default \"textures\")")
	cmd.Flags().StringArrayVarP(&flags.targets, "target", "t", nil, "only serialize the named target (repeatable)")
	cmd.Flags().StringVar(&flags.cacheKind, "cache", "", "change index backend: file, redis, none")
	cmd.Flags().StringVar(&flags.redisURL, "redis-url", "", "redis URL for --cache redis")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "ignore the change index and write every document")
	cmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "serialize and hash, but write nothing")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "rewrite documents even when unchanged")

	return cmd
}

// runSerialize loads the snapshot and runs one pass.
func (c *CLI) runSerialize(ctx context.Context, input string, flags serializeFlags) error {
	logger := loggerFromContext(ctx)

	configDir := flags.root
	if configDir == "" {
		configDir = "."
	}
	cfg, err := pipeline.LoadConfig(configDir)
	if err != nil {
		return err
	}
	applySerializeFlags(cfg, flags)

	if _, err := os.Stat(input); err != nil {
		return errors.Wrap(errors.ErrCodeNotFound, err, "snapshot %s", input)
	}
	snap, err := scene.LoadSnapshot(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "load snapshot %s", input)
	}
	logger.Debug("nodetrees", "version", buildinfo.Get().Version)
	logger.Debug("loaded snapshot", "path", input, "targets", len(snap.Targets), "groups", len(snap.Library))

	runner, err := c.newRunner(cfg.Cache, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := cfg.Options()
	opts.Targets = flags.targets
	opts.DryRun = flags.dryRun
	opts.Force = flags.force
	opts.Logger = logger

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, snap, opts)
	if result != nil {
		for _, d := range result.Documents {
			printDocument(d)
		}
	}
	if err != nil {
		return err
	}
	prog.done("Serialized targets", "count", len(result.Documents), "pass", result.PassID[:8])

	printStats(result.Stats)
	if flags.dryRun {
		printWarning("Dry run: no documents or textures were written")
		return nil
	}
	if result.Stats.Written > 0 {
		printNextStep("Inspect a document", fmt.Sprintf("%s visualize %s", appName, firstWritten(result, opts.Root)))
	}
	return nil
}

// applySerializeFlags overrides config values with flags that were set.
func applySerializeFlags(cfg *pipeline.Config, flags serializeFlags) {
	if flags.root != "" {
		cfg.Root = flags.root
	}
	if flags.marker != "" {
		cfg.LogicMarker = flags.marker
	}
	if flags.texturesDir != "" {
		cfg.TexturesDir = flags.texturesDir
	}
	if flags.cacheKind != "" {
		cfg.Cache.Backend = flags.cacheKind
	}
	if flags.redisURL != "" {
		cfg.Cache.RedisURL = flags.redisURL
		if cfg.Cache.Backend == "" {
			cfg.Cache.Backend = pipeline.CacheRedis
		}
	}
}

func firstWritten(r *pipeline.Result, root string) string {
	if root == "" {
		root = pipeline.DefaultRoot
	}
	for _, d := range r.Documents {
		if d.Status == pipeline.StatusWritten {
			return root + "/" + d.Path
		}
	}
	return ""
}
