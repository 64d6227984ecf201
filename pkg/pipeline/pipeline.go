// Package pipeline runs serialization passes over a scene snapshot.
//
// A pass resolves every target of the snapshot to its node graph, serializes
// it, finalizes the hashed document and writes it below the project root.
// Documents whose hash matches the one recorded in the change-detection
// index are left untouched, so an editor watching the output directory only
// reloads what actually changed.
//
// # Usage
//
//	snap, err := scene.LoadSnapshot("scene.json")
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(nil, logger)
//	defer runner.Close()
//	result, err := runner.Execute(ctx, snap, pipeline.Options{Root: "project"})
//	for _, d := range result.Documents {
//	    fmt.Println(d.Status, d.Path)
//	}
//
// Targets are processed one at a time. Cancelling ctx stops the pass
// between graphs; a graph that has started is always finished, so no
// partial document is ever written.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodetrees/pkg/assets"
	"github.com/matzehuels/nodetrees/pkg/errors"
	"github.com/matzehuels/nodetrees/pkg/scene"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultRoot is the project root used when none is configured.
	DefaultRoot = "."

	// DefaultTexturesDir is where relocated images are stored.
	DefaultTexturesDir = assets.DefaultDir
)

// =============================================================================
// Options
// =============================================================================

// Options configures one pass.
type Options struct {
	// Root is the project directory documents are written below.
	Root string

	// LogicMarker selects logic modifiers on objects.
	LogicMarker string

	// TexturesDir is the image directory, relative to Root.
	TexturesDir string

	// Targets limits the pass to the named targets. Empty means all.
	Targets []string

	// DryRun serializes and hashes but writes nothing, images included.
	DryRun bool

	// Force rewrites documents even when their hash is unchanged.
	Force bool

	// CacheTTL bounds how long recorded hashes are trusted. Zero keeps them.
	CacheTTL time.Duration

	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Root == "" {
		o.Root = DefaultRoot
	}
	if o.LogicMarker == "" {
		o.LogicMarker = scene.DefaultLogicMarker
	}
	if o.TexturesDir == "" {
		o.TexturesDir = DefaultTexturesDir
	}
	if err := errors.ValidatePath(o.TexturesDir); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "textures_dir %q", o.TexturesDir)
	}
	for _, name := range o.Targets {
		if name == "" {
			return errors.New(errors.ErrCodeInvalidInput, "target name cannot be empty")
		}
	}
	if o.CacheTTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl cannot be negative")
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	o.validated = true
	return nil
}

// =============================================================================
// Results
// =============================================================================

// Status is the outcome of one target in a pass.
type Status string

const (
	StatusWritten       Status = "written"
	StatusUnchanged     Status = "unchanged"
	StatusWouldWrite    Status = "would write"
	StatusNotApplicable Status = "not applicable"
)

// DocumentResult describes what happened to one target.
type DocumentResult struct {
	Target        string
	Name          string
	Kind          scene.Kind
	Path          string // Relative to the project root; empty when not applicable
	Hash          string
	Status        Status
	NodeCount     int
	InternalTrees int
	Duration      time.Duration
}

// Result summarizes a pass.
type Result struct {
	PassID    string
	Documents []DocumentResult
	Stats     Stats
}

// Stats counts documents by outcome.
type Stats struct {
	Written       int
	WouldWrite    int // Dry-run documents that a real pass would write
	Unchanged     int
	NotApplicable int
	Duration      time.Duration
}

func (s *Stats) add(st Status) {
	switch st {
	case StatusWritten:
		s.Written++
	case StatusWouldWrite:
		s.WouldWrite++
	case StatusUnchanged:
		s.Unchanged++
	case StatusNotApplicable:
		s.NotApplicable++
	}
}
