package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/nodetrees/pkg/assets"
	"github.com/matzehuels/nodetrees/pkg/cache"
	"github.com/matzehuels/nodetrees/pkg/document"
	"github.com/matzehuels/nodetrees/pkg/errors"
	"github.com/matzehuels/nodetrees/pkg/nodetree"
	"github.com/matzehuels/nodetrees/pkg/observability"
	"github.com/matzehuels/nodetrees/pkg/scene"
)

// Runner executes passes against a change-detection cache.
//
// The Runner keeps no per-pass state; the cache and logger are shared by
// every pass it runs.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner. If c is nil, a NullCache is used and every
// document is written on every pass. If logger is nil, log.Default is used.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// pass is the state shared by the targets of one Execute call.
type pass struct {
	id      string
	opts    Options
	lib     scene.Library
	index   *cache.Index
	store   nodetree.AssetStore
	log     *log.Logger
	written map[string]string // path -> target that produced it
}

// Execute serializes the snapshot's targets and writes changed documents.
//
// When ctx is cancelled the pass stops before the next target and returns
// the results gathered so far together with the context error.
func (r *Runner) Execute(ctx context.Context, snap *scene.Snapshot, opts Options) (*Result, error) {
	if snap == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "snapshot is nil")
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	targets, err := selectTargets(snap, opts.Targets)
	if err != nil {
		return nil, err
	}

	p := &pass{
		id:      uuid.New().String(),
		opts:    opts,
		lib:     snap.Library,
		index:   cache.NewIndex(r.Cache, opts.Root, opts.CacheTTL),
		written: make(map[string]string),
	}
	p.log = opts.Logger.With("pass", p.id[:8])
	p.store = assets.NewDirStore(opts.Root, opts.TexturesDir)
	if opts.DryRun {
		p.store = assets.NewPlanStore(opts.Root, opts.TexturesDir)
	}

	hooks := observability.Pipeline()
	hooks.OnPassStart(ctx, p.id, len(targets))

	start := time.Now()
	result := &Result{PassID: p.id}
	defer func() {
		result.Stats.Duration = time.Since(start)
	}()

	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			hooks.OnPassComplete(ctx, p.id, result.Stats.Written, result.Stats.Unchanged, time.Since(start), err)
			return result, err
		}
		doc, err := p.run(ctx, t)
		if err != nil {
			hooks.OnPassComplete(ctx, p.id, result.Stats.Written, result.Stats.Unchanged, time.Since(start), err)
			return result, err
		}
		result.Documents = append(result.Documents, doc)
		result.Stats.add(doc.Status)
	}

	p.log.Info("pass complete",
		"written", result.Stats.Written,
		"would_write", result.Stats.WouldWrite,
		"unchanged", result.Stats.Unchanged,
		"skipped", result.Stats.NotApplicable,
		"duration", time.Since(start))
	hooks.OnPassComplete(ctx, p.id, result.Stats.Written, result.Stats.Unchanged, time.Since(start), nil)
	return result, nil
}

// run serializes one target. Only cyclic groups and failed document writes
// are returned as errors; everything else is logged.
func (p *pass) run(ctx context.Context, t scene.Target) (DocumentResult, error) {
	res := DocumentResult{Target: t.TargetName(), Status: StatusNotApplicable}
	logger := p.log.With("target", t.TargetName())

	resolved, ok := scene.Resolve(t, p.lib, p.opts.LogicMarker)
	if !ok {
		logger.Debug("nothing to serialize")
		return res, nil
	}
	res.Name, res.Kind = resolved.Name, resolved.Kind

	hooks := observability.Pipeline()
	hooks.OnSerializeStart(ctx, resolved.Name, string(resolved.Kind))
	start := time.Now()

	status, out, err := p.serialize(ctx, resolved, &res, logger)
	res.Duration = time.Since(start)
	hooks.OnSerializeComplete(ctx, resolved.Name, string(resolved.Kind), res.NodeCount, res.Duration, err)
	if err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
		return res, errors.Wrap(code, err, "target %q", t.TargetName())
	}
	res.Path, res.Hash, res.Status = out.Path, out.Hash, status
	return res, nil
}

func (p *pass) serialize(ctx context.Context, r scene.Resolved, res *DocumentResult, logger *log.Logger) (Status, *document.Output, error) {
	doc, err := nodetree.Serialize(r.Graph, r.Kind, p.lib, nodetree.Options{
		Logger:      logger,
		Assets:      p.store,
		LogicMarker: p.opts.LogicMarker,
	})
	if err != nil {
		return "", nil, err
	}
	doc.Name = r.Name
	res.NodeCount, res.InternalTrees = doc.Nodes.Len(), doc.InternalTrees.Len()
	return p.persist(ctx, doc, logger)
}

func (p *pass) persist(ctx context.Context, doc *nodetree.Document, logger *log.Logger) (Status, *document.Output, error) {
	out, err := document.Finalize(doc)
	if err != nil {
		return "", nil, err
	}
	logger = logger.With("path", out.Path)

	if prev, dup := p.written[out.Path]; dup {
		logger.Debug("document already produced in this pass", "by", prev)
		return StatusUnchanged, out, nil
	}
	p.written[out.Path] = doc.Name

	if !p.opts.Force {
		same, err := p.index.Unchanged(ctx, out.Path, out.Hash)
		if err != nil {
			logger.Warn("change index unavailable, writing anyway", "err", err)
		}
		if same {
			logger.Debug("unchanged", "hash", out.Hash)
			return StatusUnchanged, out, nil
		}
	}

	if p.opts.DryRun {
		logger.Info("would write", "hash", out.Hash)
		return StatusWouldWrite, out, nil
	}

	if _, err := document.Write(p.opts.Root, out); err != nil {
		return "", nil, err
	}
	if err := p.index.Record(ctx, out.Path, out.Hash); err != nil {
		logger.Warn("failed to record hash", "err", err)
	}
	logger.Info("wrote document", "hash", out.Hash, "nodes", doc.Nodes.Len())
	return StatusWritten, out, nil
}

// selectTargets returns the named targets in snapshot order, or all of them
// when names is empty.
func selectTargets(snap *scene.Snapshot, names []string) ([]scene.Target, error) {
	if len(names) == 0 {
		return snap.Targets, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []scene.Target
	found := make(map[string]bool, len(names))
	for _, t := range snap.Targets {
		if want[t.TargetName()] {
			out = append(out, t)
			found[t.TargetName()] = true
		}
	}
	for _, n := range names {
		if !found[n] {
			return nil, errors.New(errors.ErrCodeNotFound, "target %q not found in snapshot", n)
		}
	}
	return out, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
