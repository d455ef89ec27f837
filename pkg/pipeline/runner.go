package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flametower/pkg/cache"
	"github.com/matzehuels/flametower/pkg/errors"
	"github.com/matzehuels/flametower/pkg/flame"
	flameio "github.com/matzehuels/flametower/pkg/io"
	"github.com/matzehuels/flametower/pkg/observability"
	"github.com/matzehuels/flametower/pkg/render/flame/interact"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner keeps no per-run state: multiple goroutines can use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	Hooks  observability.PipelineHooks
}

// NewRunner creates a runner. A nil cache disables caching, a nil logger
// uses log.Default, and nil hooks use the registered
// [observability.Pipeline] hooks.
func NewRunner(c cache.Cache, logger *log.Logger, hooks observability.PipelineHooks) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	if hooks == nil {
		hooks = observability.Pipeline()
	}
	return &Runner{
		Cache:  c,
		Keyer:  cache.NewDefaultKeyer(),
		Logger: logger,
		Hooks:  hooks,
	}
}

// WithKeyer returns a copy of r that generates keys with k.
func (r *Runner) WithKeyer(k cache.Keyer) *Runner {
	cp := *r
	cp.Keyer = k
	return &cp
}

// Execute runs parse, frame and render for opts.Input.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if opts.Input == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "input file is required")
	}

	src, err := ReadSource(opts.Input)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	doc, parseHit, err := r.ParseWithCacheInfo(ctx, src, opts.Refresh)
	if err != nil {
		return nil, err
	}
	parseTime := time.Since(start)

	result, err := r.ExecuteDocument(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.ParseTime = parseTime
	result.CacheInfo.ParseHit = parseHit
	return result, nil
}

// ExecuteDocument runs frame and render for an already parsed document, as
// served by the catalog.
func (r *Runner) ExecuteDocument(ctx context.Context, doc *flameio.Document, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidTree, "no document")
	}

	treeHash, err := HashDocument(doc)
	if err != nil {
		return nil, err
	}

	frameStart := time.Now()
	c, err := Controller(doc, opts)
	if err != nil {
		return nil, err
	}
	f := c.Frame()
	frameTime := time.Since(frameStart)
	r.Hooks.OnFrame(ctx, len(f.Rects), frameTime)

	result := &Result{
		TreeHash: treeHash,
		Frame:    f,
		Stats: Stats{
			Nodes:     flame.Count(doc.Tree),
			Depth:     flame.MaxDepth(doc.Tree),
			Rects:     len(f.Rects),
			FrameTime: frameTime,
		},
	}

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, treeHash, f, c.Root(), opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered flame graph",
		"nodes", result.Stats.Nodes,
		"rects", result.Stats.Rects,
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)
	return result, nil
}

// ParseWithCacheInfo decodes src, consulting the tree cache first unless
// refresh is set. The boolean reports a cache hit.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, src Source, refresh bool) (*flameio.Document, bool, error) {
	key := r.Keyer.TreeKey(cache.Hash(append([]byte(src.Format+":"), src.Data...)))

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if doc, err := flameio.ReadJSON(bytes.NewReader(data)); err == nil && doc.Tree != nil {
				observability.Cache().OnCacheHit(ctx, "tree")
				return doc, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "tree")
	}

	r.Hooks.OnParseStart(ctx, src.Name)
	start := time.Now()
	doc, err := Parse(src)
	r.Hooks.OnParseComplete(ctx, src.Name, flame.Count(treeOf(doc)), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := flameio.WriteJSON(doc, &buf); err == nil {
		if err := r.Cache.Set(ctx, key, buf.Bytes(), TTLTree); err != nil {
			r.Logger.Warn("cache tree", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "tree", buf.Len())
		}
	}
	return doc, false, nil
}

// RenderWithCacheInfo renders every format, serving from the artifact cache
// when all of them are present. The boolean reports a full cache hit.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, treeHash string, f interact.Frame, root *flame.Node, opts Options) (map[string][]byte, bool, error) {
	if !opts.Refresh {
		cached := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(treeHash, opts.ArtifactKeyOpts(format, f.Unit)))
			if err != nil || !hit {
				break
			}
			cached[format] = data
		}
		if len(cached) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return cached, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	r.Hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	artifacts, err := Render(ctx, f, root, opts)
	r.Hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(treeHash, opts.ArtifactKeyOpts(format, f.Unit))
		if err := r.Cache.Set(ctx, key, data, TTLArtifact); err != nil {
			r.Logger.Warn("cache artifact", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return artifacts, false, nil
}

// HashDocument returns the content hash of doc's canonical JSON encoding.
func HashDocument(doc *flameio.Document) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash document")
	}
	return cache.Hash(data), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func treeOf(doc *flameio.Document) *flame.Node {
	if doc == nil {
		return nil
	}
	return doc.Tree
}
