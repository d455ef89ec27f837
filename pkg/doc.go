// Package pkg provides the core libraries for Flametower flame-graph
// rendering and exploration.
//
// # Overview
//
// Flametower turns weighted call trees (a profile aggregated by stack) into
// flame graphs: every frame is a rectangle whose width is its share of its
// parent, children stacked below. The pkg directory is organized into four
// areas:
//
//  1. Domain: the call tree ([flame]), value formatting ([units]) and input
//     and output encodings ([io])
//  2. Rendering: layout, styling, interaction and output sinks under
//     [render]
//  3. Orchestration: [pipeline] (parse → frame → render) with [cache]
//  4. Service: the profile [catalog], its HTTP [client], [observability]
//     hooks and shared [errors]
//
// # Architecture
//
// The typical data flow through Flametower:
//
//	Folded stacks / JSON tree / catalog file
//	         ↓
//	    [io] package (decode + validate)
//	         ↓
//	    [render/flame/interact] (zoom, hover, search → Frame)
//	         ↓
//	    [render/flame/layout] (rectangles per node)
//	         ↓
//	    [render/flame/sink] (SVG, JSON, PNG, PDF)
//
// # Quick Start
//
// Read folded stacks and render an SVG:
//
//	import (
//	    flameio "github.com/matzehuels/flametower/pkg/io"
//	    "github.com/matzehuels/flametower/pkg/render/flame/interact"
//	    "github.com/matzehuels/flametower/pkg/render/flame/sink"
//	)
//
//	// 1. Decode
//	doc, _ := flameio.Import("cpu.folded")
//
//	// 2. Drive the interaction state
//	c := interact.New(doc.Tree, interact.WithWidth(1200))
//	c.SearchChange("json")
//
//	// 3. Render
//	svg := sink.RenderSVG(c.Frame())
//
// Or let the pipeline do all of it with caching:
//
//	runner := pipeline.NewRunner(store, logger, nil)
//	res, _ := runner.Execute(ctx, pipeline.Options{
//	    Input:   "cpu.folded",
//	    Formats: []string{"svg", "png"},
//	})
//
// # Main Packages
//
// [flame] - The weighted call tree: validation, node paths, merging and
// summary statistics.
//
// [units] - Human-readable values for time (ns), size (byte) and counts.
//
// [io] - Folded-stack and JSON import, JSON export.
//
// [render/flame/layout] - Rectangle geometry for one tree at one width.
//
// [render/flame/styles] - Label fitting, colors and the simple and print
// styles.
//
// [render/flame/interact] - The interaction controller and the Frame it
// produces.
//
// [render/flame/sink] - SVG, JSON, PNG and PDF output.
//
// [render/nodelink] - Call-graph view of a tree rendered with Graphviz.
//
// [render] - SVG to PDF/PNG conversion.
//
// [pipeline] - Complete pipeline (parse → frame → render) used by the CLI
// and the HTTP server alike.
//
// [cache] - File, Redis and null cache backends with content-addressed keys.
//
// [catalog] - In-memory catalog of profiles with per-dimension flame trees.
//
// [client] - Go client for the HTTP API.
//
// [httputil] - Retry with backoff for HTTP and Redis clients.
//
// [observability] - Hooks for pipeline, cache and server events.
//
// [errors] - Coded errors and input validation.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/render/flame/... # Specific packages
//	go test -run Example           # Examples only
//
// Redis tests run against a live server named by FLAMETOWER_TEST_REDIS.
// PNG and PDF tests are skipped when rsvg-convert is not installed.
//
// [flame]: https://pkg.go.dev/github.com/matzehuels/flametower/pkg/flame
// [units]: https://pkg.go.dev/github.com/matzehuels/flametower/pkg/units
// [io]: https://pkg.go.dev/github.com/matzehuels/flametower/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/flametower/pkg/render
// [render/flame/layout]: https://pkg.go.dev/github.com/matzehuels/flametower/pkg/render/flame/layout
// [render/flame/styles]: https://pkg.go.dev/github.com/matzehuels/flametower/pkg/render/flame/styles
// [render/flame/interact]: https://pkg.go.dev/github.com/matzehuels/flametower/pkg/render/flame/interact
// [render/flame/sink]: https://pkg.go.dev/github.com/matzehuels/flametower/pkg/render/flame/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/flametower/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/flametower/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/flametower/pkg/cache
// [catalog]: https://pkg.go.dev/github.com/matzehuels/flametower/pkg/catalog
// [client]: https://pkg.go.dev/github.com/matzehuels/flametower/pkg/client
// [httputil]: https://pkg.go.dev/github.com/matzehuels/flametower/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/flametower/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/flametower/pkg/errors
package pkg
