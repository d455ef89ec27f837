// Package catalog is the in-memory data service behind the file list and the
// analysis view: profiling files, their dimensions, and the flame tree for a
// dimension filtered by task.
//
// The catalog stands in for a real profile store. Files are seeded at
// construction; their trees are generated from the file ID, dimension and
// task, so asking twice returns equal trees and no tree is ever stored.
//
// # Task Filtering
//
// Each file has a fixed task list (threads, for a JVM profile). A request
// names a subset and whether to include or exclude it:
//
//   - no tasks named: every task
//   - Include: only the named tasks
//   - exclude: every task except the named ones
//
// The per-task trees are combined with [flame.Merge].
//
// All methods are safe for concurrent use.
package catalog
