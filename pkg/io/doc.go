// Package io reads and writes flame trees.
//
// # Formats
//
// Two input formats are supported. JSON holds either a bare node
//
//	{"name": "root", "value": 100, "children": [{"name": "main", "value": 100}]}
//
// or a document envelope, which is what the HTTP API returns:
//
//	{"tree": {...}, "unit": "ns", "total": 100, "threadSplit": {"worker-1": 60}}
//
// Folded stacks are one sample line per stack, frames separated by
// semicolons and followed by a count:
//
//	main;parse;alloc 20
//	main;write 38
//
// Folded input becomes a tree below a synthetic "root" frame. Every frame's
// value is inclusive: the sum of the counts of all stacks passing through it.
//
// # Import
//
// [Import] picks the format from the file extension (.json for JSON;
// .folded, .collapsed and .txt for folded stacks) and validates the tree
// with [flame.Validate]. [ReadJSON] and [ReadFolded] decode from any
// io.Reader.
//
// # Export
//
// [WriteJSON] and [ExportJSON] write the document envelope. [WriteFolded]
// writes folded stacks; a tree exported this way imports back to an equal
// tree as long as every parent's value is at least the sum of its children.
package io
