package io

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/flametower/pkg/errors"
	"github.com/matzehuels/flametower/pkg/flame"
)

// FoldedRoot names the synthetic root of a tree read from folded stacks.
const FoldedRoot = "root"

// maxLine bounds a single folded stack line.
const maxLine = 1 << 20

// Document is a flame tree with the metadata needed to render it.
type Document struct {
	Tree        *flame.Node      `json:"tree"`
	Unit        string           `json:"unit,omitempty"`
	Total       int64            `json:"total,omitempty"`
	ThreadSplit map[string]int64 `json:"threadSplit,omitempty"`
}

// Format identifies an input encoding.
type Format string

const (
	FormatJSON   Format = "json"
	FormatFolded Format = "folded"
)

// DetectFormat returns the format implied by path's extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".folded", ".collapsed", ".txt":
		return FormatFolded, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot detect input format of %s (want .json, .folded, .collapsed or .txt)", path)
}

// Import reads the file at path in the format its extension names and
// validates the resulting tree.
func Import(path string) (*Document, error) {
	if err := errors.ValidateFilePath(path); err != nil {
		return nil, err
	}
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	return Read(f, format)
}

// Read decodes r in the given format and validates the tree.
func Read(r io.Reader, format Format) (*Document, error) {
	var (
		doc *Document
		err error
	)
	switch format {
	case FormatJSON:
		doc, err = ReadJSON(r)
	case FormatFolded:
		var root *flame.Node
		root, err = ReadFolded(r)
		doc = &Document{Tree: root}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown input format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if err := flame.Validate(doc.Tree); err != nil {
		return nil, err
	}
	return doc, nil
}

// ReadJSON decodes a bare node or a document envelope from r. The envelope
// is recognized by its top-level "tree" key. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var raw map[string]json.RawMessage
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read")
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTree, err, "decode")
	}

	if _, ok := raw["tree"]; ok {
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTree, err, "decode document")
		}
		return &doc, nil
	}

	var root flame.Node
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTree, err, "decode tree")
	}
	return &Document{Tree: &root}, nil
}

// ReadFolded decodes folded stacks from r into a tree below [FoldedRoot].
// Blank lines and lines starting with '#' are skipped. Stacks sharing a
// prefix share the prefix's nodes; children keep first-appearance order.
func ReadFolded(r io.Reader) (*flame.Node, error) {
	root := &flame.Node{Name: FoldedRoot}
	index := map[*flame.Node]map[string]*flame.Node{}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		sep := strings.LastIndexAny(text, " \t")
		if sep < 0 {
			return nil, errors.New(errors.ErrCodeInvalidTree, "line %d: missing sample count", line)
		}
		count, err := strconv.ParseInt(text[sep+1:], 10, 64)
		if err != nil || count < 0 {
			return nil, errors.New(errors.ErrCodeInvalidTree, "line %d: invalid sample count %q", line, text[sep+1:])
		}

		// Frames never outweigh the root, so bounding the root bounds them all.
		if count > math.MaxInt64-root.Value {
			return nil, errors.New(errors.ErrCodeInvalidTree, "line %d: sample total overflows", line)
		}
		root.Value += count
		n := root
		for _, frame := range strings.Split(strings.TrimSpace(text[:sep]), ";") {
			if frame == "" {
				continue
			}
			n = child(index, n, frame)
			n.Value += count
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTree, err, "read folded stacks")
	}
	return root, nil
}

func child(index map[*flame.Node]map[string]*flame.Node, parent *flame.Node, name string) *flame.Node {
	byName := index[parent]
	if byName == nil {
		byName = make(map[string]*flame.Node)
		index[parent] = byName
	}
	if c, ok := byName[name]; ok {
		return c
	}
	c := &flame.Node{Name: name}
	parent.Children = append(parent.Children, c)
	byName[name] = c
	return c
}
