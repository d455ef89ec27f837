package io

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/flametower/pkg/errors"
	"github.com/matzehuels/flametower/pkg/flame"
)

// WriteJSON encodes doc as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode")
	}
	return nil
}

// ExportJSON writes doc to a JSON file at path.
func ExportJSON(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()
	return WriteJSON(doc, f)
}

// WriteFolded writes one line per node whose self weight is positive. A root
// named [FoldedRoot] is left out of the stacks.
func WriteFolded(root *flame.Node, w io.Writer) error {
	if root == nil {
		return nil
	}
	bw := bufio.NewWriter(w)
	var stack []string
	var walk func(n *flame.Node)
	walk = func(n *flame.Node) {
		stack = append(stack, n.Name)
		frames := stack
		if frames[0] == FoldedRoot {
			frames = frames[1:]
		}
		if self := n.Self(); self > 0 && len(frames) > 0 {
			bw.WriteString(strings.Join(frames, ";"))
			bw.WriteByte(' ')
			bw.WriteString(strconv.FormatInt(self, 10))
			bw.WriteByte('\n')
		}
		for _, c := range n.Children {
			walk(c)
		}
		stack = stack[:len(stack)-1]
	}
	walk(root)
	if err := bw.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write folded stacks")
	}
	return nil
}
