package flame

import (
	"strconv"
	"strings"

	"github.com/matzehuels/flametower/pkg/errors"
)

// Path addresses a node by the child index taken at each level, starting
// below the root. The root itself is the empty path.
type Path []int

// String renders the path as slash-separated indices ("0/2/1"). The root is "".
func (p Path) String() string {
	if len(p) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, idx := range p {
		if i > 0 {
			sb.WriteByte('/')
		}
		sb.WriteString(strconv.Itoa(idx))
	}
	return sb.String()
}

// Child returns a new path extended by idx. The receiver is not modified.
func (p Path) Child(idx int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = idx
	return out
}

// ParsePath parses the output of [Path.String].
func ParsePath(s string) (Path, error) {
	s = strings.Trim(s, "/ ")
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, "/")
	p := make(Path, len(parts))
	for i, part := range parts {
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 0 {
			return nil, errors.New(errors.ErrCodeInvalidPath, "invalid node path %q", s)
		}
		p[i] = idx
	}
	return p, nil
}

// Locate follows p from root and returns the addressed node.
func Locate(root *Node, p Path) (*Node, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "empty tree")
	}
	n := root
	for depth, idx := range p {
		if idx >= len(n.Children) {
			return nil, errors.New(errors.ErrCodeNodeNotFound, "no node at %q (depth %d)", p.String(), depth+1)
		}
		n = n.Children[idx]
	}
	return n, nil
}

// PathOf returns the path from root to target, compared by identity.
func PathOf(root, target *Node) (Path, bool) {
	if root == nil || target == nil {
		return nil, false
	}
	if root == target {
		return Path{}, true
	}
	for i, c := range root.Children {
		if p, ok := PathOf(c, target); ok {
			return append(Path{i}, p...), true
		}
	}
	return nil, false
}
