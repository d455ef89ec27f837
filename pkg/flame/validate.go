package flame

import "github.com/matzehuels/flametower/pkg/errors"

// MaxTreeDepth bounds the depth accepted from untrusted input.
const MaxTreeDepth = 4096

// Validate checks a tree read from outside the process: weights must be
// non-negative, children must not be nil, and depth must stay bounded.
// Renderers do not require a validated tree.
func Validate(root *Node) error {
	if root == nil {
		return errors.New(errors.ErrCodeInvalidTree, "tree is empty")
	}
	return validate(root, Path{}, 1)
}

func validate(n *Node, p Path, depth int) error {
	if depth > MaxTreeDepth {
		return errors.New(errors.ErrCodeInvalidTree, "tree deeper than %d levels", MaxTreeDepth)
	}
	if n.Value < 0 {
		return errors.New(errors.ErrCodeInvalidTree, "node %q at %q has negative value %d", n.Name, p.String(), n.Value)
	}
	for i, c := range n.Children {
		if c == nil {
			return errors.New(errors.ErrCodeInvalidTree, "nil child %d under %q", i, n.Name)
		}
		if err := validate(c, p.Child(i), depth+1); err != nil {
			return err
		}
	}
	return nil
}
