package flame

// Node is one frame of a weighted call tree.
type Node struct {
	Name     string  `json:"name"`
	Value    int64   `json:"value"`
	Children []*Node `json:"children,omitempty"`
}

// New returns a node with the given children.
func New(name string, value int64, children ...*Node) *Node {
	return &Node{Name: name, Value: value, Children: children}
}

// Leaf reports whether n has no children.
func (n *Node) Leaf() bool {
	return len(n.Children) == 0
}

// Weight returns the node's value, treating negative values as zero.
func (n *Node) Weight() int64 {
	if n == nil || n.Value < 0 {
		return 0
	}
	return n.Value
}

// ChildSum returns the summed weight of the direct children.
func (n *Node) ChildSum() int64 {
	if n == nil {
		return 0
	}
	var sum int64
	for _, c := range n.Children {
		sum += c.Weight()
	}
	return sum
}

// Self returns the weight not attributed to children, never below zero.
func (n *Node) Self() int64 {
	if self := n.Weight() - n.ChildSum(); self > 0 {
		return self
	}
	return 0
}

// MaxDepth returns the number of rows needed to draw the subtree rooted at n.
// A leaf has depth 1 and a nil tree has depth 0.
func MaxDepth(n *Node) int {
	if n == nil {
		return 0
	}
	depth := 0
	for _, c := range n.Children {
		if d := MaxDepth(c); d > depth {
			depth = d
		}
	}
	return depth + 1
}

// TotalWeight returns the weight of the subtree rooted at n. It is the
// node's own value; a zero-valued node falls back to its children's totals,
// never to 1.
func TotalWeight(n *Node) int64 {
	if n == nil {
		return 0
	}
	if w := n.Weight(); w > 0 {
		return w
	}
	var sum int64
	for _, c := range n.Children {
		sum += TotalWeight(c)
	}
	return sum
}

// Count returns the number of nodes in the subtree rooted at n.
func Count(n *Node) int {
	if n == nil {
		return 0
	}
	count := 1
	for _, c := range n.Children {
		count += Count(c)
	}
	return count
}

// Walk visits every node in depth-first pre-order. Returning false from fn
// skips the node's children.
func Walk(n *Node, fn func(n *Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		walk(c, depth+1, fn)
	}
}

// Clone returns a deep copy of the subtree rooted at n.
func Clone(n *Node) *Node {
	if n == nil {
		return nil
	}
	out := &Node{Name: n.Name, Value: n.Value}
	if len(n.Children) > 0 {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = Clone(c)
		}
	}
	return out
}
