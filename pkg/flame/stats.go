package flame

import "sort"

// Frame is a frame name with its aggregated weights across the tree.
type Frame struct {
	Name  string `json:"name"`
	Self  int64  `json:"self"`
	Total int64  `json:"total"`
}

// Stats summarizes a tree.
type Stats struct {
	Depth  int     `json:"depth"`
	Nodes  int     `json:"nodes"`
	Total  int64   `json:"total"`
	Frames int     `json:"frames"` // distinct frame names
	Top    []Frame `json:"top"`
}

// Compute returns summary statistics with the top n frames ranked by self
// weight. A frame's total counts each stack once even under recursion.
func Compute(root *Node, n int) Stats {
	st := Stats{
		Depth: MaxDepth(root),
		Nodes: Count(root),
		Total: TotalWeight(root),
	}
	if root == nil {
		return st
	}

	frames := make(map[string]*Frame)
	var visit func(node *Node, onStack map[string]int)
	visit = func(node *Node, onStack map[string]int) {
		f, ok := frames[node.Name]
		if !ok {
			f = &Frame{Name: node.Name}
			frames[node.Name] = f
		}
		f.Self += node.Self()
		if onStack[node.Name] == 0 {
			f.Total += node.Weight()
		}
		onStack[node.Name]++
		for _, c := range node.Children {
			visit(c, onStack)
		}
		onStack[node.Name]--
	}
	visit(root, make(map[string]int))

	all := make([]Frame, 0, len(frames))
	for _, f := range frames {
		all = append(all, *f)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Self != all[j].Self {
			return all[i].Self > all[j].Self
		}
		return all[i].Name < all[j].Name
	})
	st.Frames = len(all)
	if n > 0 && len(all) > n {
		all = all[:n]
	}
	st.Top = all
	return st
}
