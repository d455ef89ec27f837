package flame

// Merge combines trees by name path: frames with the same name under the
// same parent are folded together and their values summed. The result's
// root takes the first tree's name. Child order follows first appearance.
// Inputs are not modified; nil trees are skipped.
func Merge(trees ...*Node) *Node {
	var out *Node
	for _, t := range trees {
		if t == nil {
			continue
		}
		if out == nil {
			out = &Node{Name: t.Name}
		}
		mergeInto(out, t)
	}
	return out
}

func mergeInto(dst, src *Node) {
	dst.Value += src.Weight()
	if len(src.Children) == 0 {
		return
	}
	index := make(map[string]*Node, len(dst.Children))
	for _, c := range dst.Children {
		index[c.Name] = c
	}
	for _, c := range src.Children {
		target, ok := index[c.Name]
		if !ok {
			target = &Node{Name: c.Name}
			dst.Children = append(dst.Children, target)
			index[c.Name] = target
		}
		mergeInto(target, c)
	}
}
