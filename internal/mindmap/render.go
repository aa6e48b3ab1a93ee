package mindmap

import "strings"

// Outline renders the tree as plain indented text, one node per line.
// The root is flush left; each level below it is indented by two
// spaces and bulleted. Used by the web templates, which escape it.
func Outline(root *Node) string {
	if root == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(root.Label)
	for _, c := range root.Children {
		writeOutline(&b, c, 1)
	}
	return b.String()
}

func writeOutline(b *strings.Builder, n *Node, depth int) {
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString("- ")
	b.WriteString(n.Label)
	for _, c := range n.Children {
		writeOutline(b, c, depth+1)
	}
}

// ASCIITree renders the tree in tree(1) style for the terminal.
func ASCIITree(root *Node) string {
	if root == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(root.Label)
	writeBranches(&b, root.Children, "")
	return b.String()
}

func writeBranches(b *strings.Builder, nodes []*Node, prefix string) {
	for i, n := range nodes {
		last := i == len(nodes)-1
		b.WriteByte('\n')
		b.WriteString(prefix)
		if last {
			b.WriteString("└── ")
		} else {
			b.WriteString("├── ")
		}
		b.WriteString(n.Label)

		childPrefix := prefix
		if last {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
		writeBranches(b, n.Children, childPrefix)
	}
}
