package bptree

import (
	"bufio"
	"fmt"
	"html"
	"io"
)

// Print writes an indented dump of the tree, right most subtree first, so
// that the output read with the head tilted left shows the tree shape.
func (tree *BPlusTree[K, V]) Print(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "============= bptree =============")
	tree.print(bw, tree.root, 0)
	fmt.Fprintln(bw, "==================================")
	return bw.Flush()
}

func (tree *BPlusTree[K, V]) print(w io.Writer, id nodeID, indent int) {
	n := tree.node(id)
	if n.isLeaf() {
		for i := len(n.keys) - 1; i >= 0; i-- {
			fmt.Fprintf(w, "%*s%v(%d)\n", indent, "", n.keys[i], id)
		}
		return
	}

	for i := len(n.keys) - 1; i >= 0; i-- {
		tree.print(w, n.children[i+1], indent+4)
		fmt.Fprintf(w, "%*s%v(%d)\n", indent, "", n.keys[i], id)
	}
	tree.print(w, n.children[0], indent+4)
}

// WriteDot outputs the internal structure of the tree in Graphviz DOT
// format. Internal nodes show one port per child, leaves show their keys
// and the leaf chain is drawn with dashed edges.
func (tree *BPlusTree[K, V]) WriteDot(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph bptree {")
	fmt.Fprintln(bw, "\tnode [shape=plain, fontname=Arial, fontsize=12];")

	root := tree.node(tree.root)
	if root.isLeaf() && len(root.keys) == 0 {
		fmt.Fprintln(bw, "\tempty [label=\"Tree is empty\", shape=box];")
		fmt.Fprintln(bw, "}")
		return bw.Flush()
	}

	queue := []nodeID{tree.root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		n := tree.node(id)

		label := `<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0" CELLPADDING="2">`
		if n.isLeaf() {
			label += "<TR>"
			for _, k := range n.keys {
				label += fmt.Sprintf(`<TD BGCOLOR="lightblue">%s</TD>`, html.EscapeString(fmt.Sprint(k)))
			}
			if len(n.keys) == 0 {
				label += `<TD BGCOLOR="lightblue">Empty Leaf</TD>`
			}
			label += "</TR>"
		} else {
			label += "<TR>"
			for i := range n.children {
				label += fmt.Sprintf(`<TD PORT="f%d">P%d</TD>`, i, i)
			}
			label += "</TR><TR><TD></TD>"
			for _, k := range n.keys {
				label += fmt.Sprintf("<TD>%s</TD><TD></TD>", html.EscapeString(fmt.Sprint(k)))
			}
			label += "</TR>"
		}
		label += "</TABLE>"
		fmt.Fprintf(bw, "\tn%d [label=<%s>];\n", id, label)

		for i, childID := range n.children {
			fmt.Fprintf(bw, "\tn%d:f%d -> n%d;\n", id, i, childID)
			queue = append(queue, childID)
		}
	}

	for id := tree.leftLeaf(); tree.node(id).next != nilNode; id = tree.node(id).next {
		fmt.Fprintf(bw, "\tn%d -> n%d [style=dashed, arrowhead=none, constraint=false];\n", id, tree.node(id).next)
	}

	fmt.Fprintln(bw, "}")
	return bw.Flush()
}
