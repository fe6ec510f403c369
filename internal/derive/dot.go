package derive

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"grammarlab/internal/grammar"
)

// WriteDOT prints a Graphviz rendering of the derivation tree rooted at n:
// non-terminals as ellipses, terminals as boxes, ε leaves dashed.
func WriteDOT(w io.Writer, n *Node) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph G {")
	fmt.Fprintln(bw, "    ordering=out;")

	id := 0
	var walk func(*Node) int
	walk = func(n *Node) int {
		me := id
		id++
		attrs := "shape=ellipse"
		switch {
		case n.Terminal && n.Symbol == grammar.Epsilon:
			attrs = "shape=box, style=dashed"
		case n.Terminal:
			attrs = "shape=box"
		}
		fmt.Fprintf(bw, "    t%d [label=%s, %s];\n", me, strconv.Quote(n.Symbol), attrs)
		for _, c := range n.Children {
			fmt.Fprintf(bw, "    t%d -> t%d;\n", me, walk(c))
		}
		return me
	}
	if n != nil {
		walk(n)
	}

	fmt.Fprintln(bw, "}")
	return bw.Flush()
}
