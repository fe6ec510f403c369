package automaton

import (
	"bufio"
	"fmt"
	"io"
)

// ExportDOT writes a Graphviz rendering of a *DFA or *NFA. Transitions are
// listed in alphabet order so the output is stable.
func ExportDOT(w io.Writer, g any) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph G {")
	fmt.Fprintln(bw, "    rankdir=LR;")

	switch t := g.(type) {
	case *DFA:
		for _, s := range t.States {
			fmt.Fprintf(bw, "    q%d [shape=%s];\n", s.id, shape(s.accept))
			for _, c := range t.Alpha {
				if to, ok := s.trans[c]; ok {
					fmt.Fprintf(bw, "    q%d -> q%d [label=%q];\n", s.id, to.id, c)
				}
			}
		}
		fmt.Fprintf(bw, "    _start [shape=point]; _start -> q%d;\n", t.Start.id)

	case *NFA:
		for _, s := range t.States {
			fmt.Fprintf(bw, "    n%d [shape=%s];\n", s.id, shape(s.accept))
			for _, e := range s.edges {
				label := e.symbol
				if label == "" {
					label = "ε"
				}
				fmt.Fprintf(bw, "    n%d -> n%d [label=%q];\n", s.id, e.to.id, label)
			}
		}
		fmt.Fprintf(bw, "    _start [shape=point]; _start -> n%d;\n", t.Start.id)

	default:
		return fmt.Errorf("dot: unsupported graph type %T", g)
	}

	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

func shape(accept bool) string {
	if accept {
		return "doublecircle"
	}
	return "circle"
}
