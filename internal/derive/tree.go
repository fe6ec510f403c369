package derive

import (
	"strings"

	"grammarlab/internal/grammar"
)

// Node is a derivation tree node. Trees are persistent: expanding a leaf
// copies the path from the root to that leaf and shares every other
// subtree, so states on sibling search branches never see each other's
// expansions. Callers must not modify nodes they did not build.
type Node struct {
	Symbol   string  `json:"symbol"`
	Children []*Node `json:"children"`
	Terminal bool    `json:"isTerminal"`
}

func newLeaf(g *grammar.Grammar, sym string) *Node {
	return &Node{Symbol: sym, Children: []*Node{}, Terminal: !g.IsNonTerminal(sym)}
}

// epsilonLeaf marks a non-terminal rewritten to the empty string, so that it
// is never mistaken for a leaf that still awaits expansion.
func epsilonLeaf() *Node {
	return &Node{Symbol: grammar.Epsilon, Children: []*Node{}, Terminal: true}
}

// pending reports whether n is a non-terminal leaf awaiting expansion.
func (n *Node) pending() bool {
	return !n.Terminal && len(n.Children) == 0
}

// expandLeftmost returns a copy of n in which the leftmost pending leaf has
// the given children. ok is false when n has no pending leaf.
func (n *Node) expandLeftmost(children []*Node) (out *Node, ok bool) {
	if n.pending() {
		return &Node{Symbol: n.Symbol, Children: children, Terminal: false}, true
	}
	for i, c := range n.Children {
		nc, ok := c.expandLeftmost(children)
		if !ok {
			continue
		}
		kids := make([]*Node, len(n.Children))
		copy(kids, n.Children)
		kids[i] = nc
		return &Node{Symbol: n.Symbol, Children: kids, Terminal: n.Terminal}, true
	}
	return n, false
}

// Yield returns the terminal leaves in order, skipping ε leaves.
func (n *Node) Yield() []string {
	var out []string
	n.walkLeaves(func(leaf *Node) {
		if leaf.Symbol != grammar.Epsilon || !leaf.Terminal {
			out = append(out, leaf.Symbol)
		}
	})
	return out
}

// Leaves returns every leaf symbol in order, ε leaves included.
func (n *Node) Leaves() []string {
	var out []string
	n.walkLeaves(func(leaf *Node) { out = append(out, leaf.Symbol) })
	return out
}

func (n *Node) walkLeaves(fn func(*Node)) {
	if len(n.Children) == 0 {
		fn(n)
		return
	}
	for _, c := range n.Children {
		c.walkLeaves(fn)
	}
}

// Depth is the number of edges on the longest root-to-leaf path.
func (n *Node) Depth() int {
	d := 0
	for _, c := range n.Children {
		if cd := c.Depth() + 1; cd > d {
			d = cd
		}
	}
	return d
}

// Size counts the nodes of the tree.
func (n *Node) Size() int {
	s := 1
	for _, c := range n.Children {
		s += c.Size()
	}
	return s
}

// String renders the tree with one node per line, indented by depth.
func (n *Node) String() string {
	var b strings.Builder
	n.format(&b, "", true, true)
	return b.String()
}

func (n *Node) format(b *strings.Builder, prefix string, last, root bool) {
	b.WriteString(prefix)
	next := prefix
	if !root {
		if last {
			b.WriteString("└── ")
			next += "    "
		} else {
			b.WriteString("├── ")
			next += "│   "
		}
	}
	b.WriteString(n.Symbol)
	b.WriteByte('\n')
	for i, c := range n.Children {
		c.format(b, next, i == len(n.Children)-1, false)
	}
}
