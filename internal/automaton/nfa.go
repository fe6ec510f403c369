package automaton

import "grammarlab/internal/grammar"

type nfaState struct {
	id     int
	edges  []*nfaEdge
	accept bool
}

type nfaEdge struct {
	symbol string // "" = ε
	to     *nfaState
}

// NFA is a nondeterministic automaton over grammar terminals.
type NFA struct {
	Start  *nfaState
	States []*nfaState
	Alpha  []string
}

func (n *NFA) newState() *nfaState {
	s := &nfaState{id: len(n.States)}
	n.States = append(n.States, s)
	return s
}

func (s *nfaState) addEdge(symbol string, to *nfaState) {
	s.edges = append(s.edges, &nfaEdge{symbol: symbol, to: to})
}

// rightLinearNFA has one state per non-terminal plus a final state:
// A → aB is an a-edge from A to B, A → a an a-edge to the final state, and
// A → ε makes A accepting.
func rightLinearNFA(g *grammar.Grammar) *NFA {
	n := &NFA{Alpha: g.Terminals()}
	states := map[string]*nfaState{}
	for _, nt := range g.NonTerminals() {
		states[nt] = n.newState()
	}
	final := n.newState()
	final.accept = true
	n.Start = states[g.Start()]

	for i, p := range g.Productions() {
		from := states[p.Left]
		right := g.Right(i)
		switch len(right) {
		case 0:
			from.accept = true
		case 1:
			from.addEdge(right[0], final)
		case 2:
			from.addEdge(right[0], states[right[1]])
		}
	}
	return n
}

// leftLinearNFA reads left-linear rules backwards from a fresh initial
// state: A → a is an a-edge from the initial state to A, A → Ba an a-edge
// from B to A, A → ε an ε-edge into A. The start symbol's state accepts.
func leftLinearNFA(g *grammar.Grammar) *NFA {
	n := &NFA{Alpha: g.Terminals()}
	initial := n.newState()
	states := map[string]*nfaState{}
	for _, nt := range g.NonTerminals() {
		states[nt] = n.newState()
	}
	n.Start = initial
	states[g.Start()].accept = true

	for i, p := range g.Productions() {
		to := states[p.Left]
		right := g.Right(i)
		switch len(right) {
		case 0:
			initial.addEdge("", to)
		case 1:
			initial.addEdge(right[0], to)
		case 2:
			states[right[0]].addEdge(right[1], to)
		}
	}
	return n
}
