package automaton

import "slices"

// Reverse builds a DFA for the reversed language: an NFA with every
// transition turned around and a fresh start state with ε-edges into the
// accepting states, then determinized and minimized.
func Reverse(d *DFA) *DFA {
	n := &NFA{Alpha: d.Alpha}
	nodes := make([]*nfaState, len(d.States))
	for i := range nodes {
		nodes[i] = n.newState()
	}
	start := n.newState()
	n.Start = start
	nodes[d.Start.id].accept = true

	for _, s := range d.States {
		if s.accept {
			start.addEdge("", nodes[s.id])
		}
		for _, c := range d.Alpha {
			if to, ok := s.trans[c]; ok {
				nodes[to.id].addEdge(c, nodes[s.id])
			}
		}
	}
	return Minimize(Determinize(n))
}

// Equivalent explores the product of a and b, treating missing
// transitions as a shared dead state. When the languages differ it
// returns a shortest token sequence accepted by exactly one of them.
func Equivalent(a, b *DFA) (bool, []string) {
	type pair struct{ x, y *dfaState }
	type node struct {
		p    pair
		path []string
	}
	alpha := unionAlpha(a.Alpha, b.Alpha)
	accept := func(s *dfaState) bool { return s != nil && s.accept }
	step := func(s *dfaState, c string) *dfaState {
		if s == nil {
			return nil
		}
		return s.trans[c]
	}

	start := pair{a.Start, b.Start}
	visited := map[pair]bool{start: true}
	q := []node{{p: start}}
	for len(q) > 0 {
		cur := q[0]
		q = q[1:]
		if accept(cur.p.x) != accept(cur.p.y) {
			return false, cur.path
		}
		for _, c := range alpha {
			np := pair{step(cur.p.x, c), step(cur.p.y, c)}
			if (np.x == nil && np.y == nil) || visited[np] {
				continue
			}
			visited[np] = true
			path := append(append([]string{}, cur.path...), c)
			q = append(q, node{np, path})
		}
	}
	return true, nil
}

func unionAlpha(a, b []string) []string {
	out := append([]string{}, a...)
	for _, c := range b {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}
