package automaton

import (
	"container/list"
	"fmt"
	"sort"
)

type dfaState struct {
	id     int
	accept bool
	trans  map[string]*dfaState
}

// DFA is a deterministic automaton; missing transitions reject.
type DFA struct {
	Start  *dfaState
	States []*dfaState
	Alpha  []string
}

func (d *DFA) newState(accept bool) *dfaState {
	s := &dfaState{id: len(d.States), accept: accept, trans: map[string]*dfaState{}}
	d.States = append(d.States, s)
	return s
}

// Accepts runs the automaton over a token sequence.
func (d *DFA) Accepts(tokens []string) bool {
	s := d.Start
	for _, tok := range tokens {
		s = s.trans[tok]
		if s == nil {
			return false
		}
	}
	return s.accept
}

func epsilonClosure(set map[*nfaState]struct{}) map[*nfaState]struct{} {
	stack := list.New()
	for s := range set {
		stack.PushBack(s)
	}
	for stack.Len() > 0 {
		elem := stack.Remove(stack.Back()).(*nfaState)
		for _, e := range elem.edges {
			if e.symbol == "" {
				if _, ok := set[e.to]; !ok {
					set[e.to] = struct{}{}
					stack.PushBack(e.to)
				}
			}
		}
	}
	return set
}

func move(set map[*nfaState]struct{}, sym string) map[*nfaState]struct{} {
	res := make(map[*nfaState]struct{})
	for s := range set {
		for _, e := range s.edges {
			if e.symbol == sym {
				res[e.to] = struct{}{}
			}
		}
	}
	return res
}

func hasAccept(set map[*nfaState]struct{}) bool {
	for s := range set {
		if s.accept {
			return true
		}
	}
	return false
}

func setKey(set map[*nfaState]struct{}) string {
	ids := make([]int, 0, len(set))
	for s := range set {
		ids = append(ids, s.id)
	}
	sort.Ints(ids)
	return fmt.Sprint(ids)
}

// Determinize runs the subset construction. Empty subsets are left out, so
// the result is partial.
func Determinize(n *NFA) *DFA {
	d := &DFA{Alpha: n.Alpha}
	initSet := epsilonClosure(map[*nfaState]struct{}{n.Start: {}})
	mp := map[string]*dfaState{}
	d.Start = d.newState(hasAccept(initSet))
	mp[setKey(initSet)] = d.Start

	queue := []map[*nfaState]struct{}{initSet}
	for len(queue) > 0 {
		curSet := queue[0]
		queue = queue[1:]
		curD := mp[setKey(curSet)]
		for _, sym := range d.Alpha {
			moved := move(curSet, sym)
			if len(moved) == 0 {
				continue
			}
			clo := epsilonClosure(moved)
			k := setKey(clo)
			next, exists := mp[k]
			if !exists {
				next = d.newState(hasAccept(clo))
				mp[k] = next
				queue = append(queue, clo)
			}
			curD.trans[sym] = next
		}
	}
	return d
}
