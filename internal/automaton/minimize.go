package automaton

import (
	"strconv"
	"strings"
)

// Minimize drops states that cannot reach an accepting state and merges
// equivalent ones by partition refinement. The start state is always kept.
func Minimize(d *DFA) *DFA {
	if d == nil || d.Start == nil {
		return d
	}
	live := coReachable(d)
	live[d.Start] = true

	var states []*dfaState
	for _, s := range d.States {
		if live[s] {
			states = append(states, s)
		}
	}
	index := make(map[*dfaState]int, len(states))
	for i, s := range states {
		index[s] = i
	}

	// initial split: accepting / rejecting
	block := make([]int, len(states))
	seen := map[bool]int{}
	for i, s := range states {
		b, ok := seen[s.accept]
		if !ok {
			b = len(seen)
			seen[s.accept] = b
		}
		block[i] = b
	}
	count := len(seen)

	for {
		sigs := map[string]int{}
		next := make([]int, len(states))
		for i, s := range states {
			var sig strings.Builder
			sig.WriteString(strconv.Itoa(block[i]))
			for _, c := range d.Alpha {
				sig.WriteByte(',')
				if t, ok := s.trans[c]; ok && live[t] {
					sig.WriteString(strconv.Itoa(block[index[t]]))
				} else {
					sig.WriteByte('-')
				}
			}
			id, ok := sigs[sig.String()]
			if !ok {
				id = len(sigs)
				sigs[sig.String()] = id
			}
			next[i] = id
		}
		block = next
		if len(sigs) == count {
			break
		}
		count = len(sigs)
	}

	// one new state per block, numbered in order of first appearance
	out := &DFA{Alpha: d.Alpha}
	reps := make([]*dfaState, count)
	for i, s := range states {
		if reps[block[i]] == nil {
			reps[block[i]] = &dfaState{accept: s.accept, trans: map[string]*dfaState{}}
		}
	}
	order := make([]*dfaState, 0, count)
	placed := map[*dfaState]bool{}
	var place func(*dfaState)
	place = func(s *dfaState) {
		r := reps[block[index[s]]]
		if placed[r] {
			return
		}
		placed[r] = true
		r.id = len(order)
		order = append(order, r)
		for _, c := range d.Alpha {
			if t, ok := s.trans[c]; ok && live[t] {
				r.trans[c] = reps[block[index[t]]]
				place(t)
			}
		}
	}
	place(d.Start)
	out.Start = reps[block[index[d.Start]]]
	out.States = order
	return out
}

func coReachable(d *DFA) map[*dfaState]bool {
	live := map[*dfaState]bool{}
	for _, s := range d.States {
		if s.accept {
			live[s] = true
		}
	}
	for changed := true; changed; {
		changed = false
		for _, s := range d.States {
			if live[s] {
				continue
			}
			for _, t := range s.trans {
				if live[t] {
					live[s] = true
					changed = true
					break
				}
			}
		}
	}
	return live
}
