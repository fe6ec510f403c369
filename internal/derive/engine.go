// Package derive explores leftmost derivations of a grammar breadth-first.
// One bounded search loop serves both membership parsing and string
// generation; the two differ only in the Policy they pass.
package derive

import (
	"cmp"
	"slices"
	"strings"

	"grammarlab/internal/grammar"
)

// Limits bound a search. A zero field leaves that dimension unbounded.
type Limits struct {
	// MaxIterations caps the number of states taken off the queue.
	MaxIterations int
	// MaxDepth caps the number of derivation steps of an expanded state.
	MaxDepth int
	// LengthFactor bounds sentential forms to LengthFactor × maxLength
	// tokens in GenerateUpToLength.
	LengthFactor int
}

var (
	DefaultParseLimits    = Limits{MaxIterations: 10000, MaxDepth: 100}
	DefaultGenerateLimits = Limits{MaxIterations: 50000, MaxDepth: 20, LengthFactor: 2}
)

// Order decides in which order the productions of the rewritten
// non-terminal produce children.
type Order int

const (
	DeclarationOrder Order = iota // parsing
	ShortestFirst                 // generation: right-side length ascending, ties by declaration
)

// State is one sentential form on the search frontier.
type State struct {
	Form  []string
	Tree  *Node
	Depth int

	trail *trail
}

// trail is the list of applied productions, newest first; children share
// their parent's tail.
type trail struct {
	prev *trail
	prod int
}

// Applied returns the indices of the productions applied so far, in order.
func (s *State) Applied() []int {
	n := 0
	for t := s.trail; t != nil; t = t.prev {
		n++
	}
	out := make([]int, n)
	for t := s.trail; t != nil; t = t.prev {
		n--
		out[n] = t.prod
	}
	return out
}

type Policy struct {
	Order Order
	// Goal marks states that are reported to Accept instead of expanded.
	Goal func(form []string) bool
	// Prune drops a child before it is queued. Optional.
	Prune func(form []string) bool
	// Accept receives each goal state and returns false to stop the
	// search. A nil Accept stops at the first goal.
	Accept func(*State) bool
}

type Outcome struct {
	Iterations int
	// Stopped is set when Accept ended the search.
	Stopped bool
	// Limited is set when the iteration cap ended the search or the depth
	// cap discarded a state that could still be expanded.
	Limited bool
}

const keySep = "\x00"

func formKey(form []string) string {
	return strings.Join(form, keySep)
}

// Search runs a breadth-first search over leftmost derivations from the
// start symbol of g. Every call owns its queue, visited set and trees.
func Search(g *grammar.Grammar, p Policy, lim Limits) Outcome {
	start := g.Start()
	root := &State{Form: []string{start}, Tree: newLeaf(g, start)}
	visited := map[string]bool{formKey(root.Form): true}
	alts := map[string][]int{}
	q := []*State{root}

	var out Outcome
	for len(q) > 0 {
		if lim.MaxIterations > 0 && out.Iterations >= lim.MaxIterations {
			out.Limited = true
			return out
		}
		cur := q[0]
		q[0] = nil
		q = q[1:]
		out.Iterations++

		if p.Goal(cur.Form) {
			if p.Accept == nil || !p.Accept(cur) {
				out.Stopped = true
				return out
			}
			continue
		}

		at := leftmostNonTerminal(g, cur.Form)
		if at < 0 {
			continue
		}
		if lim.MaxDepth > 0 && cur.Depth >= lim.MaxDepth {
			out.Limited = true
			continue
		}

		nt := cur.Form[at]
		cands, ok := alts[nt]
		if !ok {
			cands = candidates(g, nt, p.Order)
			alts[nt] = cands
		}
		for _, pi := range cands {
			right := g.Right(pi)
			form := make([]string, 0, len(cur.Form)-1+len(right))
			form = append(form, cur.Form[:at]...)
			form = append(form, right...)
			form = append(form, cur.Form[at+1:]...)

			key := formKey(form)
			if visited[key] {
				continue
			}
			if p.Prune != nil && p.Prune(form) {
				continue
			}
			visited[key] = true
			q = append(q, cur.child(g, form, right, pi))
		}
	}
	return out
}

func (s *State) child(g *grammar.Grammar, form, right []string, prod int) *State {
	var kids []*Node
	if len(right) == 0 {
		kids = []*Node{epsilonLeaf()}
	} else {
		kids = make([]*Node, len(right))
		for i, sym := range right {
			kids[i] = newLeaf(g, sym)
		}
	}
	tree, ok := s.Tree.expandLeftmost(kids)
	if !ok {
		panic("derive: sentential form and derivation tree out of step")
	}
	return &State{
		Form:  form,
		Tree:  tree,
		Depth: s.Depth + 1,
		trail: &trail{prev: s.trail, prod: prod},
	}
}

func leftmostNonTerminal(g *grammar.Grammar, form []string) int {
	for i, sym := range form {
		if g.IsNonTerminal(sym) {
			return i
		}
	}
	return -1
}

func candidates(g *grammar.Grammar, nt string, order Order) []int {
	alts := g.Alternatives(nt)
	if order == ShortestFirst {
		slices.SortStableFunc(alts, func(a, b int) int {
			return cmp.Compare(g.RightLen(a), g.RightLen(b))
		})
	}
	return alts
}

// AllTerminal reports whether form contains no non-terminal. The empty form
// qualifies: it derives the empty string.
func AllTerminal(g *grammar.Grammar, form []string) bool {
	return leftmostNonTerminal(g, form) < 0
}
