// Package automaton turns Tipo 3 grammars into finite automata. They serve
// as an independent membership oracle for the derivation search and can be
// exported as Graphviz.
package automaton

import (
	"errors"
	"fmt"

	"grammarlab/internal/grammar"
)

var (
	ErrNotRegular     = errors.New("grammar is not Tipo 3")
	ErrMixedLinearity = errors.New("grammar mixes right-linear and left-linear productions")
)

// Automaton bundles the construction stages for one grammar.
type Automaton struct {
	NFA        *NFA
	Raw        *DFA // subset construction
	DFA        *DFA // minimized
	LeftLinear bool

	g *grammar.Grammar
}

// FromGrammar builds the automata for a Tipo 3 grammar. All two-symbol
// productions must share one shape: aB (right-linear) or Ba (left-linear).
func FromGrammar(g *grammar.Grammar) (*Automaton, error) {
	if g.Class() != grammar.Regular {
		return nil, fmt.Errorf("automaton %q: %w", g.Name(), ErrNotRegular)
	}
	left, right := false, false
	for i := range g.Productions() {
		r := g.Right(i)
		if len(r) != 2 {
			continue
		}
		if g.IsNonTerminal(r[0]) {
			left = true
		} else {
			right = true
		}
	}
	if left && right {
		return nil, fmt.Errorf("automaton %q: %w", g.Name(), ErrMixedLinearity)
	}

	a := &Automaton{LeftLinear: left, g: g}
	if left {
		a.NFA = leftLinearNFA(g)
	} else {
		a.NFA = rightLinearNFA(g)
	}
	a.Raw = Determinize(a.NFA)
	a.DFA = Minimize(a.Raw)
	return a, nil
}

// Accepts reports whether the token sequence is in the language.
func (a *Automaton) Accepts(tokens []string) bool { return a.DFA.Accepts(tokens) }

// Match tokenizes input with the grammar's tokenizer and runs the minimized
// DFA. Input that cannot be tokenized is an error, not a rejection.
func (a *Automaton) Match(input string) (bool, error) {
	tokens, err := a.g.Tokenize(input)
	if err != nil {
		return false, err
	}
	return a.Accepts(tokens), nil
}
