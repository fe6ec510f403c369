package derive

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"grammarlab/internal/grammar"
)

func TestCandidatesOrder(t *testing.T) {
	g := preset(t, "binary numbers")
	if got := candidates(g, "A", DeclarationOrder); !slices.Equal(got, []int{2, 3, 4}) {
		t.Fatalf("declaration order %v", got)
	}
	if got := candidates(g, "A", ShortestFirst); !slices.Equal(got, []int{4, 2, 3}) {
		t.Fatalf("shortest first %v", got)
	}
}

// Every goal state's tree must yield exactly its own form: a tree shared
// between sibling branches would leak another branch's expansion.
func TestSearchBranchesDoNotShareTrees(t *testing.T) {
	for _, name := range []string{"palindromes", "arithmetic expressions", "binary numbers"} {
		g := preset(t, name)
		goals := 0
		Search(g, Policy{
			Order: DeclarationOrder,
			Goal:  func(form []string) bool { return AllTerminal(g, form) },
			Accept: func(s *State) bool {
				goals++
				if got, want := grammar.Join(s.Tree.Yield()), grammar.Join(s.Form); got != want {
					t.Fatalf("%s: tree yields %q, form is %q", name, got, want)
				}
				if s.Depth != len(s.Applied()) {
					t.Fatalf("%s: depth %d with %d steps", name, s.Depth, len(s.Applied()))
				}
				return true
			},
		}, Limits{MaxIterations: 2000, MaxDepth: 8})
		if goals == 0 {
			t.Fatalf("%s: no goal states", name)
		}
	}
}

func TestSearchVisitsFormOnce(t *testing.T) {
	// S → A | B, A → a, B → a: the form "a" is reached twice but queued once
	g := grammar.MustNew(grammar.Definition{
		Name: "diamond", Type: "Tipo 2",
		NonTerminals: []string{"S", "A", "B"}, Terminals: []string{"a"},
		Productions: []grammar.Production{{Left: "S", Right: "A"}, {Left: "S", Right: "B"}, {Left: "A", Right: "a"}, {Left: "B", Right: "a"}},
		StartSymbol: "S",
	})
	goals := 0
	out := Search(g, Policy{
		Goal:   func(form []string) bool { return AllTerminal(g, form) },
		Accept: func(*State) bool { goals++; return true },
	}, Limits{})
	if goals != 1 || out.Iterations != 4 || out.Stopped || out.Limited {
		t.Fatalf("goals %d outcome %+v", goals, out)
	}
}

func TestSearchStopsOnFirstGoalWithoutAccept(t *testing.T) {
	g := preset(t, "a^n b^n")
	out := Search(g, Policy{Goal: func(form []string) bool { return AllTerminal(g, form) }}, Limits{})
	if !out.Stopped || out.Iterations != 3 {
		t.Fatalf("outcome %+v", out)
	}
}

func TestExpandLeftmostIsPersistent(t *testing.T) {
	g := preset(t, "a^n b^n")
	root := newLeaf(g, "S")
	kids := []*Node{newLeaf(g, "a"), newLeaf(g, "S"), newLeaf(g, "b")}
	one, ok := root.expandLeftmost(kids)
	if !ok || !root.pending() {
		t.Fatal("expansion modified the original leaf")
	}
	two, _ := one.expandLeftmost([]*Node{epsilonLeaf()})
	other, _ := one.expandLeftmost([]*Node{newLeaf(g, "a"), newLeaf(g, "S"), newLeaf(g, "b")})

	if got := grammar.Join(one.Leaves()); got != "aSb" {
		t.Fatalf("parent leaves %q", got)
	}
	if got := grammar.Join(two.Yield()); got != "ab" {
		t.Fatalf("two yields %q", got)
	}
	if got := grammar.Join(other.Leaves()); got != "aaSbb" {
		t.Fatalf("other leaves %q", got)
	}
	// untouched siblings are shared
	if two.Children[0] != one.Children[0] || two.Children[2] != one.Children[2] {
		t.Fatal("unexpanded subtrees were copied")
	}
	if _, ok := two.expandLeftmost(kids); ok {
		t.Fatal("complete tree reported a pending leaf")
	}
}

func TestTreeString(t *testing.T) {
	res := Parse(preset(t, "a^n b^n"), "ab")
	want := strings.Join([]string{
		"S",
		"├── a",
		"├── S",
		"│   └── ε",
		"└── b",
		"",
	}, "\n")
	if got := res.Tree.String(); got != want {
		t.Fatalf("got\n%s\nwant\n%s", got, want)
	}
	if res.Tree.Size() != 5 {
		t.Fatalf("size %d", res.Tree.Size())
	}
}

func TestWriteDOT(t *testing.T) {
	res := Parse(preset(t, "arithmetic expressions"), "id")
	var buf bytes.Buffer
	if err := WriteDOT(&buf, res.Tree); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"digraph G {", `t0 [label="E", shape=ellipse];`, `[label="id", shape=box];`, "t0 -> t1;"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
	if strings.Count(out, "->") != res.Tree.Size()-1 {
		t.Errorf("edge count mismatch in\n%s", out)
	}
}
