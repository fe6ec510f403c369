package derive

import (
	"slices"
	"strings"
	"testing"

	"grammarlab/internal/grammar"
)

// ------------------------------------------------------------------- helpers

func preset(t *testing.T, name string) *grammar.Grammar {
	t.Helper()
	def, ok := grammar.Preset(name)
	if !ok {
		t.Fatalf("no preset %q", name)
	}
	g, err := grammar.New(def)
	if err != nil {
		t.Fatalf("preset %q: %v", name, err)
	}
	return g
}

func accepts(t *testing.T, g *grammar.Grammar, in string, want bool) *Result {
	t.Helper()
	res := Parse(g, in)
	if res.Accepted != want {
		t.Fatalf("%s: parse %q want %v got %v (%s)", g.Name(), in, want, res.Accepted, res.Message)
	}
	return res
}

// replay applies the derivation leftmost-first to the start symbol.
func replay(t *testing.T, g *grammar.Grammar, d []grammar.Production) []string {
	t.Helper()
	form := []string{g.Start()}
	for _, p := range d {
		at := slices.IndexFunc(form, g.IsNonTerminal)
		if at < 0 || form[at] != p.Left {
			t.Fatalf("step %s does not rewrite the leftmost non-terminal of %q", p, form)
		}
		right, err := g.Tokenize(p.Right)
		if err != nil {
			t.Fatal(err)
		}
		form = slices.Concat(form[:at:at], right, form[at+1:])
	}
	return form
}

// ------------------------------------------------------------------- scenarios

func TestParseBinary(t *testing.T) {
	g := preset(t, "binary numbers")
	res := accepts(t, g, "101", true)
	want := []string{"S", "S → 1A", "A → 0A", "A → 1A", "A → ε"}
	if !slices.Equal(res.Steps, want) {
		t.Fatalf("steps %q want %q", res.Steps, want)
	}
	if res.Status != StatusAccepted || res.Message != msgAccepted {
		t.Fatalf("status %v message %q", res.Status, res.Message)
	}

	res = accepts(t, g, "", false)
	if res.Status != StatusNotInLanguage || res.Message != msgEmptyRejected {
		t.Fatalf("empty input: %v %q", res.Status, res.Message)
	}
	if res.Tree != nil || res.Steps != nil {
		t.Fatal("rejected result carries a derivation")
	}
	accepts(t, g, "0", true)
	accepts(t, g, " 1 1 0 ", true)
}

func TestParseAnBn(t *testing.T) {
	g := preset(t, "a^n b^n")
	res := accepts(t, g, "aabb", true)
	if d := res.Tree.Depth(); d != 3 {
		t.Fatalf("tree depth %d want 3\n%s", d, res.Tree)
	}
	want := []string{"S", "S → aSb", "S → aSb", "S → ε"}
	if !slices.Equal(res.Steps, want) {
		t.Fatalf("steps %q want %q", res.Steps, want)
	}

	for _, in := range []string{"aab", "ba", "abab", "b"} {
		res := accepts(t, g, in, false)
		if res.Status != StatusNotInLanguage || res.Message != msgNotInLanguage {
			t.Fatalf("%q: %v %q", in, res.Status, res.Message)
		}
	}
}

func TestParseEmptyString(t *testing.T) {
	g := preset(t, "a^n b^n")
	for _, in := range []string{"", "ε", "  "} {
		res := accepts(t, g, in, true)
		if res.Message != msgEmptyAccepted {
			t.Fatalf("%q: message %q", in, res.Message)
		}
		if res.Tree.Symbol != "S" || len(res.Tree.Children) != 1 || res.Tree.Children[0].Symbol != grammar.Epsilon {
			t.Fatalf("%q: tree\n%s", in, res.Tree)
		}
		if res.Tree.Depth() != 1 {
			t.Fatalf("depth %d", res.Tree.Depth())
		}
		if !slices.Equal(res.Steps, []string{"S", "S → ε"}) {
			t.Fatalf("steps %q", res.Steps)
		}
	}
}

func TestParseMultiCharTerminal(t *testing.T) {
	g := preset(t, "arithmetic expressions")
	res := accepts(t, g, "id+id", true)
	if got := res.Tree.Yield(); !slices.Equal(got, []string{"id", "+", "id"}) {
		t.Fatalf("yield %q", got)
	}
	accepts(t, g, "(id+id)*id", true)
	accepts(t, g, "id+", false)
	accepts(t, g, "i d", true) // whitespace is stripped before tokenizing
}

func TestParseUntokenizable(t *testing.T) {
	g := preset(t, "a^n b^n")
	res := accepts(t, g, "abc", false)
	if res.Status != StatusUntokenizable || !strings.Contains(res.Message, "could not tokenize") {
		t.Fatalf("%v %q", res.Status, res.Message)
	}
}

func TestParseNonTerminalInput(t *testing.T) {
	g := preset(t, "a^n b^n")
	res := accepts(t, g, "S", false)
	if res.Status != StatusNotInLanguage {
		t.Fatalf("status %v", res.Status)
	}
	accepts(t, g, "aSb", false)
}

// ------------------------------------------------------------------- bounds

func TestParseLimits(t *testing.T) {
	tests := []struct {
		name   string
		preset string
		input  string
		limits Limits
		want   Status
	}{
		{"iterations", "arithmetic expressions", "id+id", Limits{MaxIterations: 3}, StatusLimitReached},
		{"depth", "a^n b^n", "aaabbb", Limits{MaxDepth: 2}, StatusLimitReached},
		{"depth enough", "a^n b^n", "aaabbb", Limits{MaxDepth: 4}, StatusAccepted},
		{"exhausted under bounds", "a^n b^n", "aab", Limits{MaxIterations: 100, MaxDepth: 10}, StatusNotInLanguage},
		{"unbounded", "binary numbers", "1111", Limits{}, StatusAccepted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(preset(t, tt.preset))
			p.Limits = tt.limits
			res := p.Parse(tt.input)
			if res.Status != tt.want {
				t.Fatalf("status %v want %v (%s)", res.Status, tt.want, res.Message)
			}
			if tt.want == StatusLimitReached && res.Message != msgLimitReached {
				t.Fatalf("message %q", res.Message)
			}
			if tt.limits.MaxIterations > 0 && res.Iterations > tt.limits.MaxIterations {
				t.Fatalf("%d iterations over the cap", res.Iterations)
			}
		})
	}
}

// ------------------------------------------------------------------- properties

func TestParseTreeAndStepsMatchInput(t *testing.T) {
	cases := map[string][]string{
		"binary numbers":         {"0", "1", "101", "0110"},
		"palindromes":            {"a", "aba", "abba", "babab", "ε"},
		"arithmetic expressions": {"id", "id*id", "(id)", "id+id*id"},
		"a^n b^n":                {"ab", "aaabbb"},
	}
	for name, inputs := range cases {
		g := preset(t, name)
		for _, in := range inputs {
			res := accepts(t, g, in, true)
			target, _ := g.Tokenize(in)
			if got := grammar.Join(res.Tree.Yield()); got != grammar.Join(target) {
				t.Errorf("%s %q: tree yields %q", name, in, got)
			}
			if res.Tree.Symbol != g.Start() {
				t.Errorf("%s %q: root %q", name, in, res.Tree.Symbol)
			}
			if res.Steps[0] != g.Start() || len(res.Steps) != len(res.Derivation)+1 {
				t.Errorf("%s %q: steps %q", name, in, res.Steps)
			}
			for i, p := range res.Derivation {
				if !slices.Contains(g.Productions(), p) {
					t.Errorf("%s %q: step %d %s is not a production", name, in, i, p)
				}
			}
			if form := replay(t, g, res.Derivation); !slices.Equal(form, target) {
				t.Errorf("%s %q: replay gives %q", name, in, form)
			}
		}
	}
}

func TestParseDeterministic(t *testing.T) {
	g := preset(t, "palindromes")
	a := Parse(g, "abaaba")
	b := Parse(g, "abaaba")
	if !a.Accepted || !b.Accepted {
		t.Fatal("palindrome rejected")
	}
	if a.Tree.String() != b.Tree.String() || !slices.Equal(a.Steps, b.Steps) {
		t.Fatalf("parses differ:\n%s\n%s", a.Tree, b.Tree)
	}
}

func TestParseUsesDeclarationOrder(t *testing.T) {
	// both alternatives derive "a"; the first declared one wins
	g := grammar.MustNew(grammar.Definition{
		Name: "ambiguous", Type: "Tipo 2",
		NonTerminals: []string{"S", "A", "B"}, Terminals: []string{"a"},
		Productions: []grammar.Production{{Left: "S", Right: "B"}, {Left: "S", Right: "A"}, {Left: "A", Right: "a"}, {Left: "B", Right: "a"}},
		StartSymbol: "S",
	})
	res := accepts(t, g, "a", true)
	if res.Steps[1] != "S → B" {
		t.Fatalf("steps %q", res.Steps)
	}
}

func TestStatusString(t *testing.T) {
	if StatusLimitReached.String() != "limit reached" || Status(42).String() != "Status(42)" {
		t.Fatal("Status.String")
	}
}
