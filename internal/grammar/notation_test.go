package grammar

import (
	"bytes"
	"slices"
	"strings"
	"testing"
)

const binaryNotation = `# binary numbers
%name "Binary numbers"
%type 3
%start S
%terminals 0 1

S -> 0A | 1A
A -> 0 A | 1 A
A -> ε
`

func TestParseNotation(t *testing.T) {
	def, err := ParseNotation("binary.g", strings.NewReader(binaryNotation))
	if err != nil {
		t.Fatal(err)
	}
	if def.Name != "Binary numbers" || def.Type != "Tipo 3" || def.StartSymbol != "S" {
		t.Fatalf("header %+v", def)
	}
	if !slices.Equal(def.NonTerminals, []string{"S", "A"}) || !slices.Equal(def.Terminals, []string{"0", "1"}) {
		t.Fatalf("symbols %q %q", def.NonTerminals, def.Terminals)
	}
	want := []Production{{"S", "0A"}, {"S", "1A"}, {"A", "0 A"}, {"A", "1 A"}, {"A", "ε"}}
	if !slices.Equal(def.Productions, want) {
		t.Fatalf("productions %q", def.Productions)
	}
	g, err := New(def)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(g.Right(0), []string{"0", "A"}) || !slices.Equal(g.Right(2), []string{"0", "A"}) {
		t.Fatalf("rights %q %q", g.Right(0), g.Right(2))
	}
}

func TestParseNotationInference(t *testing.T) {
	src := `E -> E "+" T | T
T -> T "*" F | F
F -> "(" E ")" | id`
	def, err := ParseNotation("expr", strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if def.Name != "expr" || def.Type != "Tipo 2" || def.StartSymbol != "E" {
		t.Fatalf("defaults %+v", def)
	}
	if !slices.Equal(def.NonTerminals, []string{"E", "T", "F"}) {
		t.Fatalf("non-terminals %q", def.NonTerminals)
	}
	if !slices.Equal(def.Terminals, []string{"+", "*", "(", ")", "id"}) {
		t.Fatalf("terminals %q", def.Terminals)
	}
	if _, err := New(def); err != nil {
		t.Fatal(err)
	}
}

func TestParseNotationErrors(t *testing.T) {
	for _, src := range []string{
		"%colour red\nS -> a",
		"%type 7\nS -> a",
		"%start S A\nS -> a",
		"S a b",
		"S -> | a",
	} {
		if _, err := ParseNotation("bad", strings.NewReader(src)); err == nil {
			t.Errorf("no error for %q", src)
		}
	}
}

func TestFormatNotationRoundTrip(t *testing.T) {
	for _, def := range Presets {
		g := MustNew(def)
		var buf bytes.Buffer
		if err := FormatNotation(&buf, g); err != nil {
			t.Fatal(err)
		}
		back, err := ParseNotation("x", &buf)
		if err != nil {
			t.Fatalf("%s: %v\n%s", def.Name, err, buf.String())
		}
		g2, err := New(back)
		if err != nil {
			t.Fatalf("%s: %v", def.Name, err)
		}
		if g2.Name() != g.Name() || g2.Class() != g.Class() || g2.Start() != g.Start() {
			t.Fatalf("%s: header mismatch", def.Name)
		}
		if len(g2.Productions()) != len(g.Productions()) {
			t.Fatalf("%s: %d productions, want %d", def.Name, len(g2.Productions()), len(g.Productions()))
		}
		for i := range g.Productions() {
			if !slices.Equal(g2.Right(i), g.Right(i)) {
				t.Fatalf("%s: production %d right %q, want %q", def.Name, i, g2.Right(i), g.Right(i))
			}
		}
	}
}
