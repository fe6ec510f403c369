package grammar

import (
	"slices"
	"strings"
)

// Presets are the example grammars offered by the CLI.
var Presets = []Definition{
	{
		Name:         "Binary numbers",
		Type:         "Tipo 3",
		NonTerminals: []string{"S", "A"},
		Terminals:    []string{"0", "1"},
		Productions: []Production{
			{"S", "0A"},
			{"S", "1A"},
			{"A", "0A"},
			{"A", "1A"},
			{"A", "ε"},
		},
		StartSymbol: "S",
	},
	{
		Name:         "Palindromes",
		Type:         "Tipo 2",
		NonTerminals: []string{"S"},
		Terminals:    []string{"a", "b"},
		Productions: []Production{
			{"S", "aSa"},
			{"S", "bSb"},
			{"S", "a"},
			{"S", "b"},
			{"S", "ε"},
		},
		StartSymbol: "S",
	},
	{
		Name:         "Arithmetic expressions",
		Type:         "Tipo 2",
		NonTerminals: []string{"E", "T", "F"},
		Terminals:    []string{"id", "+", "*", "(", ")"},
		Productions: []Production{
			{"E", "E+T"},
			{"E", "T"},
			{"T", "T*F"},
			{"T", "F"},
			{"F", "(E)"},
			{"F", "id"},
		},
		StartSymbol: "E",
	},
	{
		Name:         "a^n b^n",
		Type:         "Tipo 2",
		NonTerminals: []string{"S"},
		Terminals:    []string{"a", "b"},
		Productions: []Production{
			{"S", "aSb"},
			{"S", "ε"},
		},
		StartSymbol: "S",
	},
}

// Preset finds a preset by case-insensitive name. The returned definition
// owns its slices.
func Preset(name string) (Definition, bool) {
	for _, def := range Presets {
		if strings.EqualFold(def.Name, name) {
			def.NonTerminals = slices.Clone(def.NonTerminals)
			def.Terminals = slices.Clone(def.Terminals)
			def.Productions = slices.Clone(def.Productions)
			return def, true
		}
	}
	return Definition{}, false
}
