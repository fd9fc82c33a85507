package isa

import (
	"fmt"
	"strings"
)

// Group lists the mnemonics belonging to one extension.
type Group struct {
	Extension Extension
	Mnemonics []string
}

// Rule classifies a mnemonic that has no exact entry in the table. Rules are
// tried in order and the first one that reports ok wins. canonical is the
// name the mnemonic is counted under, such as cvtsi2sd for cvtsi2sdl.
type Rule struct {
	Name     string
	Classify func(t *Table, mnemonic string) (ext Extension, canonical string, ok bool)
}

// Table is an immutable mnemonic classifier. It is safe for concurrent use.
type Table struct {
	exact map[string]Extension
	rules []Rule
}

// Default is the classifier built from the packaged mnemonic lists.
var Default = MustNewTable(defaultGroups(), defaultRules())

// NewTable builds a table from mnemonic groups and fallback rules.
// A mnemonic listed under two different extensions is an error; listing it
// twice under the same extension is not.
func NewTable(groups []Group, rules []Rule) (*Table, error) {
	t := &Table{
		exact: make(map[string]Extension),
		rules: append([]Rule(nil), rules...),
	}
	for _, g := range groups {
		if !g.Extension.Valid() {
			return nil, fmt.Errorf("group has invalid extension %v", g.Extension)
		}
		for _, m := range g.Mnemonics {
			key := strings.ToLower(strings.TrimSpace(m))
			if key == "" {
				return nil, fmt.Errorf("%s: empty mnemonic", g.Extension)
			}
			if prev, ok := t.exact[key]; ok && prev != g.Extension {
				return nil, fmt.Errorf("mnemonic %q listed under both %s and %s", key, prev, g.Extension)
			}
			t.exact[key] = g.Extension
		}
	}
	return t, nil
}

// MustNewTable is like NewTable but panics on error.
func MustNewTable(groups []Group, rules []Rule) *Table {
	t, err := NewTable(groups, rules)
	if err != nil {
		panic("isa: " + err.Error())
	}
	return t
}

// Lookup returns the extension a mnemonic belongs to, or None.
func (t *Table) Lookup(mnemonic string) Extension {
	ext, _ := t.Classify(mnemonic)
	return ext
}

// Classify returns the extension of mnemonic and its canonical lowercase
// name with any AT&T operand-size suffix removed. Unknown mnemonics come
// back as None under their lowercase spelling.
func (t *Table) Classify(mnemonic string) (Extension, string) {
	m := strings.ToLower(mnemonic)
	if ext, ok := t.exact[m]; ok {
		return ext, m
	}
	for _, r := range t.rules {
		if ext, canonical, ok := r.Classify(t, m); ok {
			return ext, canonical
		}
	}
	return None, m
}

// Exact returns the extension of a mnemonic listed in the table, without
// consulting the rules. The mnemonic must already be lowercase.
func (t *Table) Exact(mnemonic string) (Extension, bool) {
	ext, ok := t.exact[mnemonic]
	return ext, ok
}

// Len returns the number of exact entries.
func (t *Table) Len() int {
	return len(t.exact)
}

// Mnemonics returns the exact entries listed for ext, in no particular order.
func (t *Table) Mnemonics(ext Extension) []string {
	var out []string
	for m, e := range t.exact {
		if e == ext {
			out = append(out, m)
		}
	}
	return out
}
