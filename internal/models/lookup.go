package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// UnknownStructureError is returned by ResolveStructure when nothing matches.
// Suggestions holds the closest structure names, best first.
type UnknownStructureError struct {
	Input       string
	Suggestions []string
}

func (e *UnknownStructureError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("unknown structure %q", e.Input)
	}
	return fmt.Sprintf("unknown structure %q (did you mean %s?)", e.Input, strings.Join(e.Suggestions, " or "))
}

// normalizeName lowercases and drops everything that is not a letter or digit
func normalizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// suggestionLimit is the largest edit distance still offered as a suggestion
func suggestionLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}

// ResolveStructure finds a structure by type code, full name or unambiguous
// name prefix. Unknown input yields an *UnknownStructureError with
// near matches by edit distance.
func ResolveStructure(c *Catalog, input string) (StructureType, error) {
	token := normalizeName(input)
	if token == "" {
		return "", &UnknownStructureError{Input: input}
	}

	for _, s := range c.Structures {
		if string(s.Type) == strings.ToLower(strings.TrimSpace(input)) || normalizeName(s.Name) == token {
			return s.Type, nil
		}
	}

	var prefixed []StructureType
	for _, s := range c.Structures {
		if len(token) >= 2 && strings.HasPrefix(normalizeName(s.Name), token) {
			prefixed = append(prefixed, s.Type)
		}
	}
	if len(prefixed) == 1 {
		return prefixed[0], nil
	}

	type scored struct {
		name string
		dist int
	}
	var near []scored
	for _, s := range c.Structures {
		name := normalizeName(s.Name)
		dist := levenshtein.ComputeDistance(token, name)
		// also compare against the first word, "brewer" vs "potionbrewer"
		for _, word := range strings.Fields(strings.ToLower(s.Name)) {
			if d := levenshtein.ComputeDistance(token, normalizeName(word)); d < dist {
				dist = d
			}
		}
		if dist <= suggestionLimit(len(name)) {
			near = append(near, scored{name: s.Name, dist: dist})
		}
	}
	sort.SliceStable(near, func(i, j int) bool {
		if near[i].dist == near[j].dist {
			return near[i].name < near[j].name
		}
		return near[i].dist < near[j].dist
	})

	err := &UnknownStructureError{Input: input}
	for _, n := range near {
		err.Suggestions = append(err.Suggestions, n.name)
	}
	// a whole word or a one-letter typo resolves when the best match is unique
	if len(near) > 0 && near[0].dist <= 1 && (len(near) == 1 || near[1].dist > near[0].dist) {
		for _, s := range c.Structures {
			if s.Name == near[0].name {
				return s.Type, nil
			}
		}
	}
	return "", err
}
