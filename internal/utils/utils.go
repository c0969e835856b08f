// Package utils holds small helpers shared by the packages of this module.
package utils

import (
	"strconv"
	"strings"
)

// NormalizeIdentifier maps a framework name (e.g. "input.1" or "x:0/weights") to a graph value
// name made of ASCII letters, digits and underscores, with every other character replaced by
// an underscore.
//
// Intermediary values are named by number, so a name starting with a digit gets an
// underscore prefix.
func NormalizeIdentifier(name string) string {
	normalized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, name)
	if normalized != "" && normalized[0] >= '0' && normalized[0] <= '9' {
		normalized = "_" + normalized
	}
	return normalized
}

// UniqueName returns name, or name with the first free "_<n>" suffix if it is already in taken,
// and inserts the result into taken.
func UniqueName(name string, taken Set[string]) string {
	unique := name
	for n := 1; taken.Has(unique); n++ {
		unique = name + "_" + strconv.Itoa(n)
	}
	taken.Insert(unique)
	return unique
}
