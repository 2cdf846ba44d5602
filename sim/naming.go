package sim

import (
	"strconv"
	"strings"
)

// NameMustBeValid panics if a simulation element name breaks the naming
// rules:
//  1. Names are hierarchical, with levels separated by dots ("RAM.Read").
//  2. No level can be empty ("A..B" is invalid).
//  3. Each level is capitalized CamelCase, without underscores, quotes, or
//     dashes.
//  4. Elements of a series use square-bracket indices ("Bank[3]").
func NameMustBeValid(name string) {
	defer func() {
		if r := recover(); r != nil {
			panic("Name " + name + " is not valid: " + r.(string))
		}
	}()

	for _, level := range strings.Split(name, ".") {
		levelMustBeValid(level)
	}
}

func levelMustBeValid(level string) {
	bracketsMustMatch(level)

	parts := strings.Split(level, "[")
	elem := parts[0]
	for _, indexPart := range parts[1:] {
		index := strings.TrimSuffix(indexPart, "]")
		if _, err := strconv.Atoi(index); err != nil {
			panic("Name index must be integer")
		}
	}

	if elem == "" {
		panic("Name element must not be empty")
	}

	for _, c := range []string{"_", "\"", "'", "-"} {
		if strings.Contains(elem, c) {
			panic("Name element must not contain " + c)
		}
	}

	if elem[0] < 'A' || elem[0] > 'Z' {
		panic("Name element must start with a capital letter")
	}
}

func bracketsMustMatch(level string) {
	open := 0
	for _, c := range level {
		switch c {
		case '[':
			open++
		case ']':
			open--
			if open < 0 {
				panic("Name bracket must match")
			}
		}
	}

	if open != 0 {
		panic("Name bracket must match")
	}
}

// BuildName appends an element name to a parent name.
func BuildName(parentName, elementName string) string {
	if parentName == "" {
		return elementName
	}

	return parentName + "." + elementName
}
