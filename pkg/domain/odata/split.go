package odata

import "strings"

// splitTopLevel splits s on sep, ignoring separators inside quoted strings
// and inside (), [] or {} groups
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	inString := false
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inString:
			if c == '\'' {
				if i+1 < len(s) && s[i+1] == '\'' {
					i++
				} else {
					inString = false
				}
			}
		case c == '\'':
			inString = true
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// matchingParen returns the index of the parenthesis closing the one at open
func matchingParen(s string, open int) int {
	depth := 0
	inString := false
	for i := open; i < len(s); i++ {
		c := s[i]
		switch {
		case inString:
			if c == '\'' {
				if i+1 < len(s) && s[i+1] == '\'' {
					i++
				} else {
					inString = false
				}
			}
		case c == '\'':
			inString = true
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

// isMemberPath reports whether s is a property path such as Address/City
func isMemberPath(s string) bool {
	for _, segment := range strings.Split(s, "/") {
		if !isIdentifier(segment) {
			return false
		}
	}
	return true
}

// FieldPath converts an OData member path into a MongoDB dotted field
func FieldPath(member string) string {
	return strings.ReplaceAll(member, "/", ".")
}
