package console

import (
	"strings"
	"unicode"
)

// Split breaks a command line into whitespace-separated tokens. Quoted
// runs, single or double, stay inside one token with their quotes so that
// Coerce can tell quoted text from numbers. A backslash inside quotes
// escapes the next character.
func Split(line string) []string {
	var (
		tokens  []string
		cur     strings.Builder
		quote   rune
		escaped bool
		open    bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case quote != 0:
			cur.WriteRune(r)
			if r == '\\' {
				escaped = true
			} else if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			cur.WriteRune(r)
			quote = r
			open = true
		case unicode.IsSpace(r):
			if open {
				tokens = append(tokens, cur.String())
				cur.Reset()
				open = false
			}
		default:
			cur.WriteRune(r)
			open = true
		}
	}
	if open {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

// splitArgs splits dot-syntax arguments on commas outside quotes and
// braces, trimming the space around each.
func splitArgs(s string) []string {
	var (
		args  []string
		cur   strings.Builder
		quote rune
		depth int
	)
	flush := func() {
		if a := strings.TrimSpace(cur.String()); a != "" {
			args = append(args, a)
		}
		cur.Reset()
	}
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '{':
			depth++
		case r == '}':
			depth--
		case r == ',' && depth == 0:
			flush()
			continue
		}
		cur.WriteRune(r)
	}
	flush()
	return args
}
