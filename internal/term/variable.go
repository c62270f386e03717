package term

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Var returns the SPARQL spelling of a variable name.
func Var(name string) string {
	return "?" + name
}

// RenameVariable renames every occurrence of variable from to variable to.
func RenameVariable(text, from, to string) string {
	return ReplaceVariable(text, from, Var(to))
}

// ReplaceVariable replaces every occurrence of the variable name in text
// with replacement, which may be any term text.
//
// Only whole variable tokens match: ?v1 does not match inside ?v10.
// Occurrences inside string literals and <IRI> references are left alone.
func ReplaceVariable(text, name, replacement string) string {
	if name == "" || !strings.ContainsAny(text, "?$") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	scan(text, func(tok string, isVar bool) {
		if isVar && tok[1:] == name {
			b.WriteString(replacement)
			return
		}
		b.WriteString(tok)
	})
	return b.String()
}

// Variables returns the distinct variable names in text, in order of
// first appearance.
func Variables(text string) []string {
	var names []string
	seen := make(map[string]bool)
	scan(text, func(tok string, isVar bool) {
		if !isVar || seen[tok[1:]] {
			return
		}
		seen[tok[1:]] = true
		names = append(names, tok[1:])
	})
	return names
}

// scan splits text into tokens, flagging variable tokens. Concatenating
// every token reproduces text exactly.
func scan(text string, emit func(tok string, isVar bool)) {
	start := 0
	flush := func(end int) {
		if end > start {
			emit(text[start:end], false)
		}
	}
	for i := 0; i < len(text); {
		switch c := text[i]; c {
		case '"', '\'':
			i = skipString(text, i)
		case '<':
			i = skipIRI(text, i)
		case '?', '$':
			j := i + 1
			for j < len(text) {
				r, size := utf8.DecodeRuneInString(text[j:])
				if !isNameRune(r) {
					break
				}
				j += size
			}
			if j == i+1 {
				i++
				continue
			}
			flush(i)
			emit(text[i:j], true)
			start, i = j, j
		default:
			i++
		}
	}
	flush(len(text))
}

func isNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// skipString returns the index just past the string literal opened at i.
func skipString(text string, i int) int {
	q := text[i]
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case q:
			return j + 1
		}
	}
	return len(text)
}

// skipIRI returns the index just past the <IRI> opened at i, or i+1 when
// the '<' is an operator.
func skipIRI(text string, i int) int {
	if i+1 < len(text) && text[i+1] == '=' {
		return i + 1
	}
	for j := i + 1; j < len(text); j++ {
		switch c := text[j]; {
		case c == '>':
			return j + 1
		case c <= ' ', c == '<', c == '"', c == '{', c == '}', c == '|', c == '^', c == '`', c == '\\':
			return i + 1
		}
	}
	return i + 1
}
