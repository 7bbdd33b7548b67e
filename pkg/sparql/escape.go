package sparql

import "regexp"

// metachars matches the characters that can terminate or alter a SPARQL
// string literal.
var metachars = regexp.MustCompile(`(["'\\])`)

// Escape backslash-escapes every `"`, `'` and `\` in s so the result can be
// placed inside any SPARQL string literal, including triple-quoted ones.
// Strings without metacharacters are returned unchanged.
func Escape(s string) string {
	return metachars.ReplaceAllString(s, `\${1}`)
}
