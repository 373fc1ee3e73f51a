// Package textnorm cleans text read from disk before it reaches a parser.
package textnorm

import "strings"

const bom = "\uFEFF"

// Normalize strips a single leading byte-order mark and removes every
// carriage return, so CRLF and bare CR line endings both collapse.
func Normalize(text string) string {
	text = strings.TrimPrefix(text, bom)
	if !strings.Contains(text, "\r") {
		return text
	}
	return strings.ReplaceAll(text, "\r", "")
}
