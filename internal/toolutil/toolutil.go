// Package toolutil provides shared helper functions for dojo MCP tools.
package toolutil

import "strings"

// NormLang normalises a transcript language field: empty string → "en".
func NormLang(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return "en"
	}
	return lang
}
