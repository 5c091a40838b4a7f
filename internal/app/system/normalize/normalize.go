// Package normalize centralizes the folding rules for identity fields so
// every store and handler agrees on what "the same username" means.
package normalize

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

// Username lowercases and trims a login name. Usernames are compared only
// in this form.
func Username(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DisplayName trims and collapses inner whitespace.
func DisplayName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Title trims a title name. Display casing is preserved; uniqueness checks
// use TitleKey.
func Title(s string) string {
	return strings.TrimSpace(s)
}

// TitleKey folds a title for case-insensitive comparison.
func TitleKey(s string) string {
	return text.Fold(Title(s))
}
