// Package slug produces the stable identifiers used for in-document
// cross links.
package slug

import "strings"

var stripped = strings.NewReplacer("<", "", ">", "", "(", "", ")", "")

// Anchor converts a display name into a lowercase, URL-safe link target:
// dots become dashes, angle brackets and parentheses are stripped, spaces
// become plus signs. Anchor is idempotent. Distinct names can normalize
// to the same anchor; the later section then wins the link target.
func Anchor(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, ".", "-")
	s = stripped.Replace(s)
	return strings.ReplaceAll(s, " ", "+")
}
