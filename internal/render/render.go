// Package render implements placeholder substitution for document
// templates: a single non-recursive pass that replaces every
// {{identifier}} token with its mapped value.
package render

import "regexp"

// Token identifiers are permissive: anything up to the next }}.
// There is no escape mechanism for literal {{ or }} sequences.
var placeholderRE = regexp.MustCompile(`\{\{(.*?)\}\}`)

// Render substitutes every {{key}} token in content with fields[key].
// Unresolvable keys render as a literal [key] marker so a missing value
// is visible in the output instead of a leftover template token.
//
// Substituted values are never re-scanned for tokens, and no HTML
// escaping is applied: templates are authored by trusted operators and
// the output is inserted into the document view as raw markup.
func Render(content string, fields map[string]string) string {
	return placeholderRE.ReplaceAllStringFunc(content, func(token string) string {
		key := token[2 : len(token)-2]
		if v, ok := fields[key]; ok {
			return v
		}
		return "[" + key + "]"
	})
}
