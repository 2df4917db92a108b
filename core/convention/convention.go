// Package convention derives canonical resource names from raw,
// human-supplied names. Canonical names are the sole lookup key for
// authorization and sideload tables.
package convention

import "strings"

// Canonicalize normalizes a raw resource name into its canonical form:
// lowercase, hyphen-separated, with the final word pluralized.
//
// Canonicalization is idempotent: canonicalizing a canonical name yields
// the same name. "Post", "post" and "posts" all canonicalize to "posts";
// "blog_entry" and "Blog Entry" both canonicalize to "blog-entries".
func Canonicalize(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = strings.ReplaceAll(name, "_", "-")
	name = strings.Join(strings.Fields(name), "-")
	if name == "" {
		return ""
	}

	// Pluralize only the final word; a leading qualifier stays as-is
	// ("blog-entry" becomes "blog-entries", not "blogs-entries").
	idx := strings.LastIndex(name, "-")
	head, last := "", name
	if idx >= 0 {
		head, last = name[:idx+1], name[idx+1:]
	}

	// Round-tripping through the singular form makes the operation
	// idempotent even when the caller already supplied a plural.
	return head + Pluralize(Singularize(last))
}
