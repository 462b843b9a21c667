// Package cfgtext holds the small text-munging rules the on-disk and
// kernel-cmdline configuration formats share: comment stripping, quote
// stripping, and the single-line YAML array form used by
// datasource_list.
package cfgtext

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// StripComment removes a trailing "#..." comment from a config line. A
// '#' is only treated as a comment marker when it is not inside the
// value, which in practice (no quoted '#' in this format) means "cut at
// the first '#'".
func StripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// Unquote strips one matching pair of leading/trailing single or double
// quotes from s. If s is not wrapped in a matching pair, it is returned
// unchanged.
func Unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if (first == '\'' || first == '"') && first == last {
		return s[1 : len(s)-1]
	}
	return s
}

// SplitKV splits a "key: value" line into its trimmed key and value.
// The second return is false if the line contains no ':'.
func SplitKV(line string) (key, value string, ok bool) {
	i := strings.IndexByte(line, ':')
	if i < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:i])
	value = strings.TrimSpace(line[i+1:])
	return key, value, true
}

// ParseYAMLArray parses the single-line array form datasource_list uses:
// an optionally "[...]"-wrapped, comma-separated list of items, each of
// which may be individually quoted. Both "[a, b, c]" and "a, b, c" are
// accepted and produce the same result.
func ParseYAMLArray(s string) []string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") {
		s = "[" + s + "]"
	}
	var items []string
	if err := yaml.Unmarshal([]byte(s), &items); err != nil {
		// Fall back to a manual split so a malformed bracket never turns
		// a usable list into nothing.
		inner := strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
		for _, part := range strings.Split(inner, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			items = append(items, Unquote(part))
		}
		return items
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, strings.TrimSpace(it))
	}
	return out
}
