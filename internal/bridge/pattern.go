package bridge

import (
	"fmt"
	"regexp"
	"strings"
)

// matcher is a compiled event-name pattern. Compilation happens once at
// subscribe time and is pure: compiling the same text always yields an
// equivalent matcher.
type matcher struct {
	text string
	re   *regexp.Regexp
}

// isPattern reports whether a subscription key is a wildcard pattern rather
// than an exact event name.
func isPattern(key string) bool {
	return strings.Contains(key, "*")
}

// compilePattern translates a wildcard pattern into an anchored regular
// expression. "*" matches exactly one ":"-delimited segment; "**" matches
// one-or-more characters across segment boundaries.
func compilePattern(text string) (*matcher, error) {
	var sb strings.Builder
	sb.WriteString("^")
	for i := 0; i < len(text); {
		switch {
		case strings.HasPrefix(text[i:], "**"):
			sb.WriteString(".+")
			i += 2
		case text[i] == '*':
			sb.WriteString("[^:]+")
			i++
		default:
			sb.WriteString(regexp.QuoteMeta(string(text[i])))
			i++
		}
	}
	sb.WriteString("$")

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, fmt.Errorf("invalid event pattern %q: %w", text, err)
	}
	return &matcher{text: text, re: re}, nil
}

func (m *matcher) matches(name string) bool {
	return m.re.MatchString(name)
}
