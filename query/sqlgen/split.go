package sqlgen

import "strings"

// SplitStatements splits a SQL script on top-level semicolons. Quoted
// strings, quoted identifiers and comments are respected; empty
// statements are dropped.
func SplitStatements(script string) []string {
	var stmts []string
	var quote byte
	start := 0

	flush := func(end int) {
		if s := strings.TrimSpace(script[start:end]); s != "" && !onlyComments(s) {
			stmts = append(stmts, s)
		}
	}

	for i := 0; i < len(script); i++ {
		c := script[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '[':
			quote = ']'
		case c == '-' || c == '/':
			if end := commentEnd(script, i); end >= 0 {
				i = end
			}
		case c == ';':
			flush(i)
			start = i + 1
		}
	}
	if start < len(script) {
		flush(len(script))
	}
	return stmts
}

// commentEnd returns the index of the last byte of the -- or /* */ comment
// starting at i, or -1 when no comment starts there. An unterminated
// comment runs to the end of s.
func commentEnd(s string, i int) int {
	switch {
	case strings.HasPrefix(s[i:], "--"):
		if nl := strings.IndexByte(s[i:], '\n'); nl >= 0 {
			return i + nl
		}
		return len(s) - 1
	case strings.HasPrefix(s[i:], "/*"):
		if end := strings.Index(s[i+2:], "*/"); end >= 0 {
			return i + 2 + end + 1
		}
		return len(s) - 1
	}
	return -1
}

func onlyComments(s string) bool {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "--") {
			return false
		}
	}
	return true
}
