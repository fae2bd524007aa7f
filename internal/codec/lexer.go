package codec

import (
	"fmt"
	"strings"
)

// splitToken parses a serialized token of the form Name(arg, arg, ...) into
// the name and its top-level arguments, honoring nested parentheses and
// double-quoted strings with escapes.
func splitToken(token string) (string, []string, error) {
	open := strings.IndexByte(token, '(')
	if open < 0 || !strings.HasSuffix(token, ")") {
		return "", nil, fmt.Errorf("malformed token %q", token)
	}
	name := token[:open]
	if name == "" {
		return "", nil, fmt.Errorf("malformed token %q", token)
	}
	body := token[open+1 : len(token)-1]
	if strings.TrimSpace(body) == "" {
		return name, nil, nil
	}

	var args []string
	depth := 0
	inString := false
	escaped := false
	start := 0
	for i := 0; i < len(body); i++ {
		ch := body[i]
		switch {
		case escaped:
			escaped = false
		case inString:
			if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inString = false
			}
		case ch == '"':
			inString = true
		case ch == '(':
			depth++
		case ch == ')':
			depth--
			if depth < 0 {
				return "", nil, fmt.Errorf("unbalanced parentheses in %q", token)
			}
		case ch == ',' && depth == 0:
			args = append(args, strings.TrimSpace(body[start:i]))
			start = i + 1
		}
	}
	if depth != 0 || inString {
		return "", nil, fmt.Errorf("unterminated token %q", token)
	}
	args = append(args, strings.TrimSpace(body[start:]))
	return name, args, nil
}
