package jsontext

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePath reads the notation produced by PathToDisplay. The leading $ is
// optional, so "commit.language" and "$.plugins[0]" are both accepted.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	path := Path{}
	for i := 0; i < len(s); {
		switch s[i] {
		case '.':
			i++
			start := i
			for i < len(s) && s[i] != '.' && s[i] != '[' {
				i++
			}
			if start == i {
				return nil, fmt.Errorf("empty key at offset %d", start)
			}
			path = append(path, s[start:i])
		case '[':
			end, seg, err := parseBracket(s, i)
			if err != nil {
				return nil, err
			}
			path = append(path, seg)
			i = end
		default:
			if i != 0 {
				return nil, fmt.Errorf("unexpected %q at offset %d", s[i], i)
			}
			// bare leading key
			start := i
			for i < len(s) && s[i] != '.' && s[i] != '[' {
				i++
			}
			path = append(path, s[start:i])
		}
	}
	return path, nil
}

func parseBracket(s string, i int) (int, any, error) {
	if i+1 < len(s) && s[i+1] == '"' {
		// quoted key: find the closing quote that is followed by ]
		j := i + 2
		for j < len(s) {
			if s[j] == '\\' {
				j += 2
				continue
			}
			if s[j] == '"' {
				break
			}
			j++
		}
		if j+1 >= len(s) || s[j+1] != ']' {
			return 0, nil, fmt.Errorf("unterminated key at offset %d", i)
		}
		key, err := strconv.Unquote(s[i+1 : j+1])
		if err != nil {
			return 0, nil, fmt.Errorf("invalid key at offset %d: %w", i, err)
		}
		return j + 2, key, nil
	}
	end := strings.IndexByte(s[i:], ']')
	if end < 0 {
		return 0, nil, fmt.Errorf("unterminated index at offset %d", i)
	}
	n, err := strconv.Atoi(s[i+1 : i+end])
	if err != nil || n < 0 {
		return 0, nil, fmt.Errorf("invalid index %q", s[i+1:i+end])
	}
	return i + end + 1, n, nil
}
