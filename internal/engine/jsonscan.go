package engine

import "bytes"

// ScanJSONObject returns the complete JSON object starting at the first '{'
// of b (leading whitespace allowed), by tracking brace depth outside strings.
// Returns nil when the object is not terminated.
func ScanJSONObject(b []byte) []byte {
	b = bytes.TrimLeft(b, " \t\r\n")
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	escaped := false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}

// ScanJSONAfter finds marker in b and scans the object that follows it.
func ScanJSONAfter(b []byte, marker string) []byte {
	idx := bytes.Index(b, []byte(marker))
	if idx < 0 {
		return nil
	}
	return ScanJSONObject(b[idx+len(marker):])
}
