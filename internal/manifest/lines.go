package manifest

import (
	"strings"
)

// file is a TOML document held as lines.
type file struct {
	lines []string
}

func parse(data []byte) *file {
	s := strings.TrimSuffix(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	f := &file{}
	if s != "" {
		f.lines = strings.Split(s, "\n")
	}
	return f
}

// bytes renders the document with a trailing newline.
func (f *file) bytes() []byte {
	if len(f.lines) == 0 {
		return nil
	}
	return []byte(strings.Join(f.lines, "\n") + "\n")
}

// headerName returns the table name of a "[name]" line, or "" when the
// line is not a table header. Array-of-tables headers ("[[x]]") count as
// headers named "[x]" so they never match a plain table.
func headerName(line string) (string, bool) {
	t := strings.TrimSpace(line)
	if i := strings.Index(t, "#"); i >= 0 && !strings.HasPrefix(t, "#") {
		t = strings.TrimSpace(t[:i])
	}
	if !strings.HasPrefix(t, "[") || !strings.HasSuffix(t, "]") {
		return "", false
	}
	if strings.HasPrefix(t, "[[") {
		return t, true
	}
	return strings.TrimSpace(t[1 : len(t)-1]), true
}

// section returns [start, end) of the table body: start is the line after
// the header, end the next header or EOF. ok is false when the table is
// missing. Lines inside multi-line values are never taken for headers.
func (f *file) section(name string) (start, end int, ok bool) {
	start = -1
	for i := 0; i < len(f.lines); i++ {
		if keyOf(f.lines[i]) != "" {
			i = f.valueEnd(i) - 1
			continue
		}
		h, isHeader := headerName(f.lines[i])
		if !isHeader {
			continue
		}
		if start >= 0 {
			return start, i, true
		}
		if h == name {
			start = i + 1
		}
	}
	if start >= 0 {
		return start, len(f.lines), true
	}
	return 0, 0, false
}

// keyOf returns the bare key of a "key = value" line.
func keyOf(line string) string {
	t := strings.TrimSpace(line)
	if t == "" || strings.HasPrefix(t, "#") || strings.HasPrefix(t, "[") {
		return ""
	}
	eq := strings.Index(t, "=")
	if eq <= 0 {
		return ""
	}
	return strings.Trim(strings.TrimSpace(t[:eq]), `"'`)
}

// valueEnd returns the index after the last line of the value starting at
// line i. Arrays and inline tables may span several lines.
func (f *file) valueEnd(i int) int {
	depth := 0
	for j := i; j < len(f.lines); j++ {
		line := f.lines[j]
		if j == i {
			line = line[strings.Index(line, "=")+1:]
		}
		depth += bracketDelta(line)
		if depth <= 0 {
			return j + 1
		}
	}
	return len(f.lines)
}

// bracketDelta counts opening minus closing brackets outside strings and
// comments.
func bracketDelta(line string) int {
	delta := 0
	var quote rune
	escaped := false
	for _, r := range line {
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case r == '\\' && quote == '"':
				escaped = true
			case r == quote:
				quote = 0
			}
			continue
		}
		switch r {
		case '"', '\'':
			quote = r
		case '#':
			return delta
		case '[', '{':
			delta++
		case ']', '}':
			delta--
		}
	}
	return delta
}

// set writes `key = value` into table name. An existing key is replaced
// (including multi-line values); a new key goes after the last key line of
// the table. A missing table is appended after a blank line.
func (f *file) set(name, key, value string) {
	line := key + " = " + value

	start, end, ok := f.section(name)
	if !ok {
		if len(f.lines) > 0 && strings.TrimSpace(f.lines[len(f.lines)-1]) != "" {
			f.lines = append(f.lines, "")
		}
		f.lines = append(f.lines, "["+name+"]", line)
		return
	}

	last := start - 1
	for i := start; i < end; i++ {
		k := keyOf(f.lines[i])
		if k == "" {
			continue
		}
		stop := f.valueEnd(i)
		if k == key {
			f.replace(i, stop, line)
			return
		}
		last = stop - 1
		i = stop - 1
	}

	f.insert(last+1, line)
}

func (f *file) replace(from, to int, line string) {
	out := make([]string, 0, len(f.lines)-(to-from)+1)
	out = append(out, f.lines[:from]...)
	out = append(out, line)
	out = append(out, f.lines[to:]...)
	f.lines = out
}

func (f *file) insert(at int, line string) {
	f.lines = append(f.lines, "")
	copy(f.lines[at+1:], f.lines[at:])
	f.lines[at] = line
}
