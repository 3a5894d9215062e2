// Package filter decides which lines of perl's diagnostic output are reported.
//
// A line is reported when it mentions the checked file and matches none of
// the skip patterns. Patterns are regular expressions; one that does not
// compile is matched as a literal substring instead.
package filter

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Filter holds the compiled skip patterns for one file.
type Filter struct {
	file     string
	patterns []*regexp.Regexp
}

// New compiles patterns for diagnostics about file.
func New(file string, patterns []string) *Filter {
	f := &Filter{file: file, patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			re = regexp.MustCompile(regexp.QuoteMeta(p))
		}
		f.patterns = append(f.patterns, re)
	}
	return f
}

// Relevant reports whether line mentions the checked file.
func (f *Filter) Relevant(line string) bool {
	return strings.Contains(line, f.file)
}

// Suppressed returns the first skip pattern matching line, or "".
func (f *Filter) Suppressed(line string) string {
	for _, re := range f.patterns {
		if re.MatchString(line) {
			return re.String()
		}
	}
	return ""
}

// Keep reports whether line should be printed.
func (f *Filter) Keep(line string) bool {
	return f.Relevant(line) && f.Suppressed(line) == ""
}

// Copy writes every kept line of r to w, verbatim and newline-terminated.
// It returns the number of lines written.
func (f *Filter) Copy(w io.Writer, r io.Reader) (int, error) {
	n := 0
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if !f.Keep(line) {
			continue
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return n, fmt.Errorf("writing diagnostic: %w", err)
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return n, fmt.Errorf("reading diagnostics: %w", err)
	}
	return n, nil
}
