// Package directive reads "## efm" comment directives out of a Perl source
// file and applies them to a config.Builder.
//
// A directive starts at column 1:
//
//	## efm debug
//	## efm skip all
//	## efm skip indirect context
//	## efm skip_error Subroutine \w+ redefined
//	## efm modules Foo::Bar Baz
//	## efm includes ../lib vendor/lib
//
// Unknown keywords are ignored, and so is a skip_error directive with no
// pattern after it.
package directive

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Wladim1r/efmperl/internal/config"
)

// Prefix opens every directive line.
const Prefix = "## efm"

// Kind tags a directive.
type Kind int

// Directive kinds.
const (
	Debug Kind = iota + 1
	SkipAll
	Skip
	SkipError
	Modules
	Includes
)

var kindNames = map[Kind]string{
	Debug:     "debug",
	SkipAll:   "skip all",
	Skip:      "skip",
	SkipError: "skip_error",
	Modules:   "modules",
	Includes:  "includes",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Directive is one recognized directive line.
type Directive struct {
	Kind Kind
	Args []string
	// Line is the 1-based line number in the scanned file, 0 when parsed
	// outside of Scan.
	Line int
}

// Parse classifies a single line. It returns false for lines that are not
// directives or carry an unknown keyword.
func Parse(line string) (Directive, bool) {
	line = strings.TrimRight(line, "\r\n")

	rest, ok := strings.CutPrefix(line, Prefix)
	if !ok {
		return Directive{}, false
	}
	// The prefix must be followed by whitespace: "## efmx" is not ours.
	if rest == "" || !isSpace(rest[0]) {
		return Directive{}, false
	}

	keyword, remainder := splitKeyword(rest)
	switch keyword {
	case "debug":
		return Directive{Kind: Debug}, true
	case "skip":
		names := strings.Fields(remainder)
		if len(names) > 0 && names[0] == "all" {
			return Directive{Kind: SkipAll}, true
		}
		return Directive{Kind: Skip, Args: names}, true
	case "skip_error":
		if remainder == "" {
			return Directive{}, false
		}
		return Directive{Kind: SkipError, Args: []string{remainder}}, true
	case "modules":
		return Directive{Kind: Modules, Args: strings.Fields(remainder)}, true
	case "includes":
		return Directive{Kind: Includes, Args: strings.Fields(remainder)}, true
	}
	return Directive{}, false
}

// splitKeyword returns the first word of s and the text after the whitespace
// that follows it. The remainder keeps inner and trailing spaces.
func splitKeyword(s string) (keyword, remainder string) {
	s = strings.TrimLeft(s, " \t")
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeft(s[i:], " \t")
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' }

// Scan returns every directive in r, in file order.
func Scan(r io.Reader) ([]Directive, error) {
	var dirs []Directive

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; sc.Scan(); n++ {
		d, ok := Parse(sc.Text())
		if !ok {
			continue
		}
		d.Line = n
		dirs = append(dirs, d)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning directives: %w", err)
	}
	return dirs, nil
}

// Apply mutates b according to dirs. SkipAll is applied after every other
// directive so its effect does not depend on where it appears in the file.
func Apply(b *config.Builder, dirs []Directive) *config.Builder {
	skipAll := false
	for _, d := range dirs {
		switch d.Kind {
		case Debug:
			b.IncDebug()
		case SkipAll:
			skipAll = true
		case Skip:
			for _, name := range d.Args {
				b.Skip(name)
			}
		case SkipError:
			for _, p := range d.Args {
				b.AddSkipError(p)
			}
		case Modules:
			b.AddModules(d.Args...)
		case Includes:
			b.AddIncludes(d.Args...)
		}
	}
	if skipAll {
		b.SkipAll()
	}
	return b
}
