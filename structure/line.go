package structure

import (
	"strings"

	"github.com/jsphweid/tablab/constants"
	"github.com/jsphweid/tablab/errs"
	"golang.org/x/text/unicode/norm"
)

// LineStructure is an ordered set of line names (the voices of a tab).
// Names are compared after NFC normalisation, so "Ré" typed either way is
// the same line. The zero value is an empty structure.
type LineStructure struct {
	lines []string
}

func NewLineStructure(lines ...string) *LineStructure {
	l := &LineStructure{}
	for _, line := range lines {
		l.Add(line)
	}
	return l
}

// Normalize puts a line name in the form LineStructure stores it.
func Normalize(line string) string {
	return norm.NFC.String(line)
}

// CheckLineName fails for names that would not survive String and
// ParseLineStructure: empty ones and ones holding the separator.
func CheckLineName(line string) error {
	switch {
	case line == "":
		return errs.InvalidArgument("empty line name")
	case strings.Contains(line, constants.StructureSeparator):
		return errs.InvalidArgument("line name %q contains %q", line, constants.StructureSeparator)
	}
	return nil
}

// Add appends line unless it is already present or fails CheckLineName.
func (l *LineStructure) Add(line string) bool {
	line = Normalize(line)
	if CheckLineName(line) != nil || l.Contains(line) {
		return false
	}
	l.lines = append(l.lines, line)
	return true
}

// Insert puts line at the 0-based position i, shifting the rest.
// i == Len() appends. A line already present is left where it is.
func (l *LineStructure) Insert(i int, line string) (bool, error) {
	if i < 0 || i > len(l.lines) {
		return false, errs.OutOfRange("line position", i+1, len(l.lines)+1)
	}
	line = Normalize(line)
	if err := CheckLineName(line); err != nil {
		return false, err
	}
	if l.Contains(line) {
		return false, nil
	}
	l.lines = append(l.lines, "")
	copy(l.lines[i+1:], l.lines[i:])
	l.lines[i] = line
	return true, nil
}

func (l *LineStructure) Remove(line string) bool {
	i := l.Index(line)
	if i < 0 {
		return false
	}
	l.lines = append(l.lines[:i], l.lines[i+1:]...)
	return true
}

func (l *LineStructure) Index(line string) int {
	if l == nil {
		return -1
	}
	line = Normalize(line)
	for i, s := range l.lines {
		if s == line {
			return i
		}
	}
	return -1
}

func (l *LineStructure) Contains(line string) bool {
	return l.Index(line) >= 0
}

func (l *LineStructure) Len() int {
	if l == nil {
		return 0
	}
	return len(l.lines)
}

func (l *LineStructure) At(i int) string {
	return l.lines[i]
}

// Lines returns a copy of the names in order.
func (l *LineStructure) Lines() []string {
	if l == nil {
		return nil
	}
	return append([]string(nil), l.lines...)
}

func (l *LineStructure) Clone() *LineStructure {
	return &LineStructure{lines: l.Lines()}
}

func (l *LineStructure) Equal(o *LineStructure) bool {
	if l.Len() != o.Len() {
		return false
	}
	for i := 0; i < l.Len(); i++ {
		if l.lines[i] != o.lines[i] {
			return false
		}
	}
	return true
}

// Union is every line of l in order, then the lines of o missing from l.
func (l *LineStructure) Union(o *LineStructure) *LineStructure {
	res := l.Clone()
	for _, line := range o.Lines() {
		res.Add(line)
	}
	return res
}

// Intersection is the lines of l, in l's order, that o also has.
func (l *LineStructure) Intersection(o *LineStructure) *LineStructure {
	res := &LineStructure{}
	for _, line := range l.Lines() {
		if o.Contains(line) {
			res.Add(line)
		}
	}
	return res
}

func (l *LineStructure) String() string {
	return strings.Join(l.Lines(), constants.StructureSeparator)
}

// ParseLineStructure reads the output of String. Empty names and
// duplicates are rejected since they would not come back out the same.
func ParseLineStructure(s string) (*LineStructure, error) {
	l := &LineStructure{}
	if s == "" {
		return l, nil
	}
	for _, part := range strings.Split(s, constants.StructureSeparator) {
		if part == "" {
			return nil, errs.InvalidArgument("empty line name in %q", s)
		}
		if !l.Add(part) {
			return nil, errs.InvalidArgument("duplicate line %q in %q", part, s)
		}
	}
	return l, nil
}
