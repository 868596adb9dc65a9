package absdom

import "fmt"

// Location is a source position in the analyzed program.
type Location struct {
	File string
	Line int
	Col  int
}

func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	if l.Col > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// ErrorKind names the class of a reported defect.
type ErrorKind int

const (
	BadKey ErrorKind = iota + 1
	BadMap
	BadMatch
	BadRecord
	CaseClause
	FunctionClause
	IfClause
	TryClause
)

var errorKindNames = map[ErrorKind]string{
	BadKey:         "badkey",
	BadMap:         "badmap",
	BadMatch:       "badmatch",
	BadRecord:      "badrecord",
	CaseClause:     "case_clause",
	FunctionClause: "function_clause",
	IfClause:       "if_clause",
	TryClause:      "try_clause",
}

// ErrorKinds returns every known kind in declaration order.
func ErrorKinds() []ErrorKind {
	return []ErrorKind{BadKey, BadMap, BadMatch, BadRecord, CaseClause, FunctionClause, IfClause, TryClause}
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ParseErrorKind is the inverse of ErrorKind.String.
func ParseErrorKind(s string) (ErrorKind, bool) {
	for k, name := range errorKindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Diagnostic is a located, reportable defect.
type Diagnostic struct {
	Kind     ErrorKind
	Location Location
	Message  string
	Trace    History
}

func (d Diagnostic) String() string {
	if d.Message == "" {
		return fmt.Sprintf("%s: %s", d.Location, d.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", d.Location, d.Kind, d.Message)
}
