package dataset

import (
	"fmt"
	"strings"
)

// MissingFileError indicates the input file does not exist.
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	if e.Path == "" {
		return "CSV file not found. Please upload the file first."
	}
	return fmt.Sprintf("CSV file not found. Please upload the file first. (%s)", e.Path)
}

// MissingColumnError indicates that none of the candidate column names is present.
type MissingColumnError struct {
	Candidates []string
}

func (e *MissingColumnError) Error() string {
	if len(e.Candidates) == 1 {
		return fmt.Sprintf("column %q not found in dataset", e.Candidates[0])
	}
	return fmt.Sprintf("no Total/Sales column found in dataset (looked for %s)", strings.Join(quoteAll(e.Candidates), ", "))
}

// ParseError reports a cell that could not be converted to its column type.
// Row is 1-based and counts data rows only (the header is not row 1).
type ParseError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("row %d, column %q: cannot parse %q: %v", e.Row, e.Column, e.Value, e.Err)
	}
	return fmt.Sprintf("row %d, column %q: cannot parse %q", e.Row, e.Column, e.Value)
}

func (e *ParseError) Unwrap() error { return e.Err }

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
