package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// HeadRows is the number of leading rows shown in a description.
const HeadRows = 5

// Column kinds reported by Describe.
const (
	KindInt      = "int"
	KindFloat    = "float"
	KindDatetime = "datetime"
	KindText     = "text"
	KindEmpty    = "empty"
)

// Description is a read-only inspection of a table.
type Description struct {
	Name    string       `json:"name"`
	Rows    int          `json:"rows"`
	Cols    int          `json:"cols"`
	Columns []ColumnInfo `json:"columns"`
	Head    [][]string   `json:"head"`
}

// ColumnInfo captures the inferred kind and null counts of one column.
type ColumnInfo struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	NonNull int    `json:"non_null"`
	Missing int    `json:"missing"`
}

// Describe inspects t without modifying it.
func Describe(t *Table) *Description {
	rows, cols := t.Shape()
	d := &Description{Name: t.Name, Rows: rows, Cols: cols, Columns: make([]ColumnInfo, cols)}
	for _, r := range t.Head(HeadRows) {
		cp := make([]string, len(r))
		copy(cp, r)
		d.Head = append(d.Head, cp)
	}
	for j, name := range t.Columns {
		var ints, floats, dates, texts int
		ci := ColumnInfo{Name: name}
		for _, r := range t.Rows {
			v := strings.TrimSpace(r[j])
			if IsMissing(v) {
				ci.Missing++
				continue
			}
			ci.NonNull++
			if _, err := strconv.ParseInt(v, 10, 64); err == nil {
				ints++
				continue
			}
			if _, err := ParseNumber(v); err == nil {
				floats++
				continue
			}
			if _, err := ParseDate(v); err == nil {
				dates++
				continue
			}
			texts++
		}
		switch {
		case ci.NonNull == 0:
			ci.Kind = KindEmpty
		case texts > 0:
			ci.Kind = KindText
		case dates > 0 && ints+floats == 0:
			ci.Kind = KindDatetime
		case dates > 0:
			ci.Kind = KindText
		case floats > 0:
			ci.Kind = KindFloat
		default:
			ci.Kind = KindInt
		}
		d.Columns[j] = ci
	}
	return d
}

// Text renders the description as the plain-text preview printed before analysis.
func (d *Description) Text() string {
	var b strings.Builder
	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString("[DATASET SUMMARY]\n")
	if d.Name != "" {
		fmt.Fprintf(&b, "File: %s\n", d.Name)
	}
	fmt.Fprintf(&b, "Shape: %d rows x %d columns\n", d.Rows, d.Cols)

	b.WriteString("\n[HEAD]\n")
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	b.WriteString("| " + strings.Join(names, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(names)) + "\n")
	for _, row := range d.Head {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = safeCell(v)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	b.WriteString("\n[COLUMNS]\n")
	b.WriteString(strings.Join(names, ", ") + "\n")

	b.WriteString("\n[SCHEMA]\n")
	for i, c := range d.Columns {
		fmt.Fprintf(&b, "%2d  %-26s %6d non-null  %s\n", i, c.Name, c.NonNull, c.Kind)
	}
	counts := map[string]int{}
	order := []string{KindDatetime, KindFloat, KindInt, KindText, KindEmpty}
	for _, c := range d.Columns {
		counts[c.Kind]++
	}
	var kinds []string
	for _, k := range order {
		if counts[k] > 0 {
			kinds = append(kinds, fmt.Sprintf("%s(%d)", k, counts[k]))
		}
	}
	fmt.Fprintf(&b, "kinds: %s\n", strings.Join(kinds, ", "))

	b.WriteString("\n[MISSING VALUES]\n")
	for _, c := range d.Columns {
		fmt.Fprintf(&b, "%-26s %d\n", c.Name, c.Missing)
	}
	return b.String()
}

func safeCell(s string) string {
	s = strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
	if len(s) > 40 {
		s = s[:37] + "..."
	}
	return s
}
