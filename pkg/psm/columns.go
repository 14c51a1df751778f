package psm

import (
	"github.com/ChrisMcGann/sicmerge/pkg/core"
)

// Column identifies a logical column of a PSM results file
type Column int

const (
	ColScan Column = iota
	ColCharge
	ColPeptide
	ColProtein
	ColSpecEValue
	ColFragMethod
	ColElutionTime
	ColPeakWidthMinutes
	numColumns
)

// Field describes one logical column: the header names it may appear under,
// in order of preference, and whether the file must contain it.
type Field struct {
	Column   Column
	Names    []string
	Required bool
}

// Schema is an ordered list of fields resolved against a header line
type Schema []Field

// MSGFPlusSchema describes the merged MS-GF+ synopsis (or MzidToTsvConverter .tsv)
// file read by the DART-ID consolidation.
var MSGFPlusSchema = Schema{
	{Column: ColScan, Names: []string{"Scan", "ScanNum"}},
	{Column: ColCharge, Names: []string{"Charge"}, Required: true},
	{Column: ColPeptide, Names: []string{"Peptide"}, Required: true},
	{Column: ColProtein, Names: []string{"Protein", "Proteins"}, Required: true},
	{Column: ColSpecEValue, Names: []string{"MSGFDB_SpecEValue", "SpecEValue"}, Required: true},
	{Column: ColElutionTime, Names: []string{core.ElutionTimeColumn}, Required: true},
	{Column: ColPeakWidthMinutes, Names: []string{core.PeakWidthMinutesColumn}, Required: true},
}

// CollisionModeSchema describes the optional column from which collision modes
// are read when no reporter ion file supplies them
var CollisionModeSchema = Schema{
	{Column: ColFragMethod, Names: []string{FragMethodColumn}},
}

// Columns maps logical columns to 0-based field positions
type Columns struct {
	positions [numColumns]int
}

// Resolve locates every field of the schema in header. A missing required
// field yields a *core.ColumnError naming file and the field's first name.
func (s Schema) Resolve(file string, header []string) (*Columns, error) {
	cols := &Columns{}
	for i := range cols.positions {
		cols.positions[i] = -1
	}

	for _, field := range s {
		pos := -1
		for _, name := range field.Names {
			if pos = FindColumn(header, name); pos >= 0 {
				break
			}
		}

		if pos < 0 && field.Required {
			return nil, &core.ColumnError{File: file, Column: field.Names[0]}
		}
		cols.positions[field.Column] = pos
	}

	return cols, nil
}

// Index returns the position of c, or -1 when the header lacks it
func (c *Columns) Index(col Column) int {
	return c.positions[col]
}

// Has reports whether the header contains c
func (c *Columns) Has(col Column) bool {
	return c.positions[col] >= 0
}

// Value returns the field for col, or "" when the column or field is absent
func (c *Columns) Value(fields []string, col Column) string {
	pos := c.positions[col]
	if pos < 0 || pos >= len(fields) {
		return ""
	}
	return fields[pos]
}

// Int returns the field for col parsed as an integer, or 0
func (c *Columns) Int(fields []string, col Column) int {
	n, _ := ParseScan(c.Value(fields, col))
	return n
}
