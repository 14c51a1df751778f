// Package dartid writes the input file for DART-ID: one row per PSM group
// (scan, charge, primary sequence) with the group's proteins merged into a list.
//
// DART-ID is described in PLoS Computational Biology 15(7):e1007082, 2019.
package dartid

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"github.com/ChrisMcGann/sicmerge/pkg/core"
	"github.com/ChrisMcGann/sicmerge/pkg/psm"
	"github.com/ChrisMcGann/sicmerge/pkg/reader/tsv"
	"github.com/ChrisMcGann/sicmerge/pkg/spool/sqlite"
)

// Header is the header line of a _ForDartID.txt file
var Header = []string{
	"Dataset",
	"Peptide",
	"MSGFDB_SpecEValue",
	"Charge",
	"LeadingProtein",
	"Proteins",
	core.ElutionTimeColumn,
	core.PeakWidthMinutesColumn,
}

// Options controls consolidation
type Options struct {
	// Sort groups rows by (scan, charge, primary sequence) before consolidating,
	// for inputs where rows of one group are not adjacent
	Sort bool

	// SpoolDir holds the temporary sort database; defaults to the output directory
	SpoolDir string
}

// OutputPath returns {dir}/{stem}_ForDartID.txt for an input file
func OutputPath(psmPath string) string {
	base := filepath.Base(psmPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(psmPath), stem+core.DartIDSuffix)
}

// DatasetName derives the dataset name written to each row from the input file name.
// Names of files this package wrote map back to the same dataset.
func DatasetName(psmPath string) string {
	base := filepath.Base(psmPath)
	name, ok := core.TrimSuffixFold(base, core.DartIDSuffix)
	if !ok {
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if trimmed, ok := core.TrimSuffixFold(name, strings.TrimSuffix(core.ResultsSuffix, ".txt")); ok {
		name = trimmed
	}

	for _, suffix := range []string{"_syn", "_fht"} {
		if trimmed, ok := core.TrimSuffixFold(name, suffix); ok {
			name = trimmed
			break
		}
	}
	for _, suffix := range []string{"_msgfplus", "_msgfdb"} {
		if trimmed, ok := core.TrimSuffixFold(name, suffix); ok {
			name = trimmed
			break
		}
	}
	return name
}

// groupKey identifies a PSM group. scanTime stands in for the scan number when
// the file has no scan column.
type groupKey struct {
	scan     int
	scanTime string
	charge   int
	sequence string
}

// psmGroup is the buffered group of consecutive rows sharing a key
type psmGroup struct {
	key         groupKey
	peptide     string
	specEValue  string
	elutionTime string
	peakWidth   string
	proteins    []string
	seen        map[string]bool
}

func (g *psmGroup) addProteins(value string) {
	for _, protein := range psm.SplitProteins(value) {
		if !g.seen[protein] {
			g.seen[protein] = true
			g.proteins = append(g.proteins, protein)
		}
	}
}

func (g *psmGroup) fields(dataset string) []string {
	leading := ""
	if len(g.proteins) > 0 {
		leading = g.proteins[0]
	}
	return []string{
		dataset,
		g.peptide,
		g.specEValue,
		strconv.Itoa(g.key.charge),
		leading,
		strings.Join(g.proteins, ";"),
		g.elutionTime,
		g.peakWidth,
	}
}

// consolidator groups rows and writes one line per group
type consolidator struct {
	cols    *psm.Columns
	minLen  int
	dataset string
	w       *core.TextWriter
	group   *psmGroup
	rows    int
	groups  int
}

// ConsolidatePSMs reads a merged _PlusSICStats.txt file and writes the
// _ForDartID.txt file next to it, returning its path. Consecutive rows with the
// same scan, charge and primary sequence become one row whose protein list holds
// the distinct proteins of the group in first-seen order.
func ConsolidatePSMs(psmPath string, opts Options) (string, error) {
	r, err := tsv.Open(psmPath)
	if err != nil {
		return "", err
	}
	defer r.Close()

	if !r.Next() {
		if err := r.Err(); err != nil {
			return "", fmt.Errorf("failed to read %s: %w", psmPath, err)
		}
		return "", fmt.Errorf("%s has no header line: %w", filepath.Base(psmPath), core.ErrRequiredColumnMissing)
	}

	cols, err := psm.MSGFPlusSchema.Resolve(filepath.Base(psmPath), r.Fields())
	if err != nil {
		return "", err
	}

	if !cols.Has(psm.ColScan) {
		log.Debug().Str("file", filepath.Base(psmPath)).Msg("No scan column; grouping by elution time")
	}

	outputPath := OutputPath(psmPath)
	w, err := core.CreateText(outputPath)
	if err != nil {
		return "", err
	}

	c := &consolidator{
		cols:    cols,
		minLen:  requiredLen(cols),
		dataset: DatasetName(psmPath),
		w:       w,
	}

	if err := c.w.WriteFields(Header); err != nil {
		w.Close()
		return "", err
	}

	if opts.Sort {
		err = c.consolidateSorted(r, spoolDir(opts, outputPath))
	} else {
		err = c.consolidate(r)
	}
	if err == nil {
		err = c.flush()
	}
	if err != nil {
		w.Close()
		return "", err
	}

	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", outputPath, err)
	}

	log.Info().
		Str("rows", humanize.Comma(int64(c.rows))).
		Str("groups", humanize.Comma(int64(c.groups))).
		Str("output", filepath.Base(outputPath)).
		Msg("Created DART-ID input file")

	return outputPath, nil
}

func spoolDir(opts Options, outputPath string) string {
	if opts.SpoolDir != "" {
		return opts.SpoolDir
	}
	return filepath.Dir(outputPath)
}

// requiredLen returns the field count a row needs to hold every required column
func requiredLen(cols *psm.Columns) int {
	n := 0
	for _, col := range []psm.Column{psm.ColCharge, psm.ColPeptide, psm.ColProtein, psm.ColSpecEValue, psm.ColElutionTime, psm.ColPeakWidthMinutes} {
		if idx := cols.Index(col); idx+1 > n {
			n = idx + 1
		}
	}
	return n
}

func (c *consolidator) consolidate(r *tsv.Reader) error {
	for r.Next() {
		if err := c.add(r.Fields()); err != nil {
			return err
		}
	}
	if err := r.Err(); err != nil {
		return fmt.Errorf("failed to read PSM file: %w", err)
	}
	return nil
}

// consolidateSorted spools every row and consolidates them in key order
func (c *consolidator) consolidateSorted(r *tsv.Reader, dir string) error {
	spool, err := sqlite.NewSpool(dir)
	if err != nil {
		return err
	}
	defer spool.Close()

	for r.Next() {
		fields := r.Fields()
		if len(fields) < c.minLen {
			continue
		}
		key := c.keyFor(fields)
		sequence := key.sequence
		if key.scanTime != "" {
			sequence += "\t" + key.scanTime
		}
		if err := spool.Add(key.scan, key.charge, sequence, r.Line()); err != nil {
			return err
		}
	}
	if err := r.Err(); err != nil {
		return fmt.Errorf("failed to read PSM file: %w", err)
	}

	log.Debug().Str("rows", humanize.Comma(int64(spool.Len()))).Msg("Sorted PSM rows")

	return spool.Each(func(line string) error {
		return c.add(strings.Split(line, "\t"))
	})
}

func (c *consolidator) keyFor(fields []string) groupKey {
	key := groupKey{
		charge:   c.cols.Int(fields, psm.ColCharge),
		sequence: psm.PrimarySequence(c.cols.Value(fields, psm.ColPeptide)),
	}
	if c.cols.Has(psm.ColScan) {
		key.scan = c.cols.Int(fields, psm.ColScan)
	} else {
		key.scanTime = c.cols.Value(fields, psm.ColElutionTime)
	}
	return key
}

// add appends a row to the current group, or flushes the group and starts a
// new one when the key changes. Short rows are skipped.
func (c *consolidator) add(fields []string) error {
	if len(fields) < c.minLen {
		return nil
	}
	c.rows++

	key := c.keyFor(fields)
	if c.group != nil && c.group.key == key {
		c.group.addProteins(c.cols.Value(fields, psm.ColProtein))
		return nil
	}

	if err := c.flush(); err != nil {
		return err
	}

	c.group = &psmGroup{
		key:         key,
		peptide:     c.cols.Value(fields, psm.ColPeptide),
		specEValue:  c.cols.Value(fields, psm.ColSpecEValue),
		elutionTime: c.cols.Value(fields, psm.ColElutionTime),
		peakWidth:   c.cols.Value(fields, psm.ColPeakWidthMinutes),
		seen:        make(map[string]bool),
	}
	c.group.addProteins(c.cols.Value(fields, psm.ColProtein))
	return nil
}

// flush writes the buffered group, if any
func (c *consolidator) flush() error {
	if c.group == nil {
		return nil
	}
	g := c.group
	c.group = nil
	c.groups++
	return c.w.WriteFields(g.fields(c.dataset))
}
