// Package partition decides which output file each merged row is written to,
// splitting results by collision mode
package partition

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ChrisMcGann/sicmerge/pkg/core"
	"github.com/ChrisMcGann/sicmerge/pkg/psm"
	"github.com/ChrisMcGann/sicmerge/pkg/reader/tsv"
)

// Bucket is one output file
type Bucket struct {
	Label string // collision mode, "na" when undefined
	Path  string
	Lines int // data lines written
}

// Plan maps collision modes to buckets. Index is the scan stats index the
// merge must read; it differs from the loaded index only when collision modes
// were taken from the PSM file.
type Plan struct {
	Buckets []*Bucket
	Index   core.ScanStatsIndex
	keys    map[string]int
}

// BucketPath returns {outDir}/{base}_{label}_PlusSICStats.txt
func BucketPath(outDir, base, label string) string {
	return filepath.Join(outDir, base+"_"+label+core.ResultsSuffix)
}

// Single returns a plan with one bucket, {outDir}/{base}_PlusSICStats.txt
func Single(outDir, base string, index core.ScanStatsIndex) *Plan {
	return &Plan{
		Buckets: []*Bucket{{Label: "", Path: filepath.Join(outDir, base+core.ResultsSuffix)}},
		Index:   index,
		keys:    map[string]int{},
	}
}

// BucketFor returns the index of the bucket for a collision mode; 0 when the
// mode is unknown.
func (p *Plan) BucketFor(mode string) int {
	if len(p.Buckets) < 2 {
		return 0
	}
	if idx, ok := p.keys[modeKey(mode)]; ok {
		return idx
	}
	return 0
}

// modeKey normalizes a collision mode for case-insensitive matching
func modeKey(mode string) string {
	key := strings.ToLower(strings.TrimSpace(mode))
	if key == "" {
		return core.CollisionModeNA
	}
	return key
}

// labelFor returns the label used in bucket file names
func labelFor(mode string) string {
	label := strings.TrimSpace(mode)
	if label == "" {
		return core.CollisionModeNA
	}
	return label
}

// add registers a collision mode, creating its bucket if it is new
func (p *Plan) add(mode, outDir, base string) {
	key := modeKey(mode)
	if _, ok := p.keys[key]; ok {
		return
	}
	label := labelFor(mode)
	p.keys[key] = len(p.Buckets)
	p.Buckets = append(p.Buckets, &Bucket{Label: label, Path: BucketPath(outDir, base, label)})
}

// ByCollisionMode builds one bucket per collision mode.
//
// The collision modes come from the scan stats index (filled in from the
// reporter ions file). When the index defines none, they are read from the
// FragMethod column of the PSM file at psmPath, and the returned plan carries
// a copy of the index with those modes filled in. When neither source has
// collision modes, the plan has a single "na" bucket.
func ByCollisionMode(psmPath, outDir, base string, index core.ScanStatsIndex, scanColumn int) (*Plan, error) {
	plan := &Plan{Index: index, keys: make(map[string]int)}

	// Ascending scan order gives a stable bucket order
	scans := make([]int, 0, len(index))
	for scan := range index {
		scans = append(scans, scan)
	}
	sort.Ints(scans)

	modes := make(map[string]bool)
	var ordered []string
	for _, scan := range scans {
		mode := index[scan].CollisionMode
		key := strings.ToLower(strings.TrimSpace(mode))
		if !modes[key] {
			modes[key] = true
			ordered = append(ordered, mode)
		}
	}

	if len(ordered) >= 2 || (len(ordered) == 1 && strings.TrimSpace(ordered[0]) != "") {
		for _, mode := range ordered {
			plan.add(mode, outDir, base)
		}
		return plan, nil
	}

	enriched, fragModes, err := readFragMethods(psmPath, index, scanColumn)
	if err != nil {
		return nil, err
	}

	if len(fragModes) == 0 {
		plan.add("", outDir, base)
		return plan, nil
	}

	plan.Index = enriched
	for _, mode := range fragModes {
		plan.add(mode, outDir, base)
	}
	return plan, nil
}

// readFragMethods returns a copy of index whose collision modes come from the
// FragMethod column of the PSM file, plus the modes in file order. The modes
// are nil when the file has no FragMethod column.
func readFragMethods(psmPath string, index core.ScanStatsIndex, scanColumn int) (core.ScanStatsIndex, []string, error) {
	r, err := tsv.Open(psmPath)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	if !r.Next() {
		if err := r.Err(); err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", psmPath, err)
		}
		warnNoCollisionMode(psmPath)
		return index, nil, nil
	}

	header := r.Fields()
	if psm.IsHeaderless(header, scanColumn) {
		warnNoCollisionMode(psmPath)
		return index, nil, nil
	}

	cols, err := psm.CollisionModeSchema.Resolve(filepath.Base(psmPath), header)
	if err != nil {
		return nil, nil, err
	}
	if !cols.Has(psm.ColFragMethod) {
		warnNoCollisionMode(psmPath)
		return index, nil, nil
	}

	scanCol := psm.DetectScanColumn(header, scanColumn) - 1

	enriched := index.Clone()
	seen := make(map[string]bool)
	var modes []string

	for r.Next() {
		fields := r.Fields()
		if len(fields) <= scanCol || len(fields) <= cols.Index(psm.ColFragMethod) {
			continue
		}
		scan, ok := psm.ParseScan(fields[scanCol])
		if !ok {
			continue
		}

		mode := cols.Value(fields, psm.ColFragMethod)
		if key := modeKey(mode); !seen[key] {
			seen[key] = true
			modes = append(modes, mode)
		}

		rec, ok := enriched[scan]
		if !ok {
			rec = core.ScanStats{ScanNumber: scan}
		}
		rec.CollisionMode = mode
		enriched[scan] = rec
	}

	if err := r.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", psmPath, err)
	}

	log.Debug().Strs("modes", modes).Msg("Collision modes read from the FragMethod column")
	return enriched, modes, nil
}

func warnNoCollisionMode(psmPath string) {
	log.Warn().Str("file", filepath.Base(psmPath)).Msg("Unable to determine the collision mode for results being merged. " +
		"This is typically obtained from a MASIC _ReporterIons.txt file or from the FragMethod column in the MS-GF+ results file")
}
