package merge

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ChrisMcGann/sicmerge/pkg/combine"
	"github.com/ChrisMcGann/sicmerge/pkg/core"
	"github.com/ChrisMcGann/sicmerge/pkg/dartid"
	"github.com/ChrisMcGann/sicmerge/pkg/partition"
	"github.com/ChrisMcGann/sicmerge/pkg/reader/masic"
	"github.com/ChrisMcGann/sicmerge/pkg/resolve"
)

// Options configures a Processor
type Options struct {
	MASICDir  string // defaults to the input file's directory
	OutputDir string // defaults to the input file's directory

	// ScanColumn is the 1-based scan number column; values below 1 mean
	// core.DefaultScanColumn
	ScanColumn int

	SeparateByCollisionMode bool
	CreateDartID            bool
	DartIDSort              bool
	Mage                    bool

	DeleteDelay time.Duration
}

// Processor merges MASIC results into one input file at a time and remembers
// the files it wrote so they can be combined afterwards.
type Processor struct {
	opts      Options
	processed []*core.ProcessedDataset
}

// NewProcessor creates a processor
func NewProcessor(opts Options) *Processor {
	if opts.ScanColumn < 1 {
		opts.ScanColumn = core.DefaultScanColumn
	}
	return &Processor{opts: opts}
}

// ProcessedDatasets returns the outputs of every input processed so far
func (p *Processor) ProcessedDatasets() []*core.ProcessedDataset {
	return p.processed
}

// ProcessFile merges the MASIC results that belong to inputPath
func (p *Processor) ProcessFile(inputPath string) error {
	info, err := os.Stat(inputPath)
	if err != nil {
		return fmt.Errorf("input file not found: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("input %s is a directory", inputPath)
	}

	masicDir := p.opts.MASICDir
	if masicDir == "" {
		masicDir = filepath.Dir(inputPath)
	}
	outDir := p.opts.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(inputPath)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	fileOpts := FileOptions{ScanColumn: p.opts.ScanColumn, DeleteDelay: p.opts.DeleteDelay}

	if p.opts.Mage {
		if _, err := MergeMageFile(inputPath, masicDir, outDir, fileOpts); err != nil {
			return err
		}
		if p.opts.CreateDartID {
			log.Warn().Msg("DART-ID files are not created for Mage Extractor results")
		}
		return nil
	}

	base := BaseName(inputPath)
	files, err := resolve.FindMASICFiles(masicDir, core.DatasetInfo{Name: base})
	if err != nil {
		return err
	}

	data, err := masic.LoadMASICData(masicDir, files)
	if err != nil {
		return err
	}

	var plan *partition.Plan
	if p.opts.SeparateByCollisionMode {
		plan, err = partition.ByCollisionMode(inputPath, outDir, base, data.ScanStats, p.opts.ScanColumn)
		if err != nil {
			return fmt.Errorf("failed to determine collision modes: %w", err)
		}
	} else {
		plan = partition.Single(outDir, base, data.ScanStats)
	}

	processed, err := MergeFile(inputPath, data, plan, fileOpts)
	if err != nil {
		return err
	}
	p.processed = append(p.processed, processed)

	if !p.opts.CreateDartID {
		return nil
	}

	for _, out := range processed.Outputs {
		if _, err := dartid.ConsolidatePSMs(out.Path, dartid.Options{Sort: p.opts.DartIDSort}); err != nil {
			return fmt.Errorf("failed to create DART-ID file: %w", err)
		}
	}
	return nil
}

// MergeProcessedDatasets combines the outputs of all processed inputs into
// MergedData files. Nothing is written when fewer than two inputs were processed.
func (p *Processor) MergeProcessedDatasets() error {
	if len(p.processed) < 2 {
		return nil
	}

	outDir := p.opts.OutputDir
	if outDir == "" {
		outDir = firstOutputDir(p.processed)
	}
	return combine.MergeProcessedDatasets(p.processed, outDir)
}

func firstOutputDir(records []*core.ProcessedDataset) string {
	for _, rec := range records {
		if len(rec.Outputs) > 0 {
			return filepath.Dir(rec.Outputs[0].Path)
		}
	}
	return "."
}
