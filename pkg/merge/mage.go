package merge

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ChrisMcGann/sicmerge/pkg/core"
	"github.com/ChrisMcGann/sicmerge/pkg/psm"
	"github.com/ChrisMcGann/sicmerge/pkg/reader/mage"
	"github.com/ChrisMcGann/sicmerge/pkg/reader/masic"
	"github.com/ChrisMcGann/sicmerge/pkg/reader/tsv"
	"github.com/ChrisMcGann/sicmerge/pkg/resolve"
)

// JobColumn names the column of a Mage Extractor file that holds the job number
const JobColumn = "Job"

// MergeMageFile merges MASIC results into a Mage Extractor file, which holds
// the results of many analysis jobs. The job -> dataset map is read from
// {stem}_metadata.txt next to the input. MASIC data is loaded from masicDir each
// time the job changes. Returns the path of the merged file.
func MergeMageFile(inputPath, masicDir, outDir string, opts FileOptions) (string, error) {
	jobs, err := mage.ReadMetadata(mage.MetadataPath(inputPath))
	if err != nil {
		return "", err
	}

	r, err := tsv.Open(inputPath)
	if err != nil {
		return "", err
	}
	defer r.Close()

	if !r.Next() {
		if err := r.Err(); err != nil {
			return "", fmt.Errorf("failed to read %s: %w", inputPath, err)
		}
		return "", &core.ColumnError{File: filepath.Base(inputPath), Column: JobColumn}
	}

	headerLine := r.Line()
	header := r.Fields()
	jobCol := psm.FindColumn(header, JobColumn)
	if jobCol < 0 {
		return "", &core.ColumnError{File: filepath.Base(inputPath), Column: JobColumn}
	}

	scanColumn := opts.ScanColumn
	if scanColumn < 1 {
		scanColumn = core.DefaultScanColumn
	}
	scanCol := psm.DetectScanColumn(header, scanColumn) - 1

	outputPath := filepath.Join(outDir, BaseName(inputPath)+core.ResultsSuffix)
	w, err := core.CreateText(outputPath)
	if err != nil {
		return "", err
	}

	m := &mageMerge{
		w:          w,
		headerLine: headerLine,
		jobs:       jobs,
		masicDir:   masicDir,
		lastJob:    -1,
	}

	if err := m.run(r, jobCol, scanCol); err != nil {
		w.Close()
		return "", err
	}

	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", outputPath, err)
	}

	if m.jobsMerged == 0 {
		_ = os.Remove(outputPath)
		return "", fmt.Errorf("%s: %w", filepath.Base(inputPath), core.ErrNoMergedJobs)
	}

	log.Info().Int("jobs", m.jobsMerged).Str("output", filepath.Base(outputPath)).Msg("Merged MASIC results")
	return outputPath, nil
}

type mageMerge struct {
	w          *core.TextWriter
	headerLine string
	jobs       map[int]core.DatasetInfo
	masicDir   string

	lastJob    int
	add        *addons // nil when the current job has no MASIC data
	jobsMerged int

	// Set once the first job loads; column layout is fixed from then on
	reporterHeaders []string
	blank           string
	headerWritten   bool
	pending         []string
}

func (m *mageMerge) run(r *tsv.Reader, jobCol, scanCol int) error {
	for r.Next() {
		fields := r.Fields()
		if len(fields) <= jobCol {
			continue
		}

		job, err := strconv.Atoi(strings.TrimSpace(fields[jobCol]))
		if err != nil {
			log.Warn().Int("line", r.LineNum()).Msg("Job column does not contain a job number; skipping this entry")
			continue
		}

		if job != m.lastJob {
			if err := m.loadJob(job); err != nil {
				return err
			}
			m.lastJob = job
		}

		if !m.headerWritten {
			m.pending = append(m.pending, r.Line())
			continue
		}

		if err := m.writeRow(r.Line(), fields, scanCol); err != nil {
			return err
		}
	}

	if err := r.Err(); err != nil {
		return fmt.Errorf("failed to read Mage results: %w", err)
	}
	return nil
}

// loadJob reads the MASIC data for job. A job without MASIC data is not an error;
// its rows get empty MASIC columns.
func (m *mageMerge) loadJob(job int) error {
	m.add = nil

	dataset, ok := m.jobs[job]
	if !ok {
		log.Error().Int("job", job).Msg("Job was not defined in the metadata file; unable to determine the dataset")
		return nil
	}

	files, err := resolve.FindMASICFiles(m.masicDir, dataset)
	if err != nil {
		log.Warn().Int("job", job).Err(err).Msg("Job will not have MASIC results")
		return nil
	}

	data, err := masic.LoadMASICData(m.masicDir, files)
	if err != nil {
		log.Warn().Int("job", job).Err(err).Msg("Job will not have MASIC results")
		return nil
	}

	m.jobsMerged++
	if m.jobsMerged == 1 {
		if err := m.writeHeader(data.ReporterIonHeaders); err != nil {
			return err
		}
	}
	m.add = newAddons(data.ScanStats, data.SICStats, true, m.reporterHeaders)
	return nil
}

// writeHeader writes the header and the rows held back until the column
// layout was known
func (m *mageMerge) writeHeader(reporterHeaders []string) error {
	m.reporterHeaders = reporterHeaders
	layout := newAddons(nil, nil, true, reporterHeaders)

	if err := m.w.WriteLine(m.headerLine + "\t" + strings.Join(layout.headers(reporterHeaders), "\t")); err != nil {
		return err
	}
	m.headerWritten = true

	m.blank = strings.Join(layout.blanks(), "\t")
	for _, line := range m.pending {
		if err := m.w.WriteLine(line + "\t" + m.blank); err != nil {
			return err
		}
	}
	m.pending = nil
	return nil
}

func (m *mageMerge) writeRow(line string, fields []string, scanCol int) error {
	if m.add == nil {
		return m.w.WriteLine(line + "\t" + m.blank)
	}

	scan := 0
	if scanCol >= 0 && scanCol < len(fields) {
		scan, _ = psm.ParseScan(fields[scanCol])
	}
	values, _ := m.add.fields(scan)
	return m.w.WriteLine(line + "\t" + strings.Join(values, "\t"))
}
