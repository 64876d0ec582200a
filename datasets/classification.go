package datasets

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/G-Wang/learn2learn/fewshot"
)

// ClassificationDataset provides a fewshot.Labeled view over CSV files
// matching a glob pattern. Feature columns are parsed as float32 and the
// designated label column is kept as a string class label.
//
// The dataset is lazy: construction only globs the files, reads headers and
// counts rows. Row data is read on demand in Example, so large CSV
// collections never have to fit in memory.
type ClassificationDataset struct {
	// Pattern used to find CSV files (e.g., "assets/train/*.csv")
	Pattern string

	// List of CSV file paths matching the pattern
	csvPaths []string

	// Feature column names, in the order features are emitted
	featureCols []string

	// Label column name
	labelCol string

	// Column indices discovered from the first file's header
	colIndex map[string]int

	// Cache of row counts per file (file index -> row count)
	rowCounts map[int]int

	// Cumulative counts for fast global-to-local index mapping
	cumCounts []int

	// Total number of examples across all files
	totalExamples int
}

var _ fewshot.Labeled[[]float32, string] = (*ClassificationDataset)(nil)

// NewClassificationDataset creates a lazy-loading classification dataset
// from CSV files matching pattern. labelCol names the column holding the
// class label; featureCols names the float feature columns, in order. A nil
// featureCols selects every header column except the label, in header order.
func NewClassificationDataset(pattern, labelCol string, featureCols []string) (*ClassificationDataset, error) {
	csvPaths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
	}
	if len(csvPaths) == 0 {
		return nil, fmt.Errorf("no CSV files found matching pattern: %s", pattern)
	}
	if labelCol == "" {
		return nil, fmt.Errorf("label column name cannot be empty")
	}

	ds := &ClassificationDataset{
		Pattern:     pattern,
		csvPaths:    csvPaths,
		featureCols: featureCols,
		labelCol:    strings.TrimSpace(strings.ToLower(labelCol)),
		rowCounts:   make(map[int]int),
	}

	// Read the first file to determine column structure
	if err := ds.initializeColumns(); err != nil {
		return nil, err
	}

	// Count rows in all files to build the index
	if err := ds.buildIndex(); err != nil {
		return nil, err
	}

	return ds, nil
}

// initializeColumns reads the first CSV to determine column indices
func (d *ClassificationDataset) initializeColumns() error {
	file, err := os.Open(d.csvPaths[0])
	if err != nil {
		return fmt.Errorf("failed to open first CSV %s: %w", d.csvPaths[0], err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	d.colIndex = make(map[string]int)
	normalized := make([]string, len(header))
	for i, col := range header {
		normalized[i] = strings.TrimSpace(strings.ToLower(col))
		d.colIndex[normalized[i]] = i
	}

	if _, ok := d.colIndex[d.labelCol]; !ok {
		return fmt.Errorf("label column %q not found in CSV", d.labelCol)
	}

	if d.featureCols == nil {
		// Default: every column but the label, in header order.
		for _, col := range normalized {
			if col != d.labelCol {
				d.featureCols = append(d.featureCols, col)
			}
		}
	} else {
		// Normalize a copy; the caller keeps its slice.
		cols := make([]string, len(d.featureCols))
		for i, col := range d.featureCols {
			cols[i] = strings.TrimSpace(strings.ToLower(col))
		}
		d.featureCols = cols
	}
	if len(d.featureCols) == 0 {
		return fmt.Errorf("no feature columns available")
	}

	// Verify required columns exist
	for _, col := range d.featureCols {
		if _, ok := d.colIndex[col]; !ok {
			return fmt.Errorf("feature column %q not found in CSV", col)
		}
		if col == d.labelCol {
			return fmt.Errorf("column %q cannot be both feature and label", col)
		}
	}

	return nil
}

// buildIndex counts rows in all files and builds cumulative counts
func (d *ClassificationDataset) buildIndex() error {
	d.cumCounts = make([]int, len(d.csvPaths)+1)
	d.cumCounts[0] = 0

	for i, path := range d.csvPaths {
		count, err := countCSVRows(path)
		if err != nil {
			return fmt.Errorf("failed to count rows in %s: %w", path, err)
		}
		d.rowCounts[i] = count
		d.cumCounts[i+1] = d.cumCounts[i] + count
	}

	d.totalExamples = d.cumCounts[len(d.csvPaths)]
	return nil
}

// Len returns the total number of examples across all CSV files
func (d *ClassificationDataset) Len() int {
	return d.totalExamples
}

// NumFeatures returns the dimensionality of the feature vectors.
func (d *ClassificationDataset) NumFeatures() int {
	return len(d.featureCols)
}

// Example reads a single example by global index, returning its feature
// vector and class label.
func (d *ClassificationDataset) Example(idx int) ([]float32, string, error) {
	if idx < 0 || idx >= d.totalExamples {
		return nil, "", fmt.Errorf("index %d out of range [0, %d)", idx, d.totalExamples)
	}

	// Find which file contains this index
	fileIdx, localIdx := d.mapGlobalIndex(idx)

	return d.readExample(fileIdx, localIdx)
}

// mapGlobalIndex maps a global index to (file index, row index within file)
func (d *ClassificationDataset) mapGlobalIndex(globalIdx int) (fileIdx, localIdx int) {
	for i := range len(d.csvPaths) {
		if globalIdx < d.cumCounts[i+1] {
			return i, globalIdx - d.cumCounts[i]
		}
	}
	// Should never reach here if globalIdx is valid
	return len(d.csvPaths) - 1, d.rowCounts[len(d.csvPaths)-1] - 1
}

// readExample reads a specific example from a file
func (d *ClassificationDataset) readExample(fileIdx, rowIdx int) ([]float32, string, error) {
	file, err := os.Open(d.csvPaths[fileIdx])
	if err != nil {
		return nil, "", fmt.Errorf("failed to open CSV: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, "", fmt.Errorf("failed to read header: %w", err)
	}

	// Skip to the desired row
	for range rowIdx {
		if _, err := reader.Read(); err != nil {
			return nil, "", fmt.Errorf("failed to skip to row %d: %w", rowIdx, err)
		}
	}

	record, err := reader.Read()
	if err != nil {
		return nil, "", fmt.Errorf("failed to read row %d: %w", rowIdx, err)
	}

	features := make([]float32, len(d.featureCols))
	for i, col := range d.featureCols {
		val, err := parseFloat32(record[d.colIndex[col]])
		if err != nil {
			return nil, "", fmt.Errorf("failed to parse %s: %w", col, err)
		}
		features[i] = val
	}

	label := strings.TrimSpace(record[d.colIndex[d.labelCol]])
	if label == "" {
		return nil, "", fmt.Errorf("empty label at row %d of %s", rowIdx, d.csvPaths[fileIdx])
	}

	return features, label, nil
}

// Batch reads multiple examples by their global indices.
func (d *ClassificationDataset) Batch(indices []int) ([][]float32, []string, error) {
	features := make([][]float32, len(indices))
	labels := make([]string, len(indices))
	for i, idx := range indices {
		f, l, err := d.Example(idx)
		if err != nil {
			return nil, nil, err
		}
		features[i] = f
		labels[i] = l
	}
	return features, labels, nil
}
