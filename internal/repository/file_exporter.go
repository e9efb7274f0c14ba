package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"MacroPull/internal/analysis"
	"MacroPull/internal/domain/models"
	drepo "MacroPull/internal/domain/repository"
)

// Fixed output file names. Downstream consumers key on these.
const (
	datasetFile           = "dshares_vs_prod.csv"
	regressionsJSONFile   = "regression_summary.json"
	regressionsCSVFile    = "regression_summary.csv"
	stationarityJSONFile  = "stationarity_tests.json"
	stationarityCSVFile   = "stationarity_tests.csv"
	binscatterFilePattern = "binscatter_%s.csv"
)

// FileExporter writes analysis output as CSV and JSON files under the
// processed and results directories.
type FileExporter struct {
	processedDir string
	resultsDir   string
}

// NewFileExporter creates the exporter and its target directories.
func NewFileExporter(processedDir, resultsDir string) (drepo.Exporter, error) {
	for _, dir := range []string{processedDir, resultsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("exporter: create %s: %w", dir, err)
		}
	}
	return &FileExporter{processedDir: processedDir, resultsDir: resultsDir}, nil
}

// ExportDataset writes the analysis table to the processed directory.
func (e *FileExporter) ExportDataset(rows []models.AnalysisRow) (string, error) {
	path := filepath.Join(e.processedDir, datasetFile)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("exporter: %w", err)
	}
	defer f.Close()
	if err := analysis.WriteDatasetCSV(f, rows); err != nil {
		return "", fmt.Errorf("exporter: dataset csv: %w", err)
	}
	return path, nil
}

// ExportRegressions writes regression results as JSON and CSV.
func (e *FileExporter) ExportRegressions(results map[string]models.RegressionResult) (string, string, error) {
	jsonPath := filepath.Join(e.resultsDir, regressionsJSONFile)
	if err := writeJSON(jsonPath, results); err != nil {
		return "", "", err
	}

	csvPath := filepath.Join(e.resultsDir, regressionsCSVFile)
	f, err := os.Create(csvPath)
	if err != nil {
		return "", "", fmt.Errorf("exporter: %w", err)
	}
	defer f.Close()
	ordered := orderedRegressions(results)
	if err := analysis.WriteRegressionsCSV(f, ordered); err != nil {
		return "", "", fmt.Errorf("exporter: regressions csv: %w", err)
	}
	return jsonPath, csvPath, nil
}

// ExportBins writes one binscatter summary to the processed directory,
// next to the dataset it was derived from.
func (e *FileExporter) ExportBins(which string, bins []models.BinRecord) (string, error) {
	path := filepath.Join(e.processedDir, fmt.Sprintf(binscatterFilePattern, which))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("exporter: %w", err)
	}
	defer f.Close()
	if err := analysis.WriteBinsCSV(f, bins); err != nil {
		return "", fmt.Errorf("exporter: bins csv: %w", err)
	}
	return path, nil
}

// ExportStationarity writes stationarity results as JSON and CSV.
func (e *FileExporter) ExportStationarity(results map[string]models.StationarityResult) (string, string, error) {
	jsonPath := filepath.Join(e.resultsDir, stationarityJSONFile)
	if err := writeJSON(jsonPath, results); err != nil {
		return "", "", err
	}

	csvPath := filepath.Join(e.resultsDir, stationarityCSVFile)
	f, err := os.Create(csvPath)
	if err != nil {
		return "", "", fmt.Errorf("exporter: %w", err)
	}
	defer f.Close()
	ordered := orderedStationarity(results)
	if err := analysis.WriteStationarityCSV(f, ordered); err != nil {
		return "", "", fmt.Errorf("exporter: stationarity csv: %w", err)
	}
	return jsonPath, csvPath, nil
}

func writeJSON(path string, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("exporter: marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("exporter: %w", err)
	}
	return nil
}

// orderedRegressions emits rows in the fixed profit-then-wage order so
// CSV output is deterministic across runs.
func orderedRegressions(results map[string]models.RegressionResult) []models.RegressionResult {
	ordered := make([]models.RegressionResult, 0, len(results))
	for _, key := range []string{models.GroupProfit, models.GroupWage} {
		if r, ok := results[key]; ok {
			ordered = append(ordered, r)
		}
	}
	for key, r := range results {
		if key != models.GroupProfit && key != models.GroupWage {
			ordered = append(ordered, r)
		}
	}
	return ordered
}

func orderedStationarity(results map[string]models.StationarityResult) []models.StationarityResult {
	ordered := make([]models.StationarityResult, 0, len(results))
	for _, key := range []string{models.VarProdYoY, models.VarDProfitShare, models.VarDWageShare} {
		if r, ok := results[key]; ok {
			ordered = append(ordered, r)
		}
	}
	for key, r := range results {
		switch key {
		case models.VarProdYoY, models.VarDProfitShare, models.VarDWageShare:
		default:
			ordered = append(ordered, r)
		}
	}
	return ordered
}
