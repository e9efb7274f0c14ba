package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"MacroPull/internal/analysis"
	"MacroPull/internal/domain/models"
)

func testRows() []models.AnalysisRow {
	rows := make([]models.AnalysisRow, 8)
	d := time.Date(1948, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range rows {
		rows[i] = models.AnalysisRow{
			Date:              d,
			ProdYoYPct:        2.5 + float64(i)*0.1,
			ProfitSharePct:    10,
			WageSharePct:      56,
			DProfitShareYoYPp: 0.2,
			DWageShareYoYPp:   -0.1,
		}
		d = d.AddDate(0, 3, 0)
	}
	return rows
}

func TestExportDatasetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	exp, err := NewFileExporter(filepath.Join(dir, "processed"), filepath.Join(dir, "results"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	rows := testRows()
	path, err := exp.ExportDataset(rows)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if filepath.Base(path) != "dshares_vs_prod.csv" {
		t.Fatalf("path = %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	got, err := analysis.ReadDatasetCSV(f)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("rows = %d, want %d", len(got), len(rows))
	}
	for i := range rows {
		if !got[i].Date.Equal(rows[i].Date) || got[i].ProdYoYPct != rows[i].ProdYoYPct ||
			got[i].DProfitShareYoYPp != rows[i].DProfitShareYoYPp {
			t.Fatalf("row %d drifted: %+v vs %+v", i, got[i], rows[i])
		}
	}
}

func TestExportRegressionsBothFormats(t *testing.T) {
	dir := t.TempDir()
	exp, err := NewFileExporter(filepath.Join(dir, "processed"), filepath.Join(dir, "results"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	results := map[string]models.RegressionResult{
		models.GroupWage:   {DependentVariable: models.VarDWageShare, Slope: -0.3, Lag: 4, N: 311},
		models.GroupProfit: {DependentVariable: models.VarDProfitShare, Slope: 0.25, Lag: 4, N: 311},
	}
	jsonPath, csvPath, err := exp.ExportRegressions(results)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	b, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var decoded map[string]models.RegressionResult
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded[models.GroupProfit].Slope != 0.25 {
		t.Fatalf("json drifted: %+v", decoded)
	}

	csvBytes, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(csvBytes)), "\n")
	if len(lines) != 3 {
		t.Fatalf("csv lines = %d", len(lines))
	}
	// Profit row always precedes wage row.
	if !strings.HasPrefix(lines[1], models.VarDProfitShare) || !strings.HasPrefix(lines[2], models.VarDWageShare) {
		t.Fatalf("csv order wrong: %v", lines)
	}
}

func TestExportBinsFileName(t *testing.T) {
	dir := t.TempDir()
	processed := filepath.Join(dir, "processed")
	exp, err := NewFileExporter(processed, filepath.Join(dir, "results"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	bins := []models.BinRecord{{Which: models.GroupProfit, XMean: 1, YMean: 2, N: 10, YStd: 0.5, YSE: 0.16}}
	path, err := exp.ExportBins(models.GroupProfit, bins)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	// Binscatter tables live next to the dataset, not under results.
	if path != filepath.Join(processed, "binscatter_profit.csv") {
		t.Fatalf("path = %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}
}

func TestExportStationarityBothFormats(t *testing.T) {
	dir := t.TempDir()
	exp, err := NewFileExporter(filepath.Join(dir, "processed"), filepath.Join(dir, "results"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	results := map[string]models.StationarityResult{
		models.VarProdYoY: {Variable: models.VarProdYoY, ADFStat: -5, ADFPValue: 0.01, IsStationary: true},
	}
	jsonPath, csvPath, err := exp.ExportStationarity(results)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if filepath.Base(jsonPath) != "stationarity_tests.json" || filepath.Base(csvPath) != "stationarity_tests.csv" {
		t.Fatalf("paths = %s, %s", jsonPath, csvPath)
	}

	csvBytes, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(csvBytes), models.VarProdYoY) {
		t.Fatalf("csv missing variable: %s", csvBytes)
	}
}
