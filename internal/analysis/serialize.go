package analysis

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"MacroPull/internal/domain/models"
	"MacroPull/pkg/util"
)

// Column headers for the tabular outputs. Order is part of the file
// format and must stay stable across releases.
var (
	DatasetHeader      = []string{"date", "prod_yoy_pct", "profit_share_pct", "wage_share_pct", "d_profit_share_yoy_pp", "d_wage_share_yoy_pp"}
	BinHeader          = []string{"which", "x_mean", "y_mean", "n", "y_std", "y_se"}
	RegressionHeader   = []string{"dependent_variable", "intercept", "slope", "r_squared", "correlation", "hac_tstat", "lag", "n"}
	StationarityHeader = []string{"variable", "adf_stat", "adf_pvalue", "adf_critical_1pct", "adf_critical_5pct", "kpss_stat", "kpss_pvalue", "kpss_critical_5pct", "is_stationary"}
)

// formatFloat renders a float with the shortest representation that
// survives a parse round trip.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// WriteDatasetCSV writes the analysis rows as CSV, header first.
func WriteDatasetCSV(w io.Writer, rows []models.AnalysisRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(DatasetHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			util.FormatDate(r.Date),
			formatFloat(r.ProdYoYPct),
			formatFloat(r.ProfitSharePct),
			formatFloat(r.WageSharePct),
			formatFloat(r.DProfitShareYoYPp),
			formatFloat(r.DWageShareYoYPp),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadDatasetCSV parses CSV produced by WriteDatasetCSV.
func ReadDatasetCSV(r io.Reader) ([]models.AnalysisRow, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset csv: empty input")
	}
	if len(records[0]) != len(DatasetHeader) {
		return nil, fmt.Errorf("dataset csv: expected %d columns, got %d", len(DatasetHeader), len(records[0]))
	}
	rows := make([]models.AnalysisRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		date, ok := util.ParseDate(rec[0])
		if !ok {
			return nil, fmt.Errorf("dataset csv row %d: bad date %q", i+1, rec[0])
		}
		vals := make([]float64, 5)
		for j := 0; j < 5; j++ {
			v, err := strconv.ParseFloat(rec[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("dataset csv row %d col %s: %w", i+1, DatasetHeader[j+1], err)
			}
			vals[j] = v
		}
		rows = append(rows, models.AnalysisRow{
			Date:              date,
			ProdYoYPct:        vals[0],
			ProfitSharePct:    vals[1],
			WageSharePct:      vals[2],
			DProfitShareYoYPp: vals[3],
			DWageShareYoYPp:   vals[4],
		})
	}
	return rows, nil
}

// WriteBinsCSV writes bin summaries as CSV, header first.
func WriteBinsCSV(w io.Writer, bins []models.BinRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(BinHeader); err != nil {
		return err
	}
	for _, b := range bins {
		rec := []string{
			b.Which,
			formatFloat(b.XMean),
			formatFloat(b.YMean),
			strconv.Itoa(b.N),
			formatFloat(b.YStd),
			formatFloat(b.YSE),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRegressionsCSV writes regression results as CSV, header first.
func WriteRegressionsCSV(w io.Writer, results []models.RegressionResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RegressionHeader); err != nil {
		return err
	}
	for _, r := range results {
		rec := []string{
			r.DependentVariable,
			formatFloat(r.Intercept),
			formatFloat(r.Slope),
			formatFloat(r.RSquared),
			formatFloat(r.Correlation),
			formatFloat(r.HACTStat),
			strconv.Itoa(r.Lag),
			strconv.Itoa(r.N),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteStationarityCSV writes stationarity test results as CSV.
func WriteStationarityCSV(w io.Writer, results []models.StationarityResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(StationarityHeader); err != nil {
		return err
	}
	for _, r := range results {
		rec := []string{
			r.Variable,
			formatFloat(r.ADFStat),
			formatFloat(r.ADFPValue),
			formatFloat(r.ADFCritical1Pct),
			formatFloat(r.ADFCritical5Pct),
			formatFloat(r.KPSSStat),
			formatFloat(r.KPSSPValue),
			formatFloat(r.KPSSCritical5),
			strconv.FormatBool(r.IsStationary),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Annotation renders the one-line summary of a fitted regression.
func Annotation(r *models.RegressionResult) string {
	return fmt.Sprintf("Corr = %.3f; HAC t(slope) = %.2f (L=%d); R² = %.3f; y = %.3f + %.3f·x",
		r.Correlation, r.HACTStat, r.Lag, r.RSquared, r.Intercept, r.Slope)
}

// Metadata builds the run metadata map attached to serialized results.
func Metadata(seriesIDs []string, rows int, sampleStart time.Time, hacLags, bins int) map[string]string {
	return map[string]string{
		"series":       fmt.Sprintf("%v", seriesIDs),
		"rows":         strconv.Itoa(rows),
		"sample_start": util.FormatDate(sampleStart),
		"hac_lags":     strconv.Itoa(hacLags),
		"bins":         strconv.Itoa(bins),
		"generated_at": time.Now().UTC().Format(time.RFC3339),
	}
}
