package analysis

import (
	"MacroPull/internal/domain/models"
)

// Options controls the statistical stages of a run.
type Options struct {
	HACLags    int
	Bins       int
	ADFMaxLags int
}

// DefaultOptions mirror the reference configuration: 4 HAC lags, 20
// quantile bins, and data-driven ADF lag selection.
func DefaultOptions() Options {
	return Options{HACLags: 4, Bins: 20, ADFMaxLags: -1}
}

// Analyze runs the full statistical stage on a finished analysis table:
// both regressions, both binscatter summaries, and stationarity tests
// on the three regression variables.
func Analyze(rows []models.AnalysisRow, opts Options) (*models.AnalysisResult, error) {
	x, profit, wage := Columns(rows)

	profitReg, err := FitOLSHAC(x, profit, opts.HACLags, models.VarDProfitShare)
	if err != nil {
		return nil, err
	}
	wageReg, err := FitOLSHAC(x, wage, opts.HACLags, models.VarDWageShare)
	if err != nil {
		return nil, err
	}

	profitBins, err := QuantileBin(x, profit, opts.Bins, models.GroupProfit)
	if err != nil {
		return nil, err
	}
	wageBins, err := QuantileBin(x, wage, opts.Bins, models.GroupWage)
	if err != nil {
		return nil, err
	}

	stationarity := make(map[string]models.StationarityResult, 3)
	for _, v := range []struct {
		name   string
		values []float64
	}{
		{models.VarProdYoY, x},
		{models.VarDProfitShare, profit},
		{models.VarDWageShare, wage},
	} {
		res, err := TestStationarity(v.name, v.values, opts.ADFMaxLags)
		if err != nil {
			return nil, err
		}
		stationarity[v.name] = *res
	}

	return &models.AnalysisResult{
		Rows: rows,
		Regressions: map[string]models.RegressionResult{
			models.GroupProfit: *profitReg,
			models.GroupWage:   *wageReg,
		},
		Bins: map[string][]models.BinRecord{
			models.GroupProfit: profitBins,
			models.GroupWage:   wageBins,
		},
		Stationarity: stationarity,
	}, nil
}
