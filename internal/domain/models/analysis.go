package models

import "time"

// Group labels for the two dependent variables.
const (
	GroupProfit = "profit"
	GroupWage   = "wage"
)

// Dependent variable column names.
const (
	VarProdYoY      = "prod_yoy_pct"
	VarDProfitShare = "d_profit_share_yoy_pp"
	VarDWageShare   = "d_wage_share_yoy_pp"
)

// AnalysisRow is one fully-populated quarter of the analysis table.
// Rows lacking the 4-quarter lookback never make it into the table.
type AnalysisRow struct {
	Date              time.Time `json:"date"`
	ProdYoYPct        float64   `json:"prod_yoy_pct"`
	ProfitSharePct    float64   `json:"profit_share_pct"`
	WageSharePct      float64   `json:"wage_share_pct"`
	DProfitShareYoYPp float64   `json:"d_profit_share_yoy_pp"`
	DWageShareYoYPp   float64   `json:"d_wage_share_yoy_pp"`
}

// RegressionResult holds one OLS fit with its HAC slope t-statistic.
// All statistics come from the same fitted model.
type RegressionResult struct {
	DependentVariable string  `json:"dependent_variable"`
	Intercept         float64 `json:"intercept"`
	Slope             float64 `json:"slope"`
	RSquared          float64 `json:"r_squared"`
	Correlation       float64 `json:"correlation"`
	HACTStat          float64 `json:"hac_tstat"`
	Lag               int     `json:"lag"`
	N                 int     `json:"n"`
}

// BinRecord is one quantile bin of a binscatter summary.
type BinRecord struct {
	Which string  `json:"which"`
	XMean float64 `json:"x_mean"`
	YMean float64 `json:"y_mean"`
	N     int     `json:"n"`
	YStd  float64 `json:"y_std"`
	YSE   float64 `json:"y_se"`
}

// StationarityResult holds ADF and KPSS test outcomes for one variable.
type StationarityResult struct {
	Variable        string  `json:"variable"`
	ADFStat         float64 `json:"adf_stat"`
	ADFPValue       float64 `json:"adf_pvalue"`
	ADFCritical1Pct float64 `json:"adf_critical_1pct"`
	ADFCritical5Pct float64 `json:"adf_critical_5pct"`
	KPSSStat        float64 `json:"kpss_stat"`
	KPSSPValue      float64 `json:"kpss_pvalue"`
	KPSSCritical5   float64 `json:"kpss_critical_5pct"`
	IsStationary    bool    `json:"is_stationary"`
}

// AnalysisResult is the complete output of one pipeline run.
type AnalysisResult struct {
	Rows         []AnalysisRow                 `json:"rows"`
	Regressions  map[string]RegressionResult   `json:"regressions"`
	Bins         map[string][]BinRecord        `json:"bins"`
	Stationarity map[string]StationarityResult `json:"stationarity"`
	Metadata     map[string]*SeriesMeta        `json:"metadata,omitempty"`
}

// RunSummary is the machine-readable digest published after a run.
type RunSummary struct {
	Environment string             `json:"environment"`
	StartedAt   time.Time          `json:"started_at"`
	FinishedAt  time.Time          `json:"finished_at"`
	Rows        int                `json:"rows"`
	FirstDate   time.Time          `json:"first_date"`
	LastDate    time.Time          `json:"last_date"`
	Regressions []RegressionResult `json:"regressions"`
	Annotations map[string]string  `json:"annotations"`
}
