package analysis

import (
	"math"
	"sort"

	"MacroPull/internal/domain/models"
)

// Dickey-Fuller asymptotic distribution for the constant-only case,
// tabulated as (p-value, statistic) pairs. The ADF p-value is linearly
// interpolated from this table.
var adfTable = []struct {
	p    float64
	stat float64
}{
	{0.01, -3.43},
	{0.025, -3.12},
	{0.05, -2.86},
	{0.10, -2.57},
	{0.50, -1.55},
	{0.90, -0.44},
	{0.95, -0.07},
	{0.975, 0.23},
	{0.99, 0.60},
}

// KPSS asymptotic critical values for the level-stationary case,
// tabulated as (p-value, statistic) pairs with the statistic rising as
// the p-value falls.
var kpssTable = []struct {
	p    float64
	stat float64
}{
	{0.10, 0.347},
	{0.05, 0.463},
	{0.025, 0.574},
	{0.01, 0.739},
}

// TestStationarity runs the ADF and KPSS tests on one variable. The
// variable is judged stationary when ADF rejects a unit root (p < 0.05)
// and KPSS fails to reject stationarity (p > 0.05).
func TestStationarity(variable string, values []float64, maxLags int) (*models.StationarityResult, error) {
	adfStat, adfP, err := adfTest(values, maxLags)
	if err != nil {
		return nil, err
	}
	kpssStat, kpssP, err := kpssTest(values)
	if err != nil {
		return nil, err
	}
	return &models.StationarityResult{
		Variable:        variable,
		ADFStat:         adfStat,
		ADFPValue:       adfP,
		ADFCritical1Pct: -3.43,
		ADFCritical5Pct: -2.86,
		KPSSStat:        kpssStat,
		KPSSPValue:      kpssP,
		KPSSCritical5:   0.463,
		IsStationary:    adfP < 0.05 && kpssP > 0.05,
	}, nil
}

// adfTest runs the Augmented Dickey-Fuller test with a constant term.
// The lag order is chosen by minimizing AIC over 0..maxLags, with all
// candidate fits evaluated on the same sample so the criteria are
// comparable. The reported statistic is the t-ratio on the lagged
// level in the refit at the chosen order.
func adfTest(y []float64, maxLags int) (stat, pvalue float64, err error) {
	n := len(y)
	if maxLags < 0 {
		maxLags = int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	}
	// Leave enough observations for the largest candidate model.
	if limit := (n - 1) / 3; maxLags > limit {
		maxLags = limit
	}
	if maxLags < 0 {
		maxLags = 0
	}
	if n < maxLags+10 && maxLags > 0 {
		maxLags = max(0, n-10)
	}

	dy := make([]float64, n-1)
	for i := 1; i < n; i++ {
		dy[i-1] = y[i] - y[i-1]
	}
	if len(dy) <= maxLags+2 {
		return 0, 0, &InsufficientDataError{Dependent: "adf", N: n, Reason: "series too short for unit root test"}
	}

	bestLag := 0
	bestAIC := math.Inf(1)
	for p := 0; p <= maxLags; p++ {
		aic, _, ok := adfFit(y, dy, p, maxLags)
		if !ok {
			continue
		}
		if aic < bestAIC {
			bestAIC = aic
			bestLag = p
		}
	}

	_, tstat, ok := adfFit(y, dy, bestLag, bestLag)
	if !ok {
		return 0, 0, &InsufficientDataError{Dependent: "adf", N: n, Reason: "singular design in unit root regression"}
	}
	return tstat, interpolatePValue(adfTable, tstat), nil
}

// adfFit regresses dy_t on y_{t-1}, p lagged differences, and a
// constant, using observations from startLag onward. Returns the AIC
// and the t-ratio on the lagged level.
func adfFit(y, dy []float64, p, startLag int) (aic, tstat float64, ok bool) {
	nobs := len(dy) - startLag
	k := p + 2
	if nobs <= k {
		return 0, 0, false
	}

	design := make([][]float64, nobs)
	target := make([]float64, nobs)
	for i := 0; i < nobs; i++ {
		t := startLag + i
		row := make([]float64, k)
		row[0] = y[t]
		for j := 1; j <= p; j++ {
			row[j] = dy[t-j]
		}
		row[k-1] = 1
		design[i] = row
		target[i] = dy[t]
	}

	coef, covDiag, ssr, ok := solveOLS(design, target)
	if !ok {
		return 0, 0, false
	}

	fn := float64(nobs)
	sigma2 := ssr / (fn - float64(k))
	if sigma2 <= 0 || covDiag[0] <= 0 {
		return 0, 0, false
	}
	tstat = coef[0] / math.Sqrt(sigma2*covDiag[0])
	aic = fn*math.Log(ssr/fn) + 2*float64(k)
	return aic, tstat, true
}

// kpssTest runs the KPSS level-stationarity test with a Bartlett
// long-run variance estimate at the legacy lag truncation
// int(4*(n/100)^(1/4)).
func kpssTest(y []float64) (stat, pvalue float64, err error) {
	n := len(y)
	if n < 8 {
		return 0, 0, &InsufficientDataError{Dependent: "kpss", N: n, Reason: "series too short for stationarity test"}
	}

	m := mean(y)
	resid := make([]float64, n)
	for i, v := range y {
		resid[i] = v - m
	}

	// Cumulative partial sums of the demeaned series.
	sum := 0.0
	var eta float64
	for _, e := range resid {
		sum += e
		eta += sum * sum
	}
	eta /= float64(n) * float64(n)

	nlags := int(4 * math.Pow(float64(n)/100, 0.25))
	if nlags >= n {
		nlags = n - 1
	}
	lrv := 0.0
	for _, e := range resid {
		lrv += e * e
	}
	lrv /= float64(n)
	for l := 1; l <= nlags; l++ {
		var acov float64
		for t := l; t < n; t++ {
			acov += resid[t] * resid[t-l]
		}
		acov /= float64(n)
		w := 1 - float64(l)/float64(nlags+1)
		lrv += 2 * w * acov
	}
	if lrv <= 0 {
		return 0, 0, &InsufficientDataError{Dependent: "kpss", N: n, Reason: "degenerate long-run variance"}
	}

	stat = eta / lrv
	return stat, interpolatePValue(kpssTable, stat), nil
}

// interpolatePValue maps a test statistic to a p-value by linear
// interpolation over a (p, stat) table sorted by statistic. Statistics
// outside the table are clamped to its end points.
func interpolatePValue(table []struct{ p, stat float64 }, stat float64) float64 {
	stats := make([]float64, len(table))
	ps := make([]float64, len(table))
	for i, row := range table {
		stats[i] = row.stat
		ps[i] = row.p
	}
	i := sort.SearchFloat64s(stats, stat)
	if i == 0 {
		return ps[0]
	}
	if i == len(stats) {
		return ps[len(ps)-1]
	}
	frac := (stat - stats[i-1]) / (stats[i] - stats[i-1])
	return ps[i-1] + frac*(ps[i]-ps[i-1])
}

// solveOLS solves the least-squares problem via the normal equations
// with Gauss-Jordan elimination, returning the coefficients, the
// diagonal of inv(X'X), and the residual sum of squares.
func solveOLS(design [][]float64, target []float64) (coef, covDiag []float64, ssr float64, ok bool) {
	n := len(design)
	if n == 0 {
		return nil, nil, 0, false
	}
	k := len(design[0])

	// Augmented system [X'X | X'y | I].
	aug := make([][]float64, k)
	for i := 0; i < k; i++ {
		aug[i] = make([]float64, 2*k+1)
		for j := 0; j < k; j++ {
			var s float64
			for t := 0; t < n; t++ {
				s += design[t][i] * design[t][j]
			}
			aug[i][j] = s
		}
		var s float64
		for t := 0; t < n; t++ {
			s += design[t][i] * target[t]
		}
		aug[i][k] = s
		aug[i][k+1+i] = 1
	}

	for col := 0; col < k; col++ {
		pivot := col
		for r := col + 1; r < k; r++ {
			if math.Abs(aug[r][col]) > math.Abs(aug[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(aug[pivot][col]) < 1e-12 {
			return nil, nil, 0, false
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]
		pv := aug[col][col]
		for j := 0; j < 2*k+1; j++ {
			aug[col][j] /= pv
		}
		for r := 0; r < k; r++ {
			if r == col {
				continue
			}
			f := aug[r][col]
			if f == 0 {
				continue
			}
			for j := 0; j < 2*k+1; j++ {
				aug[r][j] -= f * aug[col][j]
			}
		}
	}

	coef = make([]float64, k)
	covDiag = make([]float64, k)
	for i := 0; i < k; i++ {
		coef[i] = aug[i][k]
		covDiag[i] = aug[i][k+1+i]
	}

	for t := 0; t < n; t++ {
		pred := 0.0
		for j := 0; j < k; j++ {
			pred += design[t][j] * coef[j]
		}
		d := target[t] - pred
		ssr += d * d
	}
	return coef, covDiag, ssr, true
}
