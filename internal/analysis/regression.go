package analysis

import (
	"math"

	"MacroPull/internal/domain/models"
)

// FitOLSHAC fits a simple linear regression of y on x and computes the
// Newey-West HAC t-statistic for the slope with Bartlett-kernel weights
// truncated at lag. Lag 0 reduces to the heteroskedasticity-only
// (White) variance. All reported statistics come from this single fit.
func FitOLSHAC(x, y []float64, lag int, dependent string) (*models.RegressionResult, error) {
	n := len(x)
	if n != len(y) {
		return nil, &InsufficientDataError{Dependent: dependent, N: n, Reason: "x and y lengths differ"}
	}
	if n < 2 {
		return nil, &InsufficientDataError{Dependent: dependent, N: n, Reason: "need at least 2 observations"}
	}
	if lag < 0 {
		lag = 0
	}

	meanX := mean(x)
	meanY := mean(y)

	var sxx, syy, sxy float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}
	if sxx == 0 {
		return nil, &InsufficientDataError{Dependent: dependent, N: n, Reason: "regressor has zero variance"}
	}

	slope := sxy / sxx
	intercept := meanY - slope*meanX

	// Residuals and goodness of fit.
	resid := make([]float64, n)
	var ssr float64
	for i := 0; i < n; i++ {
		resid[i] = y[i] - (intercept + slope*x[i])
		ssr += resid[i] * resid[i]
	}

	rSquared := 0.0
	correlation := 0.0
	if syy > 0 {
		rSquared = 1 - ssr/syy
		correlation = sxy / math.Sqrt(sxx*syy)
	}

	tstat := hacTStat(x, resid, slope, lag, n)

	return &models.RegressionResult{
		DependentVariable: dependent,
		Intercept:         intercept,
		Slope:             slope,
		RSquared:          rSquared,
		Correlation:       correlation,
		HACTStat:          tstat,
		Lag:               lag,
		N:                 n,
	}, nil
}

// hacTStat computes slope / sqrt(V[1][1]) where V is the Newey-West
// sandwich covariance of the (intercept, slope) coefficients.
func hacTStat(x, resid []float64, slope float64, lag, n int) float64 {
	// Per-observation scores g_t = X_t * e_t with X_t = [1, x_t].
	g0 := make([]float64, n)
	g1 := make([]float64, n)
	for i := 0; i < n; i++ {
		g0[i] = resid[i]
		g1[i] = x[i] * resid[i]
	}

	// Long-run covariance S = Gamma_0 + sum_l w_l (Gamma_l + Gamma_l^T).
	var s [2][2]float64
	for l := 0; l <= lag; l++ {
		var gamma [2][2]float64
		for t := l; t < n; t++ {
			gamma[0][0] += g0[t] * g0[t-l]
			gamma[0][1] += g0[t] * g1[t-l]
			gamma[1][0] += g1[t] * g0[t-l]
			gamma[1][1] += g1[t] * g1[t-l]
		}
		inv := 1.0 / float64(n)
		w := 1.0 - float64(l)/float64(lag+1)
		if l == 0 {
			for i := 0; i < 2; i++ {
				for j := 0; j < 2; j++ {
					s[i][j] += gamma[i][j] * inv
				}
			}
			continue
		}
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				s[i][j] += w * (gamma[i][j] + gamma[j][i]) * inv
			}
		}
	}

	// Gram matrix X^T X and its inverse.
	var sumX, sumXX float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumXX += x[i] * x[i]
	}
	det := float64(n)*sumXX - sumX*sumX
	if det == 0 {
		return 0
	}
	// inv(XtX) = 1/det * [[sumXX, -sumX], [-sumX, n]]
	inv := [2][2]float64{
		{sumXX / det, -sumX / det},
		{-sumX / det, float64(n) / det},
	}

	// V = inv(XtX) * (n*S) * inv(XtX); only V[1][1] is needed.
	var ns [2][2]float64
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			ns[i][j] = float64(n) * s[i][j]
		}
	}
	var slopeVar float64
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			slopeVar += inv[1][i] * ns[i][j] * inv[j][1]
		}
	}

	if slopeVar <= 0 {
		return 0
	}
	return slope / math.Sqrt(slopeVar)
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	sum := 0.0
	for _, f := range v {
		sum += f
	}
	return sum / float64(len(v))
}
