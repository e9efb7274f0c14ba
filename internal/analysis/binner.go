package analysis

import (
	"math"
	"sort"

	"MacroPull/internal/domain/models"
)

// QuantileBin partitions the observations into up to k equal-population
// groups by the regressor and summarizes the response within each group.
// Edges are linearly interpolated quantiles; adjacent equal edges are
// collapsed, so heavy ties in x can produce fewer than k groups.
func QuantileBin(x, y []float64, k int, which string) ([]models.BinRecord, error) {
	n := len(x)
	if n != len(y) {
		return nil, &InsufficientDataError{Dependent: which, N: n, Reason: "x and y lengths differ"}
	}
	if n == 0 {
		return nil, &InsufficientDataError{Dependent: which, N: 0, Reason: "no observations to bin"}
	}
	if k < 1 {
		k = 1
	}

	edges := quantileEdges(x, k)

	sumX := make([]float64, len(edges)-1)
	sumY := make([]float64, len(edges)-1)
	counts := make([]int, len(edges)-1)
	members := make([][]float64, len(edges)-1)

	for i := 0; i < n; i++ {
		b := binIndex(edges, x[i])
		sumX[b] += x[i]
		sumY[b] += y[i]
		counts[b]++
		members[b] = append(members[b], y[i])
	}

	records := make([]models.BinRecord, 0, len(counts))
	for b := range counts {
		if counts[b] == 0 {
			continue
		}
		cnt := float64(counts[b])
		yMean := sumY[b] / cnt

		yStd := 0.0
		if counts[b] > 1 {
			var ss float64
			for _, v := range members[b] {
				d := v - yMean
				ss += d * d
			}
			yStd = math.Sqrt(ss / (cnt - 1))
		}
		records = append(records, models.BinRecord{
			Which: which,
			XMean: sumX[b] / cnt,
			YMean: yMean,
			N:     counts[b],
			YStd:  yStd,
			YSE:   yStd / math.Sqrt(cnt),
		})
	}
	return records, nil
}

// quantileEdges returns the k+1 quantile boundaries of v with duplicate
// adjacent edges removed. Quantiles use linear interpolation at
// position q*(len-1) over the sorted values.
func quantileEdges(v []float64, k int) []float64 {
	sorted := append([]float64(nil), v...)
	sort.Float64s(sorted)

	edges := make([]float64, 0, k+1)
	for i := 0; i <= k; i++ {
		q := float64(i) / float64(k)
		e := quantile(sorted, q)
		if len(edges) == 0 || e != edges[len(edges)-1] {
			edges = append(edges, e)
		}
	}
	if len(edges) == 1 {
		// All values identical: a single degenerate bin.
		edges = append(edges, edges[0])
	}
	return edges
}

// quantile interpolates the q-th quantile of sorted values.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// binIndex returns the index of the group containing value: the largest
// i with edges[i] <= value, clamped to the last group. Values on an
// interior boundary fall in the upper group.
func binIndex(edges []float64, value float64) int {
	last := len(edges) - 2
	i := sort.SearchFloat64s(edges, value)
	if i < len(edges) && edges[i] == value {
		// Exact boundary match: upper group.
		if i > last {
			return last
		}
		return i
	}
	i--
	if i < 0 {
		return 0
	}
	if i > last {
		return last
	}
	return i
}
