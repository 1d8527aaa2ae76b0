package analysis

import (
	"math"
	"sort"

	"solar_eda/internal/models"

	"gonum.org/v1/gonum/stat"
)

var nan = math.NaN()

// present returns the non-missing values of xs.
func present(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

// meanStd is the sample mean and sample standard deviation over the present
// values. The deviation is undefined below two observations.
func meanStd(xs []float64) (mean, std float64) {
	p := present(xs)
	switch len(p) {
	case 0:
		return nan, nan
	case 1:
		return p[0], nan
	}
	return stat.MeanStdDev(p, nil)
}

// ZScores standardizes xs with its sample mean and deviation. Missing inputs
// stay missing; when the deviation is undefined or zero every score is missing.
func ZScores(xs []float64) (scores []float64, mean, std float64) {
	mean, std = meanStd(xs)
	scores = make([]float64, len(xs))
	defined := !math.IsNaN(std) && std > 0
	for i, x := range xs {
		if !defined || math.IsNaN(x) {
			scores[i] = nan
			continue
		}
		scores[i] = (x - mean) / std
	}
	return scores, mean, std
}

// Pearson correlates x and y over the rows where both are present.
func Pearson(x, y []float64) float64 {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if i >= len(y) {
			break
		}
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return nan
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsInf(r, 0) {
		return nan
	}
	return r
}

// Describe summarizes the present values of one column.
func Describe(c models.Column, xs []float64) models.Summary {
	p := present(xs)
	s := models.Summary{Column: c, Count: len(p)}
	if len(p) == 0 {
		s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max = mNaN, mNaN, mNaN, mNaN, mNaN, mNaN, mNaN
		return s
	}
	sort.Float64s(p)
	mean, std := meanStd(p)
	s.Mean = models.Num(mean)
	s.Std = models.Num(std)
	s.Min = models.Num(p[0])
	s.Max = models.Num(p[len(p)-1])
	s.Q25 = models.Num(stat.Quantile(0.25, stat.LinInterp, p, nil))
	s.Median = models.Num(stat.Quantile(0.5, stat.LinInterp, p, nil))
	s.Q75 = models.Num(stat.Quantile(0.75, stat.LinInterp, p, nil))
	return s
}

var mNaN = models.Num(nan)
