package analysis

import (
	"math"
	"sort"

	"solar_eda/internal/models"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultHistogramBins matches the dashboard's histogram resolution.
const DefaultHistogramBins = 30

// HistogramColumns are binned for the distribution plots.
var HistogramColumns = []models.Column{models.GHI, models.DNI, models.DHI, models.WS}

// Aggregate derives the plot-ready series from a cleaned dataset.
func Aggregate(ds models.Dataset, bins int) models.Aggregates {
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	agg := models.Aggregates{
		TimeSeries: make([]models.SeriesPoint, 0, ds.Len()),
	}
	for _, r := range ds.Records {
		agg.TimeSeries = append(agg.TimeSeries, models.SeriesPoint{
			Timestamp: r.Timestamp,
			GHI:       models.Num(r.Get(models.GHI)),
			DNI:       models.Num(r.Get(models.DNI)),
			DHI:       models.Num(r.Get(models.DHI)),
		})
		if both(r, models.WD, models.WS) {
			agg.Wind = append(agg.Wind, models.WindPoint{
				Direction: r.Get(models.WD) * math.Pi / 180,
				Speed:     r.Get(models.WS),
			})
		}
		if both(r, models.RH, models.Tamb) {
			agg.RHvsTamb = append(agg.RHvsTamb, models.Pair{X: r.Get(models.RH), Y: r.Get(models.Tamb)})
		}
		if both(r, models.RH, models.GHI) {
			agg.RHvsGHI = append(agg.RHvsGHI, models.Pair{X: r.Get(models.RH), Y: r.Get(models.GHI)})
		}
		if both(r, models.GHI, models.Tamb) && !r.IsMissing(models.RH) {
			agg.Bubbles = append(agg.Bubbles, models.Bubble{
				X:    r.Get(models.GHI),
				Y:    r.Get(models.Tamb),
				Size: r.Get(models.RH),
				Hue:  models.Num(r.Get(models.BP)),
			})
		}
	}
	for _, c := range HistogramColumns {
		if ds.Columns.Has(c) {
			agg.Histograms = append(agg.Histograms, Histogram(c, ds.Column(c), bins))
		}
	}
	return agg
}

// Histogram counts the finite values of xs into bins equal-width bins
// spanning their range. The last edge is nudged up so the maximum is counted.
func Histogram(c models.Column, xs []float64, bins int) models.Histogram {
	h := models.Histogram{Column: c}
	p := finite(xs)
	if len(p) == 0 || bins <= 0 {
		return h
	}
	sort.Float64s(p)
	lo, hi := p[0], p[len(p)-1]
	if lo == hi {
		hi = lo + 1
	}
	h.Edges = make([]float64, bins+1)
	floats.Span(h.Edges, lo, hi)
	h.Edges[bins] = math.Nextafter(hi, math.Inf(1))
	h.Counts = stat.Histogram(nil, h.Edges, p, nil)
	return h
}

func both(r models.Record, a, b models.Column) bool {
	return !r.IsMissing(a) && !r.IsMissing(b)
}

func finite(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			out = append(out, x)
		}
	}
	return out
}
