package analysis

import (
	"math"

	"solar_eda/internal/models"
)

// Bounds of relative humidity, in percent.
const (
	RHMin = 0.0
	RHMax = 100.0
)

// Validator inspects a dataset and reports its data-quality problems.
type Validator struct {
	required []models.Column
}

// NewValidator requires the given columns, or models.RequiredColumns when none are given.
func NewValidator(required ...models.Column) *Validator {
	if len(required) == 0 {
		required = models.RequiredColumns
	}
	return &Validator{required: required}
}

// Validate builds a QualityReport for ds. It never modifies ds.
func (v *Validator) Validate(ds models.Dataset) (models.QualityReport, error) {
	if missing := ds.Columns.Missing(v.required); len(missing) > 0 {
		return models.QualityReport{}, schemaMismatch("validate", missing)
	}

	report := models.QualityReport{Rows: ds.Len()}
	for _, c := range models.AllColumns {
		if !ds.Columns.Has(c) {
			continue
		}
		values := ds.Column(c)
		report.Columns = append(report.Columns, checkColumn(c, values))
		report.Describe = append(report.Describe, Describe(c, values))
	}
	report.Correlation = correlationMatrix(ds, presentOf(ds, models.CorrelationColumns))
	report.ZScores = zScoreTable(ds, presentOf(ds, models.MonitoredColumns))
	return report, nil
}

func checkColumn(c models.Column, values []float64) models.ColumnQuality {
	q := models.ColumnQuality{Column: c}
	negatives := isMonitored(c)
	for _, x := range values {
		if math.IsNaN(x) {
			q.Missing++
			continue
		}
		if negatives && x < 0 {
			q.Negative++
		}
		if c == models.RH && (x < RHMin || x > RHMax) {
			q.OutOfRange++
		}
	}
	return q
}

func isMonitored(c models.Column) bool {
	for _, m := range models.MonitoredColumns {
		if m == c {
			return true
		}
	}
	return false
}

func presentOf(ds models.Dataset, cols []models.Column) []models.Column {
	out := make([]models.Column, 0, len(cols))
	for _, c := range cols {
		if ds.Columns.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

func correlationMatrix(ds models.Dataset, cols []models.Column) models.CorrelationMatrix {
	data := make([][]float64, len(cols))
	for i, c := range cols {
		data[i] = ds.Column(c)
	}
	m := models.CorrelationMatrix{Columns: cols, Values: make([][]models.Num, len(cols))}
	for i := range cols {
		m.Values[i] = make([]models.Num, len(cols))
	}
	for i := range cols {
		for j := i; j < len(cols); j++ {
			r := models.Num(Pearson(data[i], data[j]))
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

func zScoreTable(ds models.Dataset, cols []models.Column) models.ZScoreTable {
	t := models.ZScoreTable{
		Columns: cols,
		Mean:    make([]models.Num, len(cols)),
		Std:     make([]models.Num, len(cols)),
		Rows:    make([][]models.Num, ds.Len()),
	}
	for i := range t.Rows {
		t.Rows[i] = make([]models.Num, len(cols))
	}
	for k, c := range cols {
		scores, mean, std := ZScores(ds.Column(c))
		t.Mean[k] = models.Num(mean)
		t.Std[k] = models.Num(std)
		for i, z := range scores {
			t.Rows[i][k] = models.Num(z)
		}
	}
	return t
}
