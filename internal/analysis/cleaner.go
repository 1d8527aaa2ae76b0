package analysis

import (
	"fmt"

	"solar_eda/internal/models"
)

// Cleaner applies the deterministic corrections to a validated dataset.
type Cleaner struct {
	policy models.NegativePolicy
}

func NewCleaner(policy models.NegativePolicy) *Cleaner {
	if policy == "" {
		policy = models.PolicyDrop
	}
	return &Cleaner{policy: policy}
}

func (c *Cleaner) Policy() models.NegativePolicy { return c.policy }

// Clean returns a corrected copy of ds and what changed. Steps, in order:
// RH is clipped into [0,100] (missing stays missing), then rows with a
// negative irradiance or wind value are handled per policy. The Cleaning
// column is never modified and rows flagged 1 are never dropped.
//
// ds must carry RH, Cleaning and every models.NonNegativeColumns column;
// Validate with the default schema guarantees that. Clean panics otherwise.
func (c *Cleaner) Clean(ds models.Dataset) (models.Dataset, models.CleanSummary) {
	mustHave(ds, models.RH, models.Cleaning)
	mustHave(ds, models.NonNegativeColumns...)

	out, low, high := ClipRH(ds)
	summary := models.CleanSummary{
		Policy:        c.policy,
		RowsIn:        ds.Len(),
		RHClippedLow:  low,
		RHClippedHigh: high,
	}

	kept := out.Records[:0]
	for _, r := range out.Records {
		neg := negativeColumns(r)
		if len(neg) == 0 {
			kept = append(kept, r)
			continue
		}
		switch c.policy {
		case models.PolicyClip:
			for _, col := range neg {
				r.Set(col, 0)
			}
			summary.NegativesClipped += len(neg)
		case models.PolicyFlag:
			r.Outlier = true
			summary.RowsFlagged++
		default:
			if !isCleaningEvent(r) {
				summary.RowsDropped++
				continue
			}
			r.Outlier = true
			summary.RowsFlagged++
			summary.ProtectedRows++
		}
		kept = append(kept, r)
	}
	out.Records = kept
	summary.RowsOut = out.Len()
	return out, summary
}

// ClipRH returns a copy of ds with every present RH value clipped into
// [RHMin, RHMax] and how many values were raised and lowered. Applying it
// twice gives the same dataset as applying it once.
func ClipRH(ds models.Dataset) (out models.Dataset, low, high int) {
	out = ds.Clone()
	for i := range out.Records {
		r := &out.Records[i]
		if r.IsMissing(models.RH) {
			continue
		}
		switch v := r.Get(models.RH); {
		case v < RHMin:
			r.Set(models.RH, RHMin)
			low++
		case v > RHMax:
			r.Set(models.RH, RHMax)
			high++
		}
	}
	return out, low, high
}

func negativeColumns(r models.Record) []models.Column {
	var out []models.Column
	for _, c := range models.NonNegativeColumns {
		if !r.IsMissing(c) && r.Get(c) < 0 {
			out = append(out, c)
		}
	}
	return out
}

func isCleaningEvent(r models.Record) bool {
	return r.Get(models.Cleaning) == 1
}

func mustHave(ds models.Dataset, cols ...models.Column) {
	if missing := ds.Columns.Missing(cols); len(missing) > 0 {
		panic(fmt.Sprintf("analysis: Clean called without column %s", missing[0]))
	}
}
