package analysis

import (
	"context"

	"solar_eda/internal/models"
)

// Result is everything one pipeline run produces for the presentation layer.
type Result struct {
	Name       string               `json:"name"`
	Source     string               `json:"source"`
	Report     models.QualityReport `json:"report"`
	Summary    models.CleanSummary  `json:"summary"`
	Aggregates models.Aggregates    `json:"aggregates"`
	Cleaned    models.Dataset       `json:"-"`
}

// Pipeline runs Loader, Validator and Cleaner in sequence.
type Pipeline struct {
	loader    *Loader
	validator *Validator
	policy    models.NegativePolicy
	bins      int
}

// NewPipeline wires a pipeline over opener. policy is the default applied when
// a run does not choose one.
func NewPipeline(opener Opener, policy models.NegativePolicy, bins int) *Pipeline {
	return &Pipeline{
		loader:    NewLoader(opener),
		validator: NewValidator(),
		policy:    policy,
		bins:      bins,
	}
}

// Run executes one analysis. Any stage failure aborts the run; ctx is checked
// between stages.
func (p *Pipeline) Run(ctx context.Context, in Input, policy models.NegativePolicy) (Result, error) {
	ds, err := p.loader.Load(ctx, in)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	report, err := p.validator.Validate(ds)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if policy == "" {
		policy = p.policy
	}
	cleaned, summary := NewCleaner(policy).Clean(ds)

	return Result{
		Name:       ds.Name,
		Source:     ds.Source,
		Report:     report,
		Summary:    summary,
		Aggregates: Aggregate(cleaned, p.bins),
		Cleaned:    cleaned,
	}, nil
}
