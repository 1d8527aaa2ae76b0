package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"solar_eda"
	"solar_eda/internal/repository"
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")
	ErrRunNotFound      = repository.ErrRunNotFound
)

type RunLogService struct {
	runRepo repository.RunRepo
}

func NewRunLogService(runRepo repository.RunRepo) *RunLogService {
	return &RunLogService{runRepo: runRepo}
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f RunFilter) (RunFilter, error) {
	out := RunFilter{
		From: normalizeToUTC(f.From),
		To:   normalizeToUTC(f.To),
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return RunFilter{}, ErrInvalidTimeRange
	}
	out.Dataset = strings.TrimSpace(f.Dataset)
	return out, nil
}

func (s *RunLogService) List(ctx context.Context, f RunFilter) ([]solar_eda.Run, error) {
	nf, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.runRepo.List(ctx, nf.From, nf.To, nf.Dataset)
}

func (s *RunLogService) Get(ctx context.Context, id string) (solar_eda.Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return solar_eda.Run{}, ErrRunNotFound
	}
	return s.runRepo.Get(ctx, id)
}

func (s *RunLogService) Latest(ctx context.Context) (solar_eda.Run, error) {
	return s.runRepo.Latest(ctx)
}
