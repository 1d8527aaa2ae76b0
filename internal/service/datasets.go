package service

import (
	"context"

	"solar_eda/internal/dataset"
)

type DatasetService struct {
	catalog Catalog
}

func NewDatasetService(catalog Catalog) *DatasetService {
	return &DatasetService{catalog: catalog}
}

func (s *DatasetService) List(ctx context.Context) []dataset.Entry {
	return s.catalog.List(ctx)
}
