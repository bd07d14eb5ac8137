package service

import (
	"context"
	"fmt"

	"github.com/pkordes/places-api/internal/domain"
)

// Export returns one flat row per place, newest first.
func (s *PlaceService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	places, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.PlaceService.Export: %w", err)
	}

	rows := make([]domain.ExportRow, 0, len(places))
	for _, p := range places {
		rows = append(rows, domain.NewExportRow(p))
	}
	return rows, nil
}
