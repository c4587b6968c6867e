// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Service errors
var (
	ErrPokemonNotFound = errors.New("pokemon not found")
)

// Service handles catalog reads
type Service struct {
	db *gorm.DB
}

// NewService creates a new catalog service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Get returns a single catalog entry by pokedex number
func (s *Service) Get(ctx context.Context, id uint) (*Pokemon, error) {
	var p Pokemon
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPokemonNotFound
		}
		return nil, fmt.Errorf("failed to get pokemon: %w", err)
	}
	return &p, nil
}

// GetByIDs returns the catalog entries for the given pokedex numbers,
// keyed by ID. Missing IDs are simply absent from the result.
func (s *Service) GetByIDs(ctx context.Context, ids []uint) (map[uint]*Pokemon, error) {
	result := make(map[uint]*Pokemon, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []Pokemon
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get pokemon by ids: %w", err)
	}

	for i := range rows {
		result[rows[i].ID] = &rows[i]
	}
	return result, nil
}

// ListRandom returns a random selection from the catalog for the storefront page
func (s *Service) ListRandom(ctx context.Context, limit int) ([]Pokemon, error) {
	if limit <= 0 || limit > 50 {
		limit = 12
	}

	var rows []Pokemon
	if err := s.db.WithContext(ctx).Order("RANDOM()").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list pokemon: %w", err)
	}
	return rows, nil
}
