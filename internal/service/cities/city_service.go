package cities

import (
	"context"

	"github.com/beratbaran/flyticket/internal/domain"
	"github.com/beratbaran/flyticket/internal/repository"
)

type CityUseCase interface {
	Create(ctx context.Context, name string) (*domain.City, error)
	List(ctx context.Context) ([]domain.City, error)
}

type CityService struct {
	cities repository.CityRepository
}

func NewCityService(cities repository.CityRepository) *CityService {
	return &CityService{cities: cities}
}

func (s *CityService) Create(ctx context.Context, name string) (*domain.City, error) {
	if name == "" {
		return nil, domain.NewValidationError("city_name", "is required")
	}
	city := &domain.City{Name: name}
	if err := s.cities.Create(ctx, city); err != nil {
		return nil, err
	}
	return city, nil
}

func (s *CityService) List(ctx context.Context) ([]domain.City, error) {
	return s.cities.List(ctx)
}

var _ CityUseCase = (*CityService)(nil)
