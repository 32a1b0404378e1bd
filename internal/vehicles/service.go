package vehicles

import (
	"context"
	"errors"

	"motoshare/internal/shared/constants"
	"motoshare/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotOwner = errors.New("vehicle belongs to another owner")

// Service interface defines the contract for vehicle listing logic
type Service interface {
	Register(ctx context.Context, ownerID uuid.UUID, req RegisterVehicleRequest) (*Vehicle, error)
	GetVehicle(ctx context.Context, id uuid.UUID) (*Vehicle, error)
	ListVehicles(ctx context.Context, vehicleType string, page, limit int) ([]Vehicle, int64, error)
	ListMyVehicles(ctx context.Context, ownerID uuid.UUID) ([]Vehicle, error)
	SetListed(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, listed bool) (*Vehicle, error)
}

type service struct {
	repo  Repository
	cache cache.Service
}

// NewService creates a new vehicle service instance
func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{repo: repo, cache: cacheService}
}

func (s *service) Register(ctx context.Context, ownerID uuid.UUID, req RegisterVehicleRequest) (*Vehicle, error) {
	vehicle := &Vehicle{
		OwnerID:       ownerID,
		Type:          req.Type,
		Make:          req.Make,
		Model:         req.Model,
		PricePerDay:   req.PricePerDay,
		DepositAmount: req.DepositAmount,
		Listed:        true,
	}
	if err := s.repo.Create(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (s *service) GetVehicle(ctx context.Context, id uuid.UUID) (*Vehicle, error) {
	var vehicle Vehicle
	err := s.cache.GetOrSet(ctx, constants.VehicleDetailKey(id.String()), constants.TTL_VEHICLE_DETAIL,
		func() (interface{}, error) {
			v, err := s.repo.GetByID(ctx, id)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrVehicleNotFound
			}
			return v, err
		}, &vehicle)
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (s *service) ListVehicles(ctx context.Context, vehicleType string, page, limit int) ([]Vehicle, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListListed(ctx, vehicleType, page, limit)
}

func (s *service) ListMyVehicles(ctx context.Context, ownerID uuid.UUID) ([]Vehicle, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *service) SetListed(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, listed bool) (*Vehicle, error) {
	vehicle, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	if vehicle.OwnerID != ownerID {
		return nil, ErrNotOwner
	}

	vehicle.Listed = listed
	if err := s.repo.Update(ctx, vehicle); err != nil {
		return nil, err
	}

	// Drop the cached snapshot so the listing flip is visible right away.
	_ = s.cache.Delete(ctx, constants.VehicleDetailKey(id.String()))
	return vehicle, nil
}
