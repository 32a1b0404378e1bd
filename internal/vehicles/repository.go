package vehicles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrVehicleNotFound = errors.New("vehicle not found")

type Repository interface {
	Create(ctx context.Context, vehicle *Vehicle) error
	GetByID(ctx context.Context, id uuid.UUID) (*Vehicle, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Vehicle, error)
	ListListed(ctx context.Context, vehicleType string, page, limit int) ([]Vehicle, int64, error)
	Update(ctx context.Context, vehicle *Vehicle) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, vehicle *Vehicle) error {
	if err := r.db.WithContext(ctx).Create(vehicle).Error; err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Vehicle, error) {
	var vehicle Vehicle
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&vehicle).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Vehicle, error) {
	var list []Vehicle
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) ListListed(ctx context.Context, vehicleType string, page, limit int) ([]Vehicle, int64, error) {
	query := r.db.WithContext(ctx).Model(&Vehicle{}).Where("listed = ?", true)
	if vehicleType != "" {
		query = query.Where("type = ?", vehicleType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count vehicles: %w", err)
	}

	var list []Vehicle
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list vehicles: %w", err)
	}
	return list, total, nil
}

func (r *repository) Update(ctx context.Context, vehicle *Vehicle) error {
	if err := r.db.WithContext(ctx).Save(vehicle).Error; err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}
	return nil
}
