package verification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrRequestNotFound = errors.New("verification request not found")

// Repository defines the verification data access interface
type Repository interface {
	Create(ctx context.Context, req *VerificationRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*VerificationRequest, error)
	GetLatestByUser(ctx context.Context, userID uuid.UUID) (*VerificationRequest, error)
	ListPending(ctx context.Context, limit int) ([]VerificationRequest, error)
	Update(ctx context.Context, req *VerificationRequest) error
	IsUserVerified(ctx context.Context, userID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new verification repository instance
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req *VerificationRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("failed to create verification request: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*VerificationRequest, error) {
	var req VerificationRequest
	err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get verification request: %w", err)
	}
	return &req, nil
}

func (r *repository) GetLatestByUser(ctx context.Context, userID uuid.UUID) (*VerificationRequest, error) {
	var req VerificationRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get verification request: %w", err)
	}
	return &req, nil
}

func (r *repository) ListPending(ctx context.Context, limit int) ([]VerificationRequest, error) {
	var requests []VerificationRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending verification requests: %w", err)
	}
	return requests, nil
}

func (r *repository) Update(ctx context.Context, req *VerificationRequest) error {
	if err := r.db.WithContext(ctx).Save(req).Error; err != nil {
		return fmt.Errorf("failed to update verification request: %w", err)
	}
	return nil
}

func (r *repository) IsUserVerified(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&VerificationRequest{}).
		Where("user_id = ? AND status = ?", userID, StatusApproved).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check verification status: %w", err)
	}
	return count > 0, nil
}
