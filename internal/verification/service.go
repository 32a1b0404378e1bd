package verification

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyVerified = errors.New("user is already verified")
	ErrAlreadyReviewed = errors.New("verification request already reviewed")
)

// Service interface defines the contract for verification business logic
type Service interface {
	Submit(ctx context.Context, userID uuid.UUID, documentRef string) (*VerificationRequest, error)
	GetMyStatus(ctx context.Context, userID uuid.UUID) (*VerificationRequest, error)
	ListPending(ctx context.Context, limit int) ([]VerificationRequest, error)
	Review(ctx context.Context, requestID uuid.UUID, adminID uuid.UUID, approve bool, note string) (*VerificationRequest, error)
	IsUserVerified(ctx context.Context, userID uuid.UUID) (bool, error)
}

type service struct {
	repo Repository
}

// NewService creates a new verification service instance
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Submit(ctx context.Context, userID uuid.UUID, documentRef string) (*VerificationRequest, error) {
	verified, err := s.repo.IsUserVerified(ctx, userID)
	if err != nil {
		return nil, err
	}
	if verified {
		return nil, ErrAlreadyVerified
	}

	// A still-pending request is returned as-is instead of queuing a
	// duplicate for review.
	if latest, err := s.repo.GetLatestByUser(ctx, userID); err == nil && latest.Status == StatusPending {
		return latest, nil
	}

	req := &VerificationRequest{
		UserID:      userID,
		DocumentRef: documentRef,
		Status:      StatusPending,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) GetMyStatus(ctx context.Context, userID uuid.UUID) (*VerificationRequest, error) {
	return s.repo.GetLatestByUser(ctx, userID)
}

func (s *service) ListPending(ctx context.Context, limit int) ([]VerificationRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListPending(ctx, limit)
}

func (s *service) Review(ctx context.Context, requestID uuid.UUID, adminID uuid.UUID, approve bool, note string) (*VerificationRequest, error) {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.IsReviewed() {
		return nil, ErrAlreadyReviewed
	}

	if approve {
		req.Status = StatusApproved
	} else {
		req.Status = StatusRejected
	}
	req.Note = note
	req.ReviewedBy = &adminID
	now := time.Now().UTC()
	req.ReviewedAt = &now

	if err := s.repo.Update(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) IsUserVerified(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.repo.IsUserVerified(ctx, userID)
}
