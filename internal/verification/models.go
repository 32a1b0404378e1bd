package verification

import (
	"time"

	"github.com/google/uuid"
)

type VerificationStatus string

const (
	StatusPending  VerificationStatus = "PENDING"
	StatusApproved VerificationStatus = "APPROVED"
	StatusRejected VerificationStatus = "REJECTED"
)

// VerificationRequest is a renter's identity check. A user may only book
// once a request of theirs has been approved.
type VerificationRequest struct {
	ID          uuid.UUID          `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	DocumentRef string             `gorm:"type:varchar(255);not null" json:"document_ref"`
	Status      VerificationStatus `gorm:"type:varchar(20);not null;default:'PENDING';check:status IN ('PENDING','APPROVED','REJECTED')" json:"status"`
	Note        string             `gorm:"type:text" json:"note,omitempty"`
	ReviewedBy  *uuid.UUID         `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time         `json:"reviewed_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func (VerificationRequest) TableName() string {
	return "verification_requests"
}

// IsReviewed reports whether an admin has already decided this request.
func (v *VerificationRequest) IsReviewed() bool {
	return v.Status != StatusPending
}
