package domain

import "time"

// KYCStatus follows the same one-way review state machine as funding
// requests: PENDING -> APPROVED | REJECTED, both terminal.
type KYCStatus string

const (
	KYCStatusPending  KYCStatus = "PENDING"
	KYCStatusApproved KYCStatus = "APPROVED"
	KYCStatusRejected KYCStatus = "REJECTED"
)

// KYCProfile is a client's identity-verification record awaiting review.
type KYCProfile struct {
	ID              string
	UserID          string
	DocumentType    string
	DocumentRef     string
	Status          KYCStatus
	VerifiedBy      string
	RejectionReason string
	CreatedAt       time.Time
	VerifiedAt      *time.Time
}

// IsPending reports whether the profile is still reviewable.
func (k *KYCProfile) IsPending() bool {
	return k.Status == KYCStatusPending
}
