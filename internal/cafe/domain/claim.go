package domain

import (
	"strings"
	"time"
)

// ClaimStatus is the ownership state shown on a cafe.
type ClaimStatus string

const (
	ClaimStatusUnclaimed ClaimStatus = "UNCLAIMED"
	ClaimStatusPending   ClaimStatus = "PENDING"
	ClaimStatusVerified  ClaimStatus = "VERIFIED"
	ClaimStatusRejected  ClaimStatus = "REJECTED"
)

// Ownership groups the cafe fields written by the claim workflow.
type Ownership struct {
	OwnerID       string
	IsClaimed     bool
	ClaimStatus   ClaimStatus
	IsVerified    bool
	ClaimedAt     *time.Time
	BusinessEmail Email
}

// CanClaim reports whether the cafe accepts a claim submission.
// A rejected cafe is claimable again.
func (o Ownership) CanClaim() bool {
	return !o.IsClaimed && o.ClaimStatus != ClaimStatusPending
}

// StatusOrDefault treats an unset status as UNCLAIMED.
func (o Ownership) StatusOrDefault() ClaimStatus {
	if o.ClaimStatus == "" {
		return ClaimStatusUnclaimed
	}
	return o.ClaimStatus
}

// Apply moves the ownership state according to a decided claim.
func (o Ownership) Apply(claim ClaimRequest) Ownership {
	switch claim.Status {
	case ClaimApproved:
		at := claim.SubmittedAt
		if claim.ReviewedAt != nil {
			at = *claim.ReviewedAt
		}
		o.IsClaimed = true
		o.ClaimStatus = ClaimStatusVerified
		o.OwnerID = claim.UserID
		o.ClaimedAt = &at
		o.BusinessEmail = claim.Business.BusinessEmail
		o.IsVerified = true
	case ClaimRejected:
		o.ClaimStatus = ClaimStatusRejected
	case ClaimPending:
		o.ClaimStatus = ClaimStatusPending
	}
	return o
}

// ClaimRequestStatus is the lifecycle state of a single claim.
type ClaimRequestStatus string

const (
	ClaimPending  ClaimRequestStatus = "PENDING"
	ClaimApproved ClaimRequestStatus = "APPROVED"
	ClaimRejected ClaimRequestStatus = "REJECTED"
)

// Decision is an admin verdict on a review or a claim.
type Decision string

const (
	DecisionApproved Decision = "APPROVED"
	DecisionRejected Decision = "REJECTED"
)

func ParseDecision(value string) (Decision, error) {
	switch d := Decision(strings.ToUpper(strings.TrimSpace(value))); d {
	case DecisionApproved, DecisionRejected:
		return d, nil
	}
	return "", Validationf("decision must be APPROVED or REJECTED")
}

const (
	MaxClaimReasonRunes = 500
)

// BusinessInfo is the evidence a claimant provides.
type BusinessInfo struct {
	BusinessEmail Email
	BusinessPhone string
	OwnerName     string
	OwnerTitle    string
	Reason        string
}

func NewBusinessInfo(email, phone, ownerName, ownerTitle, reason string) (BusinessInfo, error) {
	businessEmail, err := RequireEmail("businessEmail", email)
	if err != nil {
		return BusinessInfo{}, err
	}
	businessPhone, err := RequireText("businessPhone", phone, 1, 30)
	if err != nil {
		return BusinessInfo{}, err
	}
	name, err := RequireText("ownerName", ownerName, 2, 100)
	if err != nil {
		return BusinessInfo{}, err
	}
	title, err := RequireText("ownerTitle", ownerTitle, 2, 50)
	if err != nil {
		return BusinessInfo{}, err
	}
	why, err := RequireText("reason", reason, 0, MaxClaimReasonRunes)
	if err != nil {
		return BusinessInfo{}, err
	}
	return BusinessInfo{
		BusinessEmail: businessEmail,
		BusinessPhone: businessPhone,
		OwnerName:     name,
		OwnerTitle:    title,
		Reason:        why,
	}, nil
}

// ClaimRequest is a user's assertion of ownership over a cafe.
type ClaimRequest struct {
	ID          string
	CafeID      string
	UserID      string
	Business    BusinessInfo
	Status      ClaimRequestStatus
	SubmittedAt time.Time
	ReviewedAt  *time.Time
	ReviewedBy  string
	ReviewNotes string
}

func NewClaimRequest(cafeID, userID string, info BusinessInfo, now time.Time) ClaimRequest {
	return ClaimRequest{
		CafeID:      cafeID,
		UserID:      userID,
		Business:    info,
		Status:      ClaimPending,
		SubmittedAt: now,
	}
}

// Decide records the admin verdict. Only pending claims can be decided.
func (c *ClaimRequest) Decide(decision Decision, reviewerID, notes string, now time.Time) error {
	if c.Status != ClaimPending {
		return ErrInvalidTransition
	}
	switch decision {
	case DecisionApproved:
		c.Status = ClaimApproved
	case DecisionRejected:
		c.Status = ClaimRejected
	default:
		return Validationf("decision must be APPROVED or REJECTED")
	}
	c.ReviewedAt = &now
	c.ReviewedBy = reviewerID
	c.ReviewNotes = strings.TrimSpace(notes)
	return nil
}

// CheckClaimEligibility decides whether userID may submit a claim for cafe given
// the claims for that cafe still awaiting review.
func CheckClaimEligibility(cafe Cafe, pending []ClaimRequest, userID string) error {
	if cafe.Ownership.IsClaimed {
		return ErrAlreadyClaimed
	}
	for _, claim := range pending {
		if claim.Status == ClaimPending && claim.UserID == userID {
			return ErrDuplicateClaim
		}
	}
	for _, claim := range pending {
		if claim.Status == ClaimPending {
			return ErrClaimInProgress
		}
	}
	return nil
}
