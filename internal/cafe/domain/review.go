package domain

import (
	"strings"
	"time"
)

// ReviewStatus is the moderation state of a review.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "PENDING"
	ReviewApproved ReviewStatus = "APPROVED"
	ReviewRejected ReviewStatus = "REJECTED"
)

func ParseReviewStatus(value string) (ReviewStatus, error) {
	switch s := ReviewStatus(strings.ToUpper(strings.TrimSpace(value))); s {
	case ReviewPending, ReviewApproved, ReviewRejected:
		return s, nil
	}
	return "", Validationf("invalid review status %q", value)
}

const (
	MaxReviewTextRunes = 2000
	MaxReviewPhotos    = 10
)

// ReviewContent holds the author-editable part of a review.
type ReviewContent struct {
	Overall    Score
	Coffee     *Score
	Taste      *Score
	Ambiance   *Score
	Service    *Score
	Value      *Score
	Text       string
	TasteNotes TagList
	Photos     URLList
}

// Moderation is the audit trail of the latest admin decision.
type Moderation struct {
	AdminID    string
	AdminNotes string
	ReviewedAt *time.Time
}

type Review struct {
	ID       string
	CafeID   string
	UserID   string
	Username string
	ReviewContent
	Status       ReviewStatus
	Moderation   Moderation
	Likes        int
	HelpfulVotes int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewReview creates a review awaiting moderation with zeroed counters.
func NewReview(cafeID string, author Principal, content ReviewContent, now time.Time) Review {
	return Review{
		CafeID:        cafeID,
		UserID:        author.ID,
		Username:      author.Username,
		ReviewContent: content,
		Status:        ReviewPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (r Review) IsApproved() bool {
	return r.Status == ReviewApproved
}

// Decide applies an admin decision and reports whether the approved set of the
// cafe changed membership, i.e. whether ratings must be recomputed.
// Re-deciding an already decided review is an admin override and overwrites the audit fields.
func (r *Review) Decide(decision Decision, adminID, notes string, now time.Time) (bool, error) {
	previous := r.Status
	switch decision {
	case DecisionApproved:
		r.Status = ReviewApproved
	case DecisionRejected:
		r.Status = ReviewRejected
	default:
		return false, Validationf("decision must be APPROVED or REJECTED")
	}
	r.Moderation = Moderation{
		AdminID:    adminID,
		AdminNotes: strings.TrimSpace(notes),
		ReviewedAt: &now,
	}
	r.UpdatedAt = now
	return previous == ReviewApproved || r.Status == ReviewApproved, nil
}

// CanBeEditedBy reports whether p may change the content of r.
func (r Review) CanBeEditedBy(p Principal) bool {
	return p.ID != "" && p.ID == r.UserID
}

// CanBeDeletedBy reports whether p may delete r.
func (r Review) CanBeDeletedBy(p Principal) bool {
	return r.CanBeEditedBy(p) || p.Has(RoleAdmin)
}
