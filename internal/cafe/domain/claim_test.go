package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ClaimSuite struct {
	suite.Suite
	now  time.Time
	info BusinessInfo
}

func TestClaimSuite(t *testing.T) {
	suite.Run(t, new(ClaimSuite))
}

func (s *ClaimSuite) SetupTest() {
	s.now = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	info, err := NewBusinessInfo("owner@octane.coffee", "404-555-0100", "Tony Riffel", "Owner", "")
	s.Require().NoError(err)
	s.info = info
}

func (s *ClaimSuite) TestBusinessInfoValidation() {
	cases := []struct {
		name                             string
		email, phone, owner, title, why string
	}{
		{"missing email", "", "1", "Tony", "Owner", ""},
		{"bad email", "not-an-email", "1", "Tony", "Owner", ""},
		{"missing phone", "a@b.co", " ", "Tony", "Owner", ""},
		{"owner name too short", "a@b.co", "1", "T", "Owner", ""},
		{"owner name too long", "a@b.co", "1", strings.Repeat("x", 101), "Owner", ""},
		{"owner title too short", "a@b.co", "1", "Tony", "O", ""},
		{"owner title too long", "a@b.co", "1", "Tony", strings.Repeat("x", 51), ""},
		{"reason too long", "a@b.co", "1", "Tony", "Owner", strings.Repeat("x", 501)},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := NewBusinessInfo(tc.email, tc.phone, tc.owner, tc.title, tc.why)
			s.Require().ErrorIs(err, ErrValidation)
		})
	}

	s.Run("reason at the limit is accepted", func() {
		_, err := NewBusinessInfo("a@b.co", "1", "Tony", "Owner", strings.Repeat("x", 500))
		s.NoError(err)
	})
}

func (s *ClaimSuite) TestEligibility() {
	cafe := Cafe{ID: "c1", Ownership: Ownership{ClaimStatus: ClaimStatusUnclaimed}}

	s.Run("claimed cafe rejects submissions", func() {
		claimed := cafe
		claimed.Ownership = Ownership{IsClaimed: true, ClaimStatus: ClaimStatusVerified, OwnerID: "u9"}
		s.Require().ErrorIs(CheckClaimEligibility(claimed, nil, "u1"), ErrAlreadyClaimed)
	})

	s.Run("same user with a pending claim is a duplicate", func() {
		pending := []ClaimRequest{NewClaimRequest("c1", "u1", s.info, s.now)}
		err := CheckClaimEligibility(cafe, pending, "u1")
		s.Require().ErrorIs(err, ErrDuplicateClaim)
		s.Require().ErrorIs(err, ErrConflict)
	})

	s.Run("another user's pending claim blocks the cafe", func() {
		pending := []ClaimRequest{NewClaimRequest("c1", "u2", s.info, s.now)}
		s.Require().ErrorIs(CheckClaimEligibility(cafe, pending, "u1"), ErrClaimInProgress)
	})

	s.Run("unclaimed cafe without pending claims is eligible", func() {
		s.NoError(CheckClaimEligibility(cafe, nil, "u1"))
	})
}

func (s *ClaimSuite) TestDecide() {
	s.Run("approval moves ownership to the claimant", func() {
		claim := NewClaimRequest("c1", "u1", s.info, s.now)
		decidedAt := s.now.Add(time.Hour)
		s.Require().NoError(claim.Decide(DecisionApproved, "admin", " looks right ", decidedAt))
		s.Equal(ClaimApproved, claim.Status)
		s.Equal("admin", claim.ReviewedBy)
		s.Equal("looks right", claim.ReviewNotes)

		owner := Ownership{ClaimStatus: ClaimStatusPending}.Apply(claim)
		s.True(owner.IsClaimed)
		s.True(owner.IsVerified)
		s.Equal(ClaimStatusVerified, owner.ClaimStatus)
		s.Equal("u1", owner.OwnerID)
		s.Equal(Email("owner@octane.coffee"), owner.BusinessEmail)
		s.Require().NotNil(owner.ClaimedAt)
		s.Equal(decidedAt, *owner.ClaimedAt)
		s.NoError(Cafe{Ownership: owner}.CheckInvariants())
	})

	s.Run("rejection leaves the cafe unclaimed but claimable", func() {
		claim := NewClaimRequest("c1", "u1", s.info, s.now)
		s.Require().NoError(claim.Decide(DecisionRejected, "admin", "", s.now))

		owner := Ownership{ClaimStatus: ClaimStatusPending}.Apply(claim)
		s.False(owner.IsClaimed)
		s.Equal(ClaimStatusRejected, owner.ClaimStatus)
		s.Empty(owner.OwnerID)
		s.True(owner.CanClaim())
	})

	s.Run("decided claims cannot be decided again", func() {
		claim := NewClaimRequest("c1", "u1", s.info, s.now)
		s.Require().NoError(claim.Decide(DecisionRejected, "admin", "", s.now))
		s.Require().ErrorIs(claim.Decide(DecisionApproved, "admin", "", s.now), ErrInvalidTransition)
		s.Equal(ClaimRejected, claim.Status)
	})
}

func (s *ClaimSuite) TestCanClaim() {
	s.True(Ownership{ClaimStatus: ClaimStatusUnclaimed}.CanClaim())
	s.True(Ownership{}.CanClaim())
	s.False(Ownership{ClaimStatus: ClaimStatusPending}.CanClaim())
	s.False(Ownership{IsClaimed: true, ClaimStatus: ClaimStatusVerified, OwnerID: "u"}.CanClaim())
	s.Equal(ClaimStatusUnclaimed, Ownership{}.StatusOrDefault())
}

func (s *ClaimSuite) TestInvariantViolationsAreReported() {
	s.Error(Cafe{Ownership: Ownership{IsClaimed: true, ClaimStatus: ClaimStatusRejected, OwnerID: "u"}}.CheckInvariants())
	s.Error(Cafe{Ownership: Ownership{IsClaimed: true, ClaimStatus: ClaimStatusVerified}}.CheckInvariants())
}
