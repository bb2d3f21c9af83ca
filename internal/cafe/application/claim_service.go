package application

import (
	"context"
	"errors"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
	"go.uber.org/zap"
)

type claimService struct {
	claims   ClaimRepository
	cafes    CafeRepository
	metrics  Metrics
	notifier Notifier
	logger   *zap.Logger
}

// NewClaimService wires the claim workflow. notifier may be nil.
func NewClaimService(claims ClaimRepository, cafes CafeRepository, metrics Metrics, notifier Notifier, logger *zap.Logger) ClaimService {
	if metrics == nil {
		metrics = NopMetrics()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &claimService{claims: claims, cafes: cafes, metrics: metrics, notifier: notifier, logger: logger}
}

func (s *claimService) Submit(ctx context.Context, actor domain.Principal, cafeID string, cmd ClaimCommand) (*domain.ClaimRequest, error) {
	if err := actor.Require(domain.RoleUser, domain.RoleAdmin); err != nil {
		return nil, err
	}
	info, err := domain.NewBusinessInfo(cmd.BusinessEmail, cmd.BusinessPhone, cmd.OwnerName, cmd.OwnerTitle, cmd.Reason)
	if err != nil {
		return nil, err
	}
	cafe, err := s.cafes.FindByID(ctx, cafeID)
	if err != nil {
		return nil, err
	}
	pendingStatus := domain.ClaimPending
	pending, err := s.claims.Find(ctx, ClaimFilter{CafeID: cafeID, Status: &pendingStatus})
	if err != nil {
		return nil, err
	}
	if err := domain.CheckClaimEligibility(*cafe, pending, actor.ID); err != nil {
		return nil, err
	}

	claim := domain.NewClaimRequest(cafeID, actor.ID, info, now())
	if err := s.claims.Create(ctx, &claim); err != nil {
		return nil, err
	}
	if err := s.cafes.UpdateOwnership(ctx, cafeID, cafe.Ownership.Apply(claim)); err != nil {
		// the claim must not outlive a failed cafe update
		if delErr := s.claims.Delete(ctx, claim.ID); delErr != nil {
			s.logger.Error("claim rollback failed", zap.String("claimId", claim.ID), zap.Error(delErr))
		}
		return nil, err
	}
	s.metrics.ClaimSubmitted()
	if s.notifier != nil {
		go s.notifier.ClaimSubmitted(context.WithoutCancel(ctx), *cafe, claim)
	}
	return &claim, nil
}

// Decide settles a pending claim and updates the cafe's ownership fields.
// Decided claims are final; a correction requires a new claim.
func (s *claimService) Decide(ctx context.Context, actor domain.Principal, id string, cmd DecideCommand) (*domain.ClaimRequest, error) {
	if err := actor.Require(domain.RoleAdmin); err != nil {
		return nil, err
	}
	decision, err := domain.ParseDecision(cmd.Decision)
	if err != nil {
		return nil, err
	}
	claim, err := s.claims.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cafe, err := s.cafes.FindByID(ctx, claim.CafeID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if err := claim.Decide(decision, actor.ID, cmd.Notes, now()); err != nil {
		return nil, err
	}
	if err := s.claims.UpdateDecision(ctx, claim); err != nil {
		return nil, err
	}
	s.metrics.ClaimDecided(decision)
	s.logger.Info("claim decided",
		zap.String("claimId", claim.ID),
		zap.String("cafeId", claim.CafeID),
		zap.String("decision", string(decision)),
		zap.String("adminId", actor.ID),
	)

	if cafe == nil {
		s.logger.Warn("claim decided for a cafe that no longer exists", zap.String("cafeId", claim.CafeID))
		return claim, nil
	}
	if err := s.cafes.UpdateOwnership(ctx, cafe.ID, cafe.Ownership.Apply(*claim)); err != nil {
		return nil, err
	}
	return claim, nil
}

func (s *claimService) CanClaim(ctx context.Context, cafeID string) (ClaimEligibility, error) {
	cafe, err := s.cafes.FindByID(ctx, cafeID)
	if err != nil {
		return ClaimEligibility{}, err
	}
	return ClaimEligibility{
		CanClaim:    cafe.Ownership.CanClaim(),
		IsClaimed:   cafe.Ownership.IsClaimed,
		ClaimStatus: cafe.Ownership.StatusOrDefault(),
	}, nil
}

func (s *claimService) Mine(ctx context.Context, actor domain.Principal) ([]domain.ClaimRequest, error) {
	if err := actor.Require(domain.RoleUser, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.claims.Find(ctx, ClaimFilter{UserID: actor.ID})
}

func (s *claimService) ForCafe(ctx context.Context, actor domain.Principal, cafeID string) ([]domain.ClaimRequest, error) {
	if err := actor.Require(domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.claims.Find(ctx, ClaimFilter{CafeID: cafeID})
}

func (s *claimService) Pending(ctx context.Context, actor domain.Principal) ([]domain.ClaimRequest, error) {
	if err := actor.Require(domain.RoleAdmin); err != nil {
		return nil, err
	}
	status := domain.ClaimPending
	return s.claims.Find(ctx, ClaimFilter{Status: &status})
}
