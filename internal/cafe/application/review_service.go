package application

import (
	"context"
	"errors"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
	"go.uber.org/zap"
)

const recentReviewLimit = 10

type reviewService struct {
	reviews  ReviewRepository
	votes    VoteRepository
	cafes    CafeRepository
	ratings  *RatingRecalculator
	metrics  Metrics
	notifier Notifier
	logger   *zap.Logger
}

// NewReviewService wires review use-cases. votes may be nil, in which case
// every like and helpful vote is counted. notifier may be nil.
func NewReviewService(reviews ReviewRepository, votes VoteRepository, cafes CafeRepository, ratings *RatingRecalculator, metrics Metrics, notifier Notifier, logger *zap.Logger) ReviewService {
	if metrics == nil {
		metrics = NopMetrics()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &reviewService{reviews: reviews, votes: votes, cafes: cafes, ratings: ratings, metrics: metrics, notifier: notifier, logger: logger}
}

func (s *reviewService) Submit(ctx context.Context, actor domain.Principal, cafeID string, cmd ReviewCommand) (*domain.Review, error) {
	if err := actor.Require(domain.RoleUser); err != nil {
		return nil, err
	}
	content, err := buildReviewContent(cmd)
	if err != nil {
		return nil, err
	}
	cafe, err := s.cafes.FindByID(ctx, cafeID)
	if err != nil {
		return nil, err
	}

	review := domain.NewReview(cafeID, actor, content, now())
	if err := s.reviews.Create(ctx, &review); err != nil {
		return nil, err
	}
	s.metrics.ReviewSubmitted()
	if s.notifier != nil {
		go s.notifier.ReviewSubmitted(context.WithoutCancel(ctx), *cafe, review)
	}
	return &review, nil
}

func (s *reviewService) Update(ctx context.Context, actor domain.Principal, id string, cmd ReviewCommand) (*domain.Review, error) {
	if err := actor.Require(domain.RoleUser); err != nil {
		return nil, err
	}
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !review.CanBeEditedBy(actor) {
		return nil, domain.Forbiddenf("only the author may edit this review")
	}
	content, err := buildReviewContent(cmd)
	if err != nil {
		return nil, err
	}

	// status is taken from the stored review, a decision may have landed since FindByID
	updated, err := s.reviews.UpdateContent(ctx, id, content, now())
	if err != nil {
		return nil, err
	}
	if updated.IsApproved() {
		if err := s.recalculate(ctx, updated.CafeID); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

func (s *reviewService) Delete(ctx context.Context, actor domain.Principal, id string) error {
	if err := actor.Require(domain.RoleUser, domain.RoleAdmin); err != nil {
		return err
	}
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !review.CanBeDeletedBy(actor) {
		return domain.Forbiddenf("only the author or an admin may delete this review")
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}
	if review.IsApproved() {
		return s.recalculate(ctx, review.CafeID)
	}
	return nil
}

// Decide applies an admin verdict. An already decided review may be decided again;
// the latest decision wins and ratings follow the approved set either way.
func (s *reviewService) Decide(ctx context.Context, actor domain.Principal, id string, cmd DecideCommand) (*domain.Review, error) {
	if err := actor.Require(domain.RoleAdmin); err != nil {
		return nil, err
	}
	decision, err := domain.ParseDecision(cmd.Decision)
	if err != nil {
		return nil, err
	}
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	affectsRatings, err := review.Decide(decision, actor.ID, cmd.Notes, now())
	if err != nil {
		return nil, err
	}
	if err := s.reviews.UpdateModeration(ctx, review); err != nil {
		return nil, err
	}
	s.metrics.ReviewDecided(decision)
	s.logger.Info("review decided",
		zap.String("reviewId", review.ID),
		zap.String("cafeId", review.CafeID),
		zap.String("decision", string(decision)),
		zap.String("adminId", actor.ID),
	)
	if affectsRatings {
		if err := s.recalculate(ctx, review.CafeID); err != nil {
			return nil, err
		}
	}
	return review, nil
}

func (s *reviewService) Like(ctx context.Context, actor domain.Principal, id string) (*domain.Review, error) {
	return s.increment(ctx, actor, id, CounterLikes)
}

func (s *reviewService) MarkHelpful(ctx context.Context, actor domain.Principal, id string) (*domain.Review, error) {
	return s.increment(ctx, actor, id, CounterHelpful)
}

func (s *reviewService) increment(ctx context.Context, actor domain.Principal, id string, counter ReviewCounter) (*domain.Review, error) {
	if err := actor.Require(domain.RoleUser); err != nil {
		return nil, err
	}
	if s.votes == nil {
		return s.reviews.Increment(ctx, id, counter)
	}
	if _, err := s.reviews.FindByID(ctx, id); err != nil {
		return nil, err
	}
	fresh, err := s.votes.Record(ctx, id, actor.ID, counter)
	if err != nil {
		return nil, err
	}
	if !fresh {
		return s.reviews.FindByID(ctx, id)
	}
	return s.reviews.Increment(ctx, id, counter)
}

func (s *reviewService) ApprovedForCafe(ctx context.Context, cafeID string, paging Paging) ([]domain.Review, error) {
	status := domain.ReviewApproved
	return s.reviews.Find(ctx, ReviewFilter{CafeID: cafeID, Status: &status}, paging)
}

func (s *reviewService) ApprovedForUser(ctx context.Context, userID string, paging Paging) ([]domain.Review, error) {
	status := domain.ReviewApproved
	return s.reviews.Find(ctx, ReviewFilter{UserID: userID, Status: &status}, paging)
}

func (s *reviewService) Recent(ctx context.Context, limit int) ([]domain.Review, error) {
	if limit <= 0 || limit > recentReviewLimit {
		limit = recentReviewLimit
	}
	status := domain.ReviewApproved
	return s.reviews.Find(ctx, ReviewFilter{Status: &status}, Paging{Limit: limit})
}

func (s *reviewService) List(ctx context.Context, actor domain.Principal, status *domain.ReviewStatus, paging Paging) ([]domain.Review, error) {
	if err := actor.Require(domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.reviews.Find(ctx, ReviewFilter{Status: status}, paging)
}

// recalculate refreshes the cafe ratings. A cafe deleted in the meantime has
// nothing left to refresh.
func (s *reviewService) recalculate(ctx context.Context, cafeID string) error {
	if s.ratings == nil {
		return nil
	}
	if _, err := s.ratings.Recalculate(ctx, cafeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		s.logger.Error("rating recalculation failed", zap.String("cafeId", cafeID), zap.Error(err))
		return err
	}
	return nil
}

func buildReviewContent(cmd ReviewCommand) (domain.ReviewContent, error) {
	overall, err := domain.NewScore("overallRating", cmd.OverallRating)
	if err != nil {
		return domain.ReviewContent{}, err
	}
	coffee, err := domain.NewOptionalScore("coffeeRating", cmd.CoffeeRating)
	if err != nil {
		return domain.ReviewContent{}, err
	}
	taste, err := domain.NewOptionalScore("tasteRating", cmd.TasteRating)
	if err != nil {
		return domain.ReviewContent{}, err
	}
	ambiance, err := domain.NewOptionalScore("ambianceRating", cmd.AmbianceRating)
	if err != nil {
		return domain.ReviewContent{}, err
	}
	service, err := domain.NewOptionalScore("serviceRating", cmd.ServiceRating)
	if err != nil {
		return domain.ReviewContent{}, err
	}
	value, err := domain.NewOptionalScore("valueRating", cmd.ValueRating)
	if err != nil {
		return domain.ReviewContent{}, err
	}
	text, err := domain.RequireText("text", cmd.Text, 0, domain.MaxReviewTextRunes)
	if err != nil {
		return domain.ReviewContent{}, err
	}
	photos, err := domain.NewURLList(cmd.Photos, domain.MaxReviewPhotos)
	if err != nil {
		return domain.ReviewContent{}, err
	}
	return domain.ReviewContent{
		Overall:    overall,
		Coffee:     coffee,
		Taste:      taste,
		Ambiance:   ambiance,
		Service:    service,
		Value:      value,
		Text:       text,
		TasteNotes: domain.NewTagList(cmd.TasteNotes),
		Photos:     photos,
	}, nil
}
