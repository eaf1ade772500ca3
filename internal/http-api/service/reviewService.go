package service

import (
	"context"

	"reviewhub/internal/access"
	"reviewhub/internal/cache"
	"reviewhub/internal/http-api/apperr"
	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
)

type ReviewService interface {
	Create(ctx context.Context, actor *access.Actor, titleID int64, in dto.CreateReviewDTO) (*dto.ReviewResponse, error)
	Update(ctx context.Context, actor *access.Actor, titleID, reviewID int64, in dto.UpdateReviewDTO) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, actor *access.Actor, titleID, reviewID int64) error
	Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	ListByTitle(ctx context.Context, titleID int64, page, pageSize int) (*dto.Paginated[dto.ReviewResponse], error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
	ratings    *cache.RatingCache
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	titleRepo repository.TitleRepository,
	ratings *cache.RatingCache,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
		ratings:    ratings,
	}
}

// Create publishes a review. The pre-check gives a friendly conflict error;
// the (author, title) unique index stays authoritative when two submissions
// race past it.
func (s *reviewService) Create(ctx context.Context, actor *access.Actor, titleID int64, in dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	if !access.CanPublish(actor) {
		return nil, apperr.Permission("authentication required")
	}
	if in.Score < 1 || in.Score > 10 {
		return nil, apperr.Validation("score must be between 1 and 10")
	}
	if err := s.titleExists(ctx, titleID); err != nil {
		return nil, err
	}

	if _, err := s.reviewRepo.GetByAuthorAndTitle(actor.ID, titleID); err == nil {
		return nil, apperr.Conflict("you have already reviewed this title")
	} else if !repository.IsNotFound(err) {
		return nil, apperr.Internal(err)
	}

	review := &models.Review{
		AuthorID: actor.ID,
		TitleID:  titleID,
		Score:    in.Score,
		Text:     in.Text,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		if repository.IsDuplicateKey(err) {
			// lost the race; same outcome as the pre-check
			return nil, apperr.Conflict("you have already reviewed this title")
		}
		return nil, apperr.Internal(err)
	}

	s.ratings.Invalidate(ctx, titleID)

	// Reload with author data
	review, err := s.reviewRepo.GetByID(review.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Update(ctx context.Context, actor *access.Actor, titleID, reviewID int64, in dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	review, err := s.findInTitle(titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if !access.CanModifyAuthored(actor, review.AuthorID) {
		return nil, apperr.Permission("only the author, a moderator or an admin may modify a review")
	}

	if in.Score != nil {
		if *in.Score < 1 || *in.Score > 10 {
			return nil, apperr.Validation("score must be between 1 and 10")
		}
		review.Score = *in.Score
	}
	if in.Text != nil {
		review.Text = *in.Text
	}

	if err := s.reviewRepo.Update(review); err != nil {
		return nil, apperr.Internal(err)
	}

	s.ratings.Invalidate(ctx, titleID)

	review, err = s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Delete(ctx context.Context, actor *access.Actor, titleID, reviewID int64) error {
	review, err := s.findInTitle(titleID, reviewID)
	if err != nil {
		return err
	}
	if !access.CanModifyAuthored(actor, review.AuthorID) {
		return apperr.Permission("only the author, a moderator or an admin may delete a review")
	}

	if err := s.reviewRepo.Delete(reviewID); err != nil {
		if repository.IsNotFound(err) {
			return apperr.NotFound("review not found")
		}
		return apperr.Internal(err)
	}

	s.ratings.Invalidate(ctx, titleID)
	return nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	review, err := s.findInTitle(titleID, reviewID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) (*dto.Paginated[dto.ReviewResponse], error) {
	if err := s.titleExists(ctx, titleID); err != nil {
		return nil, err
	}

	reviews, total, err := s.reviewRepo.GetByTitle(titleID, page, pageSize)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *dto.FromModelToReviewResponse(&reviews[i]))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}

func (s *reviewService) titleExists(ctx context.Context, titleID int64) error {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if repository.IsNotFound(err) {
			return apperr.NotFound("title not found")
		}
		return apperr.Internal(err)
	}
	return nil
}

// findInTitle loads a review and checks it belongs to the title in the path.
func (s *reviewService) findInTitle(titleID, reviewID int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("review not found")
		}
		return nil, apperr.Internal(err)
	}
	if review.TitleID != titleID {
		return nil, apperr.NotFound("review not found")
	}
	return review, nil
}
