package service

import (
	"reviewhub/internal/access"
	"reviewhub/internal/http-api/apperr"
	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
)

const maxCommentLen = 300

type CommentService interface {
	Create(actor *access.Actor, reviewID int64, in dto.CreateCommentDTO) (*dto.CommentResponse, error)
	Update(actor *access.Actor, reviewID, commentID int64, in dto.UpdateCommentDTO) (*dto.CommentResponse, error)
	Delete(actor *access.Actor, reviewID, commentID int64) error
	Get(reviewID, commentID int64) (*dto.CommentResponse, error)
	ListByReview(reviewID int64, page, pageSize int) (*dto.Paginated[dto.CommentResponse], error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
	}
}

// Create comments on a review. Unlike reviews there is no per-author
// uniqueness: an author may comment the same review any number of times.
func (s *commentService) Create(actor *access.Actor, reviewID int64, in dto.CreateCommentDTO) (*dto.CommentResponse, error) {
	if !access.CanPublish(actor) {
		return nil, apperr.Permission("authentication required")
	}
	if err := validateCommentText(in.Text); err != nil {
		return nil, err
	}
	if err := s.reviewExists(reviewID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		AuthorID: actor.ID,
		ReviewID: reviewID,
		Text:     in.Text,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, apperr.Internal(err)
	}

	// Reload with author data
	comment, err := s.commentRepo.GetByID(comment.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Update(actor *access.Actor, reviewID, commentID int64, in dto.UpdateCommentDTO) (*dto.CommentResponse, error) {
	comment, err := s.findInReview(reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if !access.CanModifyAuthored(actor, comment.AuthorID) {
		return nil, apperr.Permission("only the author, a moderator or an admin may modify a comment")
	}
	if err := validateCommentText(in.Text); err != nil {
		return nil, err
	}

	comment.Text = in.Text
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, apperr.Internal(err)
	}

	comment, err = s.commentRepo.GetByID(commentID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Delete(actor *access.Actor, reviewID, commentID int64) error {
	comment, err := s.findInReview(reviewID, commentID)
	if err != nil {
		return err
	}
	if !access.CanModifyAuthored(actor, comment.AuthorID) {
		return apperr.Permission("only the author, a moderator or an admin may delete a comment")
	}

	if err := s.commentRepo.Delete(commentID); err != nil {
		if repository.IsNotFound(err) {
			return apperr.NotFound("comment not found")
		}
		return apperr.Internal(err)
	}
	return nil
}

func (s *commentService) Get(reviewID, commentID int64) (*dto.CommentResponse, error) {
	comment, err := s.findInReview(reviewID, commentID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) ListByReview(reviewID int64, page, pageSize int) (*dto.Paginated[dto.CommentResponse], error) {
	if err := s.reviewExists(reviewID); err != nil {
		return nil, err
	}

	comments, total, err := s.commentRepo.GetByReview(reviewID, page, pageSize)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, *dto.FromModelToCommentResponse(&comments[i]))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}

func validateCommentText(text string) error {
	if text == "" {
		return apperr.Validation("comment text is required")
	}
	if len(text) > maxCommentLen {
		return apperr.Validationf("comment text exceeds %d characters", maxCommentLen)
	}
	return nil
}

func (s *commentService) reviewExists(reviewID int64) error {
	if _, err := s.reviewRepo.GetByID(reviewID); err != nil {
		if repository.IsNotFound(err) {
			return apperr.NotFound("review not found")
		}
		return apperr.Internal(err)
	}
	return nil
}

func (s *commentService) findInReview(reviewID, commentID int64) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("comment not found")
		}
		return nil, apperr.Internal(err)
	}
	if comment.ReviewID != reviewID {
		return nil, apperr.NotFound("comment not found")
	}
	return comment, nil
}
