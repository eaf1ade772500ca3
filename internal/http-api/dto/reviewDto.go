package dto

import (
	"time"

	"reviewhub/internal/http-api/models"
)

// CreateReviewDTO for publishing a review on a title
type CreateReviewDTO struct {
	Score int    `json:"score" binding:"required,min=1,max=10"`
	Text  string `json:"text"`
}

// UpdateReviewDTO: partial update of score and/or text
type UpdateReviewDTO struct {
	Score *int    `json:"score,omitempty" binding:"omitempty,min=1,max=10"`
	Text  *string `json:"text,omitempty"`
}

// ReviewResponse for returning review information
type ReviewResponse struct {
	ID      int64     `json:"id"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
}

// FromModelToReviewResponse converts a Review model to ReviewResponse DTO
func FromModelToReviewResponse(review *models.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:      review.ID,
		Author:  review.Author.Username,
		Score:   review.Score,
		Text:    review.Text,
		PubDate: review.PubDate,
	}
}
