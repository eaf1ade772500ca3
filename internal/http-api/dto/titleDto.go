package dto

import (
	"reviewhub/internal/http-api/models"
)

// CreateTitleDTO for creating a title; category and genres come in by slug.
type CreateTitleDTO struct {
	// Year is a pointer so that year 0 survives the required check.
	Name        string   `json:"name" binding:"required,max=200"`
	Year        *int     `json:"year" binding:"required"`
	Description *string  `json:"description,omitempty" binding:"omitempty,max=200"`
	Category    *string  `json:"category,omitempty"`
	Genre       []string `json:"genre,omitempty"`
}

// UpdateTitleDTO: partial update; nil fields stay untouched.
type UpdateTitleDTO struct {
	Name        *string   `json:"name,omitempty" binding:"omitempty,max=200"`
	Year        *int      `json:"year,omitempty"`
	Description *string   `json:"description,omitempty" binding:"omitempty,max=200"`
	Category    *string   `json:"category,omitempty"`
	Genre       *[]string `json:"genre,omitempty"`
}

// TitleResponse carries the read shape with the derived rating.
// Rating is nil when the title has no reviews yet.
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Description *string           `json:"description,omitempty"`
	Rating      *float64          `json:"rating"`
	Category    *CategoryResponse `json:"category"`
	Genre       []GenreResponse   `json:"genre"`
}

func FromModelToTitleResponse(title *models.Title) *TitleResponse {
	resp := &TitleResponse{
		ID:          title.ID,
		Name:        title.Name,
		Year:        title.Year,
		Description: title.Description,
		Rating:      title.Rating,
		Genre:       make([]GenreResponse, 0, len(title.Genres)),
	}
	if title.Category != nil {
		c := CategoryFromModel(*title.Category)
		resp.Category = &c
	}
	for _, g := range title.Genres {
		resp.Genre = append(resp.Genre, GenreFromModel(g))
	}
	return resp
}
