package service

import (
	"context"

	"reviewhub/internal/access"
	"reviewhub/internal/http-api/apperr"
	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
)

type GenreService interface {
	Create(ctx context.Context, actor *access.Actor, in dto.CreateGenreDTO) (*dto.GenreResponse, error)
	Delete(ctx context.Context, actor *access.Actor, slug string) error
	List(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.GenreResponse], error)
}

type genreService struct {
	genreRepo repository.GenreRepository
}

func NewGenreService(genreRepo repository.GenreRepository) GenreService {
	return &genreService{genreRepo: genreRepo}
}

func (s *genreService) Create(ctx context.Context, actor *access.Actor, in dto.CreateGenreDTO) (*dto.GenreResponse, error) {
	if !access.CanWriteCatalog(actor) {
		return nil, apperr.Permission("admin access required")
	}

	genre := models.Genre{Name: in.Name, Slug: in.Slug}
	if err := s.genreRepo.Create(ctx, &genre); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperr.Conflict("genre name or slug already exists")
		}
		return nil, apperr.Internal(err)
	}

	resp := dto.GenreFromModel(genre)
	return &resp, nil
}

func (s *genreService) Delete(ctx context.Context, actor *access.Actor, slug string) error {
	if !access.CanWriteCatalog(actor) {
		return apperr.Permission("admin access required")
	}
	if err := s.genreRepo.Delete(ctx, slug); err != nil {
		if repository.IsNotFound(err) {
			return apperr.NotFound("genre not found")
		}
		return apperr.Internal(err)
	}
	return nil
}

func (s *genreService) List(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.GenreResponse], error) {
	genres, total, err := s.genreRepo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	responses := make([]dto.GenreResponse, 0, len(genres))
	for _, g := range genres {
		responses = append(responses, dto.GenreFromModel(g))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}
