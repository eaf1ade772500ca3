package service

import (
	"context"

	"reviewhub/internal/access"
	"reviewhub/internal/http-api/apperr"
	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
)

type CategoryService interface {
	Create(ctx context.Context, actor *access.Actor, in dto.CreateCategoryDTO) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, actor *access.Actor, slug string) error
	List(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.CategoryResponse], error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) Create(ctx context.Context, actor *access.Actor, in dto.CreateCategoryDTO) (*dto.CategoryResponse, error) {
	if !access.CanWriteCatalog(actor) {
		return nil, apperr.Permission("admin access required")
	}

	category := models.Category{Name: in.Name, Slug: in.Slug}
	if err := s.categoryRepo.Create(ctx, &category); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperr.Conflict("category name or slug already exists")
		}
		return nil, apperr.Internal(err)
	}

	resp := dto.CategoryFromModel(category)
	return &resp, nil
}

// Delete removes the category; titles that referenced it keep existing with
// no category (SET NULL at the store level).
func (s *categoryService) Delete(ctx context.Context, actor *access.Actor, slug string) error {
	if !access.CanWriteCatalog(actor) {
		return apperr.Permission("admin access required")
	}
	if err := s.categoryRepo.Delete(ctx, slug); err != nil {
		if repository.IsNotFound(err) {
			return apperr.NotFound("category not found")
		}
		return apperr.Internal(err)
	}
	return nil
}

func (s *categoryService) List(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.CategoryResponse], error) {
	categories, total, err := s.categoryRepo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	responses := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, dto.CategoryFromModel(c))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}
