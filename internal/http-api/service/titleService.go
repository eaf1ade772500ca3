package service

import (
	"context"
	"time"

	"reviewhub/internal/access"
	"reviewhub/internal/cache"
	"reviewhub/internal/http-api/apperr"
	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
)

type TitleService interface {
	Create(ctx context.Context, actor *access.Actor, in dto.CreateTitleDTO) (*dto.TitleResponse, error)
	Update(ctx context.Context, actor *access.Actor, titleID int64, in dto.UpdateTitleDTO) (*dto.TitleResponse, error)
	Delete(ctx context.Context, actor *access.Actor, titleID int64) error
	Get(ctx context.Context, titleID int64) (*dto.TitleResponse, error)
	List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.Paginated[dto.TitleResponse], error)
}

type titleService struct {
	titleRepo    repository.TitleRepository
	categoryRepo repository.CategoryRepository
	genreRepo    repository.GenreRepository
	ratings      *cache.RatingCache
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	categoryRepo repository.CategoryRepository,
	genreRepo repository.GenreRepository,
	ratings *cache.RatingCache,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		ratings:      ratings,
	}
}

func validateYear(year int) error {
	if year > time.Now().Year() {
		return apperr.Validation("year cannot be in the future")
	}
	return nil
}

func (s *titleService) Create(ctx context.Context, actor *access.Actor, in dto.CreateTitleDTO) (*dto.TitleResponse, error) {
	if !access.CanWriteCatalog(actor) {
		return nil, apperr.Permission("admin access required")
	}
	if err := validateYear(*in.Year); err != nil {
		return nil, err
	}

	title := &models.Title{
		Name:        in.Name,
		Year:        *in.Year,
		Description: in.Description,
	}

	if in.Category != nil {
		category, err := s.resolveCategory(ctx, *in.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
	}

	genres, err := s.resolveGenres(ctx, in.Genre)
	if err != nil {
		return nil, err
	}

	if err := s.titleRepo.Create(ctx, title); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperr.Conflict("title name already exists")
		}
		return nil, apperr.Internal(err)
	}
	if len(genres) > 0 {
		if err := s.titleRepo.ReplaceGenres(ctx, title, genres); err != nil {
			return nil, apperr.Internal(err)
		}
	}

	return s.Get(ctx, title.ID)
}

func (s *titleService) Update(ctx context.Context, actor *access.Actor, titleID int64, in dto.UpdateTitleDTO) (*dto.TitleResponse, error) {
	if !access.CanWriteCatalog(actor) {
		return nil, apperr.Permission("admin access required")
	}

	title, err := s.titleRepo.GetByID(ctx, titleID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("title not found")
		}
		return nil, apperr.Internal(err)
	}

	if in.Name != nil {
		title.Name = *in.Name
	}
	if in.Year != nil {
		if err := validateYear(*in.Year); err != nil {
			return nil, err
		}
		title.Year = *in.Year
	}
	if in.Description != nil {
		title.Description = in.Description
	}
	if in.Category != nil {
		category, err := s.resolveCategory(ctx, *in.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
	}

	if err := s.titleRepo.Update(ctx, title); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperr.Conflict("title name already exists")
		}
		return nil, apperr.Internal(err)
	}

	if in.Genre != nil {
		genres, err := s.resolveGenres(ctx, *in.Genre)
		if err != nil {
			return nil, err
		}
		if err := s.titleRepo.ReplaceGenres(ctx, title, genres); err != nil {
			return nil, apperr.Internal(err)
		}
	}

	return s.Get(ctx, titleID)
}

func (s *titleService) Delete(ctx context.Context, actor *access.Actor, titleID int64) error {
	if !access.CanWriteCatalog(actor) {
		return apperr.Permission("admin access required")
	}
	if err := s.titleRepo.Delete(ctx, titleID); err != nil {
		if repository.IsNotFound(err) {
			return apperr.NotFound("title not found")
		}
		return apperr.Internal(err)
	}
	s.ratings.Invalidate(ctx, titleID)
	return nil
}

func (s *titleService) Get(ctx context.Context, titleID int64) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, titleID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("title not found")
		}
		return nil, apperr.Internal(err)
	}

	if err := s.attachRating(ctx, title); err != nil {
		return nil, err
	}
	return dto.FromModelToTitleResponse(title), nil
}

func (s *titleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.Paginated[dto.TitleResponse], error) {
	titles, total, err := s.titleRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	responses := make([]dto.TitleResponse, 0, len(titles))
	for i := range titles {
		if err := s.attachRating(ctx, &titles[i]); err != nil {
			return nil, err
		}
		responses = append(responses, *dto.FromModelToTitleResponse(&titles[i]))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}

// attachRating fills the derived rating, read-through the cache.
// The rating is recomputed from review scores, never read from storage.
func (s *titleService) attachRating(ctx context.Context, title *models.Title) error {
	if rating, ok := s.ratings.Get(ctx, title.ID); ok {
		title.Rating = rating
		return nil
	}

	rating, err := s.titleRepo.AverageScore(ctx, title.ID)
	if err != nil {
		return apperr.Internal(err)
	}
	title.Rating = rating
	s.ratings.Set(ctx, title.ID, rating)
	return nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.Validationf("unknown category slug %q", slug)
		}
		return nil, apperr.Internal(err)
	}
	return category, nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	genres, err := s.genreRepo.GetBySlugs(ctx, slugs)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(genres) != len(slugs) {
		return nil, apperr.Validation("one or more genre slugs are unknown")
	}
	return genres, nil
}
