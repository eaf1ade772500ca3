package service

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"reviewhub/internal/access"
	"reviewhub/internal/http-api/apperr"
	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
)

// ImportService bulk-loads catalog content from a CSV upload. Every row is
// a get-or-create for its genre, category and title, so re-running the same
// file is harmless.
type ImportService interface {
	ImportContent(ctx context.Context, actor *access.Actor, r io.Reader) (*dto.ImportResult, error)
}

type importService struct {
	genreRepo    repository.GenreRepository
	categoryRepo repository.CategoryRepository
	titleRepo    repository.TitleRepository
}

func NewImportService(
	genreRepo repository.GenreRepository,
	categoryRepo repository.CategoryRepository,
	titleRepo repository.TitleRepository,
) ImportService {
	return &importService{
		genreRepo:    genreRepo,
		categoryRepo: categoryRepo,
		titleRepo:    titleRepo,
	}
}

func (s *importService) ImportContent(ctx context.Context, actor *access.Actor, r io.Reader) (*dto.ImportResult, error) {
	if !access.CanWriteCatalog(actor) {
		return nil, apperr.Permission("admin access required")
	}

	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, apperr.Validation("empty or unreadable CSV file")
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"genre_slug", "genre_name", "category_slug", "category_name", "title_name", "title_year"} {
		if _, ok := col[required]; !ok {
			return nil, apperr.Validationf("CSV is missing column %q", required)
		}
	}

	result := &dto.ImportResult{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperr.Validationf("malformed CSV row: %v", err)
		}
		result.Rows++

		genre, created, err := s.getOrCreateGenre(ctx, row[col["genre_slug"]], row[col["genre_name"]])
		if err != nil {
			return nil, err
		}
		if created {
			result.GenresCreated++
		}

		category, created, err := s.getOrCreateCategory(ctx, row[col["category_slug"]], row[col["category_name"]])
		if err != nil {
			return nil, err
		}
		if created {
			result.CategoriesCreated++
		}

		year, err := strconv.Atoi(row[col["title_year"]])
		if err != nil {
			return nil, apperr.Validationf("row %d: invalid title_year %q", result.Rows, row[col["title_year"]])
		}
		if err := validateYear(year); err != nil {
			return nil, err
		}

		created, err = s.getOrCreateTitle(ctx, row[col["title_name"]], year, category, genre)
		if err != nil {
			return nil, err
		}
		if created {
			result.TitlesCreated++
		}
	}

	return result, nil
}

func (s *importService) getOrCreateGenre(ctx context.Context, slug, name string) (*models.Genre, bool, error) {
	genre, err := s.genreRepo.GetBySlug(ctx, slug)
	if err == nil {
		return genre, false, nil
	}
	if !repository.IsNotFound(err) {
		return nil, false, apperr.Internal(err)
	}

	created := models.Genre{Name: name, Slug: slug}
	if err := s.genreRepo.Create(ctx, &created); err != nil {
		return nil, false, apperr.Internal(err)
	}
	return &created, true, nil
}

func (s *importService) getOrCreateCategory(ctx context.Context, slug, name string) (*models.Category, bool, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err == nil {
		return category, false, nil
	}
	if !repository.IsNotFound(err) {
		return nil, false, apperr.Internal(err)
	}

	created := models.Category{Name: name, Slug: slug}
	if err := s.categoryRepo.Create(ctx, &created); err != nil {
		return nil, false, apperr.Internal(err)
	}
	return &created, true, nil
}

func (s *importService) getOrCreateTitle(ctx context.Context, name string, year int, category *models.Category, genre *models.Genre) (bool, error) {
	if _, err := s.titleRepo.GetByName(ctx, name); err == nil {
		return false, nil
	} else if !repository.IsNotFound(err) {
		return false, apperr.Internal(err)
	}

	title := &models.Title{
		Name:       name,
		Year:       year,
		CategoryID: &category.ID,
	}
	if err := s.titleRepo.Create(ctx, title); err != nil {
		return false, apperr.Internal(err)
	}
	if err := s.titleRepo.ReplaceGenres(ctx, title, []models.Genre{*genre}); err != nil {
		return false, apperr.Internal(err)
	}
	return true, nil
}
