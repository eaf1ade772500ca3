package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"reviewhub/internal/http-api/models"
)

func TestTitleList_Filters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTitleRepository(db)
	ctx := context.Background()

	books := &models.Category{Name: "Books", Slug: "books"}
	movies := &models.Category{Name: "Movies", Slug: "movies"}
	assert.NoError(t, db.Create(books).Error)
	assert.NoError(t, db.Create(movies).Error)

	scifi := &models.Genre{Name: "Sci-Fi", Slug: "sci-fi"}
	drama := &models.Genre{Name: "Drama", Slug: "drama"}
	assert.NoError(t, db.Create(scifi).Error)
	assert.NoError(t, db.Create(drama).Error)

	dune := &models.Title{Name: "Dune", Year: 1965, CategoryID: &books.ID, Genres: []models.Genre{*scifi}}
	solaris := &models.Title{Name: "Solaris", Year: 1972, CategoryID: &movies.ID, Genres: []models.Genre{*scifi, *drama}}
	assert.NoError(t, repo.Create(ctx, dune))
	assert.NoError(t, repo.Create(ctx, solaris))

	list, total, err := repo.List(ctx, TitleFilter{CategorySlug: "books"}, 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Dune", list[0].Name)

	list, total, err = repo.List(ctx, TitleFilter{GenreSlug: "sci-fi"}, 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	list, total, err = repo.List(ctx, TitleFilter{Name: "sol"}, 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Solaris", list[0].Name)

	_, total, err = repo.List(ctx, TitleFilter{Year: 1965}, 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = repo.List(ctx, TitleFilter{CategorySlug: "books", GenreSlug: "drama"}, 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestTitleGetByID_PreloadsAssociations(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTitleRepository(db)
	ctx := context.Background()

	books := &models.Category{Name: "Books", Slug: "books"}
	assert.NoError(t, db.Create(books).Error)
	scifi := &models.Genre{Name: "Sci-Fi", Slug: "sci-fi"}
	assert.NoError(t, db.Create(scifi).Error)

	created := &models.Title{Name: "Dune", Year: 1965, CategoryID: &books.ID, Genres: []models.Genre{*scifi}}
	assert.NoError(t, repo.Create(ctx, created))

	title, err := repo.GetByID(ctx, created.ID)

	assert.NoError(t, err)
	if assert.NotNil(t, title.Category) {
		assert.Equal(t, "books", title.Category.Slug)
	}
	if assert.Len(t, title.Genres, 1) {
		assert.Equal(t, "sci-fi", title.Genres[0].Slug)
	}
}

func TestTitleReplaceGenres(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTitleRepository(db)
	ctx := context.Background()

	scifi := &models.Genre{Name: "Sci-Fi", Slug: "sci-fi"}
	drama := &models.Genre{Name: "Drama", Slug: "drama"}
	assert.NoError(t, db.Create(scifi).Error)
	assert.NoError(t, db.Create(drama).Error)

	title := &models.Title{Name: "Solaris", Year: 1972, Genres: []models.Genre{*scifi}}
	assert.NoError(t, repo.Create(ctx, title))

	assert.NoError(t, repo.ReplaceGenres(ctx, title, []models.Genre{*drama}))

	reloaded, err := repo.GetByID(ctx, title.ID)
	assert.NoError(t, err)
	if assert.Len(t, reloaded.Genres, 1) {
		assert.Equal(t, "drama", reloaded.Genres[0].Slug)
	}
}

func TestTitleUpdate_ClearsCategory(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTitleRepository(db)
	ctx := context.Background()

	books := &models.Category{Name: "Books", Slug: "books"}
	assert.NoError(t, db.Create(books).Error)

	title := &models.Title{Name: "Dune", Year: 1965, CategoryID: &books.ID}
	assert.NoError(t, repo.Create(ctx, title))

	title.CategoryID = nil
	title.Category = nil
	assert.NoError(t, repo.Update(ctx, title))

	reloaded, err := repo.GetByID(ctx, title.ID)
	assert.NoError(t, err)
	assert.Nil(t, reloaded.CategoryID)
}
