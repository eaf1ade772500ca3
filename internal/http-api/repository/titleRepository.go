package repository

import (
	"context"
	"database/sql"
	"fmt"

	"reviewhub/internal/http-api/models"

	"gorm.io/gorm"
)

// TitleFilter narrows title listings. Zero values mean "no filter".
type TitleFilter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         int
}

type TitleRepository interface {
	Create(ctx context.Context, title *models.Title) error
	Update(ctx context.Context, title *models.Title) error
	ReplaceGenres(ctx context.Context, title *models.Title, genres []models.Genre) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Title, error)
	GetByName(ctx context.Context, name string) (*models.Title, error)
	List(ctx context.Context, filter TitleFilter, page, pageSize int) ([]models.Title, int64, error)
	AverageScore(ctx context.Context, titleID int64) (*float64, error)
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) Create(ctx context.Context, title *models.Title) error {
	if err := r.db.WithContext(ctx).Create(title).Error; err != nil {
		return fmt.Errorf("create title: %w", err)
	}
	return nil
}

func (r *titleRepository) Update(ctx context.Context, title *models.Title) error {
	if err := r.db.WithContext(ctx).
		Model(title).
		Select("name", "year", "description", "category_id").
		Updates(title).Error; err != nil {
		return fmt.Errorf("update title: %w", err)
	}
	return nil
}

func (r *titleRepository) ReplaceGenres(ctx context.Context, title *models.Title, genres []models.Genre) error {
	if err := r.db.WithContext(ctx).Model(title).Association("Genres").Replace(genres); err != nil {
		return fmt.Errorf("replace title genres: %w", err)
	}
	return nil
}

func (r *titleRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Title{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete title: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *titleRepository) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	var title models.Title
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Genres").
		First(&title, id).Error; err != nil {
		return nil, err
	}
	return &title, nil
}

func (r *titleRepository) GetByName(ctx context.Context, name string) (*models.Title, error) {
	var title models.Title
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&title).Error; err != nil {
		return nil, err
	}
	return &title, nil
}

// filtered builds the WHERE chain shared by Count and Find.
func (r *titleRepository) filtered(ctx context.Context, f TitleFilter) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&models.Title{})

	if f.CategorySlug != "" {
		db = db.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", f.CategorySlug)
	}
	if f.GenreSlug != "" {
		db = db.Joins("JOIN title_genres ON title_genres.title_id = titles.id").
			Joins("JOIN genres ON genres.id = title_genres.genre_id").
			Where("genres.slug = ?", f.GenreSlug)
	}
	if f.Name != "" {
		db = db.Where("LOWER(titles.name) LIKE LOWER(?)", "%"+f.Name+"%")
	}
	if f.Year != 0 {
		db = db.Where("titles.year = ?", f.Year)
	}

	return db
}

func (r *titleRepository) List(ctx context.Context, filter TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	var list []models.Title
	var total int64

	// Distinct: the genre join can multiply rows
	if err := r.filtered(ctx, filter).Distinct("titles.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.filtered(ctx, filter).
		Distinct("titles.*").
		Preload("Category").
		Preload("Genres").
		Order("titles.id").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

// AverageScore computes the mean review score for a title at read time.
// Returns nil, not zero, when the title has no reviews.
func (r *titleRepository) AverageScore(ctx context.Context, titleID int64) (*float64, error) {
	var avg struct {
		Average sql.NullFloat64
	}

	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("AVG(score) as average").
		Where("title_id = ?", titleID).
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}

	if !avg.Average.Valid {
		return nil, nil
	}
	return &avg.Average.Float64, nil
}
