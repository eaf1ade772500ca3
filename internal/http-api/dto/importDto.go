package dto

// ImportResult reports what a CSV content load created versus reused.
type ImportResult struct {
	Rows              int `json:"rows"`
	GenresCreated     int `json:"genres_created"`
	CategoriesCreated int `json:"categories_created"`
	TitlesCreated     int `json:"titles_created"`
}
