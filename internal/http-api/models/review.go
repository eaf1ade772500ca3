package models

import "time"

type Review struct {
	ID       int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	AuthorID string `json:"author_id" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_author_title"`
	TitleID  int64  `json:"title_id" gorm:"not null;uniqueIndex:idx_reviews_author_title"`
	Score    int    `json:"score" gorm:"not null;check:score >= 1 AND score <= 10"`
	Text     string `json:"text" gorm:"type:text"`

	// PubDate is set once at creation; updates never touch it.
	PubDate time.Time `json:"pub_date" gorm:"autoCreateTime"`

	// Associations
	Author User  `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Title  Title `json:"-" gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}
