package storage

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/guidebook-kb/guidebook/storage/model"
)

type articleRow struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	Title     string
	Category  string
	Content   string `gorm:"type:text"`
	Keywords  datatypes.JSONSlice[string]
}

// TableName implements the gorm.Tabler interface
func (articleRow) TableName() string {
	return "articles"
}

func (r articleRow) article() model.Article {
	a := model.Article{
		Title:    r.Title,
		Category: r.Category,
		Content:  r.Content,
	}
	if len(r.Keywords) > 0 {
		a.Keywords = []string(r.Keywords)
	}
	return a
}

// ArticlesStorage implements model.ArticlesStore using GORM. The auto
// increment id keeps the insertion order.
type ArticlesStorage struct {
	db *gorm.DB
}

// Load implements the model.ArticlesStore interface; the database needs no
// preloading
func (*ArticlesStorage) Load() error {
	return nil
}

// List implements the model.ArticlesStore interface
func (s *ArticlesStorage) List() ([]model.Article, error) {
	var rows []articleRow
	if err := s.db.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.Article, len(rows))
	for i, r := range rows {
		out[i] = r.article()
	}
	return out, nil
}

// Count implements the model.ArticlesStore interface
func (s *ArticlesStorage) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&articleRow{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Add implements the model.ArticlesStore interface
func (s *ArticlesStorage) Add(article model.Article) error {
	article.Normalize()
	if err := article.Validate(); err != nil {
		return err
	}
	row := articleRow{
		Title:    article.Title,
		Category: article.Category,
		Content:  article.Content,
		Keywords: datatypes.JSONSlice[string](article.Keywords),
	}
	return s.db.Create(&row).Error
}
