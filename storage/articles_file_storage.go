package storage

import (
	"slices"
	"sync"

	"github.com/guidebook-kb/guidebook/storage/model"
)

// ArticlesFileStorage keeps all articles in memory and persists them as a
// JSON array. Every Add rewrites the whole file.
type ArticlesFileStorage struct {
	doc      jsonDocument
	mutex    sync.RWMutex
	articles []model.Article
}

// NewArticlesFileStorage creates a new ArticlesFileStorage for the file at path.
// Load must be called to read existing articles.
func NewArticlesFileStorage(path string) *ArticlesFileStorage {
	return &ArticlesFileStorage{doc: jsonDocument{path: path}}
}

// Load implements the model.ArticlesStore interface
func (s *ArticlesFileStorage) Load() error {
	var articles []model.Article
	if _, err := s.doc.read(&articles); err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.articles = articles
	return nil
}

// List implements the model.ArticlesStore interface
func (s *ArticlesFileStorage) List() ([]model.Article, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	out := make([]model.Article, len(s.articles))
	copy(out, s.articles)
	return out, nil
}

// Count implements the model.ArticlesStore interface
func (s *ArticlesFileStorage) Count() (int64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return int64(len(s.articles)), nil
}

// Add implements the model.ArticlesStore interface
func (s *ArticlesFileStorage) Add(article model.Article) error {
	article.Normalize()
	if err := article.Validate(); err != nil {
		return err
	}
	article.Keywords = slices.Clone(article.Keywords)

	s.mutex.Lock()
	defer s.mutex.Unlock()
	n := len(s.articles)
	s.articles = append(s.articles, article)
	if err := s.doc.write(s.articles); err != nil {
		s.articles = s.articles[:n]
		return err
	}
	return nil
}
