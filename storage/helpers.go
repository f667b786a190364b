package storage

import (
	"github.com/guidebook-kb/guidebook/internal/textnorm"
	"github.com/guidebook-kb/guidebook/storage/model"
)

// SearchArticles returns all articles whose searchable text contains term,
// ignoring case and diacritics. Storage order is kept. The returned slice is
// never nil.
func SearchArticles(store model.ArticlesStore, term string) ([]model.Article, error) {
	articles, err := store.List()
	if err != nil {
		return nil, err
	}
	results := make([]model.Article, 0)
	for _, a := range articles {
		if textnorm.Contains(a.SearchableText(), term) {
			results = append(results, a)
		}
	}
	return results, nil
}
