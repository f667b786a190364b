package model

import (
	"strings"

	"tideland.dev/go/slices"
)

// Article is a guidance record. Articles have no id; their identity is the
// position in the store.
type Article struct {
	Title    string   `json:"titulo"`
	Category string   `json:"categoria"`
	Content  string   `json:"conteudo"`
	Keywords []string `json:"palavras_chave,omitempty"`
}

// NewArticle builds a trimmed Article and validates it
func NewArticle(title, category, content string, keywords []string) (Article, error) {
	a := Article{
		Title:    title,
		Category: category,
		Content:  content,
		Keywords: keywords,
	}
	a.Normalize()
	return a, a.Validate()
}

// Normalize trims all fields and drops empty or duplicated keywords
func (a *Article) Normalize() {
	a.Title = strings.TrimSpace(a.Title)
	a.Category = strings.TrimSpace(a.Category)
	a.Content = strings.TrimSpace(a.Content)
	if len(a.Keywords) == 0 {
		a.Keywords = nil
		return
	}
	kws := make([]string, 0, len(a.Keywords))
	for _, k := range a.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			kws = append(kws, k)
		}
	}
	if len(kws) == 0 {
		a.Keywords = nil
		return
	}
	a.Keywords = slices.Unique(kws)
}

// Validate checks that title, category and content are set
func (a Article) Validate() error {
	if strings.TrimSpace(a.Title) == "" ||
		strings.TrimSpace(a.Category) == "" ||
		strings.TrimSpace(a.Content) == "" {
		return ValidationError("title, category and content are required")
	}
	return nil
}

// SearchableText returns the text an article is matched against: title,
// category, content and keywords joined by single spaces
func (a Article) SearchableText() string {
	return strings.Join(
		[]string{
			a.Title,
			a.Category,
			a.Content,
			strings.Join(a.Keywords, " "),
		}, " ",
	)
}

// ArticlesStore holds the ordered collection of articles
type ArticlesStore interface {
	// Load (re)reads the collection from the underlying storage
	Load() error
	// List returns all articles in storage order
	List() ([]Article, error)
	// Add validates, appends and persists an article
	Add(article Article) error
	// Count returns the number of stored articles
	Count() (int64, error)
}
