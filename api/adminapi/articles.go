package adminapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/guidebook-kb/guidebook/storage"
	"github.com/guidebook-kb/guidebook/storage/model"
)

// registerArticles wires the read-only article handlers
func registerArticles(r fiber.Router, articles model.ArticlesStore) {
	g := r.Group("/articles")

	g.Get(
		"/", func(c *fiber.Ctx) error {
			var (
				list []model.Article
				err  error
			)
			if q := c.Query("q"); q != "" {
				list, err = storage.SearchArticles(articles, q)
			} else {
				list, err = articles.List()
			}
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(errorServerError(err.Error()))
			}
			return c.JSON(list)
		},
	)

	g.Get(
		"/count", func(c *fiber.Ctx) error {
			n, err := articles.Count()
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(errorServerError(err.Error()))
			}
			return c.JSON(fiber.Map{"count": n})
		},
	)
}
