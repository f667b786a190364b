package guidebook

import (
	"github.com/gofiber/fiber/v2"

	"github.com/guidebook-kb/guidebook/storage"
)

type searchRequest struct {
	Term string `json:"termo"`
}

func (gb *Guidebook) search(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse(msgInvalidRequest))
	}
	results, err := storage.SearchArticles(gb.storages.Articles, req.Term)
	if err != nil {
		return err
	}
	return c.JSON(results)
}
