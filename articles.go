package guidebook

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/guidebook-kb/guidebook/storage/model"
)

type addArticleRequest struct {
	Title    string   `json:"titulo"`
	Category string   `json:"categoria"`
	Content  string   `json:"conteudo"`
	Keywords []string `json:"palavras_chave"`
}

func (gb *Guidebook) addArticle(c *fiber.Ctx) error {
	var req addArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse(msgInvalidRequest))
	}
	article, err := model.NewArticle(req.Title, req.Category, req.Content, req.Keywords)
	if err == nil {
		err = gb.storages.Articles.Add(article)
	}
	if err != nil {
		var verr model.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse(msgIncompleteFields))
		}
		return err
	}
	id, _ := gb.gate.Identity(c)
	log.WithFields(
		log.Fields{
			"title": article.Title,
			"user":  id.Username,
		},
	).Info("article added")
	return c.JSON(statusResponse{Status: statusOK})
}
