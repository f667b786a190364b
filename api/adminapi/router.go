// Package adminapi provides a JSON API for administrators to manage accounts
// and inspect the article collection.
package adminapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/guidebook-kb/guidebook/auth"
	"github.com/guidebook-kb/guidebook/storage/model"
)

// Register mounts all admin API routes under the provided group.
func Register(r fiber.Router, storages model.Backends, gate *auth.Gate) {
	r.Use(authMiddleware(gate))

	registerUsers(r, storages.Users)
	registerArticles(r, storages.Articles)
}
