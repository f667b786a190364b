package adminapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/guidebook-kb/guidebook/storage/model"
)

type userResponse struct {
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

// registerUsers wires the user handlers
func registerUsers(r fiber.Router, users model.UsersStore) {
	g := r.Group("/users")

	g.Get(
		"/", func(c *fiber.Ctx) error {
			list, err := users.List()
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(errorServerError(err.Error()))
			}
			out := make([]userResponse, len(list))
			for i, u := range list {
				out[i] = userResponse{Username: u.Username, Role: u.Role}
			}
			return c.JSON(out)
		},
	)

	type createReq struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	g.Post(
		"/", func(c *fiber.Ctx) error {
			var req createReq
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(errorInvalidRequest("invalid body"))
			}
			err := users.Register(req.Username, req.Password, model.Role(req.Role))
			if err != nil {
				var exists model.AlreadyExistsError
				if errors.As(err, &exists) {
					return c.Status(fiber.StatusConflict).JSON(errorInvalidRequest("user already exists"))
				}
				var verr model.ValidationError
				if errors.As(err, &verr) {
					return c.Status(fiber.StatusBadRequest).JSON(errorInvalidRequest(verr.Error()))
				}
				return c.Status(fiber.StatusInternalServerError).JSON(errorServerError(err.Error()))
			}
			return c.Status(fiber.StatusCreated).JSON(
				userResponse{
					Username: req.Username,
					Role:     model.Role(req.Role),
				},
			)
		},
	)

	g.Get(
		"/:username", func(c *fiber.Ctx) error {
			u, err := users.Get(c.Params("username"))
			if err != nil {
				var nf model.NotFoundError
				if errors.As(err, &nf) {
					return c.Status(fiber.StatusNotFound).JSON(errorBody("not_found", "user not found"))
				}
				return c.Status(fiber.StatusInternalServerError).JSON(errorServerError(err.Error()))
			}
			return c.JSON(userResponse{Username: u.Username, Role: u.Role})
		},
	)
}
