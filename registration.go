package guidebook

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/guidebook-kb/guidebook/storage/model"
)

func (gb *Guidebook) registrationForm(c *fiber.Ctx) error {
	return gb.pages.render(c, pageRegister, formPage{Roles: model.Roles})
}

func (gb *Guidebook) register(c *fiber.Ctx) error {
	page := formPage{Roles: model.Roles}
	username := c.FormValue("usuario")
	password := c.FormValue("senha")
	role, err := model.ParseRole(c.FormValue("tipo"))
	if username == "" || password == "" || err != nil {
		page.Error = msgRegistrationFields
		return gb.pages.render(c, pageRegister, page)
	}
	if err = gb.storages.Users.Register(username, password, role); err != nil {
		var exists model.AlreadyExistsError
		var verr model.ValidationError
		switch {
		case errors.As(err, &exists):
			page.Error = msgUserExists
		case errors.As(err, &verr):
			page.Error = msgRegistrationFields
		default:
			return err
		}
		return gb.pages.render(c, pageRegister, page)
	}
	admin, _ := gb.gate.Identity(c)
	log.WithFields(
		log.Fields{
			"user": username,
			"role": role,
			"by":   admin.Username,
		},
	).Info("user registered")
	page.Success = msgUserRegistered
	return gb.pages.render(c, pageRegister, page)
}
