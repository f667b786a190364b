package guidebook

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/guidebook-kb/guidebook/auth"
)

func (gb *Guidebook) loginForm(c *fiber.Ctx) error {
	return gb.pages.render(c, pageLogin, formPage{})
}

func (gb *Guidebook) login(c *fiber.Ctx) error {
	username := c.FormValue("usuario")
	id, err := gb.gate.Login(c, username, c.FormValue("senha"))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.WithField("user", username).Debug("failed login")
			return gb.pages.render(c, pageLogin, formPage{Error: msgInvalidCredentials})
		}
		return err
	}
	log.WithField("user", id.Username).Debug("user logged in")
	return c.Redirect(PathLanding)
}

func (gb *Guidebook) logout(c *fiber.Ctx) error {
	if err := gb.gate.Logout(c); err != nil {
		return err
	}
	return c.Redirect(PathLogin)
}

func (gb *Guidebook) landing(c *fiber.Ctx) error {
	id, err := gb.gate.Identity(c)
	if err != nil {
		return err
	}
	return gb.pages.render(
		c, pageLanding, landingPage{
			Username: id.Username,
			Role:     id.Role,
			IsAdmin:  id.IsAdmin(),
		},
	)
}
