package guidebook

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/guidebook-kb/guidebook/storage/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names
const (
	pageLanding  = "index.html"
	pageLogin    = "login.html"
	pageRegister = "cadastro.html"
)

type pages struct {
	tmpl *template.Template
}

func loadPages() (*pages, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "could not parse templates")
	}
	return &pages{tmpl: tmpl}, nil
}

func (p *pages) render(c *fiber.Ctx, name string, data any) error {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return errors.WithStack(err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}

type landingPage struct {
	Username string
	Role     model.Role
	IsAdmin  bool
}

type formPage struct {
	Error   string
	Success string
	Roles   []model.Role
}
