package guidebook

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/guidebook-kb/guidebook/api/adminapi"
	"github.com/guidebook-kb/guidebook/auth"
	"github.com/guidebook-kb/guidebook/internal/version"
	"github.com/guidebook-kb/guidebook/storage/model"
)

// Paths of the web application
const (
	PathLanding  = "/"
	PathSearch   = "/buscar"
	PathAdd      = "/adicionar"
	PathLogin    = "/login"
	PathLogout   = "/logout"
	PathRegister = "/cadastro"
	PathHealth   = "/healthz"
	PathAdminAPI = "/api/v1/admin"
)

// FiberServerConfig is the fiber.Config that is used to init the http fiber.App
var FiberServerConfig = fiber.Config{
	ReadTimeout:    3 * time.Second,
	WriteTimeout:   20 * time.Second,
	IdleTimeout:    150 * time.Second,
	ReadBufferSize: 8192,
	ErrorHandler:   handleError,
	Network:        "tcp",
	// request values end up in long-lived stores
	Immutable:      true,
}

// Options controls optional features of the web application
type Options struct {
	// SearchRequiresLogin closes the search endpoint for anonymous callers
	SearchRequiresLogin bool
	// AdminAPI enables the JSON admin API under PathAdminAPI
	AdminAPI bool
	// AccessLog receives the access log; nil disables it
	AccessLog io.Writer
}

// Guidebook is the knowledge base web application
type Guidebook struct {
	server     *fiber.App
	serverConf ServerConf
	storages   model.Backends
	gate       *auth.Gate
	pages      *pages
}

// New creates a new Guidebook and registers all routes
func New(serverConf ServerConf, storages model.Backends, gate *auth.Gate, opts Options) (*Guidebook, error) {
	conf := FiberServerConfig
	if tps := serverConf.TrustedProxies; len(tps) > 0 {
		conf.TrustedProxies = tps
		conf.EnableTrustedProxyCheck = true
	}
	conf.ProxyHeader = serverConf.ForwardedIPHeader
	server := fiber.New(conf)
	server.Use(recover.New())
	server.Use(requestid.New())
	if opts.AccessLog != nil {
		server.Use(
			logger.New(
				logger.Config{
					Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
					Output: opts.AccessLog,
				},
			),
		)
	}
	server.Use(compress.New())

	p, err := loadPages()
	if err != nil {
		return nil, err
	}
	gb := &Guidebook{
		server:     server,
		serverConf: serverConf,
		storages:   storages,
		gate:       gate,
		pages:      p,
	}

	server.Get(PathHealth, gb.health)
	server.Get(PathLanding, gate.RequireLogin(PathLogin), gb.landing)
	if opts.SearchRequiresLogin {
		server.Post(PathSearch, gb.requireLoginJSON, gb.search)
	} else {
		server.Post(PathSearch, gb.search)
	}
	server.Post(PathAdd, gate.RequireAdmin(denyJSON), gb.addArticle)
	server.Get(PathLogin, gb.loginForm)
	server.Post(PathLogin, gb.login)
	server.Get(PathLogout, gb.logout)
	registrationGate := gate.RequireAdmin(redirectTo(PathLogin))
	server.Get(PathRegister, registrationGate, gb.registrationForm)
	server.Post(PathRegister, registrationGate, gb.register)

	if opts.AdminAPI {
		adminapi.Register(server.Group(PathAdminAPI), storages, gate)
	}
	return gb, nil
}

// App returns the underlying fiber.App
func (gb *Guidebook) App() *fiber.App {
	return gb.server
}

// HttpHandlerFunc returns an http.HandlerFunc for serving all the endpoints
func (gb *Guidebook) HttpHandlerFunc() http.HandlerFunc {
	return adaptor.FiberApp(gb.server)
}

// Listen starts an http server at the specific address
func (gb *Guidebook) Listen(addr string) error {
	return gb.server.Listen(addr)
}

// Shutdown gracefully stops the server
func (gb *Guidebook) Shutdown() error {
	return gb.server.Shutdown()
}

// Start starts the server as configured in the ServerConf; it only returns
// on error
func (gb *Guidebook) Start() error {
	conf := gb.serverConf
	if !conf.TLS.Enabled {
		addr := fmt.Sprintf("%s:%d", conf.IPListen, conf.Port)
		log.WithField("addr", addr).Info("TLS is disabled starting http server")
		return gb.server.Listen(addr)
	}
	if conf.TLS.RedirectHTTP {
		httpServer := fiber.New(FiberServerConfig)
		httpServer.All(
			"*", func(ctx *fiber.Ctx) error {
				//goland:noinspection HttpUrlsUsage
				return ctx.Redirect(
					strings.Replace(ctx.Request().URI().String(), "http://", "https://", 1),
					fiber.StatusPermanentRedirect,
				)
			},
		)
		log.Info("TLS and http redirect enabled, starting redirect server on port 80")
		go func() {
			log.WithError(httpServer.Listen(fmt.Sprintf("%s:80", conf.IPListen))).Error("redirect server stopped")
		}()
	}
	addr := fmt.Sprintf("%s:%d", conf.IPListen, conf.Port)
	log.WithField("addr", addr).Info("TLS enabled, starting https server")
	return gb.server.ListenTLS(addr, conf.TLS.Cert, conf.TLS.Key)
}

func (gb *Guidebook) health(c *fiber.Ctx) error {
	return c.JSON(
		fiber.Map{
			"status":  statusOK,
			"version": version.VERSION,
		},
	)
}

func (gb *Guidebook) requireLoginJSON(c *fiber.Ctx) error {
	id, err := gb.gate.Identity(c)
	if err != nil {
		return err
	}
	if !id.Authenticated {
		return c.Status(fiber.StatusUnauthorized).JSON(errorResponse(msgUnauthorized))
	}
	return c.Next()
}

func denyJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(errorResponse(msgUnauthorized))
}

func redirectTo(path string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Redirect(path)
	}
}

// handleError is the fiber error handler; it logs unexpected errors and
// answers with the JSON error envelope
func handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Erro interno"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		log.WithError(err).WithFields(
			log.Fields{
				"method": c.Method(),
				"path":   c.Path(),
			},
		).Error("request failed")
	}
	return c.Status(code).JSON(errorResponse(msg))
}
