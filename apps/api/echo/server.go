// Package echoapi is a stub of the LMS REST API, served in memory. It backs
// the package tests and local development of the portal.
package echoapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/masomo/portal/core"
	"github.com/trezcool/masomo/portal/core/exam"
	in_memdb "github.com/trezcool/masomo/portal/database/in-mem"
)

// BasePath is where the API is mounted.
const BasePath = "/api/v1"

type (
	Options struct {
		Address            string
		SecretKey          string
		JWTExpirationDelta time.Duration
		PassMark           float64
		Debug              bool
		DisableReqLogs     bool
		DB                 *in_memdb.DB
		Logger             core.Logger
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
		GenerateToken(acc in_memdb.Account) (string, error)
	}

	server struct {
		opts *Options
		app  *echo.Echo
		jwt  middleware.JWTConfig
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	if opts.DB == nil {
		opts.DB = in_memdb.Open()
	}
	if opts.Logger == nil {
		opts.Logger = core.NopLogger{}
	}
	if opts.JWTExpirationDelta <= 0 {
		opts.JWTExpirationDelta = 24 * time.Hour
	}
	if opts.PassMark <= 0 {
		opts.PassMark = exam.DefaultPassMark
	}

	s := &server{
		opts: opts,
		app:  echo.New(),
		jwt: middleware.JWTConfig{
			SigningKey:    []byte(opts.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    contextTokenKey,
			Claims:        new(Claims),
		},
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in debug mode
	if !s.opts.Debug {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger)
	s.app.Debug = s.opts.Debug

	s.app.GET("/", home)

	v1 := s.app.Group(BasePath)
	jwt := middleware.JWTWithConfig(s.jwt)

	registerAccountAPI(v1, jwt, s)
	registerAcademicAPI(v1, jwt, s.opts.DB)
	registerExamAPI(v1, jwt, s.opts.DB, s.opts.PassMark)
	registerResultAPI(v1, jwt, s.opts.DB)
}

func (s *server) Start() {
	if err := s.app.Start(s.opts.Address); err != nil && err != http.ErrServerClosed {
		s.opts.Logger.Fatal("server error", err)
	}
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Masomo API!")
}

type response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

// respond writes the success envelope.
func respond(ctx echo.Context, code int, data interface{}, message string) error {
	return ctx.JSON(code, response{Status: "success", Data: data, Message: message})
}
