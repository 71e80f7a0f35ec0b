package main

import (
	"context"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"github.com/trezcool/masomo/portal/core"
	"github.com/trezcool/masomo/portal/core/guard"
	"github.com/trezcool/masomo/portal/core/session"
	"github.com/trezcool/masomo/portal/services/auth"
	"github.com/trezcool/masomo/portal/services/gateway"
	"github.com/trezcool/masomo/portal/services/lms"
	logsvc "github.com/trezcool/masomo/portal/services/logger"
	"github.com/trezcool/masomo/portal/storage/sessionstore"
)

func newLogger(conf *core.Config, std streams) core.Logger {
	flags := log.LstdFlags
	if conf.Debug {
		flags |= log.Lshortfile
	}
	logger := logsvc.NewRollbarLogger(log.New(std.errOut, "PORTAL : ", flags), conf)
	if !conf.Debug {
		return quietLogger{logger}
	}
	return logger
}

// quietLogger drops debug and info output outside of debug mode.
type quietLogger struct {
	core.Logger
}

func (quietLogger) Debug(string, ...interface{}) {}
func (quietLogger) Info(string, ...interface{})  {}

func newStorage(conf *core.Config) (session.Storage, error) {
	switch conf.Session.Backend {
	case core.SessionBackendMemory:
		return sessionstore.NewMemoryStorage(), nil
	case core.SessionBackendRedis:
		client := redis.NewClient(&redis.Options{Addr: conf.Session.RedisAddr, DB: conf.Session.RedisDB})
		return sessionstore.NewRedisStorage(client), nil
	case core.SessionBackendFile, "":
		return sessionstore.NewFileStorage(conf.Session.Dir), nil
	default:
		return nil, errors.Errorf("unknown session backend %q", conf.Session.Backend)
	}
}

func newStore(conf *core.Config, storage session.Storage) (*session.Store, error) {
	return session.NewStore(context.Background(), storage, conf.Session.Namespace)
}

func newGateway(conf *core.Config, store *session.Store, logger core.Logger) *gateway.Client {
	return gateway.New(conf.API.BaseURL, store,
		gateway.WithTimeout(conf.API.RequestTimeout),
		gateway.WithLogger(logger),
	)
}

func newAuthService(api *gateway.Client, store *session.Store, logger core.Logger) *auth.Service {
	return auth.NewService(api, store, logger)
}

func newLMSClient(conf *core.Config, api *gateway.Client) *lms.Client {
	return lms.New(api, conf.PassMark)
}

// newContainer returns the dependency injection dig.Container of the portal.
func newContainer(newConfig func() (*core.Config, error), std streams) *dig.Container {
	c := dig.New()

	must(c.Provide(newConfig))
	must(c.Provide(func() streams { return std }))
	must(c.Provide(newLogger))
	must(c.Provide(newStorage))
	must(c.Provide(newStore))
	must(c.Provide(newGateway))
	must(c.Provide(newAuthService))
	must(c.Provide(newLMSClient))
	must(c.Provide(guard.DefaultRoutes))
	must(c.Provide(guard.NewNavigator))
	must(c.Provide(newApp))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.New(os.Stderr, "", 0).Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
