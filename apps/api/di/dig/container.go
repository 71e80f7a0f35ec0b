// Package dig_container wires the stub LMS backend.
package dig_container

import (
	"log"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/masomo/portal/apps/api/echo"
	"github.com/trezcool/masomo/portal/core"
	in_memdb "github.com/trezcool/masomo/portal/database/in-mem"
	logsvc "github.com/trezcool/masomo/portal/services/logger"
)

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

// newDB opens the in-memory database, seeding the configured admin.
func newDB(conf *core.Config, logger core.Logger) (*in_memdb.DB, error) {
	db := in_memdb.Open()
	if conf.Server.AdminPassword == "" {
		return db, nil
	}

	admin := in_memdb.Account{Role: core.RoleAdmin, Name: "Admin", Email: conf.Server.AdminEmail}
	if err := admin.SetPassword(conf.Server.AdminPassword); err != nil {
		return nil, errors.Wrap(err, "hashing admin password")
	}
	if _, err := db.CreateAccount(admin); err != nil {
		return nil, errors.Wrap(err, "seeding admin")
	}
	logger.Info("admin account seeded", map[string]interface{}{"email": admin.Email})
	return db, nil
}

func newServer(conf *core.Config, db *in_memdb.DB, logger core.Logger) echoapi.Server {
	return echoapi.NewServer(&echoapi.Options{
		Address:            conf.Server.Address,
		SecretKey:          conf.Server.SecretKey,
		JWTExpirationDelta: conf.Server.JWTExpirationDelta,
		PassMark:           conf.PassMark,
		Debug:              conf.Debug,
		DisableReqLogs:     conf.TestMode,
		DB:                 db,
		Logger:             logger,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDB))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
