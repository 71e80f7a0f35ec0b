package echoapi

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo/portal/core"
	"github.com/trezcool/masomo/portal/core/academic"
	in_memdb "github.com/trezcool/masomo/portal/database/in-mem"
)

type academicAPI struct {
	db *in_memdb.DB
}

func registerAcademicAPI(g *echo.Group, jwt echo.MiddlewareFunc, db *in_memdb.DB) {
	api := academicAPI{db: db}
	ag := g.Group("", jwt, roleMiddleware(core.RoleAdmin))

	for _, kind := range academic.AllKinds {
		kind := kind
		kg := ag.Group(kind.Path())
		kg.GET("", func(ctx echo.Context) error { return api.query(ctx, kind) })
		kg.GET("/:id", func(ctx echo.Context) error { return api.retrieve(ctx, kind) })
		kg.PUT("/:id", func(ctx echo.Context) error { return api.update(ctx, kind) })
		kg.DELETE("/:id", func(ctx echo.Context) error { return api.destroy(ctx, kind) })
		if kind == academic.KindSubject {
			// the id of a subject's program
			kg.POST("/:id", api.createSubject)
		} else {
			kg.POST("", func(ctx echo.Context) error { return api.create(ctx, kind) })
		}
	}
}

func toRecord(rec academic.Record) (in_memdb.Record, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var out in_memdb.Record
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (api *academicAPI) bind(ctx echo.Context, kind academic.Kind, create bool) (in_memdb.Record, error) {
	var data academic.Record
	if err := ctx.Bind(&data); err != nil {
		return nil, errors.Wrap(err, "binding to Record")
	}
	if err := kind.Validate(&data, create); err != nil {
		return nil, err
	}
	rec, err := toRecord(data)
	return rec, errors.Wrap(err, "converting Record")
}

// Handlers

func (api *academicAPI) query(ctx echo.Context, kind academic.Kind) error {
	return respond(ctx, http.StatusOK, api.db.ListRecords(kind), "")
}

func (api *academicAPI) retrieve(ctx echo.Context, kind academic.Kind) error {
	rec, err := api.db.GetRecord(kind, ctx.Param("id"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, rec, "")
}

func (api *academicAPI) create(ctx echo.Context, kind academic.Kind) error {
	rec, err := api.bind(ctx, kind, true)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, api.db.CreateRecord(kind, rec), kind.Title()+" created successfully")
}

func (api *academicAPI) createSubject(ctx echo.Context) error {
	programID := ctx.Param("id")
	if _, err := api.db.GetRecord(academic.KindProgram, programID); err != nil {
		return err
	}
	rec, err := api.bind(ctx, academic.KindSubject, true)
	if err != nil {
		return err
	}
	rec["program"] = programID
	return respond(ctx, http.StatusCreated, api.db.CreateRecord(academic.KindSubject, rec), "Subject created successfully")
}

func (api *academicAPI) update(ctx echo.Context, kind academic.Kind) error {
	changes, err := api.bind(ctx, kind, false)
	if err != nil {
		return err
	}
	rec, err := api.db.UpdateRecord(kind, ctx.Param("id"), changes)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, rec, kind.Title()+" updated successfully")
}

func (api *academicAPI) destroy(ctx echo.Context, kind academic.Kind) error {
	if err := api.db.DeleteRecord(kind, ctx.Param("id")); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, nil, kind.Title()+" deleted successfully")
}
