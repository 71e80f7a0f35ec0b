package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo/portal/core"
	"github.com/trezcool/masomo/portal/core/exam"
	in_memdb "github.com/trezcool/masomo/portal/database/in-mem"
)

type resultAPI struct {
	db *in_memdb.DB
}

func registerResultAPI(g *echo.Group, jwt echo.MiddlewareFunc, db *in_memdb.DB) {
	api := resultAPI{db: db}

	rg := g.Group("/exam-results", jwt)
	rg.GET("", api.query, roleMiddleware(core.RoleTeacher, core.RoleStudent))
	rg.GET("/:id", api.retrieve, roleMiddleware(core.RoleAdmin, core.RoleTeacher, core.RoleStudent))
	rg.PUT("/:id", api.publish, roleMiddleware(core.RoleAdmin, core.RoleTeacher))
	rg.PUT("/:id/grade", api.grade, roleMiddleware(core.RoleTeacher))

	g.GET("/admins/exam-results", api.queryAll, jwt, roleMiddleware(core.RoleAdmin))
}

// visible reports whether the token bearer may see r: students only see their
// own published results.
func visible(claims Claims, r exam.Result) bool {
	if claims.Role != core.RoleStudent {
		return true
	}
	return r.Student == claims.Subject && r.IsPublished
}

// Handlers

func (api *resultAPI) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	results := api.db.ListResults(func(r exam.Result) bool { return visible(claims, r) })
	return respond(ctx, http.StatusOK, results, "")
}

func (api *resultAPI) queryAll(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, api.db.ListResults(nil), "")
}

func (api *resultAPI) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	r, err := api.db.GetResult(ctx.Param("id"))
	if err != nil {
		return err
	}
	if !visible(claims, r) {
		return errHttpNotFound
	}
	return respond(ctx, http.StatusOK, r, "")
}

type publishRequest struct {
	Publish bool `json:"publish"`
}

func (api *resultAPI) publish(ctx echo.Context) error {
	var data publishRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to publishRequest")
	}

	r, err := api.db.UpdateResultFunc(ctx.Param("id"), func(r *exam.Result) error {
		if !data.Publish {
			if r.IsPublished {
				return core.NewValidationError(errors.New("a published result cannot be unpublished"))
			}
			return nil
		}
		return exam.Publish(r)
	})
	if err != nil {
		return err
	}
	if !data.Publish {
		return respond(ctx, http.StatusOK, r, "")
	}
	return respond(ctx, http.StatusOK, r, "Result published successfully")
}

type gradeRequest struct {
	Grades []exam.Award `json:"grades"`
}

func (api *resultAPI) grade(ctx echo.Context) error {
	var data gradeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to gradeRequest")
	}

	r, err := api.db.UpdateResultFunc(ctx.Param("id"), func(r *exam.Result) error {
		return exam.ApplyGrades(r, data.Grades, r.PassMark)
	})
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, r, "Result graded successfully")
}
