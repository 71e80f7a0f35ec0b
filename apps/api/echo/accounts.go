package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo/portal/core"
	"github.com/trezcool/masomo/portal/core/account"
	in_memdb "github.com/trezcool/masomo/portal/database/in-mem"
)

type accountAPI struct {
	srv *server
	db  *in_memdb.DB
}

func registerAccountAPI(g *echo.Group, jwt echo.MiddlewareFunc, srv *server) {
	api := accountAPI{srv: srv, db: srv.opts.DB}
	admin := roleMiddleware(core.RoleAdmin)

	for _, role := range core.AllRoles {
		role := role
		g.POST(role.LoginPath(), func(ctx echo.Context) error { return api.login(ctx, role) })
		g.GET(role.ProfilePath(), func(ctx echo.Context) error { return api.profile(ctx, role) }, jwt, roleMiddleware(role))
		g.PUT(role.ProfilePath(), func(ctx echo.Context) error { return api.updateProfile(ctx, role) }, jwt, roleMiddleware(role))

		if role == core.RoleAdmin {
			g.POST(role.RegisterPath(), func(ctx echo.Context) error { return api.register(ctx, role) })
		} else {
			g.POST(role.RegisterPath(), func(ctx echo.Context) error { return api.register(ctx, role) }, jwt, admin)
		}
	}

	g.GET("/teachers/admin", api.queryTeachers, jwt, admin)
	g.GET("/teachers/:id", api.retrieveTeacher, jwt, admin)
	g.PUT("/teachers/:id", api.updateTeacher, jwt, admin)

	g.GET("/students/admin", api.queryStudents, jwt, admin)
	g.GET("/students/:id/admin", api.retrieveStudent, jwt, admin)
	g.PUT("/students/:id/admin", api.updateStudent, jwt, admin)
}

// Handlers

func (api *accountAPI) login(ctx echo.Context, role core.Role) error {
	var data account.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	acc, err := api.srv.authenticate(role, data.Email, data.Password)
	if err != nil {
		return err
	}
	token, err := api.srv.GenerateToken(acc)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return respond(ctx, http.StatusOK, token, role.Title()+" logged in successfully")
}

func (api *accountAPI) register(ctx echo.Context, role core.Role) error {
	var data account.NewAccount
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAccount")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	acc := in_memdb.Account{Role: role, Name: data.Name, Email: data.Email}
	if err := acc.SetPassword(data.Password); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	acc, err := api.db.CreateAccount(acc)
	if err != nil {
		if err == in_memdb.ErrEmailExists {
			return errEmailExists()
		}
		return errors.Wrap(err, "creating account")
	}

	var out interface{}
	switch role {
	case core.RoleTeacher:
		out = acc.Teacher()
	case core.RoleStudent:
		out = acc.Student()
	default:
		out = acc.Profile()
	}
	return respond(ctx, http.StatusCreated, out, role.Title()+" registered successfully")
}

func (api *accountAPI) contextAccount(ctx echo.Context, role core.Role) (in_memdb.Account, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return in_memdb.Account{}, errors.Wrap(err, "getting context claims")
	}
	acc, err := api.db.AccountByID(role, claims.Subject)
	if err == in_memdb.ErrNotFound {
		// token of a deleted account
		return acc, errUnauthorized
	}
	return acc, err
}

func (api *accountAPI) profile(ctx echo.Context, role core.Role) error {
	acc, err := api.contextAccount(ctx, role)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, acc.Profile(), "")
}

func (api *accountAPI) updateProfile(ctx echo.Context, role core.Role) error {
	acc, err := api.contextAccount(ctx, role)
	if err != nil {
		return err
	}

	var data account.UpdateProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	if err := data.Validate(acc.Profile()); err != nil {
		return err
	}

	if data.Name != "" {
		acc.Name = data.Name
	}
	if data.Email != "" {
		acc.Email = data.Email
	}
	if data.Password != "" {
		if err := acc.SetPassword(data.Password); err != nil {
			return errors.Wrap(err, "hashing password")
		}
	}
	if err := api.saveAccount(acc); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, acc.Profile(), "Profile updated successfully")
}

func (api *accountAPI) saveAccount(acc in_memdb.Account) error {
	if err := api.db.UpdateAccount(acc); err != nil {
		if err == in_memdb.ErrEmailExists {
			return errEmailExists()
		}
		return errors.Wrap(err, "updating account")
	}
	return nil
}

func errEmailExists() error {
	return core.NewValidationError(in_memdb.ErrEmailExists, core.FieldError{Field: "email", Error: in_memdb.ErrEmailExists.Error()})
}

func (api *accountAPI) page(ctx echo.Context, role core.Role) (Pagination, []in_memdb.Account) {
	var p Pagination
	p.Bind(ctx)
	accs := api.db.ListAccounts(role, p.Name)
	return p, accs
}

func (api *accountAPI) queryTeachers(ctx echo.Context) error {
	p, accs := api.page(ctx, core.RoleTeacher)
	start, end := p.bounds(len(accs))
	teachers := make([]account.Teacher, 0, end-start)
	for _, acc := range accs[start:end] {
		teachers = append(teachers, acc.Teacher())
	}
	return respond(ctx, http.StatusOK, echo.Map{"teachers": teachers, "total": len(accs), "page": p.Page, "limit": p.Limit}, "")
}

func (api *accountAPI) retrieveTeacher(ctx echo.Context) error {
	acc, err := api.db.AccountByID(core.RoleTeacher, ctx.Param("id"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, acc.Teacher(), "")
}

func (api *accountAPI) updateTeacher(ctx echo.Context) error {
	acc, err := api.db.AccountByID(core.RoleTeacher, ctx.Param("id"))
	if err != nil {
		return err
	}

	var data account.UpdateTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeacher")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	setString(&acc.Name, data.Name)
	setString(&acc.Email, data.Email)
	setString(&acc.Program, data.Program)
	setString(&acc.ClassLevel, data.ClassLevel)
	setString(&acc.AcademicYear, data.AcademicYear)
	setString(&acc.Subject, data.Subject)
	setBool(&acc.IsWithdrawn, data.IsWithdrawn)
	setBool(&acc.IsSuspended, data.IsSuspended)
	if err := api.saveAccount(acc); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, acc.Teacher(), "Teacher updated successfully")
}

func (api *accountAPI) queryStudents(ctx echo.Context) error {
	p, accs := api.page(ctx, core.RoleStudent)
	start, end := p.bounds(len(accs))
	students := make([]account.Student, 0, end-start)
	for _, acc := range accs[start:end] {
		students = append(students, acc.Student())
	}
	return respond(ctx, http.StatusOK, echo.Map{"students": students, "total": len(accs), "page": p.Page, "limit": p.Limit}, "")
}

func (api *accountAPI) retrieveStudent(ctx echo.Context) error {
	acc, err := api.db.AccountByID(core.RoleStudent, ctx.Param("id"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, acc.Student(), "")
}

func (api *accountAPI) updateStudent(ctx echo.Context) error {
	acc, err := api.db.AccountByID(core.RoleStudent, ctx.Param("id"))
	if err != nil {
		return err
	}

	var data account.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	setString(&acc.Name, data.Name)
	setString(&acc.Email, data.Email)
	setString(&acc.ClassLevel, data.CurrentClassLevel)
	setString(&acc.Program, data.Program)
	setString(&acc.AcademicYear, data.AcademicYear)
	setBool(&acc.IsWithdrawn, data.IsWithdrawn)
	setBool(&acc.IsSuspended, data.IsSuspended)
	setBool(&acc.IsGraduated, data.IsGraduated)
	if err := api.saveAccount(acc); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, acc.Student(), "Student updated successfully")
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
