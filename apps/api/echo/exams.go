package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo/portal/core"
	"github.com/trezcool/masomo/portal/core/exam"
	in_memdb "github.com/trezcool/masomo/portal/database/in-mem"
)

type examAPI struct {
	db       *in_memdb.DB
	passMark float64
}

func registerExamAPI(g *echo.Group, jwt echo.MiddlewareFunc, db *in_memdb.DB, passMark float64) {
	api := examAPI{db: db, passMark: passMark}

	tg := g.Group("/exams", jwt, roleMiddleware(core.RoleTeacher))
	tg.GET("", api.query)
	tg.POST("", api.create)
	tg.GET("/:id", api.retrieve)
	tg.PUT("/:id", api.update)

	for _, qg := range []*echo.Group{
		g.Group("/questions", jwt, roleMiddleware(core.RoleTeacher)),
		g.Group("/admins/questions", jwt, roleMiddleware(core.RoleAdmin)),
	} {
		qg.GET("", api.queryQuestions)
		qg.POST("/:id", api.createQuestion) // the id of the exam
		qg.GET("/:id", api.retrieveQuestion)
		qg.PUT("/:id", api.updateQuestion)
	}

	sg := g.Group("/students/exams", jwt, roleMiddleware(core.RoleStudent))
	sg.GET("", api.queryForStudent)
	sg.GET("/:id", api.retrieveForStudent)
	sg.POST("/:id", api.submit)
}

// forStudent hides the answers of an exam.
func forStudent(e exam.Exam) exam.Exam {
	for i := range e.Questions {
		e.Questions[i].CorrectAnswer = ""
	}
	return e
}

// Handlers

func (api *examAPI) query(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, api.db.ListExams(), "")
}

func (api *examAPI) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data exam.NewExam
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExam")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	e := api.db.CreateExam(exam.Exam{
		Name:         data.Name,
		Description:  data.Description,
		Subject:      data.Subject,
		Program:      data.Program,
		AcademicTerm: data.AcademicTerm,
		AcademicYear: data.AcademicYear,
		ClassLevel:   data.ClassLevel,
		Duration:     data.Duration,
		ExamDate:     data.ExamDate,
		ExamTime:     data.ExamTime,
		ExamType:     data.ExamType,
		PassMark:     data.PassMark,
		CreatedBy:    claims.Subject,
	})
	return respond(ctx, http.StatusCreated, e, "Exam created successfully")
}

func (api *examAPI) retrieve(ctx echo.Context) error {
	e, err := api.db.GetExam(ctx.Param("id"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, e, "")
}

func (api *examAPI) update(ctx echo.Context) error {
	e, err := api.db.GetExam(ctx.Param("id"))
	if err != nil {
		return err
	}

	var data exam.UpdateExam
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateExam")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	setString(&e.Name, data.Name)
	setString(&e.Description, data.Description)
	setString(&e.Subject, data.Subject)
	setString(&e.Program, data.Program)
	setString(&e.AcademicTerm, data.AcademicTerm)
	setString(&e.AcademicYear, data.AcademicYear)
	setString(&e.ClassLevel, data.ClassLevel)
	setString(&e.ExamDate, data.ExamDate)
	setString(&e.ExamTime, data.ExamTime)
	setString(&e.ExamType, data.ExamType)
	if data.Duration > 0 {
		e.Duration = data.Duration
	}
	if data.PassMark > 0 {
		e.PassMark = data.PassMark
	}
	if err := api.db.UpdateExam(e); err != nil {
		return errors.Wrap(err, "updating exam")
	}
	return respond(ctx, http.StatusOK, e, "Exam updated successfully")
}

func (api *examAPI) queryQuestions(ctx echo.Context) error {
	qs := api.db.ListQuestions()
	if qs == nil {
		qs = []exam.Question{}
	}
	return respond(ctx, http.StatusOK, qs, "")
}

func (api *examAPI) createQuestion(ctx echo.Context) error {
	var data exam.NewQuestion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuestion")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	q, err := api.db.AddQuestion(ctx.Param("id"), exam.Question{
		Text:          data.Text,
		Type:          data.Type,
		OptionA:       data.OptionA,
		OptionB:       data.OptionB,
		OptionC:       data.OptionC,
		OptionD:       data.OptionD,
		CorrectAnswer: data.CorrectAnswer,
		Mark:          data.Mark,
	})
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, q, "Question created successfully")
}

func (api *examAPI) retrieveQuestion(ctx echo.Context) error {
	q, err := api.db.GetQuestion(ctx.Param("id"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, q, "")
}

func (api *examAPI) updateQuestion(ctx echo.Context) error {
	q, err := api.db.GetQuestion(ctx.Param("id"))
	if err != nil {
		return err
	}

	var data exam.UpdateQuestion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateQuestion")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	q = data.Apply(q)
	if err := api.db.UpdateQuestion(q); err != nil {
		return errors.Wrap(err, "updating question")
	}
	return respond(ctx, http.StatusOK, q, "Question updated successfully")
}

func (api *examAPI) queryForStudent(ctx echo.Context) error {
	exams := api.db.ListExams()
	for i := range exams {
		exams[i] = forStudent(exams[i])
	}
	return respond(ctx, http.StatusOK, exams, "")
}

func (api *examAPI) retrieveForStudent(ctx echo.Context) error {
	e, err := api.db.GetExam(ctx.Param("id"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, forStudent(e), "")
}

func (api *examAPI) submit(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	e, err := api.db.GetExam(ctx.Param("id"))
	if err != nil {
		return err
	}

	var data exam.Submission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Submission")
	}
	r, err := exam.Grade(e, data.Answers, e.PassMarkOr(api.passMark))
	if err != nil {
		return err
	}
	r.Student = claims.Subject

	r, err = api.db.CreateResult(r)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, echo.Map{"id": r.ID}, "Exam submitted successfully, results will be available once published")
}
