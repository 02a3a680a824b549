package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/enrollment"
	"github.com/trezcool/darasa/core/user"
)

var lessonOrderingFields = []string{"position", "title", "duration_mins", "created_at"}

type lessonApi struct {
	svc       course.Service
	enrollSvc enrollment.Service
	userSvc   user.Service
}

func registerLessonAPI(
	g *echo.Group,
	jwt, optJWT echo.MiddlewareFunc,
	svc course.Service,
	enrollSvc enrollment.Service,
	userSvc user.Service,
) {
	api := lessonApi{svc: svc, enrollSvc: enrollSvc, userSvc: userSvc}

	lg := g.Group("/lessons")

	sg := lg.Group("", jwt, staffMiddleware())
	sg.POST("", api.create)
	sg.PUT("/:id", api.update)
	sg.PATCH("/:id", api.update)
	sg.DELETE("/:id", api.destroy)

	// registered after the subgroup so they override its catch-all routes
	lg.GET("", api.query, optJWT)
	lg.GET("/:id", api.retrieve, optJWT)

	lg.POST("/:id/mark-complete", api.markComplete, jwt)
}

// Handlers

func (api *lessonApi) query(ctx echo.Context) error {
	filter := new(course.LessonQueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return core.NewValidationError(errors.Wrap(err, "invalid query parameters"))
	}
	filter.Clean()
	if !isStaffRequest(ctx) {
		published := true
		filter.IsPublished = &published
	}
	ordering := new(Ordering)
	ordering.Bind(ctx, lessonOrderingFields...)
	pagination := new(Pagination)
	pagination.Bind(ctx)

	lessons, count, err := api.svc.QueryLessons(ctx.Request().Context(), filter, ordering.Orderings, pagination.Paging())
	if err != nil {
		return errors.Wrap(err, "querying lessons")
	}
	if lessons == nil {
		lessons = []course.Lesson{}
	}
	return ctx.JSON(http.StatusOK, newPagedResponse(pagination, count, lessons))
}

func (api *lessonApi) create(ctx echo.Context) error {
	var data course.NewLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLesson")
	}
	if err := data.Validate(ctx.Request().Context(), api.svc); err != nil {
		return err
	}

	lsn, err := api.svc.CreateLesson(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating lesson")
	}
	return ctx.JSON(http.StatusCreated, lsn)
}

func (api *lessonApi) retrieve(ctx echo.Context) error {
	lsn, err := api.svc.GetLessonByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding lesson")
	}
	if !lsn.IsPublished && !isStaffRequest(ctx) {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, lsn)
}

func (api *lessonApi) update(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	lsn, err := api.svc.GetLessonByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding lesson")
	}

	var data course.UpdateLesson
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateLesson")
	}
	if err = data.Validate(reqCtx, lsn, api.svc); err != nil {
		return err
	}

	lsn, err = api.svc.UpdateLesson(reqCtx, lsn.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating lesson")
	}
	return ctx.JSON(http.StatusOK, lsn)
}

func (api *lessonApi) destroy(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	lsn, err := api.svc.GetLessonByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding lesson")
	}
	if err = api.svc.DeleteLessons(reqCtx, lsn.ID); err != nil {
		return errors.Wrap(err, "deleting lesson")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// markComplete godoc
// @Summary Mark a lesson complete for the authenticated user
// @Description Returns the refreshed enrollment progress; completing the last
// @Description published lesson flips the enrollment to completed.
// @Tags lessons
// @Produce json
// @Success 200 {object} enrollment.Progress
// @Security ApiKeyAuth
// @Router /lessons/{id}/mark-complete [post]
func (api *lessonApi) markComplete(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	prg, err := api.enrollSvc.MarkLessonComplete(ctx.Request().Context(), usr, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "marking lesson complete")
	}
	return ctx.JSON(http.StatusOK, prg)
}
